package telemetry

import (
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// ParseLevel acepta debug|info|warn|error. Cualquier otra cosa -> info, false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "info", "":
		return slog.LevelInfo, true
	}
	return slog.LevelInfo, false
}

// NewLogger arma el logger del proceso: json para prod, charm (texto con color) por defecto.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, ok := ParseLevel(level)

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl),
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
	}
	l := slog.New(h)
	if !ok {
		l.Warn("unknown LOG_LEVEL, using info", slog.String("value", level))
	}
	return l
}
