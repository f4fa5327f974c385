package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/jose-valero/apex-presence-bot/internal/telemetry"
)

// step mide una llamada a Discord: span + línea debug con la duración.
func step(ctx context.Context, label string) func() {
	start := time.Now()
	_, span := telemetry.StartSpan(ctx, label)
	return func() {
		span.End()
		slog.Debug("[trace] discord call", slog.String("step", label), slog.Duration("took", time.Since(start)))
	}
}
