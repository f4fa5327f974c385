package telemetry

import (
	"context"
	"log/slog"
)

type tickKey struct{}

func WithTickID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, tickKey{}, id)
}

func TickID(ctx context.Context) string {
	if s, ok := ctx.Value(tickKey{}).(string); ok {
		return s
	}
	return ""
}

// Logger devuelve base (o slog.Default) con tick_id si el contexto lo trae.
func Logger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if id := TickID(ctx); id != "" {
		return base.With(slog.String("tick_id", id))
	}
	return base
}
