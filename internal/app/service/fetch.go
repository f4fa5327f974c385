package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jose-valero/apex-presence-bot/internal/adapters/apexapi"
	"github.com/jose-valero/apex-presence-bot/internal/domain"
	"github.com/jose-valero/apex-presence-bot/internal/telemetry"
)

// fetchFailed loguea/cuenta un fetch fallido. Devuelve el error a propagar:
// nil para el 429 (no es culpa nuestra, se reintenta el próximo tick).
func fetchFailed(log *slog.Logger, svc string, err error) error {
	var apiErr *apexapi.APIError
	switch {
	case errors.Is(err, apexapi.ErrRateLimited):
		telemetry.FetchFailed(svc, "rate_limited")
		log.Warn("rate limit hit (429), skipping cycle")
		return nil
	case errors.As(err, &apiErr):
		telemetry.FetchFailed(svc, "status")
		log.Error("api failed", slog.Int("status", apiErr.Status), slog.String("body", apiErr.Body))
	case errors.Is(err, apexapi.ErrBadPayload):
		telemetry.FetchFailed(svc, "bad_payload")
	case errors.Is(err, apexapi.ErrNotFound):
		telemetry.FetchFailed(svc, "not_found")
	default:
		telemetry.FetchFailed(svc, "transport")
	}
	return err
}

// applyNick manda el nick a todos los guilds. Devuelve error si algún guild
// falló por algo que no sea falta de permisos, así el caller no lo da por hecho.
func applyNick(ctx context.Context, log *slog.Logger, presence Presence, nick string) error {
	rs := presence.SetNickname(ctx, nick)
	ok, skipped, failed := domain.SummarizeNicks(rs)
	log.Info("nicknames applied", slog.String("nick", nick), slog.Int("ok", ok), slog.Int("skipped", skipped), slog.Int("failed", failed))
	if err := domain.NickFailures(rs); err != nil {
		return fmt.Errorf("set nickname: %w", err)
	}
	return nil
}
