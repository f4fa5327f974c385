package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jose-valero/apex-presence-bot/internal/domain"
	"github.com/jose-valero/apex-presence-bot/internal/telemetry"
)

const serviceRotation = "rotation"

// refetchLead: se vuelve a pedir la rotación este tiempo antes de que termine.
const refetchLead = 60

type RotationService struct {
	api      RotationAPI
	presence Presence
	avatar   AvatarRenderer
	log      *slog.Logger
	now      func() time.Time

	// sólo el tick escribe; el mutex es para Snapshot desde /status
	mu    sync.RWMutex
	state domain.RotationState
}

func NewRotationService(api RotationAPI, presence Presence, avatar AvatarRenderer) *RotationService {
	return &RotationService{
		api:      api,
		presence: presence,
		avatar:   avatar,
		log:      slog.Default().With(slog.String("component", serviceRotation)),
		now:      time.Now,
	}
}

// Tick: fetch si hace falta, aplica cambio de rotación (avatar + nicks) y
// refresca el status si el texto cambió.
func (s *RotationService) Tick(ctx context.Context) error {
	log := telemetry.Logger(ctx, s.log)
	now := s.now().Unix()

	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()

	if st.RotationEnd == 0 || now >= st.RotationEnd-refetchLead {
		r, err := s.api.GetMapRotation(ctx)
		if err != nil {
			if err := fetchFailed(log, serviceRotation, err); err != nil {
				return fmt.Errorf("fetch rotation: %w", err)
			}
			return nil
		}
		st.Apply(r)
		log.Debug("rotation fetched", slog.String("current", r.CurrentMap), slog.String("next", r.NextMap), slog.Int64("end", r.End))
	}
	if st.CurrentMap == "" {
		// todavía no hubo un fetch exitoso
		return nil
	}

	var errs []error

	if st.CurrentMap != st.LastMap {
		log.Info("rotation changed", slog.String("from", st.LastMap), slog.String("to", st.CurrentMap))
		if err := s.applyMapAvatar(ctx, log, st.CurrentMap, st.Asset); err != nil {
			errs = append(errs, err)
		} else {
			st.LastMap = st.CurrentMap
		}
	}

	// el nick va aparte del avatar: cada uno se reintenta hasta que sale
	if nick := RotationNickname(st.CurrentMap); nick != st.LastNick {
		if err := applyNick(ctx, log, s.presence, nick); err != nil {
			errs = append(errs, err)
		} else {
			st.LastNick = nick
		}
	}

	status := FormatRotationStatus(MinutesRemaining(st.RotationEnd, now), st.NextMap)
	if status != st.LastStatus {
		err := s.presence.SetStatus(ctx, status)
		if err != nil {
			errs = append(errs, fmt.Errorf("set status: %w", err))
		} else {
			log.Info("status updated", slog.String("status", status))
			st.LastStatus = status
		}
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	return errors.Join(errs...)
}

// applyMapAvatar sube el asset del mapa como avatar. Sin asset no hay nada que hacer.
func (s *RotationService) applyMapAvatar(ctx context.Context, log *slog.Logger, current, asset string) error {
	if asset == "" {
		return nil
	}
	if err := s.updateAvatar(ctx, asset); err != nil {
		log.Error("failed to update avatar", slog.Any("err", err))
		return fmt.Errorf("update avatar: %w", err)
	}
	log.Info("avatar updated", slog.String("map", current))
	return nil
}

func (s *RotationService) updateAvatar(ctx context.Context, url string) error {
	png, err := s.avatar.Render(ctx, url)
	if err != nil {
		return err
	}
	return s.presence.SetAvatar(ctx, png)
}

// Snapshot devuelve una copia del estado actual.
func (s *RotationService) Snapshot() domain.RotationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *RotationService) Status() any { return s.Snapshot() }
