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

const servicePlayer = "player"

type PlayerService struct {
	api      PlayerAPI
	presence Presence
	avatar   AvatarRenderer
	log      *slog.Logger
	now      func() time.Time

	uid            string
	platform       string
	avatarInterval time.Duration

	mu    sync.RWMutex
	state domain.PlayerState
}

func NewPlayerService(api PlayerAPI, presence Presence, avatar AvatarRenderer, uid, platform string, avatarInterval time.Duration) *PlayerService {
	return &PlayerService{
		api:            api,
		presence:       presence,
		avatar:         avatar,
		log:            slog.Default().With(slog.String("component", servicePlayer), slog.String("uid", uid)),
		now:            time.Now,
		uid:            uid,
		platform:       platform,
		avatarInterval: avatarInterval,
	}
}

// Tick: fetch del jugador, status, nickname y (con su propia cadencia) badge.
func (s *PlayerService) Tick(ctx context.Context) error {
	log := telemetry.Logger(ctx, s.log)

	p, err := s.api.GetPlayer(ctx, s.uid, s.platform)
	if err != nil {
		if err := fetchFailed(log, servicePlayer, err); err != nil {
			return fmt.Errorf("fetch player: %w", err)
		}
		return nil
	}

	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()
	st.Apply(p)

	var errs []error
	status := FormatPlayerStatus(st.RankName, st.RankDivision, st.RankScore)

	if status != st.LastStatus {
		if err := s.presence.SetStatus(ctx, status); err != nil {
			errs = append(errs, fmt.Errorf("set status: %w", err))
		} else {
			log.Info("status updated", slog.String("status", status))
			st.LastStatus = status
		}
	}

	if st.PlayerName != st.LastName {
		if err := applyNick(ctx, log, s.presence, st.PlayerName); err != nil {
			errs = append(errs, err)
		} else {
			st.LastName = st.PlayerName
		}
	}

	now := s.now()
	if st.RankBadgeURL != "" && s.avatarDue(st, status, now) {
		if err := s.updateAvatar(ctx, st.RankBadgeURL); err != nil {
			log.Error("failed to update avatar", slog.Any("err", err))
			errs = append(errs, fmt.Errorf("update avatar: %w", err))
		} else {
			log.Info("profile image updated to rank badge", slog.String("rank", st.RankName))
			st.LastAvatarStatus = status
			st.LastAvatarUpdate = now.Unix()
		}
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	return errors.Join(errs...)
}

// avatarDue: nunca se subió un badge, o el rango cambió desde el último y ya
// pasó avatarInterval (Discord limita fuerte los cambios de avatar).
func (s *PlayerService) avatarDue(st domain.PlayerState, status string, now time.Time) bool {
	if st.LastAvatarUpdate == 0 {
		return true
	}
	if status == st.LastAvatarStatus {
		return false
	}
	return now.Sub(time.Unix(st.LastAvatarUpdate, 0)) >= s.avatarInterval
}

func (s *PlayerService) updateAvatar(ctx context.Context, url string) error {
	png, err := s.avatar.Render(ctx, url)
	if err != nil {
		return err
	}
	return s.presence.SetAvatar(ctx, png)
}

func (s *PlayerService) Snapshot() domain.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *PlayerService) Status() any { return s.Snapshot() }
