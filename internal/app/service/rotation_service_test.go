package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jose-valero/apex-presence-bot/internal/adapters/apexapi"
	"github.com/jose-valero/apex-presence-bot/internal/domain"
)

type rotationHarness struct {
	svc      *RotationService
	api      *fakeRotationAPI
	presence *fakePresence
	render   *fakeRenderer
	clk      *clock
}

func newRotationHarness() *rotationHarness {
	h := &rotationHarness{
		api:      &fakeRotationAPI{},
		presence: &fakePresence{},
		render:   &fakeRenderer{},
		clk:      &clock{t: time.Unix(1_700_000_000, 0)},
	}
	h.svc = NewRotationService(h.api, h.presence, h.render)
	h.svc.now = h.clk.now
	return h
}

func (h *rotationHarness) rotation(current, next string, endIn time.Duration) {
	h.api.rot = domain.Rotation{
		CurrentMap: current,
		NextMap:    next,
		End:        h.clk.t.Add(endIn).Unix(),
		Asset:      "https://assets/" + current + ".png",
	}
}

func TestRotationColdStart(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", 75*time.Minute)

	if err := h.svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}

	if len(h.render.urls) != 1 || h.render.urls[0] != "https://assets/Olympus.png" {
		t.Errorf("rendered %v", h.render.urls)
	}
	if h.presence.avatars != 1 {
		t.Errorf("avatars = %d, want 1", h.presence.avatars)
	}
	if len(h.presence.nicks) != 1 || h.presence.nicks[0] != "Ranked: Olympus" {
		t.Errorf("nicks = %v", h.presence.nicks)
	}
	if len(h.presence.statuses) != 1 || h.presence.statuses[0] != "Ends in 1h 15m » Next: Storm Point" {
		t.Errorf("statuses = %v", h.presence.statuses)
	}

	st := h.svc.Snapshot()
	if st.LastMap != "Olympus" || st.LastNick != "Ranked: Olympus" || st.LastStatus != "Ends in 1h 15m » Next: Storm Point" {
		t.Errorf("state not committed: %+v", st)
	}
}

func TestRotationSkipsFetchUntilNearEnd(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", 30*time.Minute)
	_ = h.svc.Tick(context.Background())

	h.clk.advance(time.Minute)
	_ = h.svc.Tick(context.Background())
	if h.api.calls != 1 {
		t.Errorf("api calls = %d, want 1 while rotation is far from ending", h.api.calls)
	}
	if len(h.presence.statuses) != 2 || h.presence.statuses[1] != "Ends in 29m » Next: Storm Point" {
		t.Errorf("statuses = %v", h.presence.statuses)
	}

	h.clk.advance(28*time.Minute + 30*time.Second)
	_ = h.svc.Tick(context.Background())
	if h.api.calls != 2 {
		t.Errorf("api calls = %d, want refetch within 60s of the end", h.api.calls)
	}
}

func TestRotationUnchangedMapDoesNotTouchNickOrAvatar(t *testing.T) {
	h := newRotationHarness()
	// termina en 30s: cada tick vuelve a pedir la rotación
	h.rotation("Olympus", "Storm Point", 30*time.Second)
	_ = h.svc.Tick(context.Background())

	for range 3 {
		h.clk.advance(5 * time.Second)
		if err := h.svc.Tick(context.Background()); err != nil {
			t.Fatalf("Tick() error: %v", err)
		}
	}

	if h.api.calls != 4 {
		t.Errorf("api calls = %d, want 4", h.api.calls)
	}
	if len(h.presence.nicks) != 1 || h.presence.avatars != 1 {
		t.Errorf("nicks = %v avatars = %d, want one of each", h.presence.nicks, h.presence.avatars)
	}
	// "Ends in 0m" no cambia: no se reenvía
	if len(h.presence.statuses) != 1 {
		t.Errorf("statuses = %v, want 1", h.presence.statuses)
	}
}

func TestRotationChange(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", 30*time.Second)
	_ = h.svc.Tick(context.Background())

	h.clk.advance(time.Minute)
	h.rotation("Storm Point", "World's Edge", 90*time.Minute)
	if err := h.svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}

	if h.presence.avatars != 2 {
		t.Errorf("avatars = %d, want 2", h.presence.avatars)
	}
	if got := h.presence.nicks[len(h.presence.nicks)-1]; got != "Ranked: Storm Point" {
		t.Errorf("last nick = %q", got)
	}
	if got := h.svc.Snapshot().LastMap; got != "Storm Point" {
		t.Errorf("LastMap = %q", got)
	}
}

func TestRotationFetchFailureKeepsState(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"server error", &apexapi.APIError{Status: 500, Body: "boom"}, true},
		{"malformed json", apexapi.ErrBadPayload, true},
		{"transport", errors.New("dial tcp: connection reset"), true},
		{"rate limited", apexapi.ErrRateLimited, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRotationHarness()
			h.rotation("Olympus", "Storm Point", 30*time.Second)
			_ = h.svc.Tick(context.Background())
			before := h.svc.Snapshot()
			writes := len(h.presence.statuses) + len(h.presence.nicks) + h.presence.avatars

			h.clk.advance(time.Minute)
			h.api.err = tt.err
			err := h.svc.Tick(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Tick() error = %v, wantErr %v", err, tt.wantErr)
			}
			if after := h.svc.Snapshot(); after != before {
				t.Errorf("state changed on failed fetch:\nbefore %+v\nafter  %+v", before, after)
			}
			if got := len(h.presence.statuses) + len(h.presence.nicks) + h.presence.avatars; got != writes {
				t.Errorf("writes issued on failed fetch: %d -> %d", writes, got)
			}
		})
	}
}

func TestRotationFirstFetchFailsNoWrites(t *testing.T) {
	h := newRotationHarness()
	h.api.err = errors.New("timeout")
	if err := h.svc.Tick(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if (h.svc.Snapshot() != domain.RotationState{}) {
		t.Errorf("state should stay zero: %+v", h.svc.Snapshot())
	}
	if len(h.presence.statuses) != 0 {
		t.Errorf("statuses = %v", h.presence.statuses)
	}
}

func TestRotationAvatarFailureRetriedNextTick(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", 75*time.Minute)
	h.render.err = errors.New("decode: unknown format")

	if err := h.svc.Tick(context.Background()); err == nil {
		t.Fatal("expected avatar error")
	}
	if got := h.svc.Snapshot().LastMap; got != "" {
		t.Errorf("LastMap = %q, must not be committed after failed avatar", got)
	}
	// el status es independiente del avatar
	if len(h.presence.statuses) != 1 {
		t.Errorf("statuses = %v", h.presence.statuses)
	}

	h.render.err = nil
	h.clk.advance(time.Minute)
	if err := h.svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if h.api.calls != 1 {
		t.Errorf("api calls = %d, retry must reuse the stored rotation", h.api.calls)
	}
	if h.presence.avatars != 1 || h.svc.Snapshot().LastMap != "Olympus" {
		t.Errorf("avatars = %d state = %+v", h.presence.avatars, h.svc.Snapshot())
	}
}

func TestRotationStatusFailureRetried(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", 75*time.Minute)
	h.presence.statusErr = errors.New("ws not open")

	if err := h.svc.Tick(context.Background()); err == nil {
		t.Fatal("expected status error")
	}
	if got := h.svc.Snapshot().LastStatus; got != "" {
		t.Errorf("LastStatus = %q, want empty after failed write", got)
	}

	h.presence.statusErr = nil
	_ = h.svc.Tick(context.Background())
	if got := h.svc.Snapshot().LastStatus; got != "Ends in 1h 15m » Next: Storm Point" {
		t.Errorf("LastStatus = %q", got)
	}
}

func TestRotationNoAssetSkipsAvatar(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", time.Hour)
	h.api.rot.Asset = ""

	if err := h.svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if len(h.render.urls) != 0 || h.presence.avatars != 0 {
		t.Errorf("avatar should not be touched without asset")
	}
	if h.svc.Snapshot().LastMap != "Olympus" {
		t.Errorf("LastMap not committed")
	}
}

func TestRotationNickFailureRetriedNextTick(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", 75*time.Minute)
	h.presence.nickFail = 1

	if err := h.svc.Tick(context.Background()); err == nil {
		t.Fatal("expected nickname error")
	}
	st := h.svc.Snapshot()
	if st.LastNick != "" {
		t.Errorf("LastNick = %q, must not be committed when every guild failed", st.LastNick)
	}
	if st.LastMap != "Olympus" || h.presence.avatars != 1 {
		t.Errorf("avatar is independent of the nickname: %+v avatars=%d", st, h.presence.avatars)
	}

	h.clk.advance(time.Minute)
	if err := h.svc.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if len(h.presence.nicks) != 2 {
		t.Errorf("SetNickname calls = %d, want 2", len(h.presence.nicks))
	}
	if got := h.svc.Snapshot().LastNick; got != "Ranked: Olympus" {
		t.Errorf("LastNick = %q", got)
	}
	if h.presence.avatars != 1 || h.api.calls != 1 {
		t.Errorf("retry must not re-upload nor refetch: avatars=%d calls=%d", h.presence.avatars, h.api.calls)
	}
}

func TestRotationAvatarRetryDoesNotResendNick(t *testing.T) {
	h := newRotationHarness()
	h.rotation("Olympus", "Storm Point", 75*time.Minute)
	h.presence.avatarErr = errors.New("avatar changed too recently")
	_ = h.svc.Tick(context.Background())

	h.presence.avatarErr = nil
	h.clk.advance(time.Minute)
	_ = h.svc.Tick(context.Background())

	if len(h.presence.nicks) != 1 {
		t.Errorf("nicks = %v, want a single fan-out", h.presence.nicks)
	}
	if h.presence.avatars != 1 || h.svc.Snapshot().LastMap != "Olympus" {
		t.Errorf("avatar retry: avatars=%d state=%+v", h.presence.avatars, h.svc.Snapshot())
	}
}
