package discord

import (
	"errors"
	"sync"
	"time"
)

// Discord deja cambiar el avatar pocas veces por hora; si te pasás devuelve
// 400 "You are changing your avatar too fast" y no hay header de retry.
const avatarSpacing = 2 * time.Minute

var ErrAvatarCooldown = errors.New("discord: avatar changed too recently")

// spacer impone una separación mínima entre llamadas con la misma key.
type spacer struct {
	mu   sync.Mutex
	next map[string]time.Time
	win  time.Duration
	now  func() time.Time
}

func newSpacer(window time.Duration) *spacer {
	return &spacer{next: map[string]time.Time{}, win: window, now: time.Now}
}

func (l *spacer) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.next[key]; ok && now.Before(until) {
		return false
	}
	l.next[key] = now.Add(l.win)
	return true
}
