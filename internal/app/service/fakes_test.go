package service

import (
	"context"
	"errors"
	"time"

	"github.com/jose-valero/apex-presence-bot/internal/domain"
)

type fakeRotationAPI struct {
	rot   domain.Rotation
	err   error
	calls int
}

func (f *fakeRotationAPI) GetMapRotation(context.Context) (domain.Rotation, error) {
	f.calls++
	return f.rot, f.err
}

type fakePlayerAPI struct {
	p     domain.Player
	err   error
	calls int
}

func (f *fakePlayerAPI) GetPlayer(_ context.Context, uid, platform string) (domain.Player, error) {
	f.calls++
	return f.p, f.err
}

type fakePresence struct {
	statuses  []string
	nicks     []string
	avatars   int
	statusErr error
	avatarErr error
	nickFail  int // próximas llamadas a SetNickname donde todos los guilds fallan
}

func (f *fakePresence) SetStatus(_ context.Context, text string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses = append(f.statuses, text)
	return nil
}

func (f *fakePresence) SetNickname(_ context.Context, nick string) []domain.NickResult {
	f.nicks = append(f.nicks, nick)
	if f.nickFail > 0 {
		f.nickFail--
		return []domain.NickResult{
			{GuildID: "1", Err: errors.New("HTTP 500 Internal Server Error")},
			{GuildID: "2", Err: errors.New("connection reset by peer")},
		}
	}
	return []domain.NickResult{
		{GuildID: "1"},
		{GuildID: "2", Forbidden: true, Err: errors.New("403")},
	}
}

func (f *fakePresence) SetAvatar(_ context.Context, png []byte) error {
	if f.avatarErr != nil {
		return f.avatarErr
	}
	f.avatars++
	return nil
}

type fakeRenderer struct {
	urls []string
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png"), nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
