package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// Session es la sesión de discordgo más un flag de "gateway listo" que se
// puede leer desde otra goroutine (el /healthz).
type Session struct {
	*discordgo.Session
	ready atomic.Bool
}

func (c *Session) Ready() bool { return c.ready.Load() }

func (c *Session) onReady(*discordgo.Session, *discordgo.Ready) { c.ready.Store(true) }
func (c *Session) onResumed(*discordgo.Session, *discordgo.Resumed) { c.ready.Store(true) }
func (c *Session) onDisconnect(*discordgo.Session, *discordgo.Disconnect) { c.ready.Store(false) }

// BotAuth agrega el prefijo "Bot " si no viene.
func BotAuth(token string) string {
	auth := strings.TrimSpace(token)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	return auth
}

// Open abre el gateway y bloquea hasta recibir READY (o hasta que ctx venza).
// Sólo necesitamos IntentsGuilds: lista de guilds y nuestro propio member.
func Open(ctx context.Context, token string) (*Session, error) {
	dg, err := discordgo.New(BotAuth(token))
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	c := &Session{Session: dg}
	c.AddHandler(c.onReady)
	c.AddHandler(c.onResumed)
	c.AddHandler(c.onDisconnect)

	readyc := make(chan *discordgo.Ready, 1)
	c.AddHandlerOnce(func(_ *discordgo.Session, r *discordgo.Ready) {
		readyc <- r
	})

	if err := c.Session.Open(); err != nil {
		return nil, fmt.Errorf("discord open: %w", err)
	}

	r, err := waitReady(ctx, readyc)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	slog.Info("✅ logged in", slog.String("user", r.User.Username), slog.String("id", r.User.ID), slog.Int("guilds", len(r.Guilds)))
	return c, nil
}

// waitReady espera el primer READY. El scheduler no arranca antes de esto.
func waitReady(ctx context.Context, readyc <-chan *discordgo.Ready) (*discordgo.Ready, error) {
	select {
	case r := <-readyc:
		return r, nil
	case <-ctx.Done():
		return nil, errors.Join(errors.New("discord: timed out waiting for READY"), ctx.Err())
	}
}
