package discord

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/apex-presence-bot/internal/domain"
	"github.com/jose-valero/apex-presence-bot/internal/telemetry"
)

// Discord corta los nicks en 32 caracteres y devuelve 400 si te pasás.
const maxNickLen = 32

// Presence escribe status, nickname (por guild) y avatar de la cuenta del bot.
type Presence struct {
	s     *discordgo.Session
	log   *slog.Logger
	limit *spacer
}

func NewPresence(s *discordgo.Session) *Presence {
	return &Presence{
		s:     s,
		log:   slog.Default().With(slog.String("component", "discord")),
		limit: newSpacer(avatarSpacing),
	}
}

// SetStatus pone el "Playing <text>" de la cuenta (va por el gateway).
func (p *Presence) SetStatus(ctx context.Context, text string) error {
	defer step(ctx, "discord.status")()
	err := p.s.UpdateGameStatus(0, text)
	telemetry.Write("status", err)
	return err
}

// SetAvatar sube png como avatar de la cuenta. Dos subidas seguidas dentro de
// avatarSpacing no llegan a Discord: la segunda devuelve ErrAvatarCooldown.
func (p *Presence) SetAvatar(ctx context.Context, png []byte) error {
	defer step(ctx, "discord.avatar")()
	if len(png) == 0 {
		return errors.New("discord: empty avatar")
	}
	if !p.limit.Allow("avatar") {
		telemetry.Write("avatar", ErrAvatarCooldown)
		return ErrAvatarCooldown
	}
	data := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	_, err := p.s.UserUpdate("", data, "", discordgo.WithContext(ctx))
	telemetry.Write("avatar", err)
	return err
}

// SetNickname aplica nick en cada guild donde está el bot. Cada guild es
// independiente: un 403 en uno no corta el resto. Nunca devuelve error.
func (p *Presence) SetNickname(ctx context.Context, nick string) []domain.NickResult {
	defer step(ctx, "discord.nickname")()
	nick = truncate(nick, maxNickLen)
	log := telemetry.Logger(ctx, p.log)

	guilds := p.guilds()
	out := make([]domain.NickResult, 0, len(guilds))
	for _, g := range guilds {
		res := domain.NickResult{GuildID: g.ID, GuildName: g.Name}

		if p.currentNick(g.ID) == nick {
			res.Skipped = true
			out = append(out, res)
			continue
		}

		err := p.s.GuildMemberNickname(g.ID, "@me", nick, discordgo.WithContext(ctx))
		telemetry.Write("nickname", err)
		switch {
		case err == nil:
			p.rememberNick(g.ID, nick)
		case isForbidden(err):
			res.Forbidden = true
			res.Err = err
			log.Warn("missing permissions to change nickname", slog.String("guild", g.Name), slog.String("guild_id", g.ID))
		default:
			res.Err = err
			log.Error("failed to change nickname", slog.String("guild", g.Name), slog.String("guild_id", g.ID), slog.Any("err", err))
		}
		out = append(out, res)
	}
	return out
}

func (p *Presence) guilds() []*discordgo.Guild {
	if p.s.State == nil {
		return nil
	}
	p.s.State.RLock()
	defer p.s.State.RUnlock()
	gs := make([]*discordgo.Guild, len(p.s.State.Guilds))
	copy(gs, p.s.State.Guilds)
	return gs
}

// currentNick lee nuestro member del State. Si el bot sale de un guild y
// vuelve, el GUILD_CREATE trae el member nuevo y esto se entera solo.
func (p *Presence) currentNick(guildID string) string {
	if p.s.State == nil || p.s.State.User == nil {
		return ""
	}
	m, err := p.s.State.Member(guildID, p.s.State.User.ID)
	if err != nil || m == nil {
		return ""
	}
	p.s.State.RLock()
	defer p.s.State.RUnlock()
	return m.Nick
}

// rememberNick deja el nick aplicado en el State: el PATCH no genera evento
// para nosotros sin el intent de members.
func (p *Presence) rememberNick(guildID, nick string) {
	st := p.s.State
	if st == nil || st.User == nil {
		return
	}
	upd := discordgo.Member{GuildID: guildID, User: st.User}
	if m, err := st.Member(guildID, st.User.ID); err == nil && m != nil {
		st.RLock()
		upd = *m
		st.RUnlock()
	}
	if upd.User == nil {
		upd.User = st.User
	}
	upd.GuildID = guildID
	upd.Nick = nick
	if err := st.MemberAdd(&upd); err != nil {
		p.log.Debug("state member not updated", slog.String("guild_id", guildID), slog.Any("err", err))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
