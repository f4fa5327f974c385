package service

import (
	"context"

	"github.com/jose-valero/apex-presence-bot/internal/domain"
)

// Lo implementa internal/adapters/apexapi.Client
type RotationAPI interface {
	GetMapRotation(ctx context.Context) (domain.Rotation, error)
}

// Lo implementa internal/adapters/apexapi.Client
type PlayerAPI interface {
	GetPlayer(ctx context.Context, uid, platform string) (domain.Player, error)
}

// Lo implementa internal/adapters/discord.Presence
type Presence interface {
	SetStatus(ctx context.Context, text string) error
	SetNickname(ctx context.Context, nick string) []domain.NickResult
	SetAvatar(ctx context.Context, png []byte) error
}

// Lo implementa internal/avatar.Renderer
type AvatarRenderer interface {
	Render(ctx context.Context, url string) ([]byte, error)
}
