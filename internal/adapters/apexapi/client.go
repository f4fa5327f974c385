package apexapi

import (
	"context"
	"net/url"

	"github.com/jose-valero/apex-presence-bot/internal/domain"
)

const (
	unknown     = "Unknown"
	defaultRank = "Rookie"
)

// GetMapRotation: GET /maprotation?version=2, sólo la cola ranked.
func (c *Client) GetMapRotation(ctx context.Context) (domain.Rotation, error) {
	q := url.Values{}
	q.Set("version", "2")

	var dto mapRotationDTO
	if err := c.doJSON(ctx, "/maprotation", q, &dto); err != nil {
		return domain.Rotation{}, err
	}

	r := domain.Rotation{CurrentMap: unknown, NextMap: unknown}
	if dto.Ranked == nil {
		return r, nil
	}
	if cur := dto.Ranked.Current; cur != nil {
		r.CurrentMap = strOr(cur.Map, unknown)
		r.Asset = strOr(cur.Asset, "")
		if cur.End != nil {
			r.End = *cur.End
		}
	}
	if nx := dto.Ranked.Next; nx != nil {
		r.NextMap = strOr(nx.Map, unknown)
	}
	return r, nil
}

// GetPlayer: GET /bridge?player=<uid>&platform=<PC|PS4|X1|SWITCH>
func (c *Client) GetPlayer(ctx context.Context, uid, platform string) (domain.Player, error) {
	if platform == "" {
		platform = "PC"
	}
	q := url.Values{}
	q.Set("player", uid)
	q.Set("platform", platform)

	var dto bridgeDTO
	if err := c.doJSON(ctx, "/bridge", q, &dto); err != nil {
		return domain.Player{}, err
	}

	p := domain.Player{Name: unknown, RankName: defaultRank}
	if dto.Global == nil {
		return p, nil
	}
	p.Name = strOr(dto.Global.Name, unknown)
	if rk := dto.Global.Rank; rk != nil {
		p.RankName = strOr(rk.RankName, defaultRank)
		p.RankBadgeURL = strOr(rk.RankImg, "")
		if rk.RankScore != nil {
			p.RankScore = *rk.RankScore
		}
		if rk.RankDiv != nil {
			p.RankDivision = *rk.RankDiv
		}
	}
	return p, nil
}

// strOr trata igual el campo ausente y el string vacío. Es a propósito: un
// nombre vacío termina en un nick vacío, que para Discord es "borrar el nick".
func strOr(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
