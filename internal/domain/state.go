package domain

// RotationState vive lo que dure el proceso. Zero value = arranque en frío.
type RotationState struct {
	CurrentMap  string `json:"current_map"`
	NextMap     string `json:"next_map"`
	RotationEnd int64  `json:"rotation_end_epoch"`
	Asset       string `json:"asset"`

	// últimos valores escritos con éxito en Discord
	LastMap    string `json:"last_map"` // mapa del último avatar subido
	LastNick   string `json:"last_nick"`
	LastStatus string `json:"last_status"`
}

// Apply copia los campos de un fetch exitoso.
func (s *RotationState) Apply(r Rotation) {
	s.CurrentMap = r.CurrentMap
	s.NextMap = r.NextMap
	s.RotationEnd = r.End
	s.Asset = r.Asset
}

type PlayerState struct {
	PlayerName       string `json:"player_name"`
	RankName         string `json:"rank_name"`
	RankDivision     int    `json:"rank_division"`
	RankScore        int64  `json:"rank_score"`
	RankBadgeURL     string `json:"rank_badge_url"`
	LastAvatarUpdate int64  `json:"last_avatar_update_epoch"`

	LastName         string `json:"last_name"`
	LastStatus       string `json:"last_status"`
	LastAvatarStatus string `json:"last_avatar_status"` // status vigente cuando se subió el badge
}

func (s *PlayerState) Apply(p Player) {
	s.PlayerName = p.Name
	s.RankName = p.RankName
	s.RankDivision = p.RankDivision
	s.RankScore = p.RankScore
	s.RankBadgeURL = p.RankBadgeURL
}
