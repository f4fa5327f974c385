package domain

// Rotation es lo que nos importa de /maprotation (ranked).
type Rotation struct {
	CurrentMap string
	NextMap    string
	End        int64 // epoch segundos
	Asset      string
}

// Player es lo que nos importa de /bridge (global + rank).
type Player struct {
	Name         string
	RankName     string
	RankDivision int
	RankScore    int64
	RankBadgeURL string
}
