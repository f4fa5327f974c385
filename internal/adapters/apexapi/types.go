package apexapi

// --- /maprotation?version=2 ---
// Todo puntero/omitible: la API a veces no manda bloques enteros.
type mapRotationDTO struct {
	Ranked *struct {
		Current *struct {
			Map   *string `json:"map"`
			End   *int64  `json:"end"`
			Asset *string `json:"asset"`
		} `json:"current"`
		Next *struct {
			Map *string `json:"map"`
		} `json:"next"`
	} `json:"ranked"`
}

// --- /bridge ---
type bridgeDTO struct {
	Global *struct {
		Name *string `json:"name"`
		Rank *struct {
			RankScore *int64  `json:"rankScore"`
			RankName  *string `json:"rankName"`
			RankDiv   *int    `json:"rankDiv"`
			RankImg   *string `json:"rankImg"`
		} `json:"rank"`
	} `json:"global"`
}
