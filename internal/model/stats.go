package model

// JobStats is the outcome counter snapshot served by GET /api/stats
type JobStats struct {
	Total     int64               `json:"total"`
	Succeeded int64               `json:"succeeded"`
	Failed    map[ErrorKind]int64 `json:"failed"`
}
