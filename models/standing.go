package models

type QualifiedAs string

const (
	QualifiedTop           QualifiedAs = "top"
	QualifiedBestRemaining QualifiedAs = "best_remaining"
)

// Standing is a derived row: fully recomputed from completed matches on each
// request, never incrementally mutated or treated as a source of truth.
type Standing struct {
	ParticipantID     string      `json:"participant_id"`
	Name              string      `json:"name"`
	PoolNumber        int         `json:"pool_number"`
	PoolKey           string      `json:"pool_key"`
	Wins              int         `json:"wins"`
	Losses            int         `json:"losses"`
	GamesWon          int         `json:"games_won"`
	GamesLost         int         `json:"games_lost"`
	PointsFor         int         `json:"points_for"`
	PointsAgainst     int         `json:"points_against"`
	PointDiff         int         `json:"point_diff"`
	Rank              int         `json:"rank"`
	Qualified         bool        `json:"qualified"`
	QualifiedAs       QualifiedAs `json:"qualified_as,omitempty"`
	QualifiedForPlate bool        `json:"qualified_for_plate"`
}
