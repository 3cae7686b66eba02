package models

import "time"

// GenerationStatus is the lock state machine for a division's generated
// artifacts: idle -> generating (acquire) -> generated (commit), or back to
// idle on failure. A stale "generating" older than the takeover timeout is
// presumed crashed and may be reclaimed.
type GenerationStatus string

const (
	GenerationIdle       GenerationStatus = "idle"
	GenerationInProgress GenerationStatus = "generating"
	GenerationDone       GenerationStatus = "generated"
)

type DivisionFormat string

const (
	FormatPoolsKnockout     DivisionFormat = "pools_knockout"
	FormatRoundRobin        DivisionFormat = "round_robin"
	FormatSingleElimination DivisionFormat = "single_elimination"
)

// FormatSettings is per-division competition configuration, stored as a
// single JSON column so format options can evolve without migrations.
type FormatSettings struct {
	PoolSize          int      `json:"pool_size"`
	QualifiersPerPool int      `json:"qualifiers_per_pool"`
	BestRemaining     int      `json:"best_remaining,omitempty"`
	PlateEnabled      bool     `json:"plate_enabled"`
	PlateQualifiers   int      `json:"plate_qualifiers,omitempty"`
	ThirdPlaceMatch   bool     `json:"third_place_match"`
	RoundRobinRounds  int      `json:"round_robin_rounds,omitempty"`
	Tiebreakers       []string `json:"tiebreakers,omitempty"`
}

// Division is the competition entity the engine generates matches for. The
// generation lock lives here; acquisition is a conditional write against the
// persisted status and timestamp.
type Division struct {
	ID              string           `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	Format          DivisionFormat   `json:"format" db:"format"`
	Settings        FormatSettings   `json:"settings"`
	Venue           *VenueSettings   `json:"venue,omitempty"`
	ScheduleStatus  GenerationStatus `json:"schedule_status" db:"schedule_status"`
	BracketStatus   GenerationStatus `json:"bracket_status" db:"bracket_status"`
	ScheduleVersion int              `json:"schedule_version" db:"schedule_version"`
	GeneratedAt     *time.Time       `json:"generated_at,omitempty" db:"generated_at"`
	GeneratedBy     *string          `json:"generated_by,omitempty" db:"generated_by"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// EffectivePlateQualifiers applies the default plate cutoff,
// min(K, poolSize-K), when no explicit count is configured.
func (s FormatSettings) EffectivePlateQualifiers() int {
	if s.PlateQualifiers > 0 {
		return s.PlateQualifiers
	}
	n := s.PoolSize - s.QualifiersPerPool
	if s.QualifiersPerPool < n {
		n = s.QualifiersPerPool
	}
	if n < 0 {
		n = 0
	}
	return n
}
