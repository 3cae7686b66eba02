package models

import "time"

// Participant is one competitive unit in a division: a single player or a
// doubles pairing. PlayerIDs is ordered and holds one entry for singles, two
// for doubles. Rating is optional and only used for seeding; Seed is assigned
// by the generators (1 = strongest).
type Participant struct {
	ID         string    `json:"id" db:"id"`
	DivisionID string    `json:"division_id" db:"division_id"`
	Name       string    `json:"name" db:"name"`
	PlayerIDs  []string  `json:"player_ids" db:"player_ids"`
	Rating     *float64  `json:"rating,omitempty" db:"rating"`
	Seed       int       `json:"seed" db:"seed"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Side is the snapshot of a participant embedded into a match at generation
// time. A nil side on a bracket match means the slot is still TBD.
type Side struct {
	ParticipantID string   `json:"participant_id"`
	Name          string   `json:"name"`
	PlayerIDs     []string `json:"player_ids,omitempty"`
}

func SideFromParticipant(p *Participant) *Side {
	if p == nil {
		return nil
	}
	return &Side{
		ParticipantID: p.ID,
		Name:          p.Name,
		PlayerIDs:     p.PlayerIDs,
	}
}
