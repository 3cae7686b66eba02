package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusForfeit   MatchStatus = "forfeit"
	MatchStatusBye       MatchStatus = "bye"
)

type MatchStage string

const (
	StagePool    MatchStage = "pool"
	StageBracket MatchStage = "bracket"
)

type BracketType string

const (
	BracketMain  BracketType = "main"
	BracketPlate BracketType = "plate"
)

// GameScore is one game of a match, e.g. 11-7.
type GameScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// PoolSlot carries the pool-stage identity of a match.
type PoolSlot struct {
	Group int    `json:"group"`
	Key   string `json:"key"`
}

// BracketSlot carries the bracket-stage identity of a match. Position is a
// stable slot index independent of which participants currently occupy the
// match; advancement pointers reference canonical match IDs.
type BracketSlot struct {
	Type               BracketType `json:"type"`
	Position           int         `json:"position"`
	NextMatchID        *string     `json:"next_match_id,omitempty"`
	NextMatchSlot      *int        `json:"next_match_slot,omitempty"`
	LoserNextMatchID   *string     `json:"loser_next_match_id,omitempty"`
	LoserNextMatchSlot *int        `json:"loser_next_match_slot,omitempty"`
}

// Match is a generated pairing. Exactly one of Pool/Bracket is set, tagged by
// Stage. Court and timing fields are written by the court scheduler after
// generation; they are nil until a session schedule has been computed.
type Match struct {
	ID         string      `json:"id" db:"id"`
	DivisionID string      `json:"division_id" db:"division_id"`
	Stage      MatchStage  `json:"stage" db:"stage"`
	SideA      *Side       `json:"side_a,omitempty"`
	SideB      *Side       `json:"side_b,omitempty"`
	Round      int         `json:"round" db:"round"`
	MatchNum   int         `json:"match_num" db:"match_num"`
	Status     MatchStatus `json:"status" db:"status"`
	Scores     []GameScore `json:"scores,omitempty"`
	WinnerID   *string     `json:"winner_id,omitempty" db:"winner_id"`

	Pool    *PoolSlot    `json:"pool,omitempty"`
	Bracket *BracketSlot `json:"bracket,omitempty"`

	Court        *string    `json:"court,omitempty" db:"court"`
	TimeSlot     *int       `json:"time_slot,omitempty" db:"time_slot"`
	StartTime    *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty" db:"end_time"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastModified time.Time  `json:"last_modified" db:"last_modified"`
}

// SideID returns the participant ID occupying the given slot (1 or 2), or ""
// when the slot is still TBD.
func (m *Match) SideID(slot int) string {
	switch {
	case slot == 1 && m.SideA != nil:
		return m.SideA.ParticipantID
	case slot == 2 && m.SideB != nil:
		return m.SideB.ParticipantID
	}
	return ""
}

// Completed reports whether the match has produced a counted result.
func (m *Match) Completed() bool {
	return m.Status == MatchStatusCompleted || m.Status == MatchStatusForfeit
}

// LoserID derives the losing side from WinnerID. Empty when the match has no
// winner yet or a side is TBD.
func (m *Match) LoserID() string {
	if m.WinnerID == nil || m.SideA == nil || m.SideB == nil {
		return ""
	}
	if *m.WinnerID == m.SideA.ParticipantID {
		return m.SideB.ParticipantID
	}
	if *m.WinnerID == m.SideB.ParticipantID {
		return m.SideA.ParticipantID
	}
	return ""
}
