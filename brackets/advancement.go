package brackets

import (
	"errors"
	"fmt"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

var (
	ErrWinnerNotInMatch = errors.New("winner is not a side of the match")
	ErrMatchSidesTBD    = errors.New("match sides are not fully populated")
)

// AdvanceWinner applies a completed bracket match to the bracket graph: the
// winner is written into the pointed-to slot of the next match, and, when the
// match carries a loser pointer (semifinals with a bronze match), the loser
// is written into the bronze slot. byID indexes the division's bracket
// matches by canonical ID. Returns the matches that were modified.
func AdvanceWinner(byID map[string]*models.Match, completed *models.Match, winnerID string) ([]*models.Match, error) {
	if completed.Bracket == nil {
		return nil, fmt.Errorf("match %s is not a bracket match", completed.ID)
	}
	if completed.SideA == nil || completed.SideB == nil {
		return nil, ErrMatchSidesTBD
	}

	var winner, loser *models.Side
	switch winnerID {
	case completed.SideA.ParticipantID:
		winner, loser = completed.SideA, completed.SideB
	case completed.SideB.ParticipantID:
		winner, loser = completed.SideB, completed.SideA
	default:
		return nil, fmt.Errorf("%w: %s in match %s", ErrWinnerNotInMatch, winnerID, completed.ID)
	}

	touched := make([]*models.Match, 0, 2)

	if completed.Bracket.NextMatchID != nil {
		next, ok := byID[*completed.Bracket.NextMatchID]
		if !ok {
			return nil, fmt.Errorf("next match %s not found for %s", *completed.Bracket.NextMatchID, completed.ID)
		}
		placeSide(next, derefInt(completed.Bracket.NextMatchSlot), winner)
		touched = append(touched, next)
	}

	if completed.Bracket.LoserNextMatchID != nil {
		bronze, ok := byID[*completed.Bracket.LoserNextMatchID]
		if !ok {
			return nil, fmt.Errorf("bronze match %s not found for %s", *completed.Bracket.LoserNextMatchID, completed.ID)
		}
		placeSide(bronze, derefInt(completed.Bracket.LoserNextMatchSlot), loser)
		touched = append(touched, bronze)
	}

	return touched, nil
}

func placeSide(m *models.Match, slot int, side *models.Side) {
	if slot == 2 {
		m.SideB = side
	} else {
		m.SideA = side
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 1
	}
	return *p
}
