package pools

import (
	"fmt"
	"sort"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

// Tiebreaker names accepted in division settings, applied in configured
// order, each falling through only on ties.
const (
	TiebreakWins         = "wins"
	TiebreakHeadToHead   = "head_to_head"
	TiebreakPointDiff    = "point_diff"
	TiebreakPointsScored = "points_scored"
)

func DefaultTiebreakers() []string {
	return []string{TiebreakWins, TiebreakHeadToHead, TiebreakPointDiff, TiebreakPointsScored}
}

// ComputeStandings recomputes a pool's standings from its counted matches.
// Standings are always derived in full from the matches passed in; nothing is
// read from or written to any cached state. Ranks are re-derived from the
// final sort order, so they come out contiguous 1..n even when raw win
// counts tie.
func ComputeStandings(pool *models.Pool, matches []*models.Match, tiebreakers []string) []*models.Standing {
	if len(tiebreakers) == 0 {
		tiebreakers = DefaultTiebreakers()
	}

	byID := make(map[string]*models.Standing, len(pool.Participants))
	rows := make([]*models.Standing, 0, len(pool.Participants))
	for _, p := range pool.Participants {
		s := &models.Standing{
			ParticipantID: p.ID,
			Name:          p.Name,
			PoolNumber:    pool.Number,
			PoolKey:       pool.Key,
		}
		byID[p.ID] = s
		rows = append(rows, s)
	}

	// head-to-head results, keyed winner->loser
	h2h := make(map[string]bool)

	for _, m := range matches {
		if m.Pool == nil || m.Pool.Key != pool.Key || !m.Completed() || m.WinnerID == nil {
			continue
		}
		a, okA := byID[m.SideID(1)]
		b, okB := byID[m.SideID(2)]
		if !okA || !okB {
			continue
		}

		winner, loser := a, b
		if *m.WinnerID == b.ParticipantID {
			winner, loser = b, a
		}
		winner.Wins++
		loser.Losses++
		h2h[fmt.Sprintf("%s>%s", winner.ParticipantID, loser.ParticipantID)] = true

		for _, g := range m.Scores {
			a.PointsFor += g.A
			a.PointsAgainst += g.B
			b.PointsFor += g.B
			b.PointsAgainst += g.A
			if g.A > g.B {
				a.GamesWon++
				b.GamesLost++
			} else if g.B > g.A {
				b.GamesWon++
				a.GamesLost++
			}
		}
	}
	for _, s := range rows {
		s.PointDiff = s.PointsFor - s.PointsAgainst
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return compareStandings(rows[i], rows[j], tiebreakers, h2h) < 0
	})
	for i, s := range rows {
		s.Rank = i + 1
	}
	return rows
}

// compareStandings returns negative when a ranks ahead of b. The chain falls
// through to participant ID so the last resort is deterministic rather than
// an unresolved tie.
func compareStandings(a, b *models.Standing, tiebreakers []string, h2h map[string]bool) int {
	for _, tb := range tiebreakers {
		switch tb {
		case TiebreakWins:
			if a.Wins != b.Wins {
				return b.Wins - a.Wins
			}
		case TiebreakHeadToHead:
			if h2h[fmt.Sprintf("%s>%s", a.ParticipantID, b.ParticipantID)] {
				return -1
			}
			if h2h[fmt.Sprintf("%s>%s", b.ParticipantID, a.ParticipantID)] {
				return 1
			}
		case TiebreakPointDiff:
			if a.PointDiff != b.PointDiff {
				return b.PointDiff - a.PointDiff
			}
		case TiebreakPointsScored:
			if a.PointsFor != b.PointsFor {
				return b.PointsFor - a.PointsFor
			}
		}
	}
	if a.ParticipantID < b.ParticipantID {
		return -1
	}
	if a.ParticipantID > b.ParticipantID {
		return 1
	}
	return 0
}
