package pools

import (
	"errors"
	"fmt"
	"sort"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

// ErrRankOrderViolation is a hard, fail-closed selection error: pool
// standings passed to qualifier selection do not carry a consistent
// contiguous rank order.
var ErrRankOrderViolation = errors.New("qualifier selection found inconsistent pool ranks")

// SelectMainQualifiers picks the medal-bracket field from pool standings:
// each pool's rank-1 finisher ("winner") and, with perPool >= 2, its rank-2
// finisher ("second"), selected strictly by rank value, never by a
// previously stored qualified flag, which can go stale across regenerations.
//
// Pairs follow the cross-pool formula pair[i] = (winners[i], seconds[P-1-i]):
// a pool's winner meets another pool's second, never its own pool-mate. When
// P is odd the middle pool's winner receives a bye and the middle pool's
// second is appended with its own bye. With bestRemaining > 0, the strongest
// rank-(perPool+1) finishers across pools fill extra slots, paired among
// themselves at the bottom of the draw.
//
// The returned slice is the literal first-round slot order for the
// elimination generator (nil entries are byes) and must be fed with
// preserveOrder=true; re-sorting by rating would destroy the cross-pool
// seeding. Fewer than 2 qualifiers yields a nil slice, not an error.
func SelectMainQualifiers(poolSet []*models.Pool, standingsByPool map[string][]*models.Standing, perPool, bestRemaining int) ([]*models.Participant, error) {
	ordered := orderedPools(poolSet)
	p := len(ordered)
	if p == 0 || perPool < 1 {
		return nil, nil
	}

	winners := make([]*models.Participant, p)
	seconds := make([]*models.Participant, p)
	for i, pool := range ordered {
		w, err := participantAtRank(pool, standingsByPool[pool.Key], 1)
		if err != nil {
			return nil, err
		}
		winners[i] = w
		markQualified(standingsByPool[pool.Key], w.ID, models.QualifiedTop)
		if perPool >= 2 {
			s, err := participantAtRank(pool, standingsByPool[pool.Key], 2)
			if err != nil {
				return nil, err
			}
			seconds[i] = s
			markQualified(standingsByPool[pool.Key], s.ID, models.QualifiedTop)
		}
	}

	var slots []*models.Participant
	middle := -1
	if p%2 == 1 {
		middle = (p - 1) / 2
	}

	if perPool == 1 {
		for i := 0; i < p/2; i++ {
			slots = append(slots, winners[i], winners[p-1-i])
		}
		if middle >= 0 {
			slots = append(slots, winners[middle], nil)
		}
	} else {
		for i := 0; i < p; i++ {
			if i == middle {
				continue
			}
			slots = append(slots, winners[i], seconds[p-1-i])
		}
		if middle >= 0 {
			slots = append(slots, winners[middle], nil)
			slots = append(slots, seconds[middle], nil)
		}
	}

	if bestRemaining > 0 {
		extra := selectBestRemaining(ordered, standingsByPool, perPool+1, bestRemaining)
		for i := 0; i < len(extra); i += 2 {
			if i+1 < len(extra) {
				slots = append(slots, extra[i], extra[i+1])
			} else {
				slots = append(slots, extra[i], nil)
			}
		}
	}

	if countParticipants(slots) < 2 {
		return nil, nil
	}
	return slots, nil
}

// SelectPlateQualifiers picks the plate-bracket field: participants finishing
// just below the main cutoff, ranks firstRank..firstRank+count-1. Qualifiers
// are grouped by finishing rank; within each group the pools are cross-seeded
// first-vs-last, and the groups are flattened in rank order. Fewer than 2
// plate qualifiers yields a nil slice.
func SelectPlateQualifiers(poolSet []*models.Pool, standingsByPool map[string][]*models.Standing, firstRank, count int) ([]*models.Participant, error) {
	ordered := orderedPools(poolSet)
	if len(ordered) == 0 || count < 1 {
		return nil, nil
	}

	var slots []*models.Participant
	for rank := firstRank; rank < firstRank+count; rank++ {
		var group []*models.Participant
		for _, pool := range ordered {
			if rank > pool.Size() {
				continue
			}
			q, err := participantAtRank(pool, standingsByPool[pool.Key], rank)
			if err != nil {
				return nil, err
			}
			group = append(group, q)
			markPlateQualified(standingsByPool[pool.Key], q.ID)
		}

		g := len(group)
		for i := 0; i < g/2; i++ {
			slots = append(slots, group[i], group[g-1-i])
		}
		if g%2 == 1 {
			slots = append(slots, group[g/2], nil)
		}
	}

	if countParticipants(slots) < 2 {
		return nil, nil
	}
	return slots, nil
}

// participantAtRank resolves the pool participant holding the given rank.
// Exactly one standing must carry the rank; anything else is a rank-order
// violation and aborts selection before any write happens.
func participantAtRank(pool *models.Pool, standings []*models.Standing, rank int) (*models.Participant, error) {
	var found *models.Standing
	for _, s := range standings {
		if s.Rank != rank {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: pool %s has duplicate rank %d", ErrRankOrderViolation, pool.Key, rank)
		}
		found = s
	}
	if found == nil {
		return nil, fmt.Errorf("%w: pool %s has no rank %d finisher", ErrRankOrderViolation, pool.Key, rank)
	}
	for _, p := range pool.Participants {
		if p.ID == found.ParticipantID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: rank %d finisher %s is not a member of pool %s", ErrRankOrderViolation, rank, found.ParticipantID, pool.Key)
}

// selectBestRemaining orders the rank-atRank finishers of every pool against
// each other and returns the strongest `count` of them.
func selectBestRemaining(ordered []*models.Pool, standingsByPool map[string][]*models.Standing, atRank, count int) []*models.Participant {
	type candidate struct {
		standing    *models.Standing
		participant *models.Participant
	}
	var candidates []candidate
	for _, pool := range ordered {
		if atRank > pool.Size() {
			continue
		}
		p, err := participantAtRank(pool, standingsByPool[pool.Key], atRank)
		if err != nil {
			continue
		}
		for _, s := range standingsByPool[pool.Key] {
			if s.ParticipantID == p.ID {
				candidates = append(candidates, candidate{standing: s, participant: p})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].standing, candidates[j].standing
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		return a.PointsFor > b.PointsFor
	})
	if count > len(candidates) {
		count = len(candidates)
	}
	picked := make([]*models.Participant, 0, count)
	for _, c := range candidates[:count] {
		c.standing.Qualified = true
		c.standing.QualifiedAs = models.QualifiedBestRemaining
		picked = append(picked, c.participant)
	}
	return picked
}

func markQualified(standings []*models.Standing, participantID string, as models.QualifiedAs) {
	for _, s := range standings {
		if s.ParticipantID == participantID {
			s.Qualified = true
			s.QualifiedAs = as
		}
	}
}

func markPlateQualified(standings []*models.Standing, participantID string) {
	for _, s := range standings {
		if s.ParticipantID == participantID {
			s.QualifiedForPlate = true
		}
	}
}

func orderedPools(poolSet []*models.Pool) []*models.Pool {
	ordered := make([]*models.Pool, len(poolSet))
	copy(ordered, poolSet)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })
	return ordered
}

func countParticipants(slots []*models.Participant) int {
	n := 0
	for _, s := range slots {
		if s != nil {
			n++
		}
	}
	return n
}
