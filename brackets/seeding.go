package brackets

import (
	"sort"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

// SeedParticipants returns a seeded copy of the input. When preserveOrder is
// false, participants are sorted by rating descending with unrated ones after
// rated ones in their original order; when true the input order stands as-is
// (used when seeds were already computed upstream, e.g. cross-pool qualifier
// selection). Seeds are assigned 1..n either way.
func SeedParticipants(participants []*models.Participant, preserveOrder bool) []*models.Participant {
	seeded := make([]*models.Participant, len(participants))
	copy(seeded, participants)

	if !preserveOrder {
		sort.SliceStable(seeded, func(i, j int) bool {
			ri, rj := seeded[i].Rating, seeded[j].Rating
			switch {
			case ri != nil && rj != nil:
				return *ri > *rj
			case ri != nil:
				return true
			default:
				return false
			}
		})
	}
	for i, p := range seeded {
		p.Seed = i + 1
	}
	return seeded
}

// SeedPositions returns the standard bracket seed ordering for a power-of-two
// size: size 2 is [1,2]; size N interleaves the positions of N/2 with their
// complements N+1-seed. Consecutive pairs form the first-round matches, so
// seed 1 and seed 2 can only meet in the final, seeds 1 and 3-4 in the
// semifinals, and so on.
func SeedPositions(size int) []int {
	if size < 2 {
		return []int{1}
	}
	if size == 2 {
		return []int{1, 2}
	}
	half := SeedPositions(size / 2)
	positions := make([]int, 0, size)
	for _, seed := range half {
		positions = append(positions, seed, size+1-seed)
	}
	return positions
}
