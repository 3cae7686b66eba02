package pools

import (
	"fmt"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/brackets"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/identity"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

// GenerateMatches runs the round-robin generator for every pool and tags each
// resulting match with the pool's group and key. Match IDs are canonical, so
// regenerating the same pools overwrites rather than duplicates. Bye pairings
// (odd pool sizes) produce no match. With iterations > 1 (double round
// robin) the repeat legs get a leg suffix so each leg keeps its own identity.
func GenerateMatches(divisionID string, poolSet []*models.Pool, iterations int) []*models.Match {
	var matches []*models.Match
	for _, pool := range poolSet {
		roundsPerLeg := len(pool.Participants) - 1 + len(pool.Participants)%2
		matchNum := 0
		for _, round := range brackets.GenerateRoundRobin(pool.Participants, iterations) {
			for _, pairing := range round.Pairings {
				if pairing.IsBye() {
					continue
				}
				matchNum++
				id := identity.PoolMatchID(divisionID, pool.Key, pairing.A.ID, pairing.B.ID)
				if roundsPerLeg > 0 {
					if leg := (round.Number-1)/roundsPerLeg + 1; leg > 1 {
						id = fmt.Sprintf("%s_leg%d", id, leg)
					}
				}
				matches = append(matches, &models.Match{
					ID:         id,
					DivisionID: divisionID,
					Stage:      models.StagePool,
					SideA:      models.SideFromParticipant(pairing.A),
					SideB:      models.SideFromParticipant(pairing.B),
					Round:      round.Number,
					MatchNum:   matchNum,
					Status:     models.MatchStatusScheduled,
					Pool:       &models.PoolSlot{Group: pool.Number, Key: pool.Key},
				})
			}
		}
	}
	return matches
}
