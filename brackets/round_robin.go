package brackets

import "github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"

// Pairing is one scheduled meeting inside a round. B is nil when A sits out
// the round (the bye slot of an odd-sized field); bye pairings are emitted so
// callers can account for idle participants, but they never become matches.
type Pairing struct {
	A *models.Participant
	B *models.Participant
}

func (p Pairing) IsBye() bool {
	return p.A == nil || p.B == nil
}

// Round is one set of simultaneous pairings.
type Round struct {
	Number   int
	Pairings []Pairing
}

// GenerateRoundRobin builds a circle-method schedule: slot 0 is fixed and the
// remaining slots rotate by one position each round, pairing slot i with slot
// numSlots-1-i. Every unordered pair meets exactly once across numSlots-1
// rounds. An odd participant count is padded with a synthetic bye slot.
// iterations > 1 replays the full round set with a round-number offset
// (double round robin). Fewer than 2 participants yields an empty schedule.
func GenerateRoundRobin(participants []*models.Participant, iterations int) []Round {
	n := len(participants)
	if n < 2 {
		return nil
	}
	if iterations < 1 {
		iterations = 1
	}

	slots := make([]*models.Participant, n)
	copy(slots, participants)
	if n%2 != 0 {
		slots = append(slots, nil) // bye slot
	}
	numSlots := len(slots)
	roundsPerIteration := numSlots - 1

	rounds := make([]Round, 0, roundsPerIteration*iterations)
	for it := 0; it < iterations; it++ {
		rotation := make([]*models.Participant, numSlots)
		copy(rotation, slots)

		for r := 0; r < roundsPerIteration; r++ {
			round := Round{Number: it*roundsPerIteration + r + 1}
			for i := 0; i < numSlots/2; i++ {
				round.Pairings = append(round.Pairings, Pairing{
					A: rotation[i],
					B: rotation[numSlots-1-i],
				})
			}
			rounds = append(rounds, round)

			// Rotate everything except slot 0 by one position.
			last := rotation[numSlots-1]
			copy(rotation[2:], rotation[1:numSlots-1])
			rotation[1] = last
		}
	}
	return rounds
}
