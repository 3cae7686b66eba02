package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

func makeParticipants(n int) []*models.Participant {
	participants := make([]*models.Participant, n)
	for i := 0; i < n; i++ {
		participants[i] = &models.Participant{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Team %d", i+1),
		}
	}
	return participants
}

func pairKey(a, b *models.Participant) string {
	if a.ID < b.ID {
		return a.ID + "|" + b.ID
	}
	return b.ID + "|" + a.ID
}

func TestGenerateRoundRobin_EvenFieldEveryPairOnce(t *testing.T) {
	participants := makeParticipants(6)
	rounds := GenerateRoundRobin(participants, 1)

	require.Len(t, rounds, 5)

	seen := make(map[string]int)
	for _, round := range rounds {
		assert.Len(t, round.Pairings, 3)
		for _, p := range round.Pairings {
			require.False(t, p.IsBye())
			seen[pairKey(p.A, p.B)]++
		}
	}

	assert.Len(t, seen, 15) // 6*5/2
	for pair, count := range seen {
		assert.Equal(t, 1, count, "pair %s scheduled %d times", pair, count)
	}
}

func TestGenerateRoundRobin_OddFieldByes(t *testing.T) {
	participants := makeParticipants(5)
	rounds := GenerateRoundRobin(participants, 1)

	require.Len(t, rounds, 5)

	byesPerParticipant := make(map[string]int)
	seen := make(map[string]int)
	for _, round := range rounds {
		byeCount := 0
		for _, p := range round.Pairings {
			if p.IsBye() {
				byeCount++
				if p.A != nil {
					byesPerParticipant[p.A.ID]++
				} else {
					byesPerParticipant[p.B.ID]++
				}
				continue
			}
			seen[pairKey(p.A, p.B)]++
		}
		assert.Equal(t, 1, byeCount, "round %d should have exactly one bye", round.Number)
	}

	assert.Len(t, seen, 10) // 5*4/2
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
	assert.Len(t, byesPerParticipant, 5, "every participant sits out exactly once")
	for _, count := range byesPerParticipant {
		assert.Equal(t, 1, count)
	}
}

func TestGenerateRoundRobin_NoSelfPairings(t *testing.T) {
	for n := 2; n <= 9; n++ {
		rounds := GenerateRoundRobin(makeParticipants(n), 1)
		for _, round := range rounds {
			for _, p := range round.Pairings {
				if !p.IsBye() {
					assert.NotEqual(t, p.A.ID, p.B.ID)
				}
			}
		}
	}
}

func TestGenerateRoundRobin_DoubleRoundRobin(t *testing.T) {
	participants := makeParticipants(4)
	rounds := GenerateRoundRobin(participants, 2)

	require.Len(t, rounds, 6)
	assert.Equal(t, 1, rounds[0].Number)
	assert.Equal(t, 6, rounds[5].Number)

	seen := make(map[string]int)
	for _, round := range rounds {
		for _, p := range round.Pairings {
			seen[pairKey(p.A, p.B)]++
		}
	}
	assert.Len(t, seen, 6)
	for pair, count := range seen {
		assert.Equal(t, 2, count, "pair %s should meet twice", pair)
	}
}

func TestGenerateRoundRobin_TooFewParticipants(t *testing.T) {
	assert.Nil(t, GenerateRoundRobin(nil, 1))
	assert.Nil(t, GenerateRoundRobin(makeParticipants(1), 1))
}

func TestGenerateRoundRobin_TwoParticipants(t *testing.T) {
	rounds := GenerateRoundRobin(makeParticipants(2), 1)
	require.Len(t, rounds, 1)
	require.Len(t, rounds[0].Pairings, 1)
	assert.False(t, rounds[0].Pairings[0].IsBye())
}
