package pools

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

func ratedRoster(n int) []*models.Participant {
	roster := make([]*models.Participant, n)
	for i := 0; i < n; i++ {
		rating := float64(n - i) // p1 strongest
		roster[i] = &models.Participant{
			ID:     fmt.Sprintf("p%d", i+1),
			Name:   fmt.Sprintf("Team %d", i+1),
			Rating: &rating,
		}
	}
	return roster
}

func TestAssignPools_SnakeDraftBalancesStrength(t *testing.T) {
	poolSet, err := AssignPools(ratedRoster(8), 4)
	require.NoError(t, err)
	require.Len(t, poolSet, 2)

	// Snake order over two pools: A,B,B,A,A,B,B,A.
	ids := func(pool *models.Pool) []string {
		var out []string
		for _, p := range pool.Participants {
			out = append(out, p.ID)
		}
		return out
	}
	assert.Equal(t, []string{"p1", "p4", "p5", "p8"}, ids(poolSet[0]))
	assert.Equal(t, []string{"p2", "p3", "p6", "p7"}, ids(poolSet[1]))
}

func TestAssignPools_NamesAndKeys(t *testing.T) {
	poolSet, err := AssignPools(ratedRoster(9), 3)
	require.NoError(t, err)
	require.Len(t, poolSet, 3)

	assert.Equal(t, "Pool A", poolSet[0].Name)
	assert.Equal(t, "pool-a", poolSet[0].Key)
	assert.Equal(t, "Pool C", poolSet[2].Name)
	assert.Equal(t, 1, poolSet[0].Number)
	assert.Equal(t, 3, poolSet[2].Number)
}

func TestAssignPools_UnevenRosterLeavesShortLastPool(t *testing.T) {
	poolSet, err := AssignPools(ratedRoster(7), 4)
	require.NoError(t, err)
	require.Len(t, poolSet, 2)
	assert.Equal(t, 7, poolSet[0].Size()+poolSet[1].Size())
}

func TestAssignPools_EveryParticipantPlacedExactlyOnce(t *testing.T) {
	roster := ratedRoster(13)
	poolSet, err := AssignPools(roster, 4)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, pool := range poolSet {
		for _, p := range pool.Participants {
			seen[p.ID]++
		}
	}
	assert.Len(t, seen, 13)
	for id, count := range seen {
		assert.Equal(t, 1, count, "participant %s placed %d times", id, count)
	}
}

func TestAssignPools_RejectsTinyPoolSize(t *testing.T) {
	_, err := AssignPools(ratedRoster(4), 1)
	assert.ErrorIs(t, err, ErrInvalidPoolSize)
}
