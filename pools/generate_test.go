package pools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

func TestGenerateMatches_CompletePoolSchedule(t *testing.T) {
	poolSet, err := AssignPools(ratedRoster(8), 4)
	require.NoError(t, err)

	matches := GenerateMatches("summer-open", poolSet, 1)
	require.Len(t, matches, 12) // two pools of 4, 6 matches each

	perPool := map[string]int{}
	for _, m := range matches {
		require.NotNil(t, m.Pool)
		perPool[m.Pool.Key]++
		assert.Equal(t, models.StagePool, m.Stage)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		assert.NotEqual(t, m.SideA.ParticipantID, m.SideB.ParticipantID)
	}
	assert.Equal(t, 6, perPool["pool-a"])
	assert.Equal(t, 6, perPool["pool-b"])
}

func TestGenerateMatches_CanonicalIDsAreOrderInsensitive(t *testing.T) {
	poolSet, err := AssignPools(ratedRoster(4), 4)
	require.NoError(t, err)

	first := GenerateMatches("summer-open", poolSet, 1)
	second := GenerateMatches("summer-open", poolSet, 1)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	// IDs embed the sorted participant pair.
	for _, m := range first {
		lo, hi := m.SideA.ParticipantID, m.SideB.ParticipantID
		if hi < lo {
			lo, hi = hi, lo
		}
		assert.Equal(t, "summer-open_pool-a_"+lo+"_"+hi, m.ID)
	}
}

func TestGenerateMatches_DoubleRoundRobinLegSuffix(t *testing.T) {
	poolSet, err := AssignPools(ratedRoster(4), 4)
	require.NoError(t, err)

	matches := GenerateMatches("summer-open", poolSet, 2)
	require.Len(t, matches, 12)

	ids := map[string]bool{}
	leg2 := 0
	for _, m := range matches {
		assert.False(t, ids[m.ID], "duplicate match ID %s", m.ID)
		ids[m.ID] = true
		if strings.HasSuffix(m.ID, "_leg2") {
			leg2++
		}
	}
	assert.Equal(t, 6, leg2)
}

func TestGenerateMatches_OddPoolSkipsByes(t *testing.T) {
	poolSet, err := AssignPools(ratedRoster(3), 3)
	require.NoError(t, err)

	matches := GenerateMatches("summer-open", poolSet, 1)
	assert.Len(t, matches, 3) // 3 choose 2
	for _, m := range matches {
		require.NotNil(t, m.SideA)
		require.NotNil(t, m.SideB)
	}
}
