package pools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

// rankedPool builds a pool plus standings whose ranks follow the given
// participant order (first = rank 1).
func rankedPool(number int, key string, ids ...string) (*models.Pool, []*models.Standing) {
	pool := &models.Pool{Number: number, Name: key, Key: key}
	standings := make([]*models.Standing, 0, len(ids))
	for rank, id := range ids {
		pool.Participants = append(pool.Participants, &models.Participant{ID: id, Name: id})
		standings = append(standings, &models.Standing{
			ParticipantID: id,
			Name:          id,
			PoolNumber:    number,
			PoolKey:       key,
			Wins:          len(ids) - rank,
			Rank:          rank + 1,
		})
	}
	return pool, standings
}

func slotIDs(slots []*models.Participant) []string {
	out := make([]string, len(slots))
	for i, p := range slots {
		if p == nil {
			out[i] = "-"
		} else {
			out[i] = p.ID
		}
	}
	return out
}

func TestSelectMainQualifiers_TwoPoolsCrossPaired(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2", "a3")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2", "b3")
	standings := map[string][]*models.Standing{"pool-a": standingsA, "pool-b": standingsB}

	slots, err := SelectMainQualifiers([]*models.Pool{poolA, poolB}, standings, 2, 0)
	require.NoError(t, err)

	// A winner never meets its own pool-mate in the opener.
	assert.Equal(t, []string{"a1", "b2", "b1", "a2"}, slotIDs(slots))
}

func TestSelectMainQualifiers_OnlyTopRanksQualify(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2", "a3", "a4")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2", "b3", "b4")
	standings := map[string][]*models.Standing{"pool-a": standingsA, "pool-b": standingsB}

	slots, err := SelectMainQualifiers([]*models.Pool{poolA, poolB}, standings, 2, 0)
	require.NoError(t, err)

	qualified := map[string]bool{}
	for _, p := range slots {
		require.NotNil(t, p)
		assert.False(t, qualified[p.ID], "participant %s qualified twice", p.ID)
		qualified[p.ID] = true
	}
	assert.Len(t, qualified, 4)
	for _, id := range []string{"a1", "a2", "b1", "b2"} {
		assert.True(t, qualified[id], "expected %s to qualify", id)
	}
	for _, id := range []string{"a3", "a4", "b3", "b4"} {
		assert.False(t, qualified[id], "%s finished below the cutoff", id)
	}

	// Standings are flagged in place.
	assert.True(t, standingsA[0].Qualified)
	assert.Equal(t, models.QualifiedTop, standingsA[0].QualifiedAs)
	assert.False(t, standingsA[2].Qualified)
}

func TestSelectMainQualifiers_OddPoolCountMiddleByes(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2")
	poolC, standingsC := rankedPool(3, "pool-c", "c1", "c2")
	standings := map[string][]*models.Standing{
		"pool-a": standingsA, "pool-b": standingsB, "pool-c": standingsC,
	}

	slots, err := SelectMainQualifiers([]*models.Pool{poolA, poolB, poolC}, standings, 2, 0)
	require.NoError(t, err)

	// Middle pool's winner and second each take a first-round bye.
	assert.Equal(t, []string{"a1", "c2", "c1", "a2", "b1", "-", "b2", "-"}, slotIDs(slots))
}

func TestSelectMainQualifiers_SinglePerPool(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2")
	standings := map[string][]*models.Standing{"pool-a": standingsA, "pool-b": standingsB}

	slots, err := SelectMainQualifiers([]*models.Pool{poolA, poolB}, standings, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b1"}, slotIDs(slots))
}

func TestSelectMainQualifiers_BestRemainingFillsBottom(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2", "a3")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2", "b3")
	standingsB[1].PointDiff = 10 // b2 is the stronger rank-2 finisher
	standings := map[string][]*models.Standing{"pool-a": standingsA, "pool-b": standingsB}

	slots, err := SelectMainQualifiers([]*models.Pool{poolA, poolB}, standings, 1, 1)
	require.NoError(t, err)

	require.Len(t, slots, 4)
	assert.Equal(t, "a1", slots[0].ID)
	assert.Equal(t, "b1", slots[1].ID)
	assert.Equal(t, "b2", slots[2].ID)
	assert.Nil(t, slots[3])

	for _, s := range standingsB {
		if s.ParticipantID == "b2" {
			assert.True(t, s.Qualified)
			assert.Equal(t, models.QualifiedBestRemaining, s.QualifiedAs)
		}
	}
}

func TestSelectMainQualifiers_RankOrderViolationFailsClosed(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2")
	standingsA[1].Rank = 1 // duplicate rank 1
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2")
	standings := map[string][]*models.Standing{"pool-a": standingsA, "pool-b": standingsB}

	_, err := SelectMainQualifiers([]*models.Pool{poolA, poolB}, standings, 2, 0)
	assert.ErrorIs(t, err, ErrRankOrderViolation)
}

func TestSelectMainQualifiers_TooFewQualifiers(t *testing.T) {
	slots, err := SelectMainQualifiers(nil, nil, 2, 0)
	require.NoError(t, err)
	assert.Nil(t, slots)
}

func TestSelectPlateQualifiers_CrossSeededByRankGroup(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2", "a3", "a4")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2", "b3", "b4")
	standings := map[string][]*models.Standing{"pool-a": standingsA, "pool-b": standingsB}

	slots, err := SelectPlateQualifiers([]*models.Pool{poolA, poolB}, standings, 3, 2)
	require.NoError(t, err)

	// Rank-3 group cross-seeded, then rank-4 group.
	assert.Equal(t, []string{"a3", "b3", "a4", "b4"}, slotIDs(slots))

	for _, s := range standingsA {
		if s.ParticipantID == "a3" || s.ParticipantID == "a4" {
			assert.True(t, s.QualifiedForPlate)
		} else {
			assert.False(t, s.QualifiedForPlate)
		}
	}
}

func TestSelectPlateQualifiers_SkipsShortPools(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2", "a3")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2") // no rank 3
	standings := map[string][]*models.Standing{"pool-a": standingsA, "pool-b": standingsB}

	slots, err := SelectPlateQualifiers([]*models.Pool{poolA, poolB}, standings, 3, 1)
	require.NoError(t, err)
	// Only one plate qualifier exists, so there is no bracket to build.
	assert.Nil(t, slots)
}

func TestSelectPlateQualifiers_OddGroupGetsBye(t *testing.T) {
	poolA, standingsA := rankedPool(1, "pool-a", "a1", "a2", "a3")
	poolB, standingsB := rankedPool(2, "pool-b", "b1", "b2", "b3")
	poolC, standingsC := rankedPool(3, "pool-c", "c1", "c2", "c3")
	standings := map[string][]*models.Standing{
		"pool-a": standingsA, "pool-b": standingsB, "pool-c": standingsC,
	}

	slots, err := SelectPlateQualifiers([]*models.Pool{poolA, poolB, poolC}, standings, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a3", "c3", "b3", "-"}, slotIDs(slots))
}
