package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

func ratedField(n int) []*models.Participant {
	participants := make([]*models.Participant, n)
	for i := 0; i < n; i++ {
		rating := float64(n - i) // p1 strongest
		participants[i] = &models.Participant{
			ID:     fmt.Sprintf("p%d", i+1),
			Name:   fmt.Sprintf("Team %d", i+1),
			Rating: &rating,
		}
	}
	return participants
}

func mainOpts(divisionID string) EliminationOptions {
	return EliminationOptions{DivisionID: divisionID, BracketType: models.BracketMain}
}

func TestGenerateSingleElimination_FullBracketOfEight(t *testing.T) {
	result, err := GenerateSingleElimination(ratedField(8), mainOpts("d1"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rounds)
	assert.Equal(t, 8, result.BracketSize)
	require.Len(t, result.Matches, 7)

	// First round pairs follow the seed layout: 1v8, 4v5, 2v7, 3v6.
	firstRound := result.Matches[:4]
	assert.Equal(t, "p1", firstRound[0].SideA.ParticipantID)
	assert.Equal(t, "p8", firstRound[0].SideB.ParticipantID)
	assert.Equal(t, "p4", firstRound[1].SideA.ParticipantID)
	assert.Equal(t, "p5", firstRound[1].SideB.ParticipantID)
	assert.Equal(t, "p2", firstRound[2].SideA.ParticipantID)
	assert.Equal(t, "p7", firstRound[2].SideB.ParticipantID)
	assert.Equal(t, "p3", firstRound[3].SideA.ParticipantID)
	assert.Equal(t, "p6", firstRound[3].SideB.ParticipantID)
}

func TestGenerateSingleElimination_TopSeedsSeparatedUntilFinal(t *testing.T) {
	result, err := GenerateSingleElimination(ratedField(8), mainOpts("d1"))
	require.NoError(t, err)

	// Walk p1's and p2's paths: they must not share a match before the final.
	final := result.Graph[7]
	require.NotNil(t, final)

	path := func(startPos int) []string {
		var ids []string
		pos := startPos
		for {
			m := result.Graph[pos]
			ids = append(ids, m.ID)
			if m.Bracket.NextMatchID == nil {
				return ids
			}
			found := false
			for p, next := range result.Graph {
				if next.ID == *m.Bracket.NextMatchID {
					pos = p
					found = true
					break
				}
			}
			require.True(t, found)
		}
	}

	p1Path := path(1) // p1 opens at position 1
	p2Path := path(3) // p2 opens at position 3

	shared := map[string]bool{}
	for _, id := range p1Path {
		shared[id] = true
	}
	var meetings []string
	for _, id := range p2Path {
		if shared[id] {
			meetings = append(meetings, id)
		}
	}
	require.Len(t, meetings, 1, "seeds 1 and 2 share exactly one match")
	assert.Equal(t, final.ID, meetings[0])
}

func TestGenerateSingleElimination_ByesGoToTopSeeds(t *testing.T) {
	result, err := GenerateSingleElimination(ratedField(6), mainOpts("d1"))
	require.NoError(t, err)

	assert.Equal(t, 8, result.BracketSize)

	// Seeds 1 and 2 face the missing seeds 8 and 7, so both open with a bye
	// and stand resolved in the semifinals.
	byes := 0
	for _, m := range result.Graph {
		if m.Status == models.MatchStatusBye {
			byes++
			require.NotNil(t, m.WinnerID)
			assert.Contains(t, []string{"p1", "p2"}, *m.WinnerID)
		}
	}
	assert.Equal(t, 2, byes)

	// Byes never reach the playable match list.
	for _, m := range result.Matches {
		assert.NotEqual(t, models.MatchStatusBye, m.Status)
	}

	semis := []*models.Match{result.Graph[5], result.Graph[6]}
	resolved := map[string]bool{}
	for _, sf := range semis {
		require.NotNil(t, sf)
		if sf.SideA != nil {
			resolved[sf.SideA.ParticipantID] = true
		}
		if sf.SideB != nil {
			resolved[sf.SideB.ParticipantID] = true
		}
	}
	assert.True(t, resolved["p1"])
	assert.True(t, resolved["p2"])
}

func TestGenerateSingleElimination_BronzeWiredFromSemifinals(t *testing.T) {
	opts := mainOpts("d1")
	opts.ThirdPlaceMatch = true
	result, err := GenerateSingleElimination(ratedField(4), opts)
	require.NoError(t, err)

	require.Len(t, result.Matches, 4) // 2 semifinals, final, bronze

	bronze := result.Matches[len(result.Matches)-1]
	assert.Equal(t, "d1_main_third", bronze.ID)
	assert.Equal(t, 2, bronze.MatchNum)

	slots := map[int]bool{}
	for _, m := range result.Matches[:2] {
		require.NotNil(t, m.Bracket.LoserNextMatchID)
		assert.Equal(t, bronze.ID, *m.Bracket.LoserNextMatchID)
		require.NotNil(t, m.Bracket.LoserNextMatchSlot)
		slots[*m.Bracket.LoserNextMatchSlot] = true
	}
	assert.True(t, slots[1])
	assert.True(t, slots[2])
}

func TestGenerateSingleElimination_PreserveOrderKeepsSlotLayout(t *testing.T) {
	a := &models.Participant{ID: "a", Name: "a"}
	b := &models.Participant{ID: "b", Name: "b"}
	c := &models.Participant{ID: "c", Name: "c"}

	result, err := GenerateSingleElimination(
		[]*models.Participant{a, b, c, nil},
		EliminationOptions{DivisionID: "d1", BracketType: models.BracketMain, PreserveOrder: true},
	)
	require.NoError(t, err)

	// a meets b in the opener regardless of ratings; c opens with a bye.
	require.Len(t, result.Matches, 2)
	opener := result.Matches[0]
	assert.Equal(t, "a", opener.SideA.ParticipantID)
	assert.Equal(t, "b", opener.SideB.ParticipantID)

	final := result.Matches[1]
	assert.Nil(t, final.SideA)
	require.NotNil(t, final.SideB)
	assert.Equal(t, "c", final.SideB.ParticipantID)

	require.NotNil(t, opener.Bracket.NextMatchID)
	assert.Equal(t, final.ID, *opener.Bracket.NextMatchID)
	assert.Equal(t, 1, *opener.Bracket.NextMatchSlot)
}

func TestGenerateSingleElimination_DeterministicIDs(t *testing.T) {
	first, err := GenerateSingleElimination(ratedField(6), mainOpts("d1"))
	require.NoError(t, err)
	second, err := GenerateSingleElimination(ratedField(6), mainOpts("d1"))
	require.NoError(t, err)

	require.Len(t, second.Matches, len(first.Matches))
	for i := range first.Matches {
		assert.Equal(t, first.Matches[i].ID, second.Matches[i].ID)
	}
}

func TestGenerateSingleElimination_NotEnoughParticipants(t *testing.T) {
	_, err := GenerateSingleElimination(ratedField(1), mainOpts("d1"))
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)

	_, err = GenerateSingleElimination([]*models.Participant{nil, nil}, mainOpts("d1"))
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
}
