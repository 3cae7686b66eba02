package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

func completedPoolMatch(id, poolKey string, group int, winner, loser string) *models.Match {
	w := winner
	return &models.Match{
		ID:       id,
		Stage:    models.StagePool,
		Status:   models.MatchStatusCompleted,
		WinnerID: &w,
		Scores:   []models.GameScore{{A: 11, B: 7}},
		SideA:    &models.Side{ParticipantID: winner, Name: winner},
		SideB:    &models.Side{ParticipantID: loser, Name: loser},
		Pool:     &models.PoolSlot{Group: group, Key: poolKey},
	}
}

func TestGetDivisionStandings_RanksEachPool(t *testing.T) {
	divRepo := &fakeDivisionRepo{division: poolsDivision()}
	matchRepo := &fakeMatchRepo{matches: []*models.Match{
		completedPoolMatch("m1", "pool-a", 1, "p1", "p2"),
		completedPoolMatch("m2", "pool-a", 1, "p1", "p3"),
		completedPoolMatch("m3", "pool-a", 1, "p2", "p3"),
		completedPoolMatch("m4", "pool-b", 2, "p4", "p5"),
	}}
	svc := NewStandingsService(divRepo, matchRepo)

	tables, err := svc.GetDivisionStandings(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	poolA := tables[0]
	assert.Equal(t, "pool-a", poolA.PoolKey)
	assert.True(t, poolA.Complete)
	require.Len(t, poolA.Standings, 3)
	assert.Equal(t, "p1", poolA.Standings[0].ParticipantID)
	assert.Equal(t, 1, poolA.Standings[0].Rank)
	assert.Equal(t, 2, poolA.Standings[0].Wins)

	poolB := tables[1]
	assert.Equal(t, 2, poolB.PoolNumber)
	assert.True(t, poolB.Complete)
}

func TestGetDivisionStandings_IncompletePoolFlagged(t *testing.T) {
	pending := &models.Match{
		ID:     "m2",
		Stage:  models.StagePool,
		Status: models.MatchStatusScheduled,
		SideA:  &models.Side{ParticipantID: "p1", Name: "p1"},
		SideB:  &models.Side{ParticipantID: "p3", Name: "p3"},
		Pool:   &models.PoolSlot{Group: 1, Key: "pool-a"},
	}
	divRepo := &fakeDivisionRepo{division: poolsDivision()}
	matchRepo := &fakeMatchRepo{matches: []*models.Match{
		completedPoolMatch("m1", "pool-a", 1, "p1", "p2"),
		pending,
	}}
	svc := NewStandingsService(divRepo, matchRepo)

	tables, err := svc.GetDivisionStandings(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.False(t, tables[0].Complete)
}

func TestGetDivisionStandings_DivisionNotFound(t *testing.T) {
	svc := NewStandingsService(&fakeDivisionRepo{}, &fakeMatchRepo{})

	_, err := svc.GetDivisionStandings(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDivisionNotFound)
}
