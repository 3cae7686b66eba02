package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/pools"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/repositories"
)

// PoolStandings is one pool's table, recomputed on every request. Standings
// are derived data; nothing here is ever read back as a source of truth.
type PoolStandings struct {
	PoolNumber int                `json:"pool_number"`
	PoolKey    string             `json:"pool_key"`
	Standings  []*models.Standing `json:"standings"`
	Complete   bool               `json:"complete"`
}

type StandingsService interface {
	GetDivisionStandings(ctx context.Context, divisionID string) ([]*PoolStandings, error)
}

type standingsService struct {
	divisionRepo repositories.DivisionRepository
	matchRepo    repositories.MatchRepository
}

func NewStandingsService(divisionRepo repositories.DivisionRepository, matchRepo repositories.MatchRepository) StandingsService {
	return &standingsService{
		divisionRepo: divisionRepo,
		matchRepo:    matchRepo,
	}
}

func (s *standingsService) GetDivisionStandings(ctx context.Context, divisionID string) ([]*PoolStandings, error) {
	var division *models.Division
	var poolMatches []*models.Match

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.divisionRepo.GetByID(gCtx, divisionID)
		if err != nil {
			if errors.Is(err, repositories.ErrDivisionNotFound) {
				return ErrDivisionNotFound
			}
			return fmt.Errorf("failed to load division %s: %w", divisionID, err)
		}
		division = d
		return nil
	})
	g.Go(func() error {
		stage := models.StagePool
		m, err := s.matchRepo.ListByDivision(gCtx, divisionID, &stage)
		if err != nil {
			return fmt.Errorf("failed to load pool matches for division %s: %w", divisionID, err)
		}
		poolMatches = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tiebreakers := division.Settings.Tiebreakers
	if len(tiebreakers) == 0 {
		tiebreakers = pools.DefaultTiebreakers()
	}

	poolSet := poolsFromMatches(poolMatches)
	tables := make([]*PoolStandings, 0, len(poolSet))
	for _, pool := range poolSet {
		tables = append(tables, &PoolStandings{
			PoolNumber: pool.Number,
			PoolKey:    pool.Key,
			Standings:  pools.ComputeStandings(pool, poolMatches, tiebreakers),
			Complete:   poolComplete(pool.Key, poolMatches),
		})
	}
	return tables, nil
}

func poolComplete(poolKey string, matches []*models.Match) bool {
	any := false
	for _, m := range matches {
		if m.Pool == nil || m.Pool.Key != poolKey {
			continue
		}
		any = true
		if !m.Completed() && m.Status != models.MatchStatusBye {
			return false
		}
	}
	return any
}
