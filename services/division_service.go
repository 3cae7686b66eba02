package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/repositories"
)

type CreateDivisionInput struct {
	Name     string                `json:"name"`
	Format   models.DivisionFormat `json:"format"`
	Settings models.FormatSettings `json:"settings"`
	Venue    *models.VenueSettings `json:"venue,omitempty"`
}

type ParticipantInput struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	PlayerIDs []string `json:"player_ids"`
	Rating    *float64 `json:"rating,omitempty"`
}

type DivisionService interface {
	Create(ctx context.Context, input CreateDivisionInput) (*models.Division, error)
	Get(ctx context.Context, divisionID string) (*models.Division, error)
	List(ctx context.Context) ([]*models.Division, error)

	// AddParticipants upserts roster entries by ID in one transaction.
	AddParticipants(ctx context.Context, divisionID string, inputs []ParticipantInput) ([]*models.Participant, error)
	ListParticipants(ctx context.Context, divisionID string) ([]*models.Participant, error)
	ListMatches(ctx context.Context, divisionID string, stage *models.MatchStage) ([]*models.Match, error)
}

type divisionService struct {
	db              *sql.DB
	divisionRepo    repositories.DivisionRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	logger          *slog.Logger
}

func NewDivisionService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) DivisionService {
	return &divisionService{
		db:              db,
		divisionRepo:    divisionRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		logger:          logger,
	}
}

func (s *divisionService) Create(ctx context.Context, input CreateDivisionInput) (*models.Division, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: division name is required", ErrValidationFailed)
	}
	switch input.Format {
	case models.FormatPoolsKnockout:
		if input.Settings.PoolSize < 2 {
			return nil, fmt.Errorf("%w: pool size must be at least 2", ErrValidationFailed)
		}
		if input.Settings.QualifiersPerPool < 1 || input.Settings.QualifiersPerPool > 2 {
			return nil, fmt.Errorf("%w: qualifiers per pool must be 1 or 2", ErrValidationFailed)
		}
	case models.FormatRoundRobin, models.FormatSingleElimination:
	default:
		return nil, fmt.Errorf("%w: unknown division format %q", ErrValidationFailed, input.Format)
	}

	division := &models.Division{
		ID:       slug.Make(input.Name),
		Name:     input.Name,
		Format:   input.Format,
		Settings: input.Settings,
		Venue:    input.Venue,
	}
	if err := s.divisionRepo.Create(ctx, division); err != nil {
		return nil, fmt.Errorf("failed to create division %s: %w", division.ID, err)
	}
	s.logger.Info("division created", "division_id", division.ID, "format", division.Format)
	return division, nil
}

func (s *divisionService) Get(ctx context.Context, divisionID string) (*models.Division, error) {
	division, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to load division %s: %w", divisionID, err)
	}
	return division, nil
}

func (s *divisionService) List(ctx context.Context) ([]*models.Division, error) {
	divisions, err := s.divisionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	return divisions, nil
}

func (s *divisionService) AddParticipants(ctx context.Context, divisionID string, inputs []ParticipantInput) ([]*models.Participant, error) {
	if _, err := s.Get(ctx, divisionID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no participants provided", ErrValidationFailed)
	}

	participants := make([]*models.Participant, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return nil, fmt.Errorf("%w: participant name is required", ErrValidationFailed)
		}
		id := in.ID
		if id == "" {
			id = slug.Make(divisionID + "-" + in.Name)
		}
		participants = append(participants, &models.Participant{
			ID:         id,
			DivisionID: divisionID,
			Name:       in.Name,
			PlayerIDs:  in.PlayerIDs,
			Rating:     in.Rating,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin roster transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("failed to roll back roster transaction", "division_id", divisionID, "error", rbErr)
			}
		}
	}()
	if err := s.participantRepo.CreateBatch(ctx, tx, participants); err != nil {
		return nil, fmt.Errorf("failed to persist roster for division %s: %w", divisionID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit roster for division %s: %w", divisionID, err)
	}
	committed = true
	return participants, nil
}

func (s *divisionService) ListParticipants(ctx context.Context, divisionID string) ([]*models.Participant, error) {
	participants, err := s.participantRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for division %s: %w", divisionID, err)
	}
	return participants, nil
}

func (s *divisionService) ListMatches(ctx context.Context, divisionID string, stage *models.MatchStage) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByDivision(ctx, divisionID, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for division %s: %w", divisionID, err)
	}
	return matches, nil
}
