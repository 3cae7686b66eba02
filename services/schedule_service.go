package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/brackets"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/repositories"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/scheduling"
)

type ScheduleService interface {
	// ScheduleDivision assigns courts and time slots to every unplayed match
	// in the division and persists the assignments. The partitioned result is
	// returned as-is so the operator sees exactly what did not fit and why.
	ScheduleDivision(ctx context.Context, divisionID string) (*scheduling.Result, error)

	// CheckCapacity reports how many teams the division's venue can carry in
	// a single round-robin session and which constraint binds.
	CheckCapacity(ctx context.Context, divisionID string) (*scheduling.CapacityReport, error)
}

type scheduleService struct {
	db              *sql.DB
	divisionRepo    repositories.DivisionRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:              db,
		divisionRepo:    divisionRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *scheduleService) ScheduleDivision(ctx context.Context, divisionID string) (*scheduling.Result, error) {
	division, venue, err := s.loadVenue(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	all, err := s.matchRepo.ListByDivision(ctx, divisionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for division %s: %w", divisionID, err)
	}
	pending := make([]*models.Match, 0, len(all))
	for _, m := range all {
		if m.Completed() || m.Status == models.MatchStatusBye {
			continue
		}
		pending = append(pending, m)
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: division %s has no unplayed matches to schedule", ErrNotFound, divisionID)
	}

	result, err := scheduling.Schedule(pending, venue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin schedule transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("failed to roll back schedule transaction", "division_id", divisionID, "error", rbErr)
			}
		}
	}()
	for _, m := range result.Scheduled {
		if err := s.matchRepo.UpdateSchedule(ctx, tx, m); err != nil {
			return nil, fmt.Errorf("failed to persist schedule for match %s: %w", m.ID, err)
		}
	}
	if err := s.divisionRepo.UpdateScheduleStatus(ctx, tx, divisionID, models.GenerationDone); err != nil {
		return nil, fmt.Errorf("failed to update schedule status for division %s: %w", divisionID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit schedule for division %s: %w", divisionID, err)
	}
	committed = true

	if s.hub != nil {
		s.hub.BroadcastToRoom(division.ID, brackets.WebSocketMessage{
			Type:    brackets.EventScheduleUpdated,
			RoomID:  division.ID,
			Payload: result,
		})
	}
	s.logger.Info("schedule committed",
		"division_id", divisionID,
		"scheduled", len(result.Scheduled),
		"unscheduled", len(result.Unscheduled),
		"success", result.Success)
	return result, nil
}

func (s *scheduleService) CheckCapacity(ctx context.Context, divisionID string) (*scheduling.CapacityReport, error) {
	_, venue, err := s.loadVenue(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	roster, err := s.participantRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for division %s: %w", divisionID, err)
	}
	report, err := scheduling.CheckTeamCapacity(len(roster), venue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return report, nil
}

func (s *scheduleService) loadVenue(ctx context.Context, divisionID string) (*models.Division, *models.VenueSettings, error) {
	division, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, nil, ErrDivisionNotFound
		}
		return nil, nil, fmt.Errorf("failed to load division %s: %w", divisionID, err)
	}
	if division.Venue == nil {
		return nil, nil, ErrNoVenueConfigured
	}
	return division, division.Venue, nil
}
