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
)

// ReportResultInput records one finished match. Forfeit results may carry no
// game scores; a played result must name a winner that is a side of the
// match.
type ReportResultInput struct {
	Scores   []models.GameScore `json:"scores"`
	WinnerID string             `json:"winner_id"`
	Forfeit  bool               `json:"forfeit"`
}

type ResultService interface {
	// ReportResult records the outcome of a match. For bracket matches the
	// winner advances into the next round's slot and a semifinal loser drops
	// into the bronze match; every touched match is persisted in the same
	// transaction as the result.
	ReportResult(ctx context.Context, matchID string, input ReportResultInput) (*models.Match, error)
}

type resultService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewResultService(db *sql.DB, matchRepo repositories.MatchRepository, hub *brackets.Hub, logger *slog.Logger) ResultService {
	return &resultService{
		db:        db,
		matchRepo: matchRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *resultService) ReportResult(ctx context.Context, matchID string, input ReportResultInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	if match.Completed() {
		return nil, ErrMatchAlreadyComplete
	}
	if match.SideA == nil || match.SideB == nil {
		return nil, ErrMatchSidesNotSet
	}
	if input.WinnerID != match.SideA.ParticipantID && input.WinnerID != match.SideB.ParticipantID {
		return nil, ErrWinnerNotInMatch
	}
	if !input.Forfeit && len(input.Scores) == 0 {
		return nil, fmt.Errorf("%w: a played result needs at least one game score", ErrValidationFailed)
	}

	match.Scores = input.Scores
	winnerID := input.WinnerID
	match.WinnerID = &winnerID
	if input.Forfeit {
		match.Status = models.MatchStatusForfeit
	} else {
		match.Status = models.MatchStatusCompleted
	}

	touched, err := s.advance(ctx, match, winnerID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin result transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("failed to roll back result transaction", "match_id", matchID, "error", rbErr)
			}
		}
	}()

	if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to persist result for match %s: %w", matchID, err)
	}
	for _, t := range touched {
		if err := s.matchRepo.UpdateSides(ctx, tx, t); err != nil {
			return nil, fmt.Errorf("failed to persist advancement into match %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit result for match %s: %w", matchID, err)
	}
	committed = true

	if s.hub != nil {
		s.hub.BroadcastToRoom(match.DivisionID, brackets.WebSocketMessage{
			Type:    brackets.EventMatchUpdated,
			RoomID:  match.DivisionID,
			Payload: match,
		})
		for _, t := range touched {
			s.hub.BroadcastToRoom(match.DivisionID, brackets.WebSocketMessage{
				Type:    brackets.EventMatchUpdated,
				RoomID:  match.DivisionID,
				Payload: t,
			})
		}
	}
	return match, nil
}

// advance resolves bracket follow-on slots for a completed bracket match.
// Pool results have no graph to walk; standings pick the movement up on the
// next recompute.
func (s *resultService) advance(ctx context.Context, match *models.Match, winnerID string) ([]*models.Match, error) {
	if match.Stage != models.StageBracket || match.Bracket == nil {
		return nil, nil
	}
	if match.Bracket.NextMatchID == nil && match.Bracket.LoserNextMatchID == nil {
		return nil, nil
	}

	stage := models.StageBracket
	bracketMatches, err := s.matchRepo.ListByDivision(ctx, match.DivisionID, &stage)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket for division %s: %w", match.DivisionID, err)
	}
	byID := make(map[string]*models.Match, len(bracketMatches))
	for _, m := range bracketMatches {
		byID[m.ID] = m
	}
	// Advancement writes into the loaded copies, so the completed match's own
	// loaded copy must be swapped for the one carrying the new result.
	byID[match.ID] = match

	touched, err := brackets.AdvanceWinner(byID, match, winnerID)
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrWinnerNotInMatch):
			return nil, ErrWinnerNotInMatch
		case errors.Is(err, brackets.ErrMatchSidesTBD):
			return nil, ErrMatchSidesNotSet
		}
		return nil, fmt.Errorf("failed to advance winner from match %s: %w", match.ID, err)
	}
	return touched, nil
}
