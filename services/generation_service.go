package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/brackets"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/identity"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/pools"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/repositories"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/storage"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/validation"
)

// DefaultLockTimeout is how old a "generating" mark must be before another
// writer may presume the holder crashed and take the lock over.
const DefaultLockTimeout = 2 * time.Minute

// GenerationOutcome is what a successful generation run returns to the
// caller: the committed match set plus any non-fatal validation warnings.
type GenerationOutcome struct {
	Division *models.Division `json:"division"`
	Pools    []*models.Pool   `json:"pools,omitempty"`
	Matches  []*models.Match  `json:"matches"`
	Warnings []string         `json:"warnings,omitempty"`
}

type GenerationService interface {
	// GenerateDivision builds the division's opening stage from the roster:
	// pool play for pools_knockout, a full round robin for round_robin, or a
	// seeded bracket for single_elimination. Safe to call again; regeneration
	// overwrites the previous set match-by-match under canonical IDs.
	GenerateDivision(ctx context.Context, divisionID, generatedBy string) (*GenerationOutcome, error)

	// GenerateKnockout builds the main (and optional plate) elimination
	// bracket from completed pool play. Fails before any write if pool play
	// is incomplete or standings carry inconsistent ranks.
	GenerateKnockout(ctx context.Context, divisionID, generatedBy string) (*GenerationOutcome, error)
}

type generationService struct {
	db              *sql.DB
	divisionRepo    repositories.DivisionRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	hub             *brackets.Hub
	publisher       storage.SnapshotPublisher
	logger          *slog.Logger
	lockTimeout     time.Duration
}

func NewGenerationService(
	db *sql.DB,
	divisionRepo repositories.DivisionRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	publisher storage.SnapshotPublisher,
	logger *slog.Logger,
	lockTimeout time.Duration,
) GenerationService {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &generationService{
		db:              db,
		divisionRepo:    divisionRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		publisher:       publisher,
		logger:          logger,
		lockTimeout:     lockTimeout,
	}
}

func (s *generationService) GenerateDivision(ctx context.Context, divisionID, generatedBy string) (*GenerationOutcome, error) {
	division, err := s.loadDivision(ctx, divisionID)
	if err != nil {
		return nil, err
	}

	roster, warnings, err := s.loadRoster(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	if len(roster) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, have %d", ErrNotEnoughParticipants, len(roster))
	}

	if err := s.acquireLock(ctx, divisionID, generatedBy); err != nil {
		return nil, err
	}

	outcome, err := s.buildOpeningStage(division, roster)
	if err != nil {
		s.releaseLock(ctx, divisionID)
		return nil, err
	}
	outcome.Warnings = append(warnings, outcome.Warnings...)

	if err := s.commit(ctx, division, outcome.Matches, generatedBy); err != nil {
		s.releaseLock(ctx, divisionID)
		return nil, err
	}

	s.afterCommit(ctx, division, outcome)
	return outcome, nil
}

func (s *generationService) GenerateKnockout(ctx context.Context, divisionID, generatedBy string) (*GenerationOutcome, error) {
	division, err := s.loadDivision(ctx, divisionID)
	if err != nil {
		return nil, err
	}
	if division.Format != models.FormatPoolsKnockout {
		return nil, fmt.Errorf("%w: division format %q has no knockout stage", ErrValidationFailed, division.Format)
	}

	stage := models.StagePool
	poolMatches, err := s.matchRepo.ListByDivision(ctx, divisionID, &stage)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool matches for division %s: %w", divisionID, err)
	}
	if len(poolMatches) == 0 {
		return nil, fmt.Errorf("%w: no pool matches have been generated", ErrPoolsNotComplete)
	}
	for _, m := range poolMatches {
		if !m.Completed() && m.Status != models.MatchStatusBye {
			return nil, fmt.Errorf("%w: match %s has no result", ErrPoolsNotComplete, m.ID)
		}
	}

	poolSet := poolsFromMatches(poolMatches)
	tiebreakers := division.Settings.Tiebreakers
	if len(tiebreakers) == 0 {
		tiebreakers = pools.DefaultTiebreakers()
	}
	standingsByPool := make(map[string][]*models.Standing, len(poolSet))
	for _, pool := range poolSet {
		standingsByPool[pool.Key] = pools.ComputeStandings(pool, poolMatches, tiebreakers)
	}

	if err := s.acquireLock(ctx, divisionID, generatedBy); err != nil {
		return nil, err
	}

	outcome, err := s.buildKnockout(division, poolSet, standingsByPool)
	if err != nil {
		s.releaseLock(ctx, divisionID)
		return nil, err
	}

	if err := s.commit(ctx, division, outcome.Matches, generatedBy); err != nil {
		s.releaseLock(ctx, divisionID)
		return nil, err
	}

	s.afterCommit(ctx, division, outcome)
	return outcome, nil
}

func (s *generationService) buildOpeningStage(division *models.Division, roster []*models.Participant) (*GenerationOutcome, error) {
	settings := division.Settings
	legs := settings.RoundRobinRounds
	if legs < 1 {
		legs = 1
	}

	switch division.Format {
	case models.FormatPoolsKnockout:
		poolSet, err := pools.AssignPools(roster, settings.PoolSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return s.buildPoolMatches(division, poolSet, roster, settings.PoolSize, legs)

	case models.FormatRoundRobin:
		// One pool holding everyone; the pool machinery handles the rest.
		pool := &models.Pool{
			Number:       1,
			Name:         "Round Robin",
			Key:          identity.PoolKey("Round Robin"),
			Participants: brackets.SeedParticipants(roster, false),
		}
		return s.buildPoolMatches(division, []*models.Pool{pool}, roster, len(roster), legs)

	case models.FormatSingleElimination:
		result, err := brackets.GenerateSingleElimination(roster, brackets.EliminationOptions{
			DivisionID:      division.ID,
			BracketType:     models.BracketMain,
			ThirdPlaceMatch: settings.ThirdPlaceMatch,
		})
		if err != nil {
			if errors.Is(err, brackets.ErrNotEnoughParticipants) {
				return nil, fmt.Errorf("%w: %v", ErrNotEnoughParticipants, err)
			}
			return nil, err
		}
		vr := validation.ValidateBracketMatches(division.ID, result.Matches)
		if err := s.checkValidation(division.ID, "bracket", vr); err != nil {
			return nil, err
		}
		return &GenerationOutcome{Division: division, Matches: result.Matches, Warnings: vr.Warnings}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported division format %q", ErrValidationFailed, division.Format)
	}
}

func (s *generationService) buildPoolMatches(division *models.Division, poolSet []*models.Pool, roster []*models.Participant, targetPoolSize, legs int) (*GenerationOutcome, error) {
	pv := validation.ValidatePools(poolSet, roster, targetPoolSize)
	if err := s.checkValidation(division.ID, "pools", pv); err != nil {
		return nil, err
	}

	matches := pools.GenerateMatches(division.ID, poolSet, legs)
	mv := validation.ValidateMatches(division.ID, poolSet, matches, legs)
	if err := s.checkValidation(division.ID, "pool matches", mv); err != nil {
		return nil, err
	}

	warnings := append(append([]string{}, pv.Warnings...), mv.Warnings...)
	return &GenerationOutcome{Division: division, Pools: poolSet, Matches: matches, Warnings: warnings}, nil
}

func (s *generationService) buildKnockout(division *models.Division, poolSet []*models.Pool, standingsByPool map[string][]*models.Standing) (*GenerationOutcome, error) {
	settings := division.Settings

	mainSlots, err := pools.SelectMainQualifiers(poolSet, standingsByPool, settings.QualifiersPerPool, settings.BestRemaining)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if mainSlots == nil {
		return nil, fmt.Errorf("%w: fewer than 2 main-bracket qualifiers", ErrNotEnoughParticipants)
	}

	mainResult, err := brackets.GenerateSingleElimination(mainSlots, brackets.EliminationOptions{
		DivisionID:      division.ID,
		BracketType:     models.BracketMain,
		PreserveOrder:   true,
		ThirdPlaceMatch: settings.ThirdPlaceMatch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate main bracket for division %s: %w", division.ID, err)
	}
	matches := mainResult.Matches

	if settings.PlateEnabled {
		count := settings.EffectivePlateQualifiers()
		plateSlots, err := pools.SelectPlateQualifiers(poolSet, standingsByPool, settings.QualifiersPerPool+1, count)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		if plateSlots != nil {
			plateResult, err := brackets.GenerateSingleElimination(plateSlots, brackets.EliminationOptions{
				DivisionID:    division.ID,
				BracketType:   models.BracketPlate,
				PreserveOrder: true,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to generate plate bracket for division %s: %w", division.ID, err)
			}
			matches = append(matches, plateResult.Matches...)
		}
	}

	vr := validation.ValidateBracketMatches(division.ID, matches)
	if err := s.checkValidation(division.ID, "knockout", vr); err != nil {
		return nil, err
	}
	return &GenerationOutcome{Division: division, Pools: poolSet, Matches: matches, Warnings: vr.Warnings}, nil
}

func (s *generationService) loadDivision(ctx context.Context, divisionID string) (*models.Division, error) {
	division, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to load division %s: %w", divisionID, err)
	}
	return division, nil
}

// loadRoster fetches the division roster and drops duplicate entries instead
// of letting one participant occupy two draw slots.
func (s *generationService) loadRoster(ctx context.Context, divisionID string) ([]*models.Participant, []string, error) {
	roster, err := s.participantRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load roster for division %s: %w", divisionID, err)
	}
	if len(roster) == 0 {
		return nil, nil, ErrRosterEmpty
	}

	seen := make(map[string]bool, len(roster))
	deduped := roster[:0]
	var warnings []string
	for _, p := range roster {
		if seen[p.ID] {
			warning := fmt.Sprintf("duplicate roster entry %s (%s) dropped", p.ID, p.Name)
			warnings = append(warnings, warning)
			s.logger.Warn("duplicate roster entry dropped", "division_id", divisionID, "participant_id", p.ID)
			continue
		}
		seen[p.ID] = true
		deduped = append(deduped, p)
	}
	return deduped, warnings, nil
}

func (s *generationService) acquireLock(ctx context.Context, divisionID, generatedBy string) error {
	takenOver, err := s.divisionRepo.AcquireGenerationLock(ctx, divisionID, generatedBy, s.lockTimeout)
	if err != nil {
		if errors.Is(err, repositories.ErrGenerationLockHeld) {
			return ErrGenerationInProgress
		}
		return fmt.Errorf("failed to acquire generation lock for division %s: %w", divisionID, err)
	}
	if takenOver {
		s.logger.Warn("took over a stale generation lock",
			"division_id", divisionID,
			"generated_by", generatedBy,
			"stale_after", s.lockTimeout)
	}
	return nil
}

// releaseLock is the failure path back to idle. Best effort: the lock would
// age out through the stale takeover anyway, so a failed reset is logged and
// the original error stays the one the caller sees.
func (s *generationService) releaseLock(ctx context.Context, divisionID string) {
	if err := s.divisionRepo.ResetGenerationLock(ctx, divisionID); err != nil {
		s.logger.Error("failed to reset generation lock", "division_id", divisionID, "error", err)
	}
}

// commit writes the generated set and the generated mark in one transaction.
// A crash anywhere before Commit leaves the previous generation intact and
// the lock reclaimable via the stale timeout.
func (s *generationService) commit(ctx context.Context, division *models.Division, matches []*models.Match, generatedBy string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin generation transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("failed to roll back generation transaction", "division_id", division.ID, "error", rbErr)
			}
		}
	}()

	if err := s.matchRepo.UpsertBatch(ctx, tx, matches); err != nil {
		return fmt.Errorf("failed to persist generated matches for division %s: %w", division.ID, err)
	}
	if err := s.divisionRepo.MarkGenerated(ctx, tx, division.ID, generatedBy); err != nil {
		return fmt.Errorf("failed to mark division %s generated: %w", division.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generation for division %s: %w", division.ID, err)
	}
	committed = true

	division.BracketStatus = models.GenerationDone
	division.ScheduleVersion++
	now := time.Now()
	division.GeneratedAt = &now
	by := generatedBy
	division.GeneratedBy = &by
	return nil
}

func snapshotKey(divisionID string, version int) string {
	return fmt.Sprintf("divisions/%s/bracket-v%d.json", divisionID, version)
}

// afterCommit publishes the snapshot, prunes the previous version's document
// and pushes the websocket event. All best effort; the generation is already
// durable.
func (s *generationService) afterCommit(ctx context.Context, division *models.Division, outcome *GenerationOutcome) {
	if s.publisher != nil {
		key := snapshotKey(division.ID, division.ScheduleVersion)
		if location, err := s.publisher.PublishSnapshot(ctx, key, outcome); err != nil {
			s.logger.Error("failed to publish bracket snapshot", "division_id", division.ID, "key", key, "error", err)
		} else {
			s.logger.Info("published bracket snapshot", "division_id", division.ID, "location", location)
			if division.ScheduleVersion > 1 {
				stale := snapshotKey(division.ID, division.ScheduleVersion-1)
				if err := s.publisher.DiscardSnapshot(ctx, stale); err != nil {
					s.logger.Warn("failed to discard superseded bracket snapshot", "division_id", division.ID, "key", stale, "error", err)
				}
			}
		}
	}
	if s.hub != nil {
		s.hub.BroadcastToRoom(division.ID, brackets.WebSocketMessage{
			Type:    brackets.EventBracketGenerated,
			RoomID:  division.ID,
			Payload: outcome,
		})
	}
	s.logger.Info("generation committed",
		"division_id", division.ID,
		"matches", len(outcome.Matches),
		"schedule_version", division.ScheduleVersion,
		"warnings", len(outcome.Warnings))
}

func (s *generationService) checkValidation(divisionID, phase string, vr *validation.Result) error {
	for _, w := range vr.Warnings {
		s.logger.Warn("generation validation warning", "division_id", divisionID, "phase", phase, "warning", w)
	}
	if vr.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrValidationFailed, phase, strings.Join(vr.Errors, "; "))
}

// poolsFromMatches rebuilds the pool layout from persisted pool matches.
// Sides snapshots carry everything standings need; ratings are not involved
// once pool play exists.
func poolsFromMatches(matches []*models.Match) []*models.Pool {
	byKey := make(map[string]*models.Pool)
	var order []string
	for _, m := range matches {
		if m.Pool == nil {
			continue
		}
		pool, ok := byKey[m.Pool.Key]
		if !ok {
			pool = &models.Pool{Number: m.Pool.Group, Name: m.Pool.Key, Key: m.Pool.Key}
			byKey[m.Pool.Key] = pool
			order = append(order, m.Pool.Key)
		}
		for _, side := range []*models.Side{m.SideA, m.SideB} {
			if side == nil || containsParticipant(pool.Participants, side.ParticipantID) {
				continue
			}
			pool.Participants = append(pool.Participants, &models.Participant{
				ID:        side.ParticipantID,
				Name:      side.Name,
				PlayerIDs: side.PlayerIDs,
			})
		}
	}

	poolSet := make([]*models.Pool, 0, len(order))
	for _, key := range order {
		poolSet = append(poolSet, byKey[key])
	}
	return poolSet
}

func containsParticipant(participants []*models.Participant, id string) bool {
	for _, p := range participants {
		if p.ID == id {
			return true
		}
	}
	return false
}
