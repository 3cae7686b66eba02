package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

var (
	ErrDivisionNotFound = errors.New("division not found")

	// ErrGenerationLockHeld means another writer currently holds a live
	// generation lock for the division. Callers retry later; they never queue.
	ErrGenerationLockHeld = errors.New("generation already in progress for this division")
)

type DivisionRepository interface {
	Create(ctx context.Context, division *models.Division) error
	GetByID(ctx context.Context, id string) (*models.Division, error)
	List(ctx context.Context) ([]*models.Division, error)

	// AcquireGenerationLock performs the atomic idle->generating transition.
	// A live lock fails with ErrGenerationLockHeld; a lock older than
	// staleAfter is presumed crashed and taken over (takenOver=true so the
	// caller can log it).
	AcquireGenerationLock(ctx context.Context, id, by string, staleAfter time.Duration) (takenOver bool, err error)

	// MarkGenerated commits the lock: generating->generated, version bump,
	// who/when recorded. Runs inside the same transaction as the match batch.
	MarkGenerated(ctx context.Context, exec SQLExecutor, id, by string) error

	// ResetGenerationLock is the failure path back to idle.
	ResetGenerationLock(ctx context.Context, id string) error

	UpdateScheduleStatus(ctx context.Context, exec SQLExecutor, id string, status models.GenerationStatus) error
}

type postgresDivisionRepository struct {
	db *sql.DB
}

func NewPostgresDivisionRepository(db *sql.DB) DivisionRepository {
	return &postgresDivisionRepository{db: db}
}

func (r *postgresDivisionRepository) Create(ctx context.Context, division *models.Division) error {
	settingsJSON, err := json.Marshal(division.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal division settings: %w", err)
	}
	var venueJSON []byte
	if division.Venue != nil {
		if venueJSON, err = json.Marshal(division.Venue); err != nil {
			return fmt.Errorf("failed to marshal venue settings: %w", err)
		}
	}

	query := `
		INSERT INTO divisions
			(id, name, format, settings, venue, schedule_status, bracket_status, schedule_version)
		VALUES ($1, $2, $3, $4, $5, 'idle', 'idle', 0)
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		division.ID,
		division.Name,
		division.Format,
		settingsJSON,
		nullableBytes(venueJSON),
	).Scan(&division.CreatedAt)
}

func (r *postgresDivisionRepository) GetByID(ctx context.Context, id string) (*models.Division, error) {
	query := divisionSelect + ` WHERE id = $1`
	division, err := scanDivision(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to scan division %s: %w", id, err)
	}
	return division, nil
}

func (r *postgresDivisionRepository) List(ctx context.Context) ([]*models.Division, error) {
	rows, err := r.db.QueryContext(ctx, divisionSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query divisions: %w", err)
	}
	defer rows.Close()

	divisions := make([]*models.Division, 0)
	for rows.Next() {
		division, scanErr := scanDivision(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan division row: %w", scanErr)
		}
		divisions = append(divisions, division)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during division rows iteration: %w", err)
	}
	return divisions, nil
}

func (r *postgresDivisionRepository) AcquireGenerationLock(ctx context.Context, id, by string, staleAfter time.Duration) (bool, error) {
	// Advisory pre-read, only so a stale takeover can be logged. The
	// authoritative check-and-claim is the single conditional UPDATE below.
	var status models.GenerationStatus
	var lockedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT bracket_status, generated_at FROM divisions WHERE id = $1`, id,
	).Scan(&status, &lockedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrDivisionNotFound
		}
		return false, fmt.Errorf("failed to read lock state for division %s: %w", id, err)
	}
	takenOver := status == models.GenerationInProgress

	result, err := r.db.ExecContext(ctx, `
		UPDATE divisions
		SET bracket_status = 'generating', generated_by = $2, generated_at = NOW()
		WHERE id = $1
		  AND (bracket_status <> 'generating'
		       OR generated_at IS NULL
		       OR generated_at < NOW() - make_interval(secs => $3))`,
		id, by, staleAfter.Seconds(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to acquire generation lock for division %s: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrGenerationLockHeld); err != nil {
		return false, err
	}
	return takenOver, nil
}

func (r *postgresDivisionRepository) MarkGenerated(ctx context.Context, exec SQLExecutor, id, by string) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE divisions
		SET bracket_status = 'generated',
		    schedule_version = schedule_version + 1,
		    generated_by = $2,
		    generated_at = NOW()
		WHERE id = $1 AND bracket_status = 'generating'`,
		id, by,
	)
	if err != nil {
		return fmt.Errorf("failed to mark division %s generated: %w", id, err)
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}

func (r *postgresDivisionRepository) ResetGenerationLock(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE divisions SET bracket_status = 'idle'
		WHERE id = $1 AND bracket_status = 'generating'`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to reset generation lock for division %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}

func (r *postgresDivisionRepository) UpdateScheduleStatus(ctx context.Context, exec SQLExecutor, id string, status models.GenerationStatus) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE divisions SET schedule_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update schedule status for division %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}

const divisionSelect = `
	SELECT id, name, format, settings, venue, schedule_status, bracket_status,
	       schedule_version, generated_at, generated_by, created_at
	FROM divisions`

func scanDivision(row interface{ Scan(...interface{}) error }) (*models.Division, error) {
	var d models.Division
	var settingsJSON []byte
	var venueJSON []byte
	var generatedAt sql.NullTime
	var generatedBy sql.NullString

	err := row.Scan(
		&d.ID, &d.Name, &d.Format, &settingsJSON, &venueJSON,
		&d.ScheduleStatus, &d.BracketStatus, &d.ScheduleVersion,
		&generatedAt, &generatedBy, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &d.Settings); err != nil {
			return nil, fmt.Errorf("invalid settings JSON for division %s: %w", d.ID, err)
		}
	}
	if len(venueJSON) > 0 {
		d.Venue = &models.VenueSettings{}
		if err := json.Unmarshal(venueJSON, d.Venue); err != nil {
			return nil, fmt.Errorf("invalid venue JSON for division %s: %w", d.ID, err)
		}
	}
	if generatedAt.Valid {
		t := generatedAt.Time
		d.GeneratedAt = &t
	}
	if generatedBy.Valid {
		s := generatedBy.String
		d.GeneratedBy = &s
	}
	return &d, nil
}

func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
