package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	// UpsertBatch writes a generated match set keyed by canonical ID.
	// Regeneration is an unconditional overwrite, never delete-then-insert,
	// so a crash mid-write leaves a consistent previous generation.
	UpsertBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error

	GetByID(ctx context.Context, id string) (*models.Match, error)
	ListByDivision(ctx context.Context, divisionID string, stage *models.MatchStage) ([]*models.Match, error)

	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSides(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, division_id, stage, side_a, side_b, round, match_num, status, scores,
	winner_id, pool, bracket, court, time_slot, start_time, end_time,
	created_at, last_modified`

func (r *postgresMatchRepository) UpsertBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	query := `
		INSERT INTO matches
			(id, division_id, stage, side_a, side_b, round, match_num, status,
			 scores, winner_id, pool, bracket, court, time_slot, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			division_id = EXCLUDED.division_id,
			stage = EXCLUDED.stage,
			side_a = EXCLUDED.side_a,
			side_b = EXCLUDED.side_b,
			round = EXCLUDED.round,
			match_num = EXCLUDED.match_num,
			status = EXCLUDED.status,
			scores = EXCLUDED.scores,
			winner_id = EXCLUDED.winner_id,
			pool = EXCLUDED.pool,
			bracket = EXCLUDED.bracket,
			court = EXCLUDED.court,
			time_slot = EXCLUDED.time_slot,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			last_modified = NOW()`

	for _, m := range matches {
		sideA, sideB, scores, pool, bracket, err := marshalMatchJSON(m)
		if err != nil {
			return err
		}
		if _, err := exec.ExecContext(ctx, query,
			m.ID, m.DivisionID, m.Stage, sideA, sideB, m.Round, m.MatchNum,
			m.Status, scores, m.WinnerID, pool, bracket,
			m.Court, m.TimeSlot, m.StartTime, m.EndTime,
		); err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %s: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByDivision(ctx context.Context, divisionID string, stage *models.MatchStage) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT` + matchColumns + ` FROM matches WHERE division_id = $1`)

	args := []interface{}{divisionID}
	if stage != nil {
		queryBuilder.WriteString(" AND stage = $" + strconv.Itoa(len(args)+1))
		args = append(args, *stage)
	}
	queryBuilder.WriteString(" ORDER BY stage, round, match_num, id")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for division %s: %w", divisionID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	scores, err := json.Marshal(match.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores for match %s: %w", match.ID, err)
	}
	result, err := exec.ExecContext(ctx, `
		UPDATE matches
		SET status = $2, scores = $3, winner_id = $4, last_modified = NOW()
		WHERE id = $1`,
		match.ID, match.Status, scores, match.WinnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update result for match %s: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSides(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	sideA, err := marshalSide(match.SideA)
	if err != nil {
		return err
	}
	sideB, err := marshalSide(match.SideB)
	if err != nil {
		return err
	}
	result, err := exec.ExecContext(ctx, `
		UPDATE matches SET side_a = $2, side_b = $3, last_modified = NOW()
		WHERE id = $1`,
		match.ID, sideA, sideB,
	)
	if err != nil {
		return fmt.Errorf("failed to update sides for match %s: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE matches
		SET court = $2, time_slot = $3, start_time = $4, end_time = $5, last_modified = NOW()
		WHERE id = $1`,
		match.ID, match.Court, match.TimeSlot, match.StartTime, match.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule for match %s: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func marshalMatchJSON(m *models.Match) (sideA, sideB, scores, pool, bracket interface{}, err error) {
	if sideA, err = marshalSide(m.SideA); err != nil {
		return
	}
	if sideB, err = marshalSide(m.SideB); err != nil {
		return
	}
	var b []byte
	if b, err = json.Marshal(m.Scores); err != nil {
		err = fmt.Errorf("failed to marshal scores for match %s: %w", m.ID, err)
		return
	}
	scores = b
	if m.Pool != nil {
		if b, err = json.Marshal(m.Pool); err != nil {
			err = fmt.Errorf("failed to marshal pool slot for match %s: %w", m.ID, err)
			return
		}
		pool = b
	}
	if m.Bracket != nil {
		if b, err = json.Marshal(m.Bracket); err != nil {
			err = fmt.Errorf("failed to marshal bracket slot for match %s: %w", m.ID, err)
			return
		}
		bracket = b
	}
	return
}

func marshalSide(s *models.Side) (interface{}, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal match side: %w", err)
	}
	return b, nil
}

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	var sideA, sideB, scores, pool, bracket []byte
	var winnerID, court sql.NullString
	var timeSlot sql.NullInt64
	var startTime, endTime sql.NullTime

	err := row.Scan(
		&m.ID, &m.DivisionID, &m.Stage, &sideA, &sideB, &m.Round, &m.MatchNum,
		&m.Status, &scores, &winnerID, &pool, &bracket,
		&court, &timeSlot, &startTime, &endTime,
		&m.CreatedAt, &m.LastModified,
	)
	if err != nil {
		return nil, err
	}

	if len(sideA) > 0 {
		m.SideA = &models.Side{}
		if err := json.Unmarshal(sideA, m.SideA); err != nil {
			return nil, fmt.Errorf("invalid side_a JSON for match %s: %w", m.ID, err)
		}
	}
	if len(sideB) > 0 {
		m.SideB = &models.Side{}
		if err := json.Unmarshal(sideB, m.SideB); err != nil {
			return nil, fmt.Errorf("invalid side_b JSON for match %s: %w", m.ID, err)
		}
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &m.Scores); err != nil {
			return nil, fmt.Errorf("invalid scores JSON for match %s: %w", m.ID, err)
		}
	}
	if len(pool) > 0 {
		m.Pool = &models.PoolSlot{}
		if err := json.Unmarshal(pool, m.Pool); err != nil {
			return nil, fmt.Errorf("invalid pool JSON for match %s: %w", m.ID, err)
		}
	}
	if len(bracket) > 0 {
		m.Bracket = &models.BracketSlot{}
		if err := json.Unmarshal(bracket, m.Bracket); err != nil {
			return nil, fmt.Errorf("invalid bracket JSON for match %s: %w", m.ID, err)
		}
	}
	if winnerID.Valid {
		s := winnerID.String
		m.WinnerID = &s
	}
	if court.Valid {
		s := court.String
		m.Court = &s
	}
	if timeSlot.Valid {
		v := int(timeSlot.Int64)
		m.TimeSlot = &v
	}
	if startTime.Valid {
		t := startTime.Time
		m.StartTime = &t
	}
	if endTime.Valid {
		t := endTime.Time
		m.EndTime = &t
	}
	return &m, nil
}
