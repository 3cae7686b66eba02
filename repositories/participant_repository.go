package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error
	GetByID(ctx context.Context, id string) (*models.Participant, error)
	ListByDivision(ctx context.Context, divisionID string) ([]*models.Participant, error)
	Delete(ctx context.Context, id string) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (id, division_id, name, player_ids, rating, seed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.DivisionID, p.Name, pq.Array(p.PlayerIDs), p.Rating, p.Seed,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error {
	query := `
		INSERT INTO participants (id, division_id, name, player_ids, rating, seed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			player_ids = EXCLUDED.player_ids,
			rating = EXCLUDED.rating,
			seed = EXCLUDED.seed`
	for _, p := range participants {
		if _, err := exec.ExecContext(ctx, query,
			p.ID, p.DivisionID, p.Name, pq.Array(p.PlayerIDs), p.Rating, p.Seed,
		); err != nil {
			return fmt.Errorf("failed to upsert participant %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	query := `
		SELECT id, division_id, name, player_ids, rating, seed, created_at
		FROM participants WHERE id = $1`
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByDivision(ctx context.Context, divisionID string) ([]*models.Participant, error) {
	query := `
		SELECT id, division_id, name, player_ids, rating, seed, created_at
		FROM participants WHERE division_id = $1
		ORDER BY seed, name, id`
	rows, err := r.db.QueryContext(ctx, query, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for division %s: %w", divisionID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, scanErr := scanParticipant(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func scanParticipant(row interface{ Scan(...interface{}) error }) (*models.Participant, error) {
	var p models.Participant
	var rating sql.NullFloat64
	err := row.Scan(&p.ID, &p.DivisionID, &p.Name, pq.Array(&p.PlayerIDs), &rating, &p.Seed, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	return &p, nil
}
