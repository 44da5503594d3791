package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/repository"
)

type checkpointRepository struct {
	db *pgxpool.Pool
}

func NewCheckpointRepository(db *pgxpool.Pool) repository.CheckpointRepository {
	return &checkpointRepository{db: db}
}

func (r *checkpointRepository) Create(ctx context.Context, checkpoint *domain.Checkpoint) error {
	query := `
		INSERT INTO checkpoints (id, territory_id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	checkpoint.ID = uuid.New()
	checkpoint.CreatedAt = time.Now()
	checkpoint.UpdatedAt = checkpoint.CreatedAt

	_, err := r.db.Exec(ctx, query,
		checkpoint.ID,
		checkpoint.TerritoryID,
		checkpoint.Name,
		checkpoint.IsActive,
		checkpoint.CreatedAt,
		checkpoint.UpdatedAt,
	)

	return err
}

func (r *checkpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error) {
	query := `SELECT id, territory_id, name, is_active, created_at, updated_at FROM checkpoints WHERE id = $1`

	checkpoint := &domain.Checkpoint{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&checkpoint.ID,
		&checkpoint.TerritoryID,
		&checkpoint.Name,
		&checkpoint.IsActive,
		&checkpoint.CreatedAt,
		&checkpoint.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCheckpointNotFound
		}
		return nil, err
	}

	return checkpoint, nil
}

func (r *checkpointRepository) GetByTerritoryID(ctx context.Context, territoryID uuid.UUID) ([]*domain.Checkpoint, error) {
	query := `SELECT id, territory_id, name, is_active, created_at, updated_at FROM checkpoints WHERE territory_id = $1 ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, territoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkpoints []*domain.Checkpoint
	for rows.Next() {
		checkpoint := &domain.Checkpoint{}
		err := rows.Scan(
			&checkpoint.ID,
			&checkpoint.TerritoryID,
			&checkpoint.Name,
			&checkpoint.IsActive,
			&checkpoint.CreatedAt,
			&checkpoint.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, checkpoint)
	}

	return checkpoints, rows.Err()
}
