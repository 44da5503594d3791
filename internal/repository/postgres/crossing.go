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

type crossingRepository struct {
	db *pgxpool.Pool
}

func NewCrossingRepository(db *pgxpool.Pool) repository.CrossingRepository {
	return &crossingRepository{db: db}
}

// Create добавляет запись о проезде.
// id - BIGSERIAL: порядок вставки и есть порядок проездов
func (r *crossingRepository) Create(ctx context.Context, crossing *domain.Crossing) error {
	query := `
		INSERT INTO crossings (pass_id, checkpoint_id, direction, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	crossing.CreatedAt = time.Now()
	if crossing.Timestamp.IsZero() {
		crossing.Timestamp = crossing.CreatedAt
	}

	return r.db.QueryRow(ctx, query,
		crossing.PassID,
		crossing.CheckpointID,
		crossing.Direction,
		crossing.Timestamp,
		crossing.CreatedAt,
	).Scan(&crossing.ID)
}

func (r *crossingRepository) GetByPassID(ctx context.Context, passID uuid.UUID) ([]*domain.Crossing, error) {
	query := `
		SELECT id, pass_id, checkpoint_id, direction, timestamp, created_at
		FROM crossings
		WHERE pass_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, passID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanCrossings(rows)
}

// GetLastByPassID возвращает (nil, nil), если проездов по пропуску еще не было
func (r *crossingRepository) GetLastByPassID(ctx context.Context, passID uuid.UUID) (*domain.Crossing, error) {
	query := `
		SELECT id, pass_id, checkpoint_id, direction, timestamp, created_at
		FROM crossings
		WHERE pass_id = $1
		ORDER BY id DESC
		LIMIT 1
	`

	crossing := &domain.Crossing{}
	err := r.db.QueryRow(ctx, query, passID).Scan(
		&crossing.ID,
		&crossing.PassID,
		&crossing.CheckpointID,
		&crossing.Direction,
		&crossing.Timestamp,
		&crossing.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return crossing, nil
}

func (r *crossingRepository) CountByPassID(ctx context.Context, passID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM crossings WHERE pass_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, passID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// scanCrossings - вспомогательная функция для сканирования результатов запроса
func (r *crossingRepository) scanCrossings(rows pgx.Rows) ([]*domain.Crossing, error) {
	var crossings []*domain.Crossing
	for rows.Next() {
		crossing := &domain.Crossing{}
		err := rows.Scan(
			&crossing.ID,
			&crossing.PassID,
			&crossing.CheckpointID,
			&crossing.Direction,
			&crossing.Timestamp,
			&crossing.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		crossings = append(crossings, crossing)
	}

	return crossings, rows.Err()
}
