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

type territoryRepository struct {
	db *pgxpool.Pool
}

func NewTerritoryRepository(db *pgxpool.Pool) repository.TerritoryRepository {
	return &territoryRepository{db: db}
}

func (r *territoryRepository) Create(ctx context.Context, territory *domain.Territory) error {
	query := `
		INSERT INTO territories (id, name, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	territory.ID = uuid.New()
	territory.CreatedAt = time.Now()
	territory.UpdatedAt = territory.CreatedAt

	_, err := r.db.Exec(ctx, query,
		territory.ID,
		territory.Name,
		territory.Address,
		territory.IsActive,
		territory.CreatedAt,
		territory.UpdatedAt,
	)

	return err
}

func (r *territoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Territory, error) {
	query := `SELECT id, name, address, is_active, created_at, updated_at FROM territories WHERE id = $1`

	territory := &domain.Territory{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&territory.ID,
		&territory.Name,
		&territory.Address,
		&territory.IsActive,
		&territory.CreatedAt,
		&territory.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTerritoryNotFound
		}
		return nil, err
	}

	return territory, nil
}

func (r *territoryRepository) List(ctx context.Context, limit, offset int) ([]*domain.Territory, error) {
	query := `SELECT id, name, address, is_active, created_at, updated_at FROM territories ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var territories []*domain.Territory
	for rows.Next() {
		territory := &domain.Territory{}
		err := rows.Scan(
			&territory.ID,
			&territory.Name,
			&territory.Address,
			&territory.IsActive,
			&territory.CreatedAt,
			&territory.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		territories = append(territories, territory)
	}

	return territories, rows.Err()
}
