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

type vehicleBrandRepository struct {
	db *pgxpool.Pool
}

func NewVehicleBrandRepository(db *pgxpool.Pool) repository.VehicleBrandRepository {
	return &vehicleBrandRepository{db: db}
}

func (r *vehicleBrandRepository) Create(ctx context.Context, brand *domain.VehicleBrand) error {
	query := `INSERT INTO vehicle_brands (id, name, created_at) VALUES ($1, $2, $3)`

	if brand.ID == uuid.Nil {
		brand.ID = uuid.New()
	}
	brand.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query, brand.ID, brand.Name, brand.CreatedAt)
	return err
}

// GetByName ищет марку по имени без учета регистра
func (r *vehicleBrandRepository) GetByName(ctx context.Context, name string) (*domain.VehicleBrand, error) {
	query := `SELECT id, name, created_at FROM vehicle_brands WHERE LOWER(name) = LOWER($1)`

	brand := &domain.VehicleBrand{}
	err := r.db.QueryRow(ctx, query, name).Scan(&brand.ID, &brand.Name, &brand.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return brand, nil
}

func (r *vehicleBrandRepository) List(ctx context.Context) ([]*domain.VehicleBrand, error) {
	query := `SELECT id, name, created_at FROM vehicle_brands ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []*domain.VehicleBrand
	for rows.Next() {
		brand := &domain.VehicleBrand{}
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.CreatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}

	return brands, rows.Err()
}
