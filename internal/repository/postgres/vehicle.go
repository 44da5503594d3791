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

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, license_plate, brand_id, model, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.LicensePlate,
		vehicle.BrandID,
		vehicle.Model,
		vehicle.Color,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)

	return err
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT id, license_plate, brand_id, model, color, created_at, updated_at FROM vehicles WHERE id = $1`
	return r.scanVehicle(r.db.QueryRow(ctx, query, id))
}

func (r *vehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	query := `SELECT id, license_plate, brand_id, model, color, created_at, updated_at FROM vehicles WHERE license_plate = $1`
	return r.scanVehicle(r.db.QueryRow(ctx, query, licensePlate))
}

func (r *vehicleRepository) scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	err := row.Scan(
		&vehicle.ID,
		&vehicle.LicensePlate,
		&vehicle.BrandID,
		&vehicle.Model,
		&vehicle.Color,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}
