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

type visitorRepository struct {
	db *pgxpool.Pool
}

func NewVisitorRepository(db *pgxpool.Pool) repository.VisitorRepository {
	return &visitorRepository{db: db}
}

func (r *visitorRepository) Create(ctx context.Context, visitor *domain.Visitor) error {
	query := `
		INSERT INTO visitors (id, full_name, document_number, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if visitor.ID == uuid.Nil {
		visitor.ID = uuid.New()
	}
	visitor.CreatedAt = time.Now()
	visitor.UpdatedAt = visitor.CreatedAt

	_, err := r.db.Exec(ctx, query,
		visitor.ID,
		visitor.FullName,
		visitor.DocumentNumber,
		visitor.Phone,
		visitor.CreatedAt,
		visitor.UpdatedAt,
	)

	return err
}

func (r *visitorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Visitor, error) {
	query := `SELECT id, full_name, document_number, phone, created_at, updated_at FROM visitors WHERE id = $1`

	visitor := &domain.Visitor{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&visitor.ID,
		&visitor.FullName,
		&visitor.DocumentNumber,
		&visitor.Phone,
		&visitor.CreatedAt,
		&visitor.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVisitorNotFound
		}
		return nil, err
	}

	return visitor, nil
}
