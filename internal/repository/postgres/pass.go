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

type passRepository struct {
	db *pgxpool.Pool
}

func NewPassRepository(db *pgxpool.Pool) repository.PassRepository {
	return &passRepository{db: db}
}

const passColumns = `id, user_id, territory_id, start_time, end_time, time_type, status,
	       expected_direction, favorite, comment, vehicle_id, visitor_id, created_at, updated_at`

func (r *passRepository) Create(ctx context.Context, pass *domain.Pass) error {
	query := `
		INSERT INTO passes (id, user_id, territory_id, start_time, end_time, time_type, status,
		                    expected_direction, favorite, comment, vehicle_id, visitor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if pass.ID == uuid.Nil {
		pass.ID = uuid.New()
	}
	pass.CreatedAt = time.Now()
	pass.UpdatedAt = pass.CreatedAt

	_, err := r.db.Exec(ctx, query,
		pass.ID,
		pass.UserID,
		pass.TerritoryID,
		pass.StartTime,
		pass.EndTime,
		pass.TimeType,
		pass.Status,
		pass.ExpectedDirection,
		pass.Favorite,
		pass.Comment,
		pass.VehicleID,
		pass.VisitorID,
		pass.CreatedAt,
		pass.UpdatedAt,
	)

	return err
}

func (r *passRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE id = $1`

	pass, err := r.scanPass(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPassNotFound
		}
		return nil, err
	}

	return pass, nil
}

func (r *passRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPasses(rows)
}

// GetOpenByUserID возвращает пропуска пользователя в статусах active/delayed.
// По этой выборке проверяются пересечения временных окон
func (r *passRepository) GetOpenByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Pass, error) {
	query := `
		SELECT ` + passColumns + `
		FROM passes
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID, []string{string(domain.PassStatusActive), string(domain.PassStatusDelayed)})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPasses(rows)
}

func (r *passRepository) GetByStatusWithStartBefore(ctx context.Context, status domain.PassStatus, threshold time.Time) ([]*domain.Pass, error) {
	query := `
		SELECT ` + passColumns + `
		FROM passes
		WHERE status = $1 AND start_time <= $2
		ORDER BY start_time ASC
	`

	rows, err := r.db.Query(ctx, query, status, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPasses(rows)
}

func (r *passRepository) GetByStatusWithEndBefore(ctx context.Context, status domain.PassStatus, threshold time.Time) ([]*domain.Pass, error) {
	query := `
		SELECT ` + passColumns + `
		FROM passes
		WHERE status = $1 AND end_time <= $2
		ORDER BY end_time ASC
	`

	rows, err := r.db.Query(ctx, query, status, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPasses(rows)
}

func (r *passRepository) Update(ctx context.Context, pass *domain.Pass) error {
	query := `
		UPDATE passes
		SET start_time = $2, end_time = $3, time_type = $4, status = $5, expected_direction = $6,
		    favorite = $7, comment = $8, updated_at = $9
		WHERE id = $1
	`

	pass.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		pass.ID,
		pass.StartTime,
		pass.EndTime,
		pass.TimeType,
		pass.Status,
		pass.ExpectedDirection,
		pass.Favorite,
		pass.Comment,
		pass.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPassNotFound
	}

	return nil
}

// UpdateStatus - атомарный переход статуса одним UPDATE.
// Guard по исходным статусам сериализует гонку между recorder-ом и сверкой:
// проигравший получает 0 строк и ErrPassNotFound
func (r *passRepository) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.PassStatus, from ...domain.PassStatus) error {
	if len(from) == 0 {
		query := `UPDATE passes SET status = $2, updated_at = $3 WHERE id = $1`
		result, err := r.db.Exec(ctx, query, id, to, time.Now())
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrPassNotFound
		}
		return nil
	}

	fromStatuses := make([]string, 0, len(from))
	for _, s := range from {
		fromStatuses = append(fromStatuses, string(s))
	}

	query := `UPDATE passes SET status = $2, updated_at = $3 WHERE id = $1 AND status = ANY($4)`
	result, err := r.db.Exec(ctx, query, id, to, time.Now(), fromStatuses)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPassNotFound
	}

	return nil
}

// UpdateExpectedDirection - атомарный переворот направления одним UPDATE.
// Как и в UpdateStatus, guard по исходному значению решает гонку двух
// одновременных проездов: второй UPDATE не находит строку и получает
// ErrWrongDirection, так что два одинаковых направления подряд не пройдут
func (r *passRepository) UpdateExpectedDirection(ctx context.Context, id uuid.UUID, to domain.Direction, from ...domain.Direction) error {
	if len(from) == 0 {
		query := `UPDATE passes SET expected_direction = $2, updated_at = $3 WHERE id = $1`
		result, err := r.db.Exec(ctx, query, id, to, time.Now())
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrPassNotFound
		}
		return nil
	}

	fromDirections := make([]string, 0, len(from))
	for _, d := range from {
		fromDirections = append(fromDirections, string(d))
	}

	query := `UPDATE passes SET expected_direction = $2, updated_at = $3 WHERE id = $1 AND expected_direction = ANY($4)`
	result, err := r.db.Exec(ctx, query, id, to, time.Now(), fromDirections)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrWrongDirection
	}

	return nil
}

func (r *passRepository) List(ctx context.Context, limit, offset int) ([]*domain.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPasses(rows)
}

func (r *passRepository) scanPass(row pgx.Row) (*domain.Pass, error) {
	pass := &domain.Pass{}
	err := row.Scan(
		&pass.ID,
		&pass.UserID,
		&pass.TerritoryID,
		&pass.StartTime,
		&pass.EndTime,
		&pass.TimeType,
		&pass.Status,
		&pass.ExpectedDirection,
		&pass.Favorite,
		&pass.Comment,
		&pass.VehicleID,
		&pass.VisitorID,
		&pass.CreatedAt,
		&pass.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pass, nil
}

// scanPasses - вспомогательная функция для сканирования результатов запроса
func (r *passRepository) scanPasses(rows pgx.Rows) ([]*domain.Pass, error) {
	var passes []*domain.Pass
	for rows.Next() {
		pass, err := r.scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}

	return passes, rows.Err()
}
