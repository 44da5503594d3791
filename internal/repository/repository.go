package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/domain"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List возвращает список пользователей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// TerritoryRepository определяет методы для работы с территориями
type TerritoryRepository interface {
	// Create создает новую территорию
	Create(ctx context.Context, territory *domain.Territory) error

	// GetByID возвращает территорию по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Territory, error)

	// List возвращает список территорий с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Territory, error)
}

// CheckpointRepository определяет методы для работы с КПП
type CheckpointRepository interface {
	// Create создает новый КПП
	Create(ctx context.Context, checkpoint *domain.Checkpoint) error

	// GetByID возвращает КПП по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error)

	// GetByTerritoryID возвращает все КПП территории
	GetByTerritoryID(ctx context.Context, territoryID uuid.UUID) ([]*domain.Checkpoint, error)
}

// VehicleRepository определяет методы для работы с автомобилями
type VehicleRepository interface {
	// Create создает новый автомобиль
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByLicensePlate возвращает автомобиль по номеру
	GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error)
}

// VehicleBrandRepository определяет методы для работы со справочником марок
type VehicleBrandRepository interface {
	// Create создает новую марку
	Create(ctx context.Context, brand *domain.VehicleBrand) error

	// GetByName возвращает марку по имени (без учета регистра)
	GetByName(ctx context.Context, name string) (*domain.VehicleBrand, error)

	// List возвращает все марки
	List(ctx context.Context) ([]*domain.VehicleBrand, error)
}

// VisitorRepository определяет методы для работы с посетителями
type VisitorRepository interface {
	// Create создает нового посетителя
	Create(ctx context.Context, visitor *domain.Visitor) error

	// GetByID возвращает посетителя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Visitor, error)
}

// PassRepository определяет методы для работы с пропусками
type PassRepository interface {
	// Create создает новый пропуск
	Create(ctx context.Context, pass *domain.Pass) error

	// GetByID возвращает пропуск по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pass, error)

	// GetByUserID возвращает все пропуска пользователя
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Pass, error)

	// GetOpenByUserID возвращает пропуска пользователя в статусах active/delayed.
	// По этой выборке проверяются пересечения временных окон
	GetOpenByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Pass, error)

	// GetByStatusWithStartBefore возвращает пропуска в указанном статусе,
	// у которых start_time <= threshold (первый проход сверки)
	GetByStatusWithStartBefore(ctx context.Context, status domain.PassStatus, threshold time.Time) ([]*domain.Pass, error)

	// GetByStatusWithEndBefore возвращает пропуска в указанном статусе,
	// у которых end_time <= threshold (второй проход сверки)
	GetByStatusWithEndBefore(ctx context.Context, status domain.PassStatus, threshold time.Time) ([]*domain.Pass, error)

	// Update обновляет данные пропуска
	Update(ctx context.Context, pass *domain.Pass) error

	// UpdateStatus атомарно переводит пропуск из одного из статусов from в статус to.
	// Возвращает ErrPassNotFound, если пропуск не существует или уже покинул статус from
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.PassStatus, from ...domain.PassStatus) error

	// UpdateExpectedDirection атомарно меняет ожидаемое направление проезда.
	// Guard по from сериализует одновременные проезды по одному пропуску:
	// проигравший получает ErrWrongDirection, ни одной записи не меняется
	UpdateExpectedDirection(ctx context.Context, id uuid.UUID, to domain.Direction, from ...domain.Direction) error

	// List возвращает список всех пропусков с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Pass, error)
}

// CrossingRepository определяет методы для работы с журналом проездов
type CrossingRepository interface {
	// Create добавляет запись о проезде (журнал append-only)
	Create(ctx context.Context, crossing *domain.Crossing) error

	// GetByPassID возвращает все проезды пропуска в порядке вставки
	GetByPassID(ctx context.Context, passID uuid.UUID) ([]*domain.Crossing, error)

	// GetLastByPassID возвращает последний проезд пропуска или nil, если проездов нет
	GetLastByPassID(ctx context.Context, passID uuid.UUID) (*domain.Crossing, error)

	// CountByPassID возвращает количество проездов пропуска
	CountByPassID(ctx context.Context, passID uuid.UUID) (int64, error)
}
