package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/redis"
	"github.com/vkotov/checkpoint/internal/repository"
)

const (
	checkpointCachePrefix = "checkpoint:"
	checkpointCacheTTL    = 1 * time.Hour
)

// CheckpointRepository добавляет кэширование к checkpoint repository.
// КПП читается на каждом проезде и практически не меняется - горячий кандидат на кэш
type CheckpointRepository struct {
	repo  repository.CheckpointRepository
	cache *redis.Client
}

// NewCheckpointRepository создает новый кэшируемый checkpoint repository
func NewCheckpointRepository(repo repository.CheckpointRepository, cache *redis.Client) *CheckpointRepository {
	return &CheckpointRepository{
		repo:  repo,
		cache: cache,
	}
}

// GetByID возвращает КПП по ID (с кэшированием)
func (r *CheckpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error) {
	cacheKey := checkpointCachePrefix + id.String()

	// 1. Проверяем кэш
	cachedValue, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		checkpoint := &domain.Checkpoint{}
		if err := json.Unmarshal([]byte(cachedValue), checkpoint); err == nil {
			return checkpoint, nil
		}
		// Битая запись в кэше - падаем обратно в БД
	} else if err != redisv9.Nil {
		// Ошибка кэша не фатальна, продолжаем работу с БД
	}

	// 2. Cache miss - идем в БД
	checkpoint, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш (ошибка записи не критична)
	if payload, err := json.Marshal(checkpoint); err == nil {
		_ = r.cache.Set(ctx, cacheKey, string(payload), checkpointCacheTTL)
	}

	return checkpoint, nil
}

// Create создает КПП и инвалидирует кэш
func (r *CheckpointRepository) Create(ctx context.Context, checkpoint *domain.Checkpoint) error {
	if err := r.repo.Create(ctx, checkpoint); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, checkpointCachePrefix+checkpoint.ID.String())

	return nil
}

// GetByTerritoryID получает КПП территории
func (r *CheckpointRepository) GetByTerritoryID(ctx context.Context, territoryID uuid.UUID) ([]*domain.Checkpoint, error) {
	// Списки не кэшируем - используются редко (только для админки)
	return r.repo.GetByTerritoryID(ctx, territoryID)
}
