package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/repository/memory"
	"github.com/vkotov/checkpoint/internal/usecase/crossing"
	"github.com/vkotov/checkpoint/internal/usecase/pass"
)

// Полный жизненный цикл пропуска через все три сервиса:
// создание, активацию сверкой, проезды, закрытие по сроку
// и ручное снятие предупреждения
func TestPassLifecycle(t *testing.T) {
	ctx := context.Background()

	passRepo := memory.NewPassRepository()
	crossingRepo := memory.NewCrossingRepository()
	userRepo := memory.NewUserRepository()
	territoryRepo := memory.NewTerritoryRepository()
	checkpointRepo := memory.NewCheckpointRepository()
	vehicleRepo := memory.NewVehicleRepository()
	brandRepo := memory.NewVehicleBrandRepository()
	visitorRepo := memory.NewVisitorRepository()

	log := logger.NewNoop()

	user := &domain.User{ID: uuid.New(), Email: "resident@test.com", FullName: "Test Resident", Role: domain.RoleUser, IsActive: true}
	require.NoError(t, userRepo.Create(ctx, user))

	territory := &domain.Territory{ID: uuid.New(), Name: "Поселок", IsActive: true}
	require.NoError(t, territoryRepo.Create(ctx, territory))

	checkpoint := &domain.Checkpoint{ID: uuid.New(), TerritoryID: territory.ID, Name: "Главные ворота", IsActive: true}
	require.NoError(t, checkpointRepo.Create(ctx, checkpoint))

	passService := pass.NewService(passRepo, crossingRepo, userRepo, territoryRepo, vehicleRepo, brandRepo, visitorRepo, log)
	crossingService := crossing.NewService(passRepo, crossingRepo, checkpointRepo, log, nil)
	sw := New(passRepo, crossingRepo, log, nil, time.Minute, time.Minute)

	now := time.Now()

	// Пропуск на будущее окно рождается delayed
	p, err := passService.CreatePass(ctx, &pass.CreatePassRequest{
		UserID:      user.ID,
		TerritoryID: territory.ID,
		StartTime:   now.Add(30 * time.Second),
		EndTime:     now.Add(time.Hour),
		TimeType:    domain.PassTimeTypeOneTime,
		Visitor:     &pass.VisitorRequest{FullName: "Сидоров Антон"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.PassStatusDelayed, p.Status)

	// До активации проезд невозможен
	_, err = crossingService.RecordCrossing(ctx, p.ID, checkpoint.ID, domain.DirectionIn, time.Time{})
	require.ErrorIs(t, err, domain.ErrPassInactive)

	// Сверка активирует пропуск с опережением
	sw.SweepOnce(ctx)

	stored, err := passRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PassStatusActive, stored.Status)

	// Въезд фиксируется, ожидание переворачивается
	_, err = crossingService.RecordCrossing(ctx, p.ID, checkpoint.ID, domain.DirectionIn, time.Time{})
	require.NoError(t, err)

	// Срок вышел, посетитель не выехал: сверка закрывает как warning
	backdated, err := passRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	backdated.EndTime = now.Add(-time.Second)
	require.NoError(t, passRepo.Update(ctx, backdated))

	sw.SweepOnce(ctx)

	stored, err = passRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PassStatusWarning, stored.Status)

	// По закрытому пропуску проезды больше не принимаются
	_, err = crossingService.RecordCrossing(ctx, p.ID, checkpoint.ID, domain.DirectionOut, time.Time{})
	require.ErrorIs(t, err, domain.ErrPassInactive)

	// Оператор сверяет вручную и закрывает вопрос
	reconciled, err := passService.UnwarnPass(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PassStatusCompleted, reconciled.Status)

	// История проездов сохранена
	history, err := crossingService.GetCrossingsByPass(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.DirectionIn, history[0].Direction)
}
