package crossing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/repository/memory"
)

type testEnv struct {
	service      *Service
	passRepo     *memory.PassRepository
	crossingRepo *memory.CrossingRepository
	pass         *domain.Pass
	checkpointID uuid.UUID
}

func newTestEnv(t *testing.T, status domain.PassStatus) *testEnv {
	t.Helper()

	passRepo := memory.NewPassRepository()
	crossingRepo := memory.NewCrossingRepository()
	checkpointRepo := memory.NewCheckpointRepository()

	territoryID := uuid.New()
	vehicleID := uuid.New()
	now := time.Now()

	pass := &domain.Pass{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		TerritoryID:       territoryID,
		StartTime:         now.Add(-time.Hour),
		EndTime:           now.Add(time.Hour),
		TimeType:          domain.PassTimeTypePermanent,
		Status:            status,
		ExpectedDirection: domain.DirectionIn,
		VehicleID:         &vehicleID,
	}
	require.NoError(t, passRepo.Create(context.Background(), pass))

	checkpoint := &domain.Checkpoint{
		ID:          uuid.New(),
		TerritoryID: territoryID,
		Name:        "Северные ворота",
		IsActive:    true,
	}
	require.NoError(t, checkpointRepo.Create(context.Background(), checkpoint))

	service := NewService(passRepo, crossingRepo, checkpointRepo, logger.NewNoop(), nil)

	return &testEnv{
		service:      service,
		passRepo:     passRepo,
		crossingRepo: crossingRepo,
		pass:         pass,
		checkpointID: checkpoint.ID,
	}
}

func TestService_RecordCrossing_Alternation(t *testing.T) {
	env := newTestEnv(t, domain.PassStatusActive)
	ctx := context.Background()

	t.Run("первым проездом может быть только въезд", func(t *testing.T) {
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionOut, time.Time{})
		assert.ErrorIs(t, err, domain.ErrWrongDirection)
	})

	t.Run("въезд принимается и переворачивает ожидание", func(t *testing.T) {
		crossing, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionIn, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, domain.DirectionIn, crossing.Direction)

		pass, err := env.passRepo.GetByID(ctx, env.pass.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DirectionOut, pass.ExpectedDirection)
	})

	t.Run("повторный въезд подряд отклоняется", func(t *testing.T) {
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionIn, time.Time{})
		assert.ErrorIs(t, err, domain.ErrWrongDirection)
	})

	t.Run("выезд после въезда принимается", func(t *testing.T) {
		crossing, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionOut, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, domain.DirectionOut, crossing.Direction)

		pass, err := env.passRepo.GetByID(ctx, env.pass.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DirectionIn, pass.ExpectedDirection)
	})

	t.Run("повторный выезд подряд отклоняется", func(t *testing.T) {
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionOut, time.Time{})
		assert.ErrorIs(t, err, domain.ErrWrongDirection)
	})
}

func TestService_RecordCrossing_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("пропуск не найден", func(t *testing.T) {
		env := newTestEnv(t, domain.PassStatusActive)
		_, err := env.service.RecordCrossing(ctx, uuid.New(), env.checkpointID, domain.DirectionIn, time.Time{})
		assert.ErrorIs(t, err, domain.ErrPassNotFound)
	})

	t.Run("невалидное направление", func(t *testing.T) {
		env := newTestEnv(t, domain.PassStatusActive)
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, "sideways", time.Time{})
		assert.ErrorIs(t, err, domain.ErrInvalidDirection)
	})

	t.Run("проезд по delayed пропуску", func(t *testing.T) {
		env := newTestEnv(t, domain.PassStatusDelayed)
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionIn, time.Time{})
		assert.ErrorIs(t, err, domain.ErrPassInactive)
	})

	t.Run("проезд по отмененному пропуску", func(t *testing.T) {
		env := newTestEnv(t, domain.PassStatusCancelled)
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionIn, time.Time{})
		assert.ErrorIs(t, err, domain.ErrPassInactive)
	})

	t.Run("неизвестный КПП", func(t *testing.T) {
		env := newTestEnv(t, domain.PassStatusActive)
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, uuid.New(), domain.DirectionIn, time.Time{})
		assert.ErrorIs(t, err, domain.ErrCheckpointNotFound)
	})

	t.Run("КПП чужой территории", func(t *testing.T) {
		env := newTestEnv(t, domain.PassStatusActive)

		foreign := &domain.Checkpoint{
			ID:          uuid.New(),
			TerritoryID: uuid.New(),
			Name:        "Чужие ворота",
			IsActive:    true,
		}
		checkpointRepo := memory.NewCheckpointRepository()
		require.NoError(t, checkpointRepo.Create(ctx, foreign))

		service := NewService(env.passRepo, env.crossingRepo, checkpointRepo, logger.NewNoop(), nil)
		_, err := service.RecordCrossing(ctx, env.pass.ID, foreign.ID, domain.DirectionIn, time.Time{})
		assert.ErrorIs(t, err, domain.ErrTerritoryMismatch)
	})
}

func TestService_RecordCrossing_RejectedCrossingLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t, domain.PassStatusActive)
	ctx := context.Background()

	_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionOut, time.Time{})
	require.ErrorIs(t, err, domain.ErrWrongDirection)

	count, err := env.crossingRepo.CountByPassID(ctx, env.pass.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	pass, err := env.passRepo.GetByID(ctx, env.pass.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionIn, pass.ExpectedDirection)
}

func TestService_RecordCrossing_ConcurrentSameDirection(t *testing.T) {
	env := newTestEnv(t, domain.PassStatusActive)
	ctx := context.Background()

	// Две одновременные попытки въезда по одному пропуску: без guard
	// в репозитории обе прошли бы предварительную проверку направления
	// и в журнале оказались бы два въезда подряд
	const workers = 8
	start := make(chan struct{})
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, domain.DirectionIn, time.Time{})
		}(i)
	}
	close(start)
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			assert.ErrorIs(t, err, domain.ErrWrongDirection)
		}
	}
	assert.Equal(t, 1, accepted, "въезд должен быть зафиксирован ровно один раз")

	count, err := env.crossingRepo.CountByPassID(ctx, env.pass.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	pass, err := env.passRepo.GetByID(ctx, env.pass.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionOut, pass.ExpectedDirection)
}

func TestService_RecordCrossingAuto(t *testing.T) {
	env := newTestEnv(t, domain.PassStatusActive)
	ctx := context.Background()

	// Направление выводится из журнала: пустой журнал - въезд,
	// дальше противоположное последнему проезду
	expected := []domain.Direction{
		domain.DirectionIn,
		domain.DirectionOut,
		domain.DirectionIn,
	}

	for _, want := range expected {
		crossing, err := env.service.RecordCrossingAuto(ctx, env.pass.ID, env.checkpointID, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, want, crossing.Direction)
	}

	t.Run("неизвестный пропуск", func(t *testing.T) {
		_, err := env.service.RecordCrossingAuto(ctx, uuid.New(), env.checkpointID, time.Time{})
		assert.ErrorIs(t, err, domain.ErrPassNotFound)
	})
}

func TestService_GetCrossingsByPass(t *testing.T) {
	env := newTestEnv(t, domain.PassStatusActive)
	ctx := context.Background()

	for _, d := range []domain.Direction{domain.DirectionIn, domain.DirectionOut, domain.DirectionIn} {
		_, err := env.service.RecordCrossing(ctx, env.pass.ID, env.checkpointID, d, time.Time{})
		require.NoError(t, err)
	}

	crossings, err := env.service.GetCrossingsByPass(ctx, env.pass.ID)
	require.NoError(t, err)
	require.Len(t, crossings, 3)

	// Идентификаторы монотонно растут: порядок фиксации восстановим
	assert.Less(t, crossings[0].ID, crossings[1].ID)
	assert.Less(t, crossings[1].ID, crossings[2].ID)
	assert.Equal(t, domain.DirectionIn, crossings[0].Direction)
	assert.Equal(t, domain.DirectionOut, crossings[1].Direction)
	assert.Equal(t, domain.DirectionIn, crossings[2].Direction)
}
