package pass

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
)

type testEnv struct {
	service      *Service
	passRepo     *memory.PassRepository
	crossingRepo *memory.CrossingRepository
	userID       uuid.UUID
	territoryID  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	passRepo := memory.NewPassRepository()
	crossingRepo := memory.NewCrossingRepository()
	userRepo := memory.NewUserRepository()
	territoryRepo := memory.NewTerritoryRepository()
	vehicleRepo := memory.NewVehicleRepository()
	brandRepo := memory.NewVehicleBrandRepository()
	visitorRepo := memory.NewVisitorRepository()

	user := &domain.User{
		ID:       uuid.New(),
		Email:    "resident@test.com",
		FullName: "Test Resident",
		Role:     domain.RoleUser,
		IsActive: true,
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	territory := &domain.Territory{
		ID:       uuid.New(),
		Name:     "Коттеджный поселок",
		IsActive: true,
	}
	require.NoError(t, territoryRepo.Create(context.Background(), territory))

	service := NewService(passRepo, crossingRepo, userRepo, territoryRepo, vehicleRepo, brandRepo, visitorRepo, logger.NewNoop())

	return &testEnv{
		service:      service,
		passRepo:     passRepo,
		crossingRepo: crossingRepo,
		userID:       user.ID,
		territoryID:  territory.ID,
	}
}

func (e *testEnv) createRequest(start, end time.Time) *CreatePassRequest {
	return &CreatePassRequest{
		UserID:      e.userID,
		TerritoryID: e.territoryID,
		StartTime:   start,
		EndTime:     end,
		TimeType:    domain.PassTimeTypeOneTime,
		Vehicle: &VehicleRequest{
			LicensePlate: "А123ВС777",
			Brand:        "Lada",
			Model:        "Vesta",
		},
	}
}

func TestService_CreatePass_InitialStatus(t *testing.T) {
	tests := []struct {
		name           string
		startOffset    time.Duration
		endOffset      time.Duration
		expectedStatus domain.PassStatus
	}{
		{
			name:           "действие уже началось - active",
			startOffset:    -time.Hour,
			endOffset:      time.Hour,
			expectedStatus: domain.PassStatusActive,
		},
		{
			name:           "действие в будущем - delayed",
			startOffset:    time.Hour,
			endOffset:      2 * time.Hour,
			expectedStatus: domain.PassStatusDelayed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			now := time.Now()

			pass, err := env.service.CreatePass(context.Background(),
				env.createRequest(now.Add(tt.startOffset), now.Add(tt.endOffset)))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, pass.Status)
			assert.Equal(t, domain.DirectionIn, pass.ExpectedDirection)
			assert.NotNil(t, pass.VehicleID)
			assert.Nil(t, pass.VisitorID)
		})
	}
}

func TestService_CreatePass_VisitorSubject(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	req := env.createRequest(now, now.Add(time.Hour))
	req.Vehicle = nil
	req.Visitor = &VisitorRequest{
		FullName:       "Иванов Иван",
		DocumentNumber: "4500 123456",
	}

	pass, err := env.service.CreatePass(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.PassSubjectVisitor, pass.SubjectType())
	assert.NotNil(t, pass.VisitorID)
	assert.Nil(t, pass.VehicleID)
}

func TestService_CreatePass_Validation(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	t.Run("окно нулевой длины", func(t *testing.T) {
		_, err := env.service.CreatePass(context.Background(), env.createRequest(now, now))
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("конец раньше начала", func(t *testing.T) {
		_, err := env.service.CreatePass(context.Background(),
			env.createRequest(now.Add(time.Hour), now))
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("неизвестный тип пропуска", func(t *testing.T) {
		req := env.createRequest(now, now.Add(time.Hour))
		req.TimeType = "weekly"
		_, err := env.service.CreatePass(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidPassType)
	})

	t.Run("неизвестный пользователь", func(t *testing.T) {
		req := env.createRequest(now, now.Add(time.Hour))
		req.UserID = uuid.New()
		_, err := env.service.CreatePass(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("неизвестная территория", func(t *testing.T) {
		req := env.createRequest(now, now.Add(time.Hour))
		req.TerritoryID = uuid.New()
		_, err := env.service.CreatePass(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrTerritoryNotFound)
	})
}

func TestService_CreatePass_Overlap(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		firstStart  time.Time
		firstEnd    time.Time
		secondStart time.Time
		secondEnd   time.Time
		wantOverlap bool
	}{
		{
			name:        "частичное пересечение окон",
			firstStart:  base,
			firstEnd:    base.Add(2 * time.Hour),
			secondStart: base.Add(time.Hour),
			secondEnd:   base.Add(3 * time.Hour),
			wantOverlap: true,
		},
		{
			name:        "одно окно внутри другого",
			firstStart:  base,
			firstEnd:    base.Add(4 * time.Hour),
			secondStart: base.Add(time.Hour),
			secondEnd:   base.Add(2 * time.Hour),
			wantOverlap: true,
		},
		{
			name:        "непересекающиеся окна",
			firstStart:  base,
			firstEnd:    base.Add(time.Hour),
			secondStart: base.Add(2 * time.Hour),
			secondEnd:   base.Add(3 * time.Hour),
			wantOverlap: false,
		},
		{
			name:        "встык: конец первого равен началу второго",
			firstStart:  base,
			firstEnd:    base.Add(time.Hour),
			secondStart: base.Add(time.Hour),
			secondEnd:   base.Add(2 * time.Hour),
			wantOverlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.service.CreatePass(context.Background(),
				env.createRequest(tt.firstStart, tt.firstEnd))
			require.NoError(t, err)

			_, err = env.service.CreatePass(context.Background(),
				env.createRequest(tt.secondStart, tt.secondEnd))

			if tt.wantOverlap {
				assert.ErrorIs(t, err, domain.ErrPassOverlap)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_CreatePass_OverlapScopedToSubjectType(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	// Автомобильный и гостевой пропуска на одно окно не конфликтуют
	_, err := env.service.CreatePass(context.Background(),
		env.createRequest(now, now.Add(time.Hour)))
	require.NoError(t, err)

	visitorReq := env.createRequest(now, now.Add(time.Hour))
	visitorReq.Vehicle = nil
	visitorReq.Visitor = &VisitorRequest{FullName: "Петров Петр"}

	_, err = env.service.CreatePass(context.Background(), visitorReq)
	assert.NoError(t, err)
}

func TestService_CreatePass_OverlapIgnoresClosed(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	first, err := env.service.CreatePass(context.Background(),
		env.createRequest(now, now.Add(time.Hour)))
	require.NoError(t, err)

	_, err = env.service.CancelPass(context.Background(), first.ID)
	require.NoError(t, err)

	// Отмененный пропуск больше не блокирует окно
	_, err = env.service.CreatePass(context.Background(),
		env.createRequest(now, now.Add(time.Hour)))
	assert.NoError(t, err)
}

func TestService_UpdatePass(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	pass, err := env.service.CreatePass(context.Background(),
		env.createRequest(now.Add(time.Hour), now.Add(2*time.Hour)))
	require.NoError(t, err)
	require.Equal(t, domain.PassStatusDelayed, pass.Status)

	t.Run("смена окна переопределяет статус", func(t *testing.T) {
		newStart := now.Add(-time.Hour)
		newEnd := now.Add(time.Hour)

		updated, err := env.service.UpdatePass(context.Background(), pass.ID, &UpdatePassRequest{
			StartTime: &newStart,
			EndTime:   &newEnd,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PassStatusActive, updated.Status)
	})

	t.Run("комментарий и избранное без смены окна", func(t *testing.T) {
		comment := "гости на выходные"
		favorite := true

		updated, err := env.service.UpdatePass(context.Background(), pass.ID, &UpdatePassRequest{
			Comment:  &comment,
			Favorite: &favorite,
		})

		require.NoError(t, err)
		assert.Equal(t, comment, updated.Comment)
		assert.True(t, updated.Favorite)
		assert.Equal(t, domain.PassStatusActive, updated.Status)
	})

	t.Run("новое окно не должно пересекаться с другим пропуском", func(t *testing.T) {
		other, err := env.service.CreatePass(context.Background(),
			env.createRequest(now.Add(3*time.Hour), now.Add(4*time.Hour)))
		require.NoError(t, err)

		badStart := now.Add(3*time.Hour + 30*time.Minute)
		badEnd := now.Add(5 * time.Hour)
		// Сдвиг собственного окна - не конфликт с самим собой
		_, err = env.service.UpdatePass(context.Background(), other.ID, &UpdatePassRequest{
			StartTime: &badStart,
			EndTime:   &badEnd,
		})
		assert.NoError(t, err)

		clashStart := now.Add(-30 * time.Minute)
		clashEnd := now.Add(30 * time.Minute)
		_, err = env.service.UpdatePass(context.Background(), other.ID, &UpdatePassRequest{
			StartTime: &clashStart,
			EndTime:   &clashEnd,
		})
		assert.ErrorIs(t, err, domain.ErrPassOverlap)
	})

	t.Run("закрытый пропуск не редактируется", func(t *testing.T) {
		_, err := env.service.CancelPass(context.Background(), pass.ID)
		require.NoError(t, err)

		comment := "после отмены"
		_, err = env.service.UpdatePass(context.Background(), pass.ID, &UpdatePassRequest{
			Comment: &comment,
		})
		assert.ErrorIs(t, err, domain.ErrPassNotOpen)
	})
}

func TestService_CancelPass(t *testing.T) {
	t.Run("без проездов - cancelled", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now, now.Add(time.Hour)))
		require.NoError(t, err)

		cancelled, err := env.service.CancelPass(context.Background(), pass.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.PassStatusCancelled, cancelled.Status)
	})

	t.Run("объект внутри - warning", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now, now.Add(time.Hour)))
		require.NoError(t, err)

		// Въезд зафиксирован, выезда не было: ожидается OUT
		require.NoError(t, env.crossingRepo.Create(context.Background(), &domain.Crossing{
			PassID:       pass.ID,
			CheckpointID: uuid.New(),
			Direction:    domain.DirectionIn,
		}))
		require.NoError(t, env.passRepo.UpdateExpectedDirection(context.Background(), pass.ID, domain.DirectionOut))

		cancelled, err := env.service.CancelPass(context.Background(), pass.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.PassStatusWarning, cancelled.Status)
	})

	t.Run("объект выехал - completed", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now, now.Add(time.Hour)))
		require.NoError(t, err)

		checkpointID := uuid.New()
		for _, d := range []domain.Direction{domain.DirectionIn, domain.DirectionOut} {
			require.NoError(t, env.crossingRepo.Create(context.Background(), &domain.Crossing{
				PassID:       pass.ID,
				CheckpointID: checkpointID,
				Direction:    d,
			}))
		}
		// После выезда снова ожидается IN
		require.NoError(t, env.passRepo.UpdateExpectedDirection(context.Background(), pass.ID, domain.DirectionIn))

		cancelled, err := env.service.CancelPass(context.Background(), pass.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.PassStatusCompleted, cancelled.Status)
	})

	t.Run("повторная отмена отклоняется", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now, now.Add(time.Hour)))
		require.NoError(t, err)

		_, err = env.service.CancelPass(context.Background(), pass.ID)
		require.NoError(t, err)

		_, err = env.service.CancelPass(context.Background(), pass.ID)
		assert.ErrorIs(t, err, domain.ErrPassNotOpen)
	})
}

func TestService_ActivateCancelledPass(t *testing.T) {
	t.Run("отмена и активация возвращают исходный статус", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now.Add(time.Hour), now.Add(2*time.Hour)))
		require.NoError(t, err)
		require.Equal(t, domain.PassStatusDelayed, pass.Status)

		_, err = env.service.CancelPass(context.Background(), pass.ID)
		require.NoError(t, err)

		restored, err := env.service.ActivateCancelledPass(context.Background(), pass.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.PassStatusDelayed, restored.Status)
	})

	t.Run("начавшийся пропуск восстанавливается как active", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now.Add(-time.Hour), now.Add(time.Hour)))
		require.NoError(t, err)

		_, err = env.service.CancelPass(context.Background(), pass.ID)
		require.NoError(t, err)

		restored, err := env.service.ActivateCancelledPass(context.Background(), pass.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.PassStatusActive, restored.Status)
	})

	t.Run("истекший пропуск не восстанавливается", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now.Add(-2*time.Hour), now.Add(-time.Hour)))
		require.NoError(t, err)

		_, err = env.service.CancelPass(context.Background(), pass.ID)
		require.NoError(t, err)

		_, err = env.service.ActivateCancelledPass(context.Background(), pass.ID)
		assert.ErrorIs(t, err, domain.ErrPassExpired)
	})

	t.Run("не отмененный пропуск не активируется", func(t *testing.T) {
		env := newTestEnv(t)
		now := time.Now()

		pass, err := env.service.CreatePass(context.Background(),
			env.createRequest(now, now.Add(time.Hour)))
		require.NoError(t, err)

		_, err = env.service.ActivateCancelledPass(context.Background(), pass.ID)
		assert.ErrorIs(t, err, domain.ErrPassNotCancelled)
	})
}

func TestService_UnwarnPass(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	pass, err := env.service.CreatePass(context.Background(),
		env.createRequest(now, now.Add(time.Hour)))
	require.NoError(t, err)

	t.Run("warning закрывается как completed", func(t *testing.T) {
		require.NoError(t, env.passRepo.UpdateStatus(context.Background(), pass.ID, domain.PassStatusWarning))

		reconciled, err := env.service.UnwarnPass(context.Background(), pass.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.PassStatusCompleted, reconciled.Status)
	})

	t.Run("повторное снятие отклоняется", func(t *testing.T) {
		_, err := env.service.UnwarnPass(context.Background(), pass.ID)
		assert.ErrorIs(t, err, domain.ErrPassNotWarning)
	})
}

func TestService_GetPassesByUser(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	_, err := env.service.CreatePass(context.Background(),
		env.createRequest(now, now.Add(time.Hour)))
	require.NoError(t, err)
	_, err = env.service.CreatePass(context.Background(),
		env.createRequest(now.Add(2*time.Hour), now.Add(3*time.Hour)))
	require.NoError(t, err)

	passes, err := env.service.GetPassesByUser(context.Background(), env.userID)
	require.NoError(t, err)
	assert.Len(t, passes, 2)

	other, err := env.service.GetPassesByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
