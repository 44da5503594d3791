package http

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vkotov/checkpoint/internal/delivery/http/middleware"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/jwt"
	"github.com/vkotov/checkpoint/internal/usecase/pass"
)

// CreateTestPass создает тестовый пропуск с вещественным временным окном
func CreateTestPass(id, userID, territoryID uuid.UUID, status domain.PassStatus) *domain.Pass {
	vehicleID := uuid.New()
	now := time.Now()
	return &domain.Pass{
		ID:                id,
		UserID:            userID,
		TerritoryID:       territoryID,
		StartTime:         now.Add(-time.Hour),
		EndTime:           now.Add(time.Hour),
		TimeType:          domain.PassTimeTypeOneTime,
		Status:            status,
		ExpectedDirection: domain.DirectionIn,
		VehicleID:         &vehicleID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// CreateTestCrossing создает тестовый проезд
func CreateTestCrossing(id int64, passID, checkpointID uuid.UUID, direction domain.Direction) *domain.Crossing {
	return &domain.Crossing{
		ID:           id,
		PassID:       passID,
		CheckpointID: checkpointID,
		Direction:    direction,
		Timestamp:    time.Now(),
		CreatedAt:    time.Now(),
	}
}

// CreateAuthContext создает контекст с JWT claims для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, role domain.UserRole) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// MockPassService - mock реализация PassService
type MockPassService struct {
	mock.Mock
}

func (m *MockPassService) CreatePass(ctx context.Context, req *pass.CreatePassRequest) (*domain.Pass, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pass), args.Error(1)
}

func (m *MockPassService) UpdatePass(ctx context.Context, passID uuid.UUID, req *pass.UpdatePassRequest) (*domain.Pass, error) {
	args := m.Called(ctx, passID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pass), args.Error(1)
}

func (m *MockPassService) CancelPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error) {
	args := m.Called(ctx, passID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pass), args.Error(1)
}

func (m *MockPassService) ActivateCancelledPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error) {
	args := m.Called(ctx, passID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pass), args.Error(1)
}

func (m *MockPassService) UnwarnPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error) {
	args := m.Called(ctx, passID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pass), args.Error(1)
}

func (m *MockPassService) GetPassByID(ctx context.Context, passID uuid.UUID) (*domain.Pass, error) {
	args := m.Called(ctx, passID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pass), args.Error(1)
}

func (m *MockPassService) GetPassesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Pass, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pass), args.Error(1)
}

// MockCrossingService - mock реализация CrossingService
type MockCrossingService struct {
	mock.Mock
}

func (m *MockCrossingService) RecordCrossing(ctx context.Context, passID, checkpointID uuid.UUID, direction domain.Direction, timestamp time.Time) (*domain.Crossing, error) {
	args := m.Called(ctx, passID, checkpointID, direction, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crossing), args.Error(1)
}

func (m *MockCrossingService) RecordCrossingAuto(ctx context.Context, passID, checkpointID uuid.UUID, timestamp time.Time) (*domain.Crossing, error) {
	args := m.Called(ctx, passID, checkpointID, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crossing), args.Error(1)
}

func (m *MockCrossingService) GetCrossingsByPass(ctx context.Context, passID uuid.UUID) ([]*domain.Crossing, error) {
	args := m.Called(ctx, passID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Crossing), args.Error(1)
}
