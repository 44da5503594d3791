package pass

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/repository"
)

// VehicleRequest - данные автомобиля в запросе на создание пропуска.
// Либо ID существующего автомобиля, либо данные нового
type VehicleRequest struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	LicensePlate string     `json:"license_plate,omitempty"`
	Brand        string     `json:"brand,omitempty"`
	Model        string     `json:"model,omitempty"`
	Color        string     `json:"color,omitempty"`
}

// VisitorRequest - данные посетителя в запросе на создание пропуска
type VisitorRequest struct {
	ID             *uuid.UUID `json:"id,omitempty"`
	FullName       string     `json:"full_name,omitempty"`
	DocumentNumber string     `json:"document_number,omitempty"`
	Phone          string     `json:"phone,omitempty"`
}

// CreatePassRequest - запрос на создание пропуска.
// Ровно одно из полей Vehicle/Visitor должно быть заполнено;
// контроль "ровно одного из двух" - обязанность валидации на границе запроса
type CreatePassRequest struct {
	UserID      uuid.UUID           `json:"user_id" validate:"required"`
	TerritoryID uuid.UUID           `json:"territory_id" validate:"required"`
	StartTime   time.Time           `json:"start_time" validate:"required"`
	EndTime     time.Time           `json:"end_time" validate:"required"`
	TimeType    domain.PassTimeType `json:"time_type" validate:"required"`
	Comment     string              `json:"comment,omitempty"`
	Favorite    bool                `json:"favorite,omitempty"`
	Vehicle     *VehicleRequest     `json:"vehicle,omitempty"`
	Visitor     *VisitorRequest     `json:"visitor,omitempty"`
}

// UpdatePassRequest - запрос на изменение пропуска.
// nil-поля не меняются; субъект и территория не редактируются
// (замена субъекта - это отмена и новый пропуск)
type UpdatePassRequest struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Comment   *string    `json:"comment,omitempty"`
	Favorite  *bool      `json:"favorite,omitempty"`
}

// Service содержит бизнес-логику жизненного цикла пропусков.
// Все переходы статусов: назначение при создании, ручные отмена/активация,
// и правило закрытия, которое разделяет с фоновой сверкой
type Service struct {
	passRepo      repository.PassRepository
	crossingRepo  repository.CrossingRepository
	userRepo      repository.UserRepository
	territoryRepo repository.TerritoryRepository
	vehicleRepo   repository.VehicleRepository
	brandRepo     repository.VehicleBrandRepository
	visitorRepo   repository.VisitorRepository
	logger        logger.Logger
}

// NewService создает новый экземпляр PassService
func NewService(
	passRepo repository.PassRepository,
	crossingRepo repository.CrossingRepository,
	userRepo repository.UserRepository,
	territoryRepo repository.TerritoryRepository,
	vehicleRepo repository.VehicleRepository,
	brandRepo repository.VehicleBrandRepository,
	visitorRepo repository.VisitorRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		passRepo:      passRepo,
		crossingRepo:  crossingRepo,
		userRepo:      userRepo,
		territoryRepo: territoryRepo,
		vehicleRepo:   vehicleRepo,
		brandRepo:     brandRepo,
		visitorRepo:   visitorRepo,
		logger:        logger,
	}
}

// CreatePass создает новый пропуск.
// Статус при рождении: active, если действие уже началось, иначе delayed
func (s *Service) CreatePass(ctx context.Context, req *CreatePassRequest) (*domain.Pass, error) {
	s.logger.Info("Creating new pass", map[string]interface{}{
		"user_id":      req.UserID,
		"territory_id": req.TerritoryID,
		"time_type":    req.TimeType,
	})

	pass, err := s.resolvePass(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := pass.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, pass); err != nil {
		return nil, err
	}

	pass.Status = domain.InitialPassStatus(pass.StartTime, time.Now())
	pass.ExpectedDirection = domain.DirectionIn

	if err := s.passRepo.Create(ctx, pass); err != nil {
		s.logger.Error("Failed to create pass", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create pass: %w", err)
	}

	s.logger.Info("Pass created successfully", map[string]interface{}{
		"pass_id": pass.ID,
		"status":  pass.Status,
		"subject": pass.SubjectType(),
	})

	return pass, nil
}

// UpdatePass изменяет пропуск в статусе active/delayed.
// При смене временного окна заново проверяет пересечения и
// переопределяет delayed/active тем же правилом, что при создании
func (s *Service) UpdatePass(ctx context.Context, passID uuid.UUID, req *UpdatePassRequest) (*domain.Pass, error) {
	pass, err := s.passRepo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	if !pass.IsOpen() {
		return nil, domain.ErrPassNotOpen
	}

	windowChanged := false
	if req.StartTime != nil && !req.StartTime.Equal(pass.StartTime) {
		pass.StartTime = *req.StartTime
		windowChanged = true
	}
	if req.EndTime != nil && !req.EndTime.Equal(pass.EndTime) {
		pass.EndTime = *req.EndTime
		windowChanged = true
	}
	if req.Comment != nil {
		pass.Comment = *req.Comment
	}
	if req.Favorite != nil {
		pass.Favorite = *req.Favorite
	}

	if windowChanged {
		if err := pass.Validate(); err != nil {
			return nil, err
		}

		if err := s.checkOverlap(ctx, pass); err != nil {
			return nil, err
		}

		pass.Status = domain.InitialPassStatus(pass.StartTime, time.Now())
	}

	if err := s.passRepo.Update(ctx, pass); err != nil {
		s.logger.Error("Failed to update pass", map[string]interface{}{
			"pass_id": passID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to update pass: %w", err)
	}

	s.logger.Info("Pass updated", map[string]interface{}{
		"pass_id":        passID,
		"window_changed": windowChanged,
		"status":         pass.Status,
	})

	return pass, nil
}

// CancelPass отменяет пропуск в статусе active/delayed.
// Без проездов пропуск закрывается как cancelled; с проездами - тем же
// правилом, что при истечении срока: история проездов не стирается,
// отмена лишь досрочно закрывает пропуск
func (s *Service) CancelPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error) {
	pass, err := s.passRepo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	if !pass.IsOpen() {
		return nil, domain.ErrPassNotOpen
	}

	count, err := s.crossingRepo.CountByPassID(ctx, passID)
	if err != nil {
		return nil, fmt.Errorf("failed to count crossings: %w", err)
	}

	newStatus := domain.PassStatusCancelled
	if count > 0 {
		newStatus = domain.ClosedPassStatus(pass.ExpectedDirection)
	}

	if err := s.passRepo.UpdateStatus(ctx, passID, newStatus,
		domain.PassStatusActive, domain.PassStatusDelayed); err != nil {
		return nil, err
	}

	pass.Status = newStatus

	s.logger.Info("Pass cancelled", map[string]interface{}{
		"pass_id":   passID,
		"status":    newStatus,
		"crossings": count,
	})

	return pass, nil
}

// ActivateCancelledPass возвращает отмененный пропуск в работу.
// Статус переопределяется тем же правилом, что при создании;
// истекший пропуск активировать нельзя
func (s *Service) ActivateCancelledPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error) {
	pass, err := s.passRepo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	if pass.Status != domain.PassStatusCancelled {
		return nil, domain.ErrPassNotCancelled
	}

	now := time.Now()
	if !pass.EndTime.After(now) {
		return nil, domain.ErrPassExpired
	}

	newStatus := domain.InitialPassStatus(pass.StartTime, now)

	if err := s.passRepo.UpdateStatus(ctx, passID, newStatus, domain.PassStatusCancelled); err != nil {
		return nil, err
	}

	pass.Status = newStatus

	s.logger.Info("Cancelled pass reactivated", map[string]interface{}{
		"pass_id": passID,
		"status":  newStatus,
	})

	return pass, nil
}

// UnwarnPass закрывает warning-пропуск как completed
// после ручной сверки оператором
func (s *Service) UnwarnPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error) {
	pass, err := s.passRepo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	if pass.Status != domain.PassStatusWarning {
		return nil, domain.ErrPassNotWarning
	}

	if err := s.passRepo.UpdateStatus(ctx, passID, domain.PassStatusCompleted, domain.PassStatusWarning); err != nil {
		return nil, err
	}

	pass.Status = domain.PassStatusCompleted

	s.logger.Info("Warning pass reconciled", map[string]interface{}{
		"pass_id": passID,
	})

	return pass, nil
}

// GetPassByID возвращает пропуск по ID
func (s *Service) GetPassByID(ctx context.Context, id uuid.UUID) (*domain.Pass, error) {
	return s.passRepo.GetByID(ctx, id)
}

// GetPassesByUser возвращает все пропуска пользователя
func (s *Service) GetPassesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Pass, error) {
	return s.passRepo.GetByUserID(ctx, userID)
}
