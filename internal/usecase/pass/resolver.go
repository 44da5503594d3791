package pass

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/domain"
)

// resolvePass собирает агрегат пропуска из запроса: проверяет пользователя
// и территорию, подбирает или создает субъект (автомобиль или посетителя).
// Возвращает несохраненный Pass с уже назначенным идентификатором
func (s *Service) resolvePass(ctx context.Context, req *CreatePassRequest) (*domain.Pass, error) {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if _, err := s.territoryRepo.GetByID(ctx, req.TerritoryID); err != nil {
		return nil, err
	}

	pass := &domain.Pass{
		ID:                uuid.New(),
		UserID:            req.UserID,
		TerritoryID:       req.TerritoryID,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		TimeType:          req.TimeType,
		Comment:           req.Comment,
		Favorite:          req.Favorite,
		ExpectedDirection: domain.DirectionIn,
	}

	switch {
	case req.Vehicle != nil && req.Visitor == nil:
		vehicle, err := s.resolveVehicle(ctx, req.Vehicle)
		if err != nil {
			return nil, err
		}
		pass.VehicleID = &vehicle.ID
		pass.Vehicle = vehicle

	case req.Visitor != nil && req.Vehicle == nil:
		visitor, err := s.resolveVisitor(ctx, req.Visitor)
		if err != nil {
			return nil, err
		}
		pass.VisitorID = &visitor.ID
		pass.Visitor = visitor

	default:
		// Валидация "ровно одно из двух" обязана была отработать на границе
		// запроса; сюда попадает только ошибка в вызывающем коде
		return nil, fmt.Errorf("%w: pass subject must be exactly one of vehicle or visitor", domain.ErrCritical)
	}

	return pass, nil
}

// resolveVehicle возвращает существующий автомобиль по ID или создает новый.
// Марка - "мягкая" ссылка: ищется по имени без учета регистра
// и создается на лету, это никогда не причина отказа
func (s *Service) resolveVehicle(ctx context.Context, req *VehicleRequest) (*domain.Vehicle, error) {
	if req.ID != nil {
		return s.vehicleRepo.GetByID(ctx, *req.ID)
	}

	vehicle := &domain.Vehicle{
		ID:           uuid.New(),
		LicensePlate: req.LicensePlate,
		Model:        req.Model,
		Color:        req.Color,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if req.Brand != "" {
		brand, err := s.resolveBrand(ctx, req.Brand)
		if err != nil {
			return nil, err
		}
		vehicle.BrandID = &brand.ID
		vehicle.Brand = brand
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return vehicle, nil
}

// resolveBrand находит марку по имени или создает новую
func (s *Service) resolveBrand(ctx context.Context, name string) (*domain.VehicleBrand, error) {
	brand, err := s.brandRepo.GetByName(ctx, name)
	if err == nil {
		return brand, nil
	}
	if err != domain.ErrVehicleNotFound {
		return nil, fmt.Errorf("failed to get vehicle brand: %w", err)
	}

	brand = &domain.VehicleBrand{
		ID:   uuid.New(),
		Name: name,
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to create vehicle brand: %w", err)
	}

	s.logger.Debug("Vehicle brand created", map[string]interface{}{
		"brand": name,
	})

	return brand, nil
}

// resolveVisitor возвращает существующего посетителя по ID или создает нового
func (s *Service) resolveVisitor(ctx context.Context, req *VisitorRequest) (*domain.Visitor, error) {
	if req.ID != nil {
		return s.visitorRepo.GetByID(ctx, *req.ID)
	}

	visitor := &domain.Visitor{
		ID:             uuid.New(),
		FullName:       req.FullName,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
	}

	if err := visitor.Validate(); err != nil {
		return nil, err
	}

	if err := s.visitorRepo.Create(ctx, visitor); err != nil {
		return nil, fmt.Errorf("failed to create visitor: %w", err)
	}

	return visitor, nil
}
