package crossing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/pkg/metrics"
	"github.com/vkotov/checkpoint/internal/repository"
)

// CheckpointGetter - доступ к КПП только на чтение.
// Узкий интерфейс позволяет подставить кэширующий декоратор
type CheckpointGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Checkpoint, error)
}

// Service содержит бизнес-логику фиксации проездов через КПП.
// Проезд валидируется против текущего статуса пропуска и ожидаемого
// направления; успешная запись переворачивает ожидаемое направление
type Service struct {
	passRepo       repository.PassRepository
	crossingRepo   repository.CrossingRepository
	checkpointRepo CheckpointGetter
	logger         logger.Logger
	metrics        *metrics.Metrics
}

// NewService создает новый экземпляр CrossingService
func NewService(
	passRepo repository.PassRepository,
	crossingRepo repository.CrossingRepository,
	checkpointRepo CheckpointGetter,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		passRepo:       passRepo,
		crossingRepo:   crossingRepo,
		checkpointRepo: checkpointRepo,
		logger:         logger,
		metrics:        metrics,
	}
}

// RecordCrossing фиксирует проезд через КПП по пропуску.
// Направление задает вызывающая сторона (какая ручка была нажата),
// оно НЕ выводится из истории.
//
// Правила:
//   - пропуск должен существовать и быть в статусе active;
//   - территория КПП должна совпадать с территорией пропуска;
//   - направление должно совпадать с ожидаемым: первый проезд - только
//     въезд, далее направления строго чередуются для любого типа пропуска
func (s *Service) RecordCrossing(
	ctx context.Context,
	passID, checkpointID uuid.UUID,
	direction domain.Direction,
	timestamp time.Time,
) (*domain.Crossing, error) {
	if !direction.IsValid() {
		return nil, domain.ErrInvalidDirection
	}

	pass, err := s.passRepo.GetByID(ctx, passID)
	if err != nil {
		return nil, err
	}

	if pass.Status != domain.PassStatusActive {
		s.logger.Warn("Crossing rejected: pass is not active", map[string]interface{}{
			"pass_id": passID,
			"status":  pass.Status,
		})
		return nil, domain.ErrPassInactive
	}

	checkpoint, err := s.checkpointRepo.GetByID(ctx, checkpointID)
	if err != nil {
		return nil, err
	}

	if checkpoint.TerritoryID != pass.TerritoryID {
		s.logger.Warn("Crossing rejected: territory mismatch", map[string]interface{}{
			"pass_id":              passID,
			"checkpoint_id":        checkpointID,
			"pass_territory":       pass.TerritoryID,
			"checkpoint_territory": checkpoint.TerritoryID,
		})
		return nil, domain.ErrTerritoryMismatch
	}

	// ExpectedDirection начинается с IN и переворачивается каждым проездом,
	// поэтому одна проверка закрывает оба правила: "нельзя выехать,
	// не въехав" и "нельзя два раза подряд в одну сторону"
	if direction != pass.ExpectedDirection {
		s.logger.Warn("Crossing rejected: wrong direction", map[string]interface{}{
			"pass_id":   passID,
			"requested": direction,
			"expected":  pass.ExpectedDirection,
		})
		return nil, domain.ErrWrongDirection
	}

	crossing := &domain.Crossing{
		PassID:       passID,
		CheckpointID: checkpointID,
		Direction:    direction,
		Timestamp:    timestamp,
	}

	if err := crossing.Validate(); err != nil {
		return nil, err
	}

	// Направление переворачивается ДО записи в журнал. Guard по текущему
	// значению сериализует одновременные проезды: из двух одинаковых
	// направлений строку обновит только один, второй получит
	// ErrWrongDirection и в журнал не попадет
	if err := s.passRepo.UpdateExpectedDirection(ctx, passID, direction.Opposite(), direction); err != nil {
		if err == domain.ErrWrongDirection {
			s.logger.Warn("Crossing rejected: lost direction race", map[string]interface{}{
				"pass_id":   passID,
				"requested": direction,
			})
			return nil, domain.ErrWrongDirection
		}
		s.logger.Error("Failed to flip expected direction", map[string]interface{}{
			"pass_id": passID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to update expected direction: %w", err)
	}

	if err := s.crossingRepo.Create(ctx, crossing); err != nil {
		s.logger.Error("Failed to create crossing", map[string]interface{}{
			"pass_id": passID,
			"error":   err.Error(),
		})
		// Возвращаем направление обратно, чтобы пропуск не "застрял"
		// в перевернутом состоянии без записи в журнале
		if rbErr := s.passRepo.UpdateExpectedDirection(ctx, passID, direction, direction.Opposite()); rbErr != nil {
			s.logger.Error("Failed to restore expected direction", map[string]interface{}{
				"pass_id": passID,
				"error":   rbErr.Error(),
			})
		}
		return nil, fmt.Errorf("failed to create crossing: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CrossingsTotal.WithLabelValues(string(direction)).Inc()
	}

	s.logger.Info("Crossing recorded", map[string]interface{}{
		"crossing_id":   crossing.ID,
		"pass_id":       passID,
		"checkpoint_id": checkpointID,
		"direction":     direction,
	})

	return crossing, nil
}

// RecordCrossingAuto фиксирует проезд, выводя направление из журнала
// проездов: первый проезд - въезд, дальше противоположное последнему.
// Гонку одновременных вызовов все равно решает guard внутри RecordCrossing.
//
// Deprecated: оставлен для старых КПП с одной кнопкой. Новые интеграции
// обязаны вызывать RecordCrossing с явным направлением
func (s *Service) RecordCrossingAuto(
	ctx context.Context,
	passID, checkpointID uuid.UUID,
	timestamp time.Time,
) (*domain.Crossing, error) {
	last, err := s.crossingRepo.GetLastByPassID(ctx, passID)
	if err != nil {
		return nil, err
	}

	direction := domain.DirectionIn
	if last != nil {
		direction = last.Direction.Opposite()
	}

	return s.RecordCrossing(ctx, passID, checkpointID, direction, timestamp)
}

// GetCrossingsByPass возвращает все проезды пропуска в порядке фиксации
func (s *Service) GetCrossingsByPass(ctx context.Context, passID uuid.UUID) ([]*domain.Crossing, error) {
	if _, err := s.passRepo.GetByID(ctx, passID); err != nil {
		return nil, err
	}

	return s.crossingRepo.GetByPassID(ctx, passID)
}
