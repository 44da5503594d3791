package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/pkg/metrics"
	"github.com/vkotov/checkpoint/internal/repository"
)

// Sweeper - фоновая сверка пропусков с настенными часами.
// Раз в интервал переводит delayed-пропуска в active по наступлению
// start_time и закрывает active-пропуска по истечении end_time.
// Работает параллельно с обработкой запросов: атомарность отдельных
// переходов обеспечивает слой хранения
type Sweeper struct {
	passRepo     repository.PassRepository
	crossingRepo repository.CrossingRepository
	logger       logger.Logger
	metrics      *metrics.Metrics

	// Опережение активации: start_time не выровнены по минутам,
	// а сверка запускается раз в минуту - без опережения активация
	// опаздывала бы до целой минуты
	interval  time.Duration
	lookahead time.Duration

	// Защита от наложения запусков, если тик пришел раньше,
	// чем закончился предыдущий проход
	mu sync.Mutex
}

// New создает новый Sweeper
func New(
	passRepo repository.PassRepository,
	crossingRepo repository.CrossingRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
	interval, lookahead time.Duration,
) *Sweeper {
	return &Sweeper{
		passRepo:     passRepo,
		crossingRepo: crossingRepo,
		logger:       logger,
		metrics:      metrics,
		interval:     interval,
		lookahead:    lookahead,
	}
}

// Run запускает периодическую сверку до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper started", map[string]interface{}{
		"interval":  s.interval.String(),
		"lookahead": s.lookahead.String(),
	})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("Sweeper stopped")
			return
		}
	}
}

// SweepOnce выполняет один проход сверки: активацию и закрытие.
// Идемпотентна; наложившийся запуск пропускается.
// Ошибка по одному пропуску логируется и не прерывает проход -
// пропуск будет повторно подхвачен следующим запуском
func (s *Sweeper) SweepOnce(ctx context.Context) {
	if !s.mu.TryLock() {
		s.logger.Warn("Sweep skipped: previous run still in progress")
		return
	}
	defer s.mu.Unlock()

	now := time.Now()
	activated := s.activateDue(ctx, now)
	closed := s.closeExpired(ctx, now)

	if s.metrics != nil {
		s.metrics.SweepsTotal.Inc()
	}

	if activated > 0 || closed > 0 {
		s.logger.Info("Sweep finished", map[string]interface{}{
			"activated": activated,
			"closed":    closed,
		})
	}
}

// activateDue переводит delayed-пропуска, чье start_time наступило
// (с учетом опережения), в статус active
func (s *Sweeper) activateDue(ctx context.Context, now time.Time) int {
	due, err := s.passRepo.GetByStatusWithStartBefore(ctx, domain.PassStatusDelayed, now.Add(s.lookahead))
	if err != nil {
		s.logger.Error("Failed to load delayed passes", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}

	activated := 0
	for _, pass := range due {
		err := s.passRepo.UpdateStatus(ctx, pass.ID, domain.PassStatusActive, domain.PassStatusDelayed)
		if err != nil {
			// Пропуск могли отменить между выборкой и обновлением
			s.logger.Error("Failed to activate pass", map[string]interface{}{
				"pass_id": pass.ID,
				"error":   err.Error(),
			})
			if s.metrics != nil {
				s.metrics.SweepFailures.Inc()
			}
			continue
		}

		activated++
		if s.metrics != nil {
			s.metrics.PassesActivated.Inc()
		}
	}

	return activated
}

// closeExpired закрывает active-пропуска, чье end_time прошло:
// без проездов - outdated; с проездами - completed, если объект покинул
// территорию, и warning, если остался внутри
func (s *Sweeper) closeExpired(ctx context.Context, now time.Time) int {
	expired, err := s.passRepo.GetByStatusWithEndBefore(ctx, domain.PassStatusActive, now)
	if err != nil {
		s.logger.Error("Failed to load expired passes", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}

	closed := 0
	for _, pass := range expired {
		count, err := s.crossingRepo.CountByPassID(ctx, pass.ID)
		if err != nil {
			s.logger.Error("Failed to count crossings", map[string]interface{}{
				"pass_id": pass.ID,
				"error":   err.Error(),
			})
			if s.metrics != nil {
				s.metrics.SweepFailures.Inc()
			}
			continue
		}

		newStatus := domain.PassStatusOutdated
		if count > 0 {
			newStatus = domain.ClosedPassStatus(pass.ExpectedDirection)
		}

		err = s.passRepo.UpdateStatus(ctx, pass.ID, newStatus, domain.PassStatusActive)
		if err != nil {
			s.logger.Error("Failed to close expired pass", map[string]interface{}{
				"pass_id": pass.ID,
				"status":  newStatus,
				"error":   err.Error(),
			})
			if s.metrics != nil {
				s.metrics.SweepFailures.Inc()
			}
			continue
		}

		if newStatus == domain.PassStatusWarning {
			s.logger.Warn("Pass expired while subject is still inside", map[string]interface{}{
				"pass_id": pass.ID,
			})
		}

		closed++
		if s.metrics != nil {
			s.metrics.PassesClosed.WithLabelValues(string(newStatus)).Inc()
		}
	}

	return closed
}
