package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
)

// CrossingService определяет интерфейс для сервиса проездов
type CrossingService interface {
	RecordCrossing(ctx context.Context, passID, checkpointID uuid.UUID, direction domain.Direction, timestamp time.Time) (*domain.Crossing, error)
	RecordCrossingAuto(ctx context.Context, passID, checkpointID uuid.UUID, timestamp time.Time) (*domain.Crossing, error)
	GetCrossingsByPass(ctx context.Context, passID uuid.UUID) ([]*domain.Crossing, error)
}

// CrossingHandler обрабатывает запросы на фиксацию проездов через КПП
type CrossingHandler struct {
	crossingService CrossingService
	logger          logger.Logger
}

// NewCrossingHandler создает новый handler
func NewCrossingHandler(crossingService CrossingService, logger logger.Logger) *CrossingHandler {
	return &CrossingHandler{
		crossingService: crossingService,
		logger:          logger,
	}
}

// recordCrossingBody - тело запроса на фиксацию проезда.
// Timestamp опционален: нулевое значение означает "сейчас"
type recordCrossingBody struct {
	CheckpointID uuid.UUID `json:"checkpoint_id" validate:"required"`
	Timestamp    time.Time `json:"timestamp,omitempty"`
}

// RecordEntry фиксирует въезд по пропуску
// POST /api/v1/passes/{id}/crossings/in
func (h *CrossingHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.DirectionIn)
}

// RecordExit фиксирует выезд по пропуску
// POST /api/v1/passes/{id}/crossings/out
func (h *CrossingHandler) RecordExit(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, domain.DirectionOut)
}

func (h *CrossingHandler) record(w http.ResponseWriter, r *http.Request, direction domain.Direction) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	var body recordCrossingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	crossing, err := h.crossingService.RecordCrossing(r.Context(), passID, body.CheckpointID, direction, body.Timestamp)
	if err != nil {
		h.logger.Error("Failed to record crossing", map[string]interface{}{
			"error":     err.Error(),
			"pass_id":   passID,
			"direction": direction,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    crossing,
	})
}

// RecordAuto фиксирует проезд, выводя направление из истории пропуска.
// Оставлен для КПП с одной кнопкой
// POST /api/v1/passes/{id}/crossings
func (h *CrossingHandler) RecordAuto(w http.ResponseWriter, r *http.Request) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	var body recordCrossingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	crossing, err := h.crossingService.RecordCrossingAuto(r.Context(), passID, body.CheckpointID, body.Timestamp)
	if err != nil {
		h.logger.Error("Failed to record crossing", map[string]interface{}{
			"error":   err.Error(),
			"pass_id": passID,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    crossing,
	})
}

// GetPassCrossings возвращает историю проездов пропуска в порядке фиксации
// GET /api/v1/passes/{id}/crossings
func (h *CrossingHandler) GetPassCrossings(w http.ResponseWriter, r *http.Request) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	crossings, err := h.crossingService.GetCrossingsByPass(r.Context(), passID)
	if err != nil {
		h.logger.Error("Failed to get pass crossings", map[string]interface{}{
			"error":   err.Error(),
			"pass_id": passID,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    crossings,
	})
}
