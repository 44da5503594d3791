package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/delivery/http/middleware"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/usecase/pass"
)

// PassService определяет интерфейс для сервиса пропусков
type PassService interface {
	CreatePass(ctx context.Context, req *pass.CreatePassRequest) (*domain.Pass, error)
	UpdatePass(ctx context.Context, passID uuid.UUID, req *pass.UpdatePassRequest) (*domain.Pass, error)
	CancelPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error)
	ActivateCancelledPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error)
	UnwarnPass(ctx context.Context, passID uuid.UUID) (*domain.Pass, error)
	GetPassByID(ctx context.Context, passID uuid.UUID) (*domain.Pass, error)
	GetPassesByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Pass, error)
}

// PassHandler обрабатывает запросы связанные с пропусками
type PassHandler struct {
	passService PassService
	logger      logger.Logger
}

// NewPassHandler создает новый handler
func NewPassHandler(passService PassService, logger logger.Logger) *PassHandler {
	return &PassHandler{
		passService: passService,
		logger:      logger,
	}
}

// CreatePass создает новый пропуск
// POST /api/v1/passes
func (h *PassHandler) CreatePass(w http.ResponseWriter, r *http.Request) {
	var req pass.CreatePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	// Пропуск всегда создается для текущего пользователя
	if req.UserID == uuid.Nil {
		req.UserID = claims.UserID
	}

	p, err := h.passService.CreatePass(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create pass", map[string]interface{}{
			"error":   err.Error(),
			"user_id": req.UserID,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

// GetMyPasses возвращает все пропуска текущего пользователя
// GET /api/v1/passes/me
func (h *PassHandler) GetMyPasses(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	passes, err := h.passService.GetPassesByUser(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get user passes", map[string]interface{}{
			"error": err.Error(),
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    passes,
	})
}

// GetPassByID возвращает пропуск по ID
// GET /api/v1/passes/{id}
func (h *PassHandler) GetPassByID(w http.ResponseWriter, r *http.Request) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	p, err := h.passService.GetPassByID(r.Context(), passID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

// UpdatePass изменяет временное окно, комментарий или флаг избранного
// PATCH /api/v1/passes/{id}
func (h *PassHandler) UpdatePass(w http.ResponseWriter, r *http.Request) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	var req pass.UpdatePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.passService.UpdatePass(r.Context(), passID, &req)
	if err != nil {
		h.logger.Error("Failed to update pass", map[string]interface{}{
			"error":   err.Error(),
			"pass_id": passID,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

// CancelPass отменяет пропуск
// POST /api/v1/passes/{id}/cancel
func (h *PassHandler) CancelPass(w http.ResponseWriter, r *http.Request) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	p, err := h.passService.CancelPass(r.Context(), passID)
	if err != nil {
		h.logger.Error("Failed to cancel pass", map[string]interface{}{
			"error":   err.Error(),
			"pass_id": passID,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

// ActivatePass возвращает отмененный пропуск в работу
// POST /api/v1/passes/{id}/activate
func (h *PassHandler) ActivatePass(w http.ResponseWriter, r *http.Request) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	p, err := h.passService.ActivateCancelledPass(r.Context(), passID)
	if err != nil {
		h.logger.Error("Failed to activate pass", map[string]interface{}{
			"error":   err.Error(),
			"pass_id": passID,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

// UnwarnPass снимает предупреждение с пропуска
// POST /api/v1/passes/{id}/unwarn
func (h *PassHandler) UnwarnPass(w http.ResponseWriter, r *http.Request) {
	passID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid pass ID")
		return
	}

	p, err := h.passService.UnwarnPass(r.Context(), passID)
	if err != nil {
		h.logger.Error("Failed to unwarn pass", map[string]interface{}{
			"error":   err.Error(),
			"pass_id": passID,
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}
