package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/delivery/http/middleware"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
	"github.com/vkotov/checkpoint/internal/usecase/auth"
)

// AuthService определяет интерфейс сервиса аутентификации
type AuthService interface {
	Register(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler создает новый handler
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register обрабатывает регистрацию нового пользователя
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to register user", map[string]interface{}{
			"error": err.Error(),
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}

// Login обрабатывает вход пользователя
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to login user", map[string]interface{}{
			"error": err.Error(),
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    response,
	})
}

// GetMe возвращает информацию о текущем пользователе
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get user", map[string]interface{}{
			"error": err.Error(),
		})
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}
