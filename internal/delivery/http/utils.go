package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vkotov/checkpoint/internal/domain"
)

// getPathParam извлекает параметр из пути URL
// Например: /api/v1/passes/{id} -> getPathParam(r, "id")
func getPathParam(r *http.Request, param string) string {
	return chi.URLParam(r, param)
}

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondDomainError транслирует доменную ошибку в стабильный HTTP статус.
// Клиент должен различать "не найден" / "недопустимое состояние" /
// "пересечение с другим пропуском" до конца цепочки
func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, statusFromError(err), err.Error())
}

// statusFromError возвращает HTTP статус для доменной ошибки
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrPassNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTerritoryNotFound),
		errors.Is(err, domain.ErrCheckpointNotFound),
		errors.Is(err, domain.ErrVehicleNotFound),
		errors.Is(err, domain.ErrVisitorNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrPassOverlap),
		errors.Is(err, domain.ErrPassNotOpen),
		errors.Is(err, domain.ErrPassNotCancelled),
		errors.Is(err, domain.ErrPassNotWarning),
		errors.Is(err, domain.ErrPassExpired),
		errors.Is(err, domain.ErrPassInactive),
		errors.Is(err, domain.ErrWrongDirection),
		errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, domain.ErrTerritoryMismatch),
		errors.Is(err, domain.ErrInvalidPassData),
		errors.Is(err, domain.ErrInvalidPassType),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidCrossingData),
		errors.Is(err, domain.ErrInvalidLicensePlate),
		errors.Is(err, domain.ErrInvalidVehicleData),
		errors.Is(err, domain.ErrInvalidVisitorData),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidUserData),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrUserInactive):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	default:
		return http.StatusInternalServerError
	}
}
