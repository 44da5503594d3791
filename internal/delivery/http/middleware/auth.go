package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/jwt"
)

// contextKey - тип для ключей контекста, чтобы не пересекаться
// с ключами других пакетов
type contextKey string

// UserClaimsKey - ключ, под которым claims пользователя лежат в контексте
const UserClaimsKey contextKey = "user_claims"

// AuthMiddleware извлекает Bearer-токен из заголовка Authorization,
// валидирует его и кладет claims в контекст запроса
func AuthMiddleware(tokenService *jwt.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := tokenService.ValidateToken(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					respondError(w, http.StatusUnauthorized, "Token expired")
					return
				}
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает запрос дальше, только если роль пользователя
// входит в список разрешенных. Ставится после AuthMiddleware
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaims(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			respondError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

// GetUserClaims извлекает claims пользователя из контекста
func GetUserClaims(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*jwt.Claims)
	return claims, ok
}

// respondError отвечает ошибкой в общем формате API
func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"success":false,"error":"` + message + `"}`))
}
