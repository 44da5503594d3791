package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/vkotov/checkpoint/internal/pkg/logger"
)

// RecoveryMiddleware перехватывает panic в обработчиках, пишет stack trace
// в лог и отвечает 500 в общем формате ответа API
func RecoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("Panic recovered", map[string]interface{}{
						"error":       err,
						"stack":       string(debug.Stack()),
						"method":      r.Method,
						"path":        r.URL.Path,
						"remote_addr": r.RemoteAddr,
					})

					respondError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
