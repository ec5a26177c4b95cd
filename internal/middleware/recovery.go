package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/prasetyo/simahasiswa/internal/model"
)

// NewRecoveryMiddleware membuat middleware yang menangkap panic, mencegah
// proses crash, dan mengembalikan respons 500.
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
						Code:     "INTERNAL_ERROR",
						Message:  "Terjadi kesalahan internal",
						Category: "system",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
