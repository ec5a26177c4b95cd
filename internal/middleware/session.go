// Package middleware menyediakan middleware HTTP.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prasetyo/simahasiswa/internal/model"
)

// SessionCookieName adalah nama cookie yang membawa token sesi dari
// Identity Provider.
const SessionCookieName = "session"

// contextKey adalah tipe kunci context yang aman terhadap tabrakan.
type contextKey string

var (
	tokenContextKey = contextKey("session_token")
	emailContextKey = contextKey("user_email")
)

// TokenVerifier memverifikasi token sesi pada Identity Provider dan
// mengembalikan email pemiliknya. Subset dari supabase.AuthClient.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// NewSessionMiddleware mengembalikan middleware gerbang sesi.
// Cookie sesi yang absen langsung ditolak 401 tanpa memanggil layanan
// eksternal mana pun. Token yang ada diverifikasi ke Identity Provider;
// token kedaluwarsa atau palsu juga ditolak 401. Token dan email pengguna
// terverifikasi disuntikkan ke context request.
func NewSessionMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Ambil token dari cookie
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. Verifikasi token ke Identity Provider
			email, err := verifier.VerifyToken(r.Context(), cookie.Value)
			if err != nil {
				slog.Warn("session token rejected by provider",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. Suntikkan token dan email ke context
			ctx := context.WithValue(r.Context(), tokenContextKey, cookie.Value)
			ctx = context.WithValue(ctx, emailContextKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromContext mengambil token sesi dari context request.
// Hanya terisi pada request yang melewati middleware sesi.
func TokenFromContext(ctx context.Context) (string, error) {
	token, ok := ctx.Value(tokenContextKey).(string)
	if !ok || token == "" {
		return "", fmt.Errorf("session token not found in context")
	}
	return token, nil
}

// EmailFromContext mengambil email pengguna terverifikasi dari context.
func EmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(emailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("user email not found in context")
	}
	return email, nil
}

// ContextWithSession menyuntikkan token dan email ke context.
// Dipakai pada pengujian dan pembuatan context di luar middleware.
func ContextWithSession(ctx context.Context, token, email string) context.Context {
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return context.WithValue(ctx, emailContextKey, email)
}
