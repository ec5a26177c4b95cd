// Package handler menyediakan handler HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prasetyo/simahasiswa/internal/metrics"
	"github.com/prasetyo/simahasiswa/internal/middleware"
	"github.com/prasetyo/simahasiswa/internal/model"
	"github.com/prasetyo/simahasiswa/internal/supabase"
)

// AuthServiceInterface adalah interface layanan yang dibutuhkan handler
// autentikasi. Subset dari supabase.AuthClient.
type AuthServiceInterface interface {
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignUp(ctx context.Context, email, password, fullName string) error
	SendRecoveryOTP(ctx context.Context, email string) error
	VerifyRecoveryOTP(ctx context.Context, email, otp string) (*supabase.Session, error)
	UpdateUserPassword(ctx context.Context, accessToken, newPassword string) error
}

// AuthHandlerConfig adalah konfigurasi handler autentikasi.
type AuthHandlerConfig struct {
	CookieSecure  bool
	SessionMaxAge int // umur cookie sesi (detik)
}

// AuthHandler menangani rute autentikasi. Seluruh pemeriksaan kredensial
// didelegasikan ke Identity Provider; handler hanya memvalidasi kelengkapan
// input dan menerjemahkan hasil provider ke format respons dashboard.
type AuthHandler struct {
	service   AuthServiceInterface
	collector metrics.MetricsCollector
	config    AuthHandlerConfig
}

// NewAuthHandler membuat AuthHandler.
func NewAuthHandler(service AuthServiceInterface, collector metrics.MetricsCollector, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:   service,
		collector: collector,
		config:    config,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type verifyOTPResetRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// successResponse adalah format seragam respons sukses.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Login memverifikasi kredensial pada Identity Provider dan memasang cookie
// sesi berisi access token.
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Email dan password wajib diisi"))
		return
	}

	session, err := h.service.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.collector.RecordAuthCall("login", false)

		var provErr *supabase.ProviderError
		if errors.As(err, &provErr) {
			// Pesan penolakan provider diteruskan apa adanya
			middleware.WriteErrorResponse(w, http.StatusUnauthorized,
				model.NewAuthFailedError(provErr.Message))
			return
		}
		writeUnexpectedError(w, err)
		return
	}
	h.collector.RecordAuthCall("login", true)

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	slog.Info("user logged in", slog.String("user_email", session.User.Email))

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Login berhasil",
		User:    session.User.Email,
	})
}

// Register mendaftarkan akun baru pada Identity Provider.
// Validasi kelengkapan dan kecocokan password dilakukan sebelum provider
// dihubungi.
// POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || req.ConfirmPassword == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Semua field wajib diisi"))
		return
	}
	if req.Password != req.ConfirmPassword {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Password tidak sama"))
		return
	}

	if err := h.service.SignUp(r.Context(), req.Email, req.Password, req.FullName); err != nil {
		h.collector.RecordAuthCall("register", false)
		h.writeProviderError(w, err)
		return
	}
	h.collector.RecordAuthCall("register", true)

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Registrasi berhasil. Silakan cek email untuk verifikasi.",
	})
}

// ResetPassword meminta provider mengirim OTP pemulihan ke email.
// POST /api/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Email wajib diisi"))
		return
	}

	if err := h.service.SendRecoveryOTP(r.Context(), req.Email); err != nil {
		h.collector.RecordAuthCall("reset_password", false)
		h.writeProviderError(w, err)
		return
	}
	h.collector.RecordAuthCall("reset_password", true)

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "OTP telah dikirim ke email Anda",
	})
}

// VerifyOTPReset memverifikasi OTP pemulihan lalu mengganti password dengan
// token sesi pemulihan yang diterbitkan provider. Kecocokan password baru
// diperiksa sebelum provider dihubungi.
// POST /api/verify-otp-reset
func (h *AuthHandler) VerifyOTPReset(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPResetRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.OTP) == "" ||
		req.NewPassword == "" || req.ConfirmPassword == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Semua field wajib diisi"))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Password tidak sama"))
		return
	}

	session, err := h.service.VerifyRecoveryOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.collector.RecordAuthCall("verify_otp", false)
		h.writeProviderError(w, err)
		return
	}

	if err := h.service.UpdateUserPassword(r.Context(), session.AccessToken, req.NewPassword); err != nil {
		h.collector.RecordAuthCall("verify_otp", false)
		h.writeProviderError(w, err)
		return
	}
	h.collector.RecordAuthCall("verify_otp", true)

	slog.Info("password reset completed", slog.String("user_email", req.Email))

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Password berhasil direset. Silakan login dengan password baru.",
	})
}

// Logout menghapus cookie sesi. Selalu berhasil: token pada provider
// dibiarkan kedaluwarsa dengan sendirinya.
// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Logout berhasil",
	})
}

// writeProviderError menulis error operasi provider non-login:
// penolakan provider menjadi 400 dengan pesan apa adanya, kegagalan lain
// (jaringan, timeout) menjadi 500.
func (h *AuthHandler) writeProviderError(w http.ResponseWriter, err error) {
	var provErr *supabase.ProviderError
	if errors.As(err, &provErr) {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewProviderError(provErr.Message))
		return
	}
	writeUnexpectedError(w, err)
}

// decodeRequest membaca body JSON ke dst. Body yang tidak bisa diparse
// dijawab 400 dan mengembalikan false.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Format request tidak valid"))
		return false
	}
	return true
}

// writeUnexpectedError menulis respons 500 untuk kegagalan tak terduga
// (jaringan, timeout) saat menghubungi layanan eksternal.
func writeUnexpectedError(w http.ResponseWriter, err error) {
	slog.Error("external service call failed", slog.String("error", err.Error()))
	middleware.WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "Terjadi kesalahan: " + err.Error(),
		Category: "system",
	})
}

// writeJSON menulis respons JSON dengan status yang diberikan.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
