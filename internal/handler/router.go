package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/prasetyo/simahasiswa/internal/metrics"
	"github.com/prasetyo/simahasiswa/internal/middleware"
	"github.com/prasetyo/simahasiswa/internal/security"
)

// RouterDeps merangkum dependensi NewRouter.
type RouterDeps struct {
	Logger *slog.Logger

	// Middleware
	TokenVerifier     middleware.TokenVerifier
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string

	// Autentikasi
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// Data mahasiswa
	RecordStore RecordStoreInterface
	Sanitizer   security.FieldSanitizerService

	// Metrik
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// Aset statis dashboard
	Assets fs.FS
}

// NewRouter menyusun routing seluruh endpoint beserta rantai middleware.
//
// Urutan eksekusi middleware global:
//
//	Recovery → SecurityHeaders → CORS → Metrics → RequestLog
//
// Rute data mahasiswa berada di dalam grup bergerbang sesi dengan rate
// limit per pengguna. Rute login mendapat rate limit per alamat IP.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(metrics.Middleware(deps.Collector))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthService, deps.Collector, deps.AuthConfig)
	mahasiswaHandler := NewMahasiswaHandler(deps.RecordStore, deps.Sanitizer, deps.Collector)
	pagesHandler := NewPagesHandler(deps.Assets)

	// --- Halaman dan aset statis ---

	r.Get("/", pagesHandler.Login)
	r.Get("/register", pagesHandler.Register)
	r.Get("/reset-password", pagesHandler.ResetPassword)
	r.Get("/dashboard", pagesHandler.Dashboard)
	r.Handle("/css/*", pagesHandler.Static())
	r.Handle("/js/*", pagesHandler.Static())

	// --- Rute autentikasi (tanpa gerbang sesi) ---

	r.With(deps.RateLimiter.LoginMiddleware()).Post("/api/login", authHandler.Login)
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/reset-password", authHandler.ResetPassword)
	r.Post("/api/verify-otp-reset", authHandler.VerifyOTPReset)
	r.Post("/api/logout", authHandler.Logout)

	// --- Rute data mahasiswa ---
	// Rantai: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api/mahasiswa", func(r chi.Router) {
			r.Get("/", mahasiswaHandler.List)
			r.Post("/", mahasiswaHandler.Create)
			r.Put("/{id}", mahasiswaHandler.Update)
			r.Delete("/{id}", mahasiswaHandler.Delete)
		})
	})

	// --- Operasional ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	return r
}
