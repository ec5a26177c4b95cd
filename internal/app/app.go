// Package app merangkai seluruh dependensi dan mengelola siklus hidup server.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prasetyo/simahasiswa/internal/config"
	"github.com/prasetyo/simahasiswa/internal/handler"
	"github.com/prasetyo/simahasiswa/internal/logger"
	"github.com/prasetyo/simahasiswa/internal/metrics"
	"github.com/prasetyo/simahasiswa/internal/middleware"
	"github.com/prasetyo/simahasiswa/internal/security"
	"github.com/prasetyo/simahasiswa/internal/supabase"
	"github.com/prasetyo/simahasiswa/web"
)

// Init menginisialisasi aplikasi: memasang log JSON terstruktur lalu
// membaca Config dari environment variable. Jika writer diberikan, log
// diarahkan ke writer tersebut.
func Init(w io.Writer) (*config.Config, error) {
	// Log disiapkan sebelum pembacaan config agar kegagalan config tercatat
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run adalah entry point utama aplikasi.
// Subcommand diparse dari argumen command line; args diisi os.Args[1:].
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck adalah subcommand ringan tanpa inisialisasi penuh
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "3000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("table", cfg.SupabaseTable),
	)

	return runServe(cfg)
}

// runServe menjalankan server API + dashboard.
// Seluruh dependensi dirangkai di sini; server dimatikan secara graceful
// saat menerima SIGINT atau SIGTERM.
func runServe(cfg *config.Config) error {
	// 1. Klien layanan eksternal Supabase
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}
	authClient := supabase.NewAuthClient(httpClient, slog.Default(), cfg.SupabaseURL, cfg.SupabaseAnonKey)
	restClient := supabase.NewRestClient(httpClient, slog.Default(), cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseTable)

	// 2. Layanan keamanan dan metrik
	sanitizer := security.NewFieldSanitizer()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. Rate limiter
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitLogin),
		collector,
	)
	defer rateLimiter.Stop()

	// 4. Router
	deps := &handler.RouterDeps{
		Logger:            slog.Default(),
		TokenVerifier:     authClient,
		RateLimiter:       rateLimiter,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,

		AuthService: authClient,
		AuthConfig: handler.AuthHandlerConfig{
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		RecordStore: restClient,
		Sanitizer:   sanitizer,

		Collector: collector,
		Gatherer:  registry,

		Assets: web.Assets,
	}

	router := handler.NewRouter(deps)

	// 5. Server HTTP
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// runHealthcheck mengirim request ke endpoint /health server yang sedang
// berjalan dan melaporkan hasilnya lewat kode exit.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
