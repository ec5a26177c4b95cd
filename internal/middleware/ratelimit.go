package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"log/slog"

	"golang.org/x/time/rate"

	"github.com/prasetyo/simahasiswa/internal/model"
)

// RateLimiterConfig menyimpan konfigurasi rate limit.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // rute data per pengguna (req/detik)
	GeneralBurst    int           // burst rute data
	LoginRate       rate.Limit    // percobaan login per alamat IP (req/detik)
	LoginBurst      int           // burst login
	CleanupInterval time.Duration // interval pembersihan entri kedaluwarsa
}

// NewRateLimiterConfig menyusun konfigurasi dari batas per menit.
func NewRateLimiterConfig(generalPerMinute, loginPerMinute int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(generalPerMinute) / 60.0),
		GeneralBurst:    generalPerMinute,
		LoginRate:       rate.Limit(float64(loginPerMinute) / 60.0),
		LoginBurst:      loginPerMinute,
		CleanupInterval: 5 * time.Minute,
	}
}

// DefaultRateLimiterConfig mengembalikan konfigurasi default:
// rute data 120 req/menit/pengguna, login 10 req/menit/IP.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return NewRateLimiterConfig(120, 10)
}

// RateLimitRecorder mencatat request yang ditolak rate limit ke metrik.
// Subset dari metrics.MetricsCollector.
type RateLimitRecorder interface {
	RecordRateLimited(limitType string)
}

// keyLimiter menyimpan limiter per kunci beserta waktu akses terakhir.
type keyLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter mengelola rate limit per kunci: rute data dibatasi per email
// pengguna terautentikasi, login dibatasi per alamat IP klien.
type RateLimiter struct {
	config   RateLimiterConfig
	recorder RateLimitRecorder

	generalMu       sync.RWMutex
	generalLimiters map[string]*keyLimiter

	loginMu       sync.RWMutex
	loginLimiters map[string]*keyLimiter

	stopCh chan struct{}
}

// NewRateLimiter membuat RateLimiter baru dan memulai goroutine pembersihan
// entri kedaluwarsa di latar belakang. Setiap penolakan dicatat ke recorder.
func NewRateLimiter(config RateLimiterConfig, recorder RateLimitRecorder) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		recorder:        recorder,
		generalLimiters: make(map[string]*keyLimiter),
		loginLimiters:   make(map[string]*keyLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop menghentikan goroutine pembersihan.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware mengembalikan middleware rate limit rute data.
// Harus ditempatkan setelah middleware sesi karena kuncinya adalah email
// pengguna dari context.
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := EmailFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			limiter := rl.getOrCreate(&rl.generalMu, rl.generalLimiters, email, rl.config.GeneralRate, rl.config.GeneralBurst)

			if !limiter.Allow() {
				rl.recorder.RecordRateLimited("general")
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("user_email", email),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoginMiddleware mengembalikan middleware rate limit percobaan login,
// dibatasi per alamat IP klien karena belum ada identitas pengguna.
func (rl *RateLimiter) LoginMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			limiter := rl.getOrCreate(&rl.loginMu, rl.loginLimiters, ip, rl.config.LoginRate, rl.config.LoginBurst)

			if !limiter.Allow() {
				rl.recorder.RecordRateLimited("login")
				writeRateLimitResponse(w, rl.config.LoginRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", ip),
					slog.String("limit_type", "login"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount mengembalikan jumlah entri limiter rute data.
// Untuk pengujian dan metrik.
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// LoginLimiterCount mengembalikan jumlah entri limiter login.
// Untuk pengujian dan metrik.
func (rl *RateLimiter) LoginLimiterCount() int {
	rl.loginMu.RLock()
	defer rl.loginMu.RUnlock()
	return len(rl.loginLimiters)
}

// getOrCreate mengambil atau membuat limiter untuk kunci yang diberikan.
func (rl *RateLimiter) getOrCreate(mu *sync.RWMutex, limiters map[string]*keyLimiter, key string, r rate.Limit, burst int) *rate.Limiter {
	mu.RLock()
	kl, exists := limiters[key]
	mu.RUnlock()

	if exists {
		mu.Lock()
		kl.lastAccess = time.Now()
		mu.Unlock()
		return kl.limiter
	}

	mu.Lock()
	defer mu.Unlock()

	// double check
	if kl, exists := limiters[key]; exists {
		kl.lastAccess = time.Now()
		return kl.limiter
	}

	limiter := rate.NewLimiter(r, burst)
	limiters[key] = &keyLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop membersihkan entri kedaluwarsa secara berkala.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup menghapus entri yang tidak diakses lebih dari 2x CleanupInterval.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for key, kl := range rl.generalLimiters {
		if now.Sub(kl.lastAccess) > ttl {
			delete(rl.generalLimiters, key)
		}
	}
	rl.generalMu.Unlock()

	rl.loginMu.Lock()
	for key, kl := range rl.loginLimiters {
		if now.Sub(kl.lastAccess) > ttl {
			delete(rl.loginLimiters, key)
		}
	}
	rl.loginMu.Unlock()
}

// clientIP mengekstrak alamat IP klien dari request.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitResponse menulis respons 429 Too Many Requests.
// Header Retry-After berisi estimasi detik hingga token tersedia lagi.
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteErrorResponse(w, http.StatusTooManyRequests, &model.APIError{
		Code:     "RATE_LIMITED",
		Message:  "Terlalu banyak permintaan. Coba lagi nanti.",
		Category: "system",
	})
}
