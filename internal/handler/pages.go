package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/prasetyo/simahasiswa/internal/middleware"
)

// PagesHandler menyajikan halaman HTML dan aset statis dashboard dari
// filesystem yang disematkan.
type PagesHandler struct {
	assets fs.FS
}

// NewPagesHandler membuat PagesHandler.
func NewPagesHandler(assets fs.FS) *PagesHandler {
	return &PagesHandler{assets: assets}
}

// servePage mengembalikan handler yang menyajikan satu file HTML.
func (h *PagesHandler) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := fs.ReadFile(h.assets, name)
		if err != nil {
			slog.Error("embedded page not found", slog.String("page", name))
			http.Error(w, "halaman tidak ditemukan", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	}
}

// Login menyajikan halaman login.
// GET /
func (h *PagesHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.servePage("login.html")(w, r)
}

// Register menyajikan halaman registrasi.
// GET /register
func (h *PagesHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.servePage("register.html")(w, r)
}

// ResetPassword menyajikan halaman reset password.
// GET /reset-password
func (h *PagesHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	h.servePage("resetpassword.html")(w, r)
}

// Dashboard menyajikan halaman dashboard. Pemeriksaan di sini hanya
// keberadaan cookie sesi; request tanpa cookie dialihkan ke halaman login.
// Verifikasi token ke provider terjadi pada rute data, bukan pada muat
// halaman.
// GET /dashboard
func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.servePage("dashboard.html")(w, r)
}

// Static mengembalikan handler file server untuk aset css dan js.
func (h *PagesHandler) Static() http.Handler {
	return http.FileServer(http.FS(h.assets))
}
