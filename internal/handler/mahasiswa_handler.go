package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prasetyo/simahasiswa/internal/metrics"
	"github.com/prasetyo/simahasiswa/internal/middleware"
	"github.com/prasetyo/simahasiswa/internal/model"
	"github.com/prasetyo/simahasiswa/internal/security"
	"github.com/prasetyo/simahasiswa/internal/supabase"
)

// RecordStoreInterface adalah interface store yang dibutuhkan handler data
// mahasiswa. Subset dari supabase.RestClient.
type RecordStoreInterface interface {
	List(ctx context.Context) ([]model.Mahasiswa, error)
	Insert(ctx context.Context, m model.Mahasiswa) ([]model.Mahasiswa, error)
	Update(ctx context.Context, id int64, m model.Mahasiswa) ([]model.Mahasiswa, error)
	Delete(ctx context.Context, id int64) error
}

// MahasiswaHandler menangani rute CRUD data mahasiswa. Seluruh penyimpanan
// didelegasikan ke Record Store; handler memvalidasi bentuk payload,
// membersihkan field teks, dan menerjemahkan hasil store ke format respons
// dashboard.
type MahasiswaHandler struct {
	store     RecordStoreInterface
	sanitizer security.FieldSanitizerService
	collector metrics.MetricsCollector
}

// NewMahasiswaHandler membuat MahasiswaHandler.
func NewMahasiswaHandler(store RecordStoreInterface, sanitizer security.FieldSanitizerService, collector metrics.MetricsCollector) *MahasiswaHandler {
	return &MahasiswaHandler{
		store:     store,
		sanitizer: sanitizer,
		collector: collector,
	}
}

// mahasiswaRequest adalah skema eksplisit payload baris mahasiswa.
// NIM dan NILAI menerima angka JSON maupun string numerik; nilai yang tidak
// bisa dikoersi membuat decode gagal sebelum store dihubungi.
type mahasiswaRequest struct {
	NAMA   string          `json:"NAMA"`
	NIM    model.FlexInt   `json:"NIM"`
	KELAS  string          `json:"KELAS"`
	NILAI  model.FlexFloat `json:"NILAI"`
	BIDANG string          `json:"BIDANG"`
	GENDER string          `json:"GENDER"`
}

// toModel memetakan request ke model dengan field teks tersanitasi.
func (h *MahasiswaHandler) toModel(req mahasiswaRequest) model.Mahasiswa {
	return model.Mahasiswa{
		NAMA:   h.sanitizer.Sanitize(req.NAMA),
		NIM:    req.NIM,
		KELAS:  h.sanitizer.Sanitize(req.KELAS),
		NILAI:  req.NILAI,
		BIDANG: h.sanitizer.Sanitize(req.BIDANG),
		GENDER: h.sanitizer.Sanitize(req.GENDER),
	}
}

// List mengembalikan seluruh baris sebagai array JSON polos, terurut
// menaik berdasarkan id sebagaimana diurutkan store.
// GET /api/mahasiswa
func (h *MahasiswaHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		h.collector.RecordStoreCall("list", false)
		h.writeStoreError(w, err)
		return
	}
	h.collector.RecordStoreCall("list", true)

	// Hasil kosong tetap array, bukan null
	if rows == nil {
		rows = []model.Mahasiswa{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// Create menambahkan satu baris baru. Id ditetapkan store.
// POST /api/mahasiswa
func (h *MahasiswaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mahasiswaRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rows, err := h.store.Insert(r.Context(), h.toModel(req))
	if err != nil {
		h.collector.RecordStoreCall("insert", false)
		h.writeStoreError(w, err)
		return
	}
	h.collector.RecordStoreCall("insert", true)

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Data berhasil ditambahkan",
		Data:    rows,
	})
}

// Update menimpa baris dengan id pada path. Id yang tidak cocok adalah
// no-op dan tetap dijawab sukses.
// PUT /api/mahasiswa/{id}
func (h *MahasiswaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req mahasiswaRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	rows, err := h.store.Update(r.Context(), id, h.toModel(req))
	if err != nil {
		h.collector.RecordStoreCall("update", false)
		h.writeStoreError(w, err)
		return
	}
	h.collector.RecordStoreCall("update", true)

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Data berhasil diperbarui",
		Data:    rows,
	})
}

// Delete menghapus baris dengan id pada path. Id yang tidak ada adalah
// no-op dan tetap dijawab sukses.
// DELETE /api/mahasiswa/{id}
func (h *MahasiswaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.collector.RecordStoreCall("delete", false)
		h.writeStoreError(w, err)
		return
	}
	h.collector.RecordStoreCall("delete", true)

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Data berhasil dihapus",
	})
}

// writeStoreError menulis error kegagalan Record Store: penolakan store
// diteruskan apa adanya dengan kode STORE_ERROR, kegagalan lain (jaringan,
// timeout) menjadi error internal.
func (h *MahasiswaHandler) writeStoreError(w http.ResponseWriter, err error) {
	var provErr *supabase.ProviderError
	if errors.As(err, &provErr) {
		middleware.WriteErrorResponse(w, http.StatusInternalServerError,
			model.NewStoreError(provErr.Message))
		return
	}
	writeUnexpectedError(w, err)
}

// pathID mengambil dan memvalidasi parameter id dari path.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("ID tidak valid"))
		return 0, false
	}
	return id, true
}
