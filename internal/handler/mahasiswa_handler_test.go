package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/prasetyo/simahasiswa/internal/middleware"
	"github.com/prasetyo/simahasiswa/internal/model"
	"github.com/prasetyo/simahasiswa/internal/security"
	"github.com/prasetyo/simahasiswa/internal/supabase"
)

// --- definisi mock ---

type mockRecordStore struct {
	listFn   func(ctx context.Context) ([]model.Mahasiswa, error)
	insertFn func(ctx context.Context, m model.Mahasiswa) ([]model.Mahasiswa, error)
	updateFn func(ctx context.Context, id int64, m model.Mahasiswa) ([]model.Mahasiswa, error)
	deleteFn func(ctx context.Context, id int64) error

	listCalls   int
	insertCalls int
	updateCalls int
	deleteCalls int
}

func (m *mockRecordStore) List(ctx context.Context) ([]model.Mahasiswa, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRecordStore) Insert(ctx context.Context, row model.Mahasiswa) ([]model.Mahasiswa, error) {
	m.insertCalls++
	if m.insertFn != nil {
		return m.insertFn(ctx, row)
	}
	return []model.Mahasiswa{row}, nil
}

func (m *mockRecordStore) Update(ctx context.Context, id int64, row model.Mahasiswa) ([]model.Mahasiswa, error) {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, id, row)
	}
	return []model.Mahasiswa{row}, nil
}

func (m *mockRecordStore) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// newMahasiswaTestRouter memasang handler pada router chi agar parameter
// path {id} terisi seperti di produksi.
func newMahasiswaTestRouter(store *mockRecordStore) http.Handler {
	h := NewMahasiswaHandler(store, security.NewFieldSanitizer(), newTestCollector())

	r := chi.NewRouter()
	r.Get("/api/mahasiswa", h.List)
	r.Post("/api/mahasiswa", h.Create)
	r.Put("/api/mahasiswa/{id}", h.Update)
	r.Delete("/api/mahasiswa/{id}", h.Delete)
	return r
}

// --- pengujian list ---

func TestMahasiswaList_ReturnsBareArray(t *testing.T) {
	store := &mockRecordStore{
		listFn: func(ctx context.Context) ([]model.Mahasiswa, error) {
			return []model.Mahasiswa{
				{ID: 1, NAMA: "Budi", NIM: 12345, KELAS: "TI-1A", NILAI: 88.5, BIDANG: "RPL", GENDER: "L"},
				{ID: 2, NAMA: "Sari", NIM: 12346, KELAS: "TI-1B", NILAI: 91, BIDANG: "Jaringan", GENDER: "P"},
			}, nil
		},
	}
	router := newMahasiswaTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/mahasiswa", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var rows []model.Mahasiswa
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if rows[0].NAMA != "Budi" || rows[1].NAMA != "Sari" {
		t.Errorf("rows out of order: %v", rows)
	}
}

func TestMahasiswaList_EmptyStore_ReturnsEmptyArrayNotNull(t *testing.T) {
	store := &mockRecordStore{}
	router := newMahasiswaTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/mahasiswa", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	body := strings.TrimSpace(w.Body.String())
	if body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestMahasiswaList_StoreError_Returns500WithVerbatimMessage(t *testing.T) {
	store := &mockRecordStore{
		listFn: func(ctx context.Context) ([]model.Mahasiswa, error) {
			return nil, &supabase.ProviderError{
				StatusCode: http.StatusNotFound,
				Message:    `relation "public.Gelar1" does not exist`,
			}
		},
	}
	router := newMahasiswaTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/mahasiswa", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != `relation "public.Gelar1" does not exist` {
		t.Errorf("error message = %q, want store message verbatim", body.Error)
	}
	if body.Code != model.ErrCodeStore {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeStore)
	}
}

// --- pengujian create ---

func TestMahasiswaCreate_CoercesStringNumbers(t *testing.T) {
	var captured model.Mahasiswa
	store := &mockRecordStore{
		insertFn: func(ctx context.Context, m model.Mahasiswa) ([]model.Mahasiswa, error) {
			captured = m
			m.ID = 7
			return []model.Mahasiswa{m}, nil
		},
	}
	router := newMahasiswaTestRouter(store)

	// NIM dan NILAI sebagai string numerik, seperti yang dikirim form browser
	body := strings.NewReader(`{"NAMA":"Budi","NIM":"12345","KELAS":"TI-1A","NILAI":"88.5","BIDANG":"RPL","GENDER":"L"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mahasiswa", body)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, http.StatusOK, w.Body.String())
	}

	if int64(captured.NIM) != 12345 {
		t.Errorf("NIM = %d, want 12345", int64(captured.NIM))
	}
	if float64(captured.NILAI) != 88.5 {
		t.Errorf("NILAI = %v, want 88.5", float64(captured.NILAI))
	}

	var respBody successResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if respBody.Message != "Data berhasil ditambahkan" {
		t.Errorf("message = %q, want %q", respBody.Message, "Data berhasil ditambahkan")
	}
}

func TestMahasiswaCreate_NumberPayloadCoercesIdentically(t *testing.T) {
	var captured model.Mahasiswa
	store := &mockRecordStore{
		insertFn: func(ctx context.Context, m model.Mahasiswa) ([]model.Mahasiswa, error) {
			captured = m
			return []model.Mahasiswa{m}, nil
		},
	}
	router := newMahasiswaTestRouter(store)

	body := strings.NewReader(`{"NAMA":"Budi","NIM":12345,"KELAS":"TI-1A","NILAI":88.5,"BIDANG":"RPL","GENDER":"L"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mahasiswa", body)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if int64(captured.NIM) != 12345 || float64(captured.NILAI) != 88.5 {
		t.Errorf("coerced values = (%d, %v), want (12345, 88.5)", int64(captured.NIM), float64(captured.NILAI))
	}
}

func TestMahasiswaCreate_UncoercibleNIM_RejectedBeforeStoreCall(t *testing.T) {
	store := &mockRecordStore{}
	router := newMahasiswaTestRouter(store)

	body := strings.NewReader(`{"NAMA":"Budi","NIM":"bukan-angka","KELAS":"TI-1A","NILAI":"88.5","BIDANG":"RPL","GENDER":"L"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mahasiswa", body)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if store.insertCalls != 0 {
		t.Errorf("store call count = %d, want 0", store.insertCalls)
	}

	var respBody middleware.ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if respBody.Code != model.ErrCodeValidation {
		t.Errorf("code = %q, want %q", respBody.Code, model.ErrCodeValidation)
	}
}

func TestMahasiswaCreate_SanitizesTextFields(t *testing.T) {
	var captured model.Mahasiswa
	store := &mockRecordStore{
		insertFn: func(ctx context.Context, m model.Mahasiswa) ([]model.Mahasiswa, error) {
			captured = m
			return []model.Mahasiswa{m}, nil
		},
	}
	router := newMahasiswaTestRouter(store)

	body := strings.NewReader(`{"NAMA":"<script>alert(1)</script>Budi","NIM":1,"KELAS":"<b>TI-1A</b>","NILAI":1,"BIDANG":"RPL","GENDER":"L"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/mahasiswa", body)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if strings.Contains(captured.NAMA, "<script>") {
		t.Errorf("NAMA = %q, script tag should be stripped", captured.NAMA)
	}
	if captured.KELAS != "TI-1A" {
		t.Errorf("KELAS = %q, want TI-1A", captured.KELAS)
	}
}

// --- pengujian update ---

func TestMahasiswaUpdate_PassesPathID(t *testing.T) {
	var capturedID int64
	store := &mockRecordStore{
		updateFn: func(ctx context.Context, id int64, m model.Mahasiswa) ([]model.Mahasiswa, error) {
			capturedID = id
			return []model.Mahasiswa{m}, nil
		},
	}
	router := newMahasiswaTestRouter(store)

	body := strings.NewReader(`{"NAMA":"Budi","NIM":1,"KELAS":"TI-1A","NILAI":90,"BIDANG":"RPL","GENDER":"L"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/mahasiswa/42", body)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedID != 42 {
		t.Errorf("id = %d, want 42", capturedID)
	}

	var respBody successResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if respBody.Message != "Data berhasil diperbarui" {
		t.Errorf("message = %q, want %q", respBody.Message, "Data berhasil diperbarui")
	}
}

func TestMahasiswaUpdate_InvalidID_Returns400(t *testing.T) {
	store := &mockRecordStore{}
	router := newMahasiswaTestRouter(store)

	body := strings.NewReader(`{"NAMA":"Budi","NIM":1,"KELAS":"TI-1A","NILAI":90,"BIDANG":"RPL","GENDER":"L"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/mahasiswa/abc", body)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
	if store.updateCalls != 0 {
		t.Errorf("store call count = %d, want 0", store.updateCalls)
	}
}

// --- pengujian delete ---

func TestMahasiswaDelete_Success(t *testing.T) {
	var capturedID int64
	store := &mockRecordStore{
		deleteFn: func(ctx context.Context, id int64) error {
			capturedID = id
			return nil
		},
	}
	router := newMahasiswaTestRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/mahasiswa/7", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedID != 7 {
		t.Errorf("id = %d, want 7", capturedID)
	}
}

func TestMahasiswaDelete_AbsentID_StillSucceeds(t *testing.T) {
	// Store memperlakukan id yang tidak ada sebagai no-op
	store := &mockRecordStore{}
	router := newMahasiswaTestRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/mahasiswa/999", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var respBody successResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !respBody.Success {
		t.Error("success = false, want true")
	}
	if respBody.Message != "Data berhasil dihapus" {
		t.Errorf("message = %q, want %q", respBody.Message, "Data berhasil dihapus")
	}
}
