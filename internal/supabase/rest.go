package supabase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/prasetyo/simahasiswa/internal/model"
)

// RestClient adalah klien PostgREST (Record Store Supabase) untuk satu tabel
// mahasiswa. Penyimpanan, penetapan id, dan kontrol konkurensi seluruhnya
// menjadi tanggung jawab store.
type RestClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string // dapat ditukar ke httptest.Server pada pengujian
	apiKey     string
	table      string
}

// NewRestClient membuat RestClient baru untuk tabel yang diberikan.
func NewRestClient(httpClient *http.Client, logger *slog.Logger, baseURL, apiKey, table string) *RestClient {
	return &RestClient{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
		apiKey:     apiKey,
		table:      table,
	}
}

// recordColumns adalah pemetaan eksplisit payload wire ke kolom store.
// Kolom id tidak pernah dikirim: id ditetapkan store saat insert dan tidak
// diubah saat update.
type recordColumns struct {
	NAMA   string  `json:"NAMA"`
	NIM    int64   `json:"NIM"`
	KELAS  string  `json:"KELAS"`
	NILAI  float64 `json:"NILAI"`
	BIDANG string  `json:"BIDANG"`
	GENDER string  `json:"GENDER"`
}

// toColumns memetakan model.Mahasiswa ke kolom store tanpa id.
func toColumns(m model.Mahasiswa) recordColumns {
	return recordColumns{
		NAMA:   m.NAMA,
		NIM:    int64(m.NIM),
		KELAS:  m.KELAS,
		NILAI:  float64(m.NILAI),
		BIDANG: m.BIDANG,
		GENDER: m.GENDER,
	}
}

// headers menyusun header standar PostgREST. Store diakses dengan anon key;
// aturan akses baris adalah urusan store, bukan sistem ini.
func (c *RestClient) headers(prefer string) http.Header {
	h := http.Header{}
	h.Set("apikey", c.apiKey)
	h.Set("Authorization", "Bearer "+c.apiKey)
	if prefer != "" {
		h.Set("Prefer", prefer)
	}
	return h
}

// tableURL menyusun URL tabel dengan query string yang diberikan.
func (c *RestClient) tableURL(query url.Values) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(c.table))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// List mengambil seluruh baris terurut menaik berdasarkan id.
func (c *RestClient) List(ctx context.Context) ([]model.Mahasiswa, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")

	var rows []model.Mahasiswa
	if err := apiRequest(ctx, c.httpClient, c.logger, http.MethodGet, c.tableURL(q), c.headers(""), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert menambahkan satu baris baru dan mengembalikan baris hasil insert
// (termasuk id yang ditetapkan store).
func (c *RestClient) Insert(ctx context.Context, m model.Mahasiswa) ([]model.Mahasiswa, error) {
	var rows []model.Mahasiswa
	headers := c.headers("return=representation")
	if err := apiRequest(ctx, c.httpClient, c.logger, http.MethodPost, c.tableURL(nil), headers, toColumns(m), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update menimpa baris dengan id yang cocok. Jika tidak ada baris yang
// cocok, hasilnya kosong tanpa error (no-op).
func (c *RestClient) Update(ctx context.Context, id int64, m model.Mahasiswa) ([]model.Mahasiswa, error) {
	q := url.Values{}
	q.Set("id", fmt.Sprintf("eq.%d", id))

	var rows []model.Mahasiswa
	headers := c.headers("return=representation")
	if err := apiRequest(ctx, c.httpClient, c.logger, http.MethodPatch, c.tableURL(q), headers, toColumns(m), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete menghapus baris dengan id yang cocok. Id yang tidak ada bukan
// error (no-op).
func (c *RestClient) Delete(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", fmt.Sprintf("eq.%d", id))

	return apiRequest(ctx, c.httpClient, c.logger, http.MethodDelete, c.tableURL(q), c.headers(""), nil, nil)
}
