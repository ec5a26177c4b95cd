// Package supabase menyediakan klien HTTP untuk layanan Supabase:
// GoTrue sebagai Identity Provider dan PostgREST sebagai Record Store.
// Seluruh state kredensial dan data tabel dimiliki oleh layanan eksternal;
// paket ini hanya meneruskan request dan menerjemahkan respons.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ProviderError merepresentasikan penolakan eksplisit dari layanan Supabase
// (status 4xx/5xx dengan pesan). Pesan diteruskan apa adanya ke pemanggil.
type ProviderError struct {
	StatusCode int
	Message    string
}

// Error mengimplementasikan interface error.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("supabase: status %d: %s", e.StatusCode, e.Message)
}

// apiRequest mengirim satu request JSON ke Supabase dan mendekode responsnya.
// Status >= 400 diterjemahkan menjadi *ProviderError dengan pesan dari body.
// Jika out nil, body respons sukses diabaikan.
func apiRequest(ctx context.Context, httpClient *http.Client, logger *slog.Logger, method, url string, headers http.Header, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Error("supabase request failed",
			slog.String("method", method),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		msg := parseErrorMessage(respBody, resp.StatusCode)
		logger.Warn("supabase returned error status",
			slog.String("method", method),
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
		)
		return &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// parseErrorMessage mengekstrak pesan error dari body respons Supabase.
// GoTrue memakai error_description atau msg, PostgREST memakai message.
func parseErrorMessage(body []byte, statusCode int) string {
	var parsed struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.ErrorDescription != "":
			return parsed.ErrorDescription
		case parsed.Msg != "":
			return parsed.Msg
		case parsed.Message != "":
			return parsed.Message
		case parsed.Error != "":
			return parsed.Error
		}
	}
	return fmt.Sprintf("unexpected status %d", statusCode)
}
