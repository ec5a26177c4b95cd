// Package model mendefinisikan model domain.
package model

import "fmt"

// APIError merepresentasikan error dengan format seragam untuk API.
// Message ditampilkan apa adanya ke pengguna pada dashboard.
type APIError struct {
	Code     string // kode error
	Message  string // pesan error
	Category string // kategori: validation, auth, provider, store, system
}

// Error mengimplementasikan interface error.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Kode error yang terdefinisi
const (
	ErrCodeValidation   = "VALIDATION"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeAuthFailed   = "AUTH_FAILED"
	ErrCodeProvider     = "PROVIDER_ERROR"
	ErrCodeStore        = "STORE_ERROR"
)

// NewValidationError membuat error validasi input.
// Dipakai sebelum menghubungi kolaborator eksternal mana pun.
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewUnauthorizedError membuat error untuk request tanpa kredensial sesi.
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
	}
}

// NewAuthFailedError membuat error penolakan kredensial oleh Identity
// Provider. Pesan provider diteruskan apa adanya.
func NewAuthFailedError(providerMessage string) *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  providerMessage,
		Category: "auth",
	}
}

// NewProviderError membuat error kegagalan operasi Identity Provider di luar
// pemeriksaan kredensial login (registrasi, OTP, update password).
func NewProviderError(providerMessage string) *APIError {
	return &APIError{
		Code:     ErrCodeProvider,
		Message:  providerMessage,
		Category: "provider",
	}
}

// NewStoreError membuat error kegagalan Record Store.
// Pesan store diteruskan apa adanya.
func NewStoreError(storeMessage string) *APIError {
	return &APIError{
		Code:     ErrCodeStore,
		Message:  storeMessage,
		Category: "store",
	}
}
