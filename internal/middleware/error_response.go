package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/prasetyo/simahasiswa/internal/model"
)

// ErrorResponseBody adalah format seragam respons error API.
// Field error dibaca langsung oleh dashboard; code membedakan error
// validasi dari error store/provider.
type ErrorResponseBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteErrorResponse menulis respons error HTTP dengan format seragam.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Error: apiErr.Message,
		Code:  apiErr.Code,
	})
}
