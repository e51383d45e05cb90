package httputil

import (
	"encoding/json"
	"net/http"
)

// APIError matches the OpenAI error response format.
type APIError struct {
	Error APIErrorBody `json:"error"`
}

type APIErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code"`
}

// WriteJSON writes v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, requestID string, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, requestID string, statusCode int, errType, code, message string) {
	writeError(w, requestID, statusCode, APIErrorBody{Message: message, Type: errType, Code: code})
}

func writeError(w http.ResponseWriter, requestID string, statusCode int, body APIErrorBody) {
	WriteJSON(w, requestID, statusCode, APIError{Error: body})
}

func WriteAuthError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusUnauthorized, "authentication_error", "invalid_api_key", message)
}

func WriteRateLimitError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusTooManyRequests, "rate_limit_error", "rate_limit_exceeded", message)
}

func WriteBadRequestError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusBadRequest, "invalid_request_error", "invalid_request", message)
}

// WriteModelNotFound reports an unknown model name; the message lists the
// models that are available.
func WriteModelNotFound(w http.ResponseWriter, requestID, message string) {
	writeError(w, requestID, http.StatusNotFound, APIErrorBody{
		Message: message,
		Type:    "invalid_request_error",
		Param:   "model",
		Code:    "model_not_found",
	})
}

func WriteUpstreamError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusBadGateway, "upstream_error", "provider_error", message)
}

func WriteInternalError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusInternalServerError, "server_error", "internal_error", message)
}
