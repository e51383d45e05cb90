package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp APIError
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, "req_123", http.StatusBadRequest, "invalid_request_error", "bad_request", "test message")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	if rid := w.Header().Get("X-Request-ID"); rid != "req_123" {
		t.Errorf("expected X-Request-ID req_123, got %s", rid)
	}

	resp := decodeError(t, w)
	if resp.Error.Message != "test message" {
		t.Errorf("expected message 'test message', got %q", resp.Error.Message)
	}
	if resp.Error.Type != "invalid_request_error" {
		t.Errorf("expected type 'invalid_request_error', got %q", resp.Error.Type)
	}
	if resp.Error.Param != "" {
		t.Errorf("expected no param, got %q", resp.Error.Param)
	}
}

func TestWriteAuthError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAuthError(w, "req_456", "Invalid API key")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Error.Code != "invalid_api_key" {
		t.Errorf("expected code 'invalid_api_key', got %q", resp.Error.Code)
	}
}

func TestWriteModelNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	WriteModelNotFound(w, "req_1", "Model 'x' not found. Available models: []")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	resp := decodeError(t, w)
	if resp.Error.Param != "model" || resp.Error.Code != "model_not_found" || resp.Error.Type != "invalid_request_error" {
		t.Errorf("unexpected error body %+v", resp.Error)
	}
}

func TestWriteUpstreamError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteUpstreamError(w, "req_2", "provider returned status 503")

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}
	resp := decodeError(t, w)
	if resp.Error.Type != "upstream_error" || resp.Error.Code != "provider_error" {
		t.Errorf("unexpected error body %+v", resp.Error)
	}
}

func TestWriteJSON_NoRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, "", http.StatusOK, map[string]string{"status": "healthy"})

	if _, ok := w.Header()["X-Request-Id"]; ok {
		t.Error("expected no X-Request-ID header")
	}
	if w.Body.String() != "{\"status\":\"healthy\"}\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
