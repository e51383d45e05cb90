package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/af-corp/llm-router/internal/httputil"
	"github.com/af-corp/llm-router/internal/router"
	"github.com/af-corp/llm-router/internal/router/adapters"
	"github.com/af-corp/llm-router/internal/telemetry"
	"github.com/af-corp/llm-router/internal/types"
)

const maxRequestBody = 10 << 20

// Handler holds dependencies for the router's HTTP handlers.
type Handler struct {
	router  *router.Router
	metrics *telemetry.Metrics
}

// NewHandler builds the HTTP handlers. metrics may be nil.
func NewHandler(rt *router.Router, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		router:  rt,
		metrics: metrics,
	}
}

// ChatCompletions handles POST /v1/chat/completions
func (h *Handler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		httputil.WriteBadRequestError(w, reqID, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var req types.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	if req.Model == "" {
		httputil.WriteBadRequestError(w, reqID, "model is required")
		return
	}
	if len(req.Messages) == 0 {
		httputil.WriteBadRequestError(w, reqID, "messages is required")
		return
	}

	route, err := h.router.Resolve(req.Model)
	if err != nil {
		var notFound *router.ModelNotFoundError
		if errors.As(err, &notFound) {
			slog.Info("model not found", "request_id", reqID, "model", req.Model)
			h.recordRequest(req.Model, "", http.StatusNotFound, req.Stream, receivedAt, types.Usage{})
			httputil.WriteModelNotFound(w, reqID, notFound.Error())
			return
		}
		slog.Error("failed to resolve model", "request_id", reqID, "model", req.Model, "error", err)
		httputil.WriteInternalError(w, reqID, "Internal server error")
		return
	}

	if req.Stream {
		h.handleStream(w, r, reqID, &req, route, receivedAt)
		return
	}

	resp, err := route.Adapter.Complete(r.Context(), route.ProviderModelID, req.Messages, req.Params())
	if err != nil {
		status := h.writeProviderError(w, reqID, route, err)
		h.recordRequest(req.Model, route.ProviderID, status, false, receivedAt, types.Usage{})
		return
	}

	totalDuration := time.Since(receivedAt)
	slog.Info("request completed",
		"request_id", reqID,
		"model_requested", req.Model,
		"model_served", resp.Model,
		"provider", route.ProviderID,
		"provider_model_id", route.ProviderModelID,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", totalDuration.Milliseconds(),
		"status_code", http.StatusOK,
		"stream", false,
	)
	h.recordRequest(req.Model, route.ProviderID, http.StatusOK, false, receivedAt, resp.Usage)

	httputil.WriteJSON(w, reqID, http.StatusOK, resp)
}

// writeProviderError maps an adapter failure to the client response and
// returns the status written. Upstream bodies are logged, never returned.
func (h *Handler) writeProviderError(w http.ResponseWriter, reqID string, route router.Route, err error) int {
	var upErr *adapters.UpstreamError
	if errors.As(err, &upErr) {
		slog.Error("provider returned error",
			"request_id", reqID,
			"provider", route.ProviderID,
			"status", upErr.StatusCode,
			"body", string(upErr.Body),
		)
		if h.metrics != nil {
			h.metrics.RecordUpstreamError(route.ProviderID, upErr.StatusCode)
		}
		httputil.WriteUpstreamError(w, reqID, fmt.Sprintf("Provider %s returned status %d", route.ProviderID, upErr.StatusCode))
		return http.StatusBadGateway
	}

	slog.Error("provider request failed", "request_id", reqID, "provider", route.ProviderID, "error", err)
	httputil.WriteInternalError(w, reqID, "Internal server error")
	return http.StatusInternalServerError
}

func (h *Handler) recordRequest(model, provider string, status int, stream bool, receivedAt time.Time, usage types.Usage) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordRequest(telemetry.RequestLabels{
		Model:            model,
		Provider:         provider,
		Status:           strconv.Itoa(status),
		Stream:           stream,
		DurationMs:       float64(time.Since(receivedAt).Milliseconds()),
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	})
}

// ListModels handles GET /v1/models
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, w.Header().Get("X-Request-ID"), http.StatusOK, types.ModelList{
		Object: "list",
		Data:   h.router.ListModels(),
	})
}

// ListAllModels handles GET /v1/models/all
func (h *Handler) ListAllModels(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, w.Header().Get("X-Request-ID"), http.StatusOK, types.ModelList{
		Object: "list",
		Data:   h.router.ListAllModels(),
	})
}

type healthResponse struct {
	Status    string            `json:"status"`
	Providers map[string]string `json:"providers"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, w.Header().Get("X-Request-ID"), http.StatusOK, healthResponse{
		Status:    "healthy",
		Providers: h.router.ProviderStatus(),
	})
}
