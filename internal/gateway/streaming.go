package gateway

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/af-corp/llm-router/internal/httputil"
	"github.com/af-corp/llm-router/internal/router"
	"github.com/af-corp/llm-router/internal/router/adapters"
	"github.com/af-corp/llm-router/internal/types"
)

// statusClientClosed labels streams the client abandoned.
const statusClientClosed = 499

// handleStream opens the provider stream and forwards its frames as
// server-sent events. Headers are committed before the provider is
// contacted, so every failure from then on, including one to open the
// stream, is reported as a single error event without a [DONE] sentinel.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request, reqID string, req *types.ChatRequest, route router.Route, receivedAt time.Time) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteInternalError(w, reqID, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Request-ID", reqID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	stream, err := route.Adapter.CompleteStream(ctx, route.ProviderModelID, req.Messages, req.Params())
	if err != nil {
		h.failStream(w, flusher, reqID, route, err)
		h.recordRequest(req.Model, route.ProviderID, streamFailureStatus(err), true, receivedAt, types.Usage{})
		return
	}
	defer stream.Close()

	slog.Info("streaming started",
		"request_id", reqID,
		"model_requested", req.Model,
		"provider", route.ProviderID,
		"provider_model_id", route.ProviderModelID,
	)

	frames := 0
	status := http.StatusOK
	for {
		frame, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				status = statusClientClosed
				break
			}
			h.failStream(w, flusher, reqID, route, err)
			status = streamFailureStatus(err)
			break
		}

		if _, err := w.Write(frame.Bytes()); err != nil {
			status = statusClientClosed
			break
		}
		flusher.Flush()
		frames++
		if h.metrics != nil {
			h.metrics.RecordStreamFrame(route.ProviderID)
		}
	}

	if status == statusClientClosed {
		slog.Info("client disconnected during stream", "request_id", reqID, "provider", route.ProviderID, "frames", frames)
	} else {
		slog.Info("streaming finished",
			"request_id", reqID,
			"provider", route.ProviderID,
			"frames", frames,
			"status_code", status,
			"duration_ms", time.Since(receivedAt).Milliseconds(),
		)
	}
	h.recordRequest(req.Model, route.ProviderID, status, true, receivedAt, types.Usage{})
}

// failStream logs err and writes the terminal error event.
func (h *Handler) failStream(w http.ResponseWriter, flusher http.Flusher, reqID string, route router.Route, err error) {
	var upErr *adapters.UpstreamError
	if errors.As(err, &upErr) {
		slog.Error("provider returned error",
			"request_id", reqID,
			"provider", route.ProviderID,
			"status", upErr.StatusCode,
			"body", string(upErr.Body),
			"stream", true,
		)
		if h.metrics != nil {
			h.metrics.RecordUpstreamError(route.ProviderID, upErr.StatusCode)
		}
	} else {
		slog.Error("stream failed", "request_id", reqID, "provider", route.ProviderID, "error", err)
	}

	w.Write(types.ErrorFrame(streamErrorMessage(err)).Bytes())
	flusher.Flush()
}

// streamErrorMessage is what the client sees in the error event. Upstream
// bodies and transport details stay in the logs.
func streamErrorMessage(err error) string {
	var upErr *adapters.UpstreamError
	var opErr *adapters.UnsupportedOperationError
	var streamErr *adapters.StreamError
	switch {
	case errors.As(err, &upErr):
		return fmt.Sprintf("Provider %s returned status %d", upErr.Provider, upErr.StatusCode)
	case errors.As(err, &opErr):
		return fmt.Sprintf("Provider %s does not support %s", opErr.Provider, opErr.Operation)
	case errors.As(err, &streamErr):
		return fmt.Sprintf("Provider %s stream failed: %s", streamErr.Provider, streamErr.Message)
	default:
		return "Internal server error"
	}
}

func streamFailureStatus(err error) int {
	var upErr *adapters.UpstreamError
	if errors.As(err, &upErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
