package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/types"
)

func testProviderConfig(providerType, baseURL string) config.ProviderConfig {
	cfg := config.DefaultProviderConfig()
	cfg.Type = providerType
	cfg.BaseURL = baseURL
	cfg.APIKey = "test-key"
	cfg.Timeout = config.Duration(5 * time.Second)
	return cfg
}

// capturedRequest records what the fake backend received.
type capturedRequest struct {
	Path    string
	Header  http.Header
	Payload map[string]any
}

type capture struct {
	mu  sync.Mutex
	req capturedRequest
}

func (c *capture) get() capturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.req
}

func newBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *capture) {
	t.Helper()
	captured := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := capturedRequest{Path: r.URL.Path, Header: r.Header.Clone()}
		if err := json.NewDecoder(r.Body).Decode(&req.Payload); err != nil {
			t.Errorf("backend: decode request body: %v", err)
		}
		captured.mu.Lock()
		captured.req = req
		captured.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func writeSSE(w http.ResponseWriter, lines ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	flusher := w.(http.Flusher)
	for _, line := range lines {
		fmt.Fprintf(w, "%s\n", line)
		flusher.Flush()
	}
}

// collect drains a stream and returns its frames along with the error that
// ended it (nil for a clean io.EOF).
func collect(t *testing.T, s Stream) ([]types.StreamFrame, error) {
	t.Helper()
	defer s.Close()
	var frames []types.StreamFrame
	for {
		frame, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, frame)
	}
}

func chunkContent(t *testing.T, frame types.StreamFrame) string {
	t.Helper()
	var chunk types.ChatCompletionChunk
	if err := json.Unmarshal(frame.Data, &chunk); err != nil {
		t.Fatalf("frame is not a chunk: %s", frame.Data)
	}
	if chunk.Object != types.ObjectChatCompletionChunk {
		t.Errorf("expected object %s, got %s", types.ObjectChatCompletionChunk, chunk.Object)
	}
	if len(chunk.Choices) != 1 {
		t.Fatalf("expected 1 choice, got %d", len(chunk.Choices))
	}
	return chunk.Choices[0].Delta.Content
}

func userMessages(texts ...string) []types.Message {
	msgs := make([]types.Message, 0, len(texts))
	for _, text := range texts {
		msgs = append(msgs, types.Message{Role: types.RoleUser, Content: types.TextContent(text)})
	}
	return msgs
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
