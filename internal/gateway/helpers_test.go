package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/router"
	"github.com/af-corp/llm-router/internal/router/adapters"
	"github.com/af-corp/llm-router/internal/types"
)

// scriptedAdapter implements adapters.ProviderAdapter with canned results.
type scriptedAdapter struct {
	name string

	resp    *types.ChatResponse
	err     error
	frames  []types.StreamFrame
	recvErr error
	openErr error

	gotModel  string
	gotParams types.Params
	closed    atomic.Bool
}

func (a *scriptedAdapter) Name() string { return a.name }
func (a *scriptedAdapter) Type() string { return "scripted" }

func (a *scriptedAdapter) Complete(_ context.Context, model string, _ []types.Message, params types.Params) (*types.ChatResponse, error) {
	a.gotModel = model
	a.gotParams = params
	return a.resp, a.err
}

func (a *scriptedAdapter) CompleteStream(_ context.Context, model string, _ []types.Message, params types.Params) (adapters.Stream, error) {
	a.gotModel = model
	a.gotParams = params
	if a.openErr != nil {
		return nil, a.openErr
	}
	return &sliceStream{frames: a.frames, err: a.recvErr, closed: &a.closed}, nil
}

type sliceStream struct {
	frames []types.StreamFrame
	err    error
	closed *atomic.Bool
}

func (s *sliceStream) Recv() (types.StreamFrame, error) {
	if len(s.frames) > 0 {
		f := s.frames[0]
		s.frames = s.frames[1:]
		return f, nil
	}
	if s.err != nil {
		return types.StreamFrame{}, s.err
	}
	return types.StreamFrame{}, io.EOF
}

func (s *sliceStream) Close() error {
	s.closed.Store(true)
	return nil
}

// newTestHandler routes model "gpt" (alias "g1") to adapter under provider
// "A", and declares a disabled provider "off".
func newTestHandler(t *testing.T, adapter *scriptedAdapter) *Handler {
	t.Helper()
	providers := &config.ProvidersConfig{}

	a := config.DefaultProviderConfig()
	a.Type = config.ProviderOpenAI
	a.BaseURL = "http://a.test"
	a.Models = []config.ModelConfig{{Name: "gpt", ProviderModelID: "gpt-4o", Aliases: []string{"g1"}}}
	providers.Add("A", a)

	off := config.DefaultProviderConfig()
	off.Type = config.ProviderOllama
	off.BaseURL = "http://off.test"
	off.Enabled = false
	off.Models = []config.ModelConfig{{Name: "hidden", ProviderModelID: "h"}}
	providers.Add("off", off)

	table, err := router.BuildTable(providers)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	registry := router.NewRegistry()
	registry.Register("A", adapter)
	return NewHandler(router.New(table, registry, providers), nil)
}

func postChat(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	w := httptest.NewRecorder()
	w.Header().Set("X-Request-ID", "req_test")
	h.ChatCompletions(w, req)
	return w
}
