package adapters

import (
	"context"

	"github.com/af-corp/llm-router/internal/types"
)

// ProviderAdapter translates canonical chat requests to one backend family's
// wire protocol and back. Adapters are stateless apart from their provider
// settings and the shared HTTP client, so one instance serves any number of
// concurrent requests.
type ProviderAdapter interface {
	// Name is the provider identifier from the configuration.
	Name() string
	// Type is the backend family (openai, anthropic, ...).
	Type() string
	// Complete performs one backend call and returns the canonical response.
	Complete(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (*types.ChatResponse, error)
	// CompleteStream opens one backend streaming call. The caller must Close
	// the returned Stream.
	CompleteStream(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (Stream, error)
}

// Stream is a lazy, finite, non-restartable sequence of canonical frames.
// Recv returns io.EOF once the sequence has ended. Close releases the
// backend connection and may be called at any point, including before the
// sequence is exhausted.
type Stream interface {
	Recv() (types.StreamFrame, error)
	Close() error
}
