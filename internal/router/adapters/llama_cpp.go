package adapters

import (
	"net/http"

	"github.com/af-corp/llm-router/internal/config"
)

// NewLlamaCppAdapter returns an adapter for a llama.cpp server. It speaks the
// OpenAI protocol under the /v1 prefix and normally runs without a key; one
// is sent only when configured.
func NewLlamaCppAdapter(name string, cfg config.ProviderConfig, client *http.Client) *OpenAIAdapter {
	return &OpenAIAdapter{base: newBase(name, cfg, client), path: "/v1/chat/completions"}
}
