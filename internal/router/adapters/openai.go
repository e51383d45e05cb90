package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/types"
)

// OpenAIAdapter handles OpenAI-compatible APIs. The canonical schema is the
// OpenAI one, so requests and responses pass through untouched.
type OpenAIAdapter struct {
	base
	path string
}

func NewOpenAIAdapter(name string, cfg config.ProviderConfig, client *http.Client) *OpenAIAdapter {
	return &OpenAIAdapter{base: newBase(name, cfg, client), path: "/chat/completions"}
}

func (a *OpenAIAdapter) Complete(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (*types.ChatResponse, error) {
	body, err := a.post(ctx, a.url(a.path), newOpenAIRequest(providerModelID, messages, params, false), bearer(a.cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return decodePassthrough(a.name, body)
}

func (a *OpenAIAdapter) CompleteStream(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (Stream, error) {
	return a.openStream(ctx, a.url(a.path), newOpenAIRequest(providerModelID, messages, params, true), bearer(a.cfg.APIKey), passthroughLine)
}

// openAIRequestBody is the OpenAI chat payload. Params is embedded so only
// the parameters the client sent appear at the top level.
type openAIRequestBody struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
	Stream   bool            `json:"stream,omitempty"`
	types.Params
}

func newOpenAIRequest(model string, messages []types.Message, params types.Params, stream bool) openAIRequestBody {
	return openAIRequestBody{
		Model:    model,
		Messages: messages,
		Stream:   stream,
		Params:   params,
	}
}

// decodePassthrough keeps the backend body for the client and decodes it only
// so usage and model can be observed.
func decodePassthrough(provider string, body []byte) (*types.ChatResponse, error) {
	var resp types.ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal %s response: %w", provider, err)
	}
	return resp.WithRaw(body), nil
}
