package adapters

import (
	"context"
	"net/http"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/types"
)

const (
	openRouterReferer = "https://github.com/af-corp/llm-router"
	openRouterTitle   = "LLM Router"
)

// OpenRouterAdapter talks to OpenRouter. Some models behind it reject tool
// messages and multi-part bodies, so messages are reduced to plain text
// before sending; responses pass through untouched.
type OpenRouterAdapter struct {
	base
}

func NewOpenRouterAdapter(name string, cfg config.ProviderConfig, client *http.Client) *OpenRouterAdapter {
	return &OpenRouterAdapter{base: newBase(name, cfg, client)}
}

func (a *OpenRouterAdapter) headers() map[string]string {
	h := map[string]string{
		"HTTP-Referer": openRouterReferer,
		"X-Title":      openRouterTitle,
	}
	if a.cfg.APIKey != "" {
		h["Authorization"] = "Bearer " + a.cfg.APIKey
	}
	return h
}

func (a *OpenRouterAdapter) Complete(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (*types.ChatResponse, error) {
	payload := newOpenAIRequest(providerModelID, sanitizeMessages(messages), params, false)
	body, err := a.post(ctx, a.url("/chat/completions"), payload, a.headers())
	if err != nil {
		return nil, err
	}
	return decodePassthrough(a.name, body)
}

func (a *OpenRouterAdapter) CompleteStream(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (Stream, error) {
	payload := newOpenAIRequest(providerModelID, sanitizeMessages(messages), params, true)
	return a.openStream(ctx, a.url("/chat/completions"), payload, a.headers(), passthroughLine)
}

// sanitizeMessages drops tool-role messages and flattens multi-part content
// to its text parts joined by newlines.
func sanitizeMessages(messages []types.Message) []types.Message {
	out := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == types.RoleTool {
			continue
		}
		if m.Content.IsParts() {
			m.Content = types.TextContent(m.Content.Text())
		}
		out = append(out, m)
	}
	return out
}
