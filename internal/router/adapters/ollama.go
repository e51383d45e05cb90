package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/types"
)

// OllamaAdapter talks to a local Ollama server through its native /api/chat
// endpoint, which streams newline-delimited JSON.
type OllamaAdapter struct {
	base
}

func NewOllamaAdapter(name string, cfg config.ProviderConfig, client *http.Client) *OllamaAdapter {
	return &OllamaAdapter{base: newBase(name, cfg, client)}
}

func (a *OllamaAdapter) Complete(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (*types.ChatResponse, error) {
	body, err := a.post(ctx, a.url("/api/chat"), newOllamaRequest(providerModelID, messages, params, false), nil)
	if err != nil {
		return nil, err
	}

	var olResp ollamaChatResponse
	if err := json.Unmarshal(body, &olResp); err != nil {
		return nil, fmt.Errorf("unmarshal ollama response: %w", err)
	}

	var finishReason *string
	if olResp.Done {
		finishReason = types.StringPtr("stop")
	}

	now := time.Now().Unix()
	return &types.ChatResponse{
		ID:      fmt.Sprintf("ollama-%d", now),
		Object:  types.ObjectChatCompletion,
		Created: now,
		Model:   providerModelID,
		Choices: []types.Choice{
			{
				Index: 0,
				Message: types.ResponseMessage{
					Role:    types.RoleAssistant,
					Content: olResp.Message.Content,
				},
				FinishReason: finishReason,
			},
		},
		Usage: types.NewUsage(olResp.PromptEvalCount, olResp.EvalCount),
	}, nil
}

func (a *OllamaAdapter) CompleteStream(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (Stream, error) {
	payload := newOllamaRequest(providerModelID, messages, params, true)
	return a.openStream(ctx, a.url("/api/chat"), payload, nil, ollamaStreamDecoder(providerModelID))
}

// ollamaStreamDecoder turns each NDJSON line into a delta frame when it
// carries text, and ends the stream on done. Lines with neither are skipped.
func ollamaStreamDecoder(model string) lineDecoder {
	created := time.Now().Unix()
	id := fmt.Sprintf("ollama-%d", created)

	return func(line string) ([]types.StreamFrame, bool, error) {
		if strings.TrimSpace(line) == "" {
			return nil, false, nil
		}

		var chunk ollamaChatResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return nil, false, fmt.Errorf("unmarshal ollama chunk: %w", err)
		}

		var frames []types.StreamFrame
		if chunk.Message.Content != "" {
			frame, err := types.DeltaFrame(id, model, created, chunk.Message.Content)
			if err != nil {
				return nil, false, err
			}
			frames = append(frames, frame)
		}
		if chunk.Done {
			return append(frames, types.DoneFrame()), true, nil
		}
		return frames, false, nil
	}
}

func newOllamaRequest(model string, messages []types.Message, params types.Params, stream bool) ollamaRequestBody {
	body := ollamaRequestBody{
		Model:    model,
		Messages: messages,
		Stream:   stream,
	}
	if params.Temperature != nil || params.TopP != nil {
		body.Options = &ollamaOptions{
			Temperature: params.Temperature,
			TopP:        params.TopP,
		}
	}
	return body
}

type ollamaRequestBody struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
	// Ollama streams unless told otherwise, so false is always sent.
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done            bool `json:"done"`
	PromptEvalCount int  `json:"prompt_eval_count"`
	EvalCount       int  `json:"eval_count"`
}
