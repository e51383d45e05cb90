package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/types"
)

const (
	qwenDefaultTemperature = 1.0
	qwenDefaultMaxTokens   = 2000
)

// QwenAdapter talks to the DashScope text-generation API. Streaming is not
// supported.
type QwenAdapter struct {
	base
}

func NewQwenAdapter(name string, cfg config.ProviderConfig, client *http.Client) *QwenAdapter {
	return &QwenAdapter{base: newBase(name, cfg, client)}
}

func (a *QwenAdapter) Complete(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (*types.ChatResponse, error) {
	body, err := a.post(ctx, a.url("/services/aigc/text-generation/generation"), newQwenRequest(providerModelID, messages, params), bearer(a.cfg.APIKey))
	if err != nil {
		return nil, err
	}

	var qResp qwenResponseBody
	if err := json.Unmarshal(body, &qResp); err != nil {
		return nil, fmt.Errorf("unmarshal qwen response: %w", err)
	}

	var finishReason *string
	if qResp.Output.FinishReason != "" {
		finishReason = types.StringPtr(qResp.Output.FinishReason)
	}

	return &types.ChatResponse{
		ID:      qResp.RequestID,
		Object:  types.ObjectChatCompletion,
		Created: time.Now().Unix(),
		Model:   providerModelID,
		Choices: []types.Choice{
			{
				Index: 0,
				Message: types.ResponseMessage{
					Role:    types.RoleAssistant,
					Content: qResp.Output.Text,
				},
				FinishReason: finishReason,
			},
		},
		Usage: types.NewUsage(qResp.Usage.InputTokens, qResp.Usage.OutputTokens),
	}, nil
}

// CompleteStream fails immediately without contacting the backend.
func (a *QwenAdapter) CompleteStream(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (Stream, error) {
	return nil, &UnsupportedOperationError{Provider: a.name, Operation: "streaming"}
}

func newQwenRequest(model string, messages []types.Message, params types.Params) qwenRequestBody {
	body := qwenRequestBody{Model: model}
	body.Input.Messages = messages
	body.Parameters.Temperature = qwenDefaultTemperature
	if params.Temperature != nil {
		body.Parameters.Temperature = *params.Temperature
	}
	body.Parameters.MaxTokens = qwenDefaultMaxTokens
	if params.MaxTokens != nil {
		body.Parameters.MaxTokens = *params.MaxTokens
	}
	return body
}

type qwenRequestBody struct {
	Model string `json:"model"`
	Input struct {
		Messages []types.Message `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	} `json:"parameters"`
}

type qwenResponseBody struct {
	RequestID string `json:"request_id"`
	Output    struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
