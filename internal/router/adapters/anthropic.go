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

const (
	anthropicVersion          = "2023-06-01"
	anthropicDefaultMaxTokens = 4096
)

// AnthropicAdapter handles communication with the Anthropic Messages API.
type AnthropicAdapter struct {
	base
}

func NewAnthropicAdapter(name string, cfg config.ProviderConfig, client *http.Client) *AnthropicAdapter {
	return &AnthropicAdapter{base: newBase(name, cfg, client)}
}

func (a *AnthropicAdapter) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}
}

func (a *AnthropicAdapter) Complete(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (*types.ChatResponse, error) {
	body, err := a.post(ctx, a.url("/messages"), newAnthropicRequest(providerModelID, messages, params, false), a.headers())
	if err != nil {
		return nil, err
	}

	var antResp anthropicResponseBody
	if err := json.Unmarshal(body, &antResp); err != nil {
		return nil, fmt.Errorf("unmarshal anthropic response: %w", err)
	}

	// Only the first content block is surfaced.
	var content string
	if len(antResp.Content) > 0 {
		content = antResp.Content[0].Text
	}

	var finishReason *string
	if antResp.StopReason != "" {
		finishReason = types.StringPtr(mapStopReason(antResp.StopReason))
	}

	return &types.ChatResponse{
		ID:      antResp.ID,
		Object:  types.ObjectChatCompletion,
		Created: time.Now().Unix(),
		Model:   antResp.Model,
		Choices: []types.Choice{
			{
				Index: 0,
				Message: types.ResponseMessage{
					Role:    types.RoleAssistant,
					Content: content,
				},
				FinishReason: finishReason,
			},
		},
		Usage: types.NewUsage(antResp.Usage.InputTokens, antResp.Usage.OutputTokens),
	}, nil
}

func (a *AnthropicAdapter) CompleteStream(ctx context.Context, providerModelID string, messages []types.Message, params types.Params) (Stream, error) {
	payload := newAnthropicRequest(providerModelID, messages, params, true)
	return a.openStream(ctx, a.url("/messages"), payload, a.headers(), a.streamDecoder(providerModelID))
}

// streamDecoder converts Anthropic SSE events to canonical frames.
// content_block_delta becomes a delta frame and message_stop ends the stream;
// an error event aborts it. Everything else (message_start, ping,
// content_block_start, message_delta, ...) produces nothing.
func (a *AnthropicAdapter) streamDecoder(model string) lineDecoder {
	created := time.Now().Unix()
	var messageID string

	return func(line string) ([]types.StreamFrame, bool, error) {
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			return nil, false, nil
		}

		var event anthropicStreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return nil, false, fmt.Errorf("unmarshal anthropic event: %w", err)
		}

		switch event.Type {
		case "message_start":
			messageID = event.Message.ID
			return nil, false, nil

		case "content_block_delta":
			frame, err := types.DeltaFrame(messageID, model, created, event.Delta.Text)
			if err != nil {
				return nil, false, err
			}
			return []types.StreamFrame{frame}, false, nil

		case "message_stop":
			return []types.StreamFrame{types.DoneFrame()}, true, nil

		case "error":
			return nil, false, &StreamError{
				Provider: a.name,
				Message:  fmt.Sprintf("%s: %s", event.Error.Type, event.Error.Message),
			}

		default:
			return nil, false, nil
		}
	}
}

// newAnthropicRequest splits the system prompt out of the message list. Only
// the first system message is honored; later ones are dropped. top_p and stop
// are not forwarded.
func newAnthropicRequest(model string, messages []types.Message, params types.Params, stream bool) anthropicRequestBody {
	var system string
	seenSystem := false
	converted := make([]anthropicMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == types.RoleSystem {
			if !seenSystem {
				system = m.Content.Text()
				seenSystem = true
			}
			continue
		}
		converted = append(converted, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	// Anthropic requires max_tokens
	maxTokens := anthropicDefaultMaxTokens
	if params.MaxTokens != nil {
		maxTokens = *params.MaxTokens
	}

	return anthropicRequestBody{
		Model:       model,
		Messages:    converted,
		System:      system,
		MaxTokens:   maxTokens,
		Stream:      stream,
		Temperature: params.Temperature,
	}
}

func mapStopReason(reason string) string {
	switch reason {
	case "end_turn":
		return "stop"
	case "max_tokens":
		return "length"
	case "stop_sequence":
		return "stop"
	default:
		return reason
	}
}

type anthropicMessage struct {
	Role    string        `json:"role"`
	Content types.Content `json:"content"`
}

type anthropicRequestBody struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Stream      bool               `json:"stream,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicResponseBody struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicStreamEvent struct {
	Type    string `json:"type"`
	Message struct {
		ID string `json:"id"`
	} `json:"message"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
