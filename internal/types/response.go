package types

import "encoding/json"

const (
	ObjectChatCompletion      = "chat.completion"
	ObjectChatCompletionChunk = "chat.completion.chunk"
)

// ChatResponse is the canonical non-streaming chat-completion response.
//
// Passthrough providers already speak the canonical schema; for them the
// backend body is attached with WithRaw and serialized unchanged, while the
// decoded fields remain available for logging and metrics.
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`

	raw json.RawMessage
}

// WithRaw attaches the backend body that MarshalJSON should emit verbatim.
func (r *ChatResponse) WithRaw(raw json.RawMessage) *ChatResponse {
	r.raw = raw
	return r
}

func (r *ChatResponse) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain ChatResponse
	return json.Marshal((*plain)(r))
}

type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason *string         `json:"finish_reason"`
}

type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewUsage builds a Usage whose total is always prompt + completion.
func NewUsage(prompt, completion int) Usage {
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// StringPtr is a helper for optional finish reasons.
func StringPtr(s string) *string { return &s }

// ModelObject is one entry of the model listing endpoints.
type ModelObject struct {
	ID              string   `json:"id"`
	Object          string   `json:"object"`
	Created         int64    `json:"created"`
	OwnedBy         string   `json:"owned_by"`
	Provider        string   `json:"provider"`
	ProviderType    string   `json:"provider_type"`
	ProviderModelID string   `json:"provider_model_id,omitempty"`
	Aliases         []string `json:"aliases,omitempty"`
}

type ModelList struct {
	Object string        `json:"object"`
	Data   []ModelObject `json:"data"`
}
