package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Message roles accepted in the canonical schema.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatRequest is the canonical chat-completion request accepted by the router.
// Optional sampling parameters are pointers so that only the ones a client
// actually sent are forwarded downstream.
type ChatRequest struct {
	Model            string          `json:"model"`
	Messages         []Message       `json:"messages"`
	Stream           bool            `json:"stream"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	MaxTokens        *int            `json:"max_tokens,omitempty"`
	Stop             json.RawMessage `json:"stop,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
}

// Params returns the recognized optional sampling parameters of the request.
func (r *ChatRequest) Params() Params {
	p := Params{
		Temperature:      r.Temperature,
		TopP:             r.TopP,
		MaxTokens:        r.MaxTokens,
		PresencePenalty:  r.PresencePenalty,
		FrequencyPenalty: r.FrequencyPenalty,
	}
	if len(r.Stop) > 0 && !bytes.Equal(bytes.TrimSpace(r.Stop), []byte("null")) {
		p.Stop = r.Stop
	}
	return p
}

// Params holds the optional sampling parameters a client sent. A nil field
// means "not present" and must not be forwarded.
type Params struct {
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	MaxTokens        *int            `json:"max_tokens,omitempty"`
	Stop             json.RawMessage `json:"stop,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
}

type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content is a message body: either a plain string or an ordered list of
// typed parts. The client's JSON is kept as-is so passthrough providers
// receive exactly what was sent.
type Content struct {
	raw json.RawMessage
}

// TextContent builds a string content value.
func TextContent(s string) Content {
	data, _ := json.Marshal(s)
	return Content{raw: data}
}

// ContentPart is one element of a multi-part message body.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

func (c Content) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte(`""`), nil
	}
	return c.raw, nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty message content")
	}
	switch trimmed[0] {
	case '"', '[':
	case 'n':
		// null content is legal on assistant tool-call messages
	default:
		return errors.New("message content must be a string or an array of parts")
	}
	c.raw = append(c.raw[:0], trimmed...)
	return nil
}

// IsParts reports whether the content is a list of typed parts.
func (c Content) IsParts() bool {
	return len(c.raw) > 0 && c.raw[0] == '['
}

// Parts decodes a multi-part body. It returns nil for string content.
func (c Content) Parts() ([]ContentPart, error) {
	if !c.IsParts() {
		return nil, nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(c.raw, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// Text flattens the content to a single string. Text parts of a multi-part
// body are joined with newlines; other part types are skipped.
func (c Content) Text() string {
	if len(c.raw) == 0 {
		return ""
	}
	if c.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(c.raw, &s); err != nil {
			return ""
		}
		return s
	}
	parts, err := c.Parts()
	if err != nil {
		return ""
	}
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Type == "text" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
