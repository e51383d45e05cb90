package types

import (
	"encoding/json"
	"fmt"
)

var doneData = []byte("[DONE]")

// StreamFrame is one canonical server-sent event. Data is the payload that
// follows "data: " on the wire.
type StreamFrame struct {
	Data []byte
	Done bool
}

// DoneFrame returns the terminal sentinel frame.
func DoneFrame() StreamFrame {
	return StreamFrame{Data: doneData, Done: true}
}

// RawFrame wraps an already-canonical payload received from a backend.
func RawFrame(data string) StreamFrame {
	return StreamFrame{Data: []byte(data), Done: data == string(doneData)}
}

// Bytes returns the frame in SSE wire format.
func (f StreamFrame) Bytes() []byte {
	out := make([]byte, 0, len(f.Data)+8)
	out = append(out, "data: "...)
	out = append(out, f.Data...)
	return append(out, "\n\n"...)
}

// ChatCompletionChunk is the canonical streaming delta payload.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

type Delta struct {
	Content string `json:"content"`
}

// DeltaFrame builds a frame carrying a single content delta.
func DeltaFrame(id, model string, created int64, content string) (StreamFrame, error) {
	data, err := json.Marshal(ChatCompletionChunk{
		ID:      id,
		Object:  ObjectChatCompletionChunk,
		Created: created,
		Model:   model,
		Choices: []ChunkChoice{{Index: 0, Delta: Delta{Content: content}}},
	})
	if err != nil {
		return StreamFrame{}, fmt.Errorf("marshal chunk: %w", err)
	}
	return StreamFrame{Data: data}, nil
}

// StreamError is the payload of the single error event sent when a stream
// fails after it has started.
type StreamError struct {
	Error StreamErrorBody `json:"error"`
}

type StreamErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ErrorFrame builds the error event for a failed stream.
func ErrorFrame(message string) StreamFrame {
	data, _ := json.Marshal(StreamError{Error: StreamErrorBody{Message: message, Type: "server_error"}})
	return StreamFrame{Data: data}
}
