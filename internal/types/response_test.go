package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestChatResponse_MarshalRaw(t *testing.T) {
	raw := `{"id":"x","object":"chat.completion","system_fingerprint":"fp_1","choices":[]}`
	resp := (&ChatResponse{ID: "x"}).WithRaw(json.RawMessage(raw))

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != raw {
		t.Errorf("expected backend body verbatim, got %s", out)
	}
}

func TestChatResponse_MarshalCanonical(t *testing.T) {
	resp := &ChatResponse{
		ID:      "msg_1",
		Object:  ObjectChatCompletion,
		Created: 1700000000,
		Model:   "claude",
		Choices: []Choice{{Message: ResponseMessage{Role: RoleAssistant, Content: "Hi"}}},
		Usage:   NewUsage(10, 2),
	}

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{`"finish_reason":null`, `"total_tokens":12`, `"object":"chat.completion"`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
}

func TestStreamFrames(t *testing.T) {
	if got := string(DoneFrame().Bytes()); got != "data: [DONE]\n\n" {
		t.Errorf("unexpected done frame %q", got)
	}
	if !RawFrame("[DONE]").Done || RawFrame(`{"a":1}`).Done {
		t.Error("RawFrame must flag only the sentinel as done")
	}

	delta, err := DeltaFrame("id-1", "m", 1700000000, "Hel")
	if err != nil {
		t.Fatal(err)
	}
	want := `data: {"id":"id-1","object":"chat.completion.chunk","created":1700000000,"model":"m","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":null}]}` + "\n\n"
	if got := string(delta.Bytes()); got != want {
		t.Errorf("unexpected delta frame\n got: %s\nwant: %s", got, want)
	}

	errFrame := ErrorFrame("boom")
	if string(errFrame.Data) != `{"error":{"message":"boom","type":"server_error"}}` || errFrame.Done {
		t.Errorf("unexpected error frame %s", errFrame.Data)
	}
}
