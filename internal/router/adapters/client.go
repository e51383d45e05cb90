package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/af-corp/llm-router/internal/config"
)

// base carries what every adapter needs: its provider identity, settings,
// and the shared HTTP client.
type base struct {
	name   string
	cfg    config.ProviderConfig
	client *http.Client
}

func newBase(name string, cfg config.ProviderConfig, client *http.Client) base {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return base{name: name, cfg: cfg, client: client}
}

func (b *base) Name() string { return b.name }

func (b *base) Type() string { return b.cfg.Type }

func (b *base) timeout() time.Duration {
	return b.cfg.Timeout.Std()
}

func (b *base) url(path string) string {
	return b.cfg.BaseURL + path
}

// send posts payload as JSON. Provider headers from the configuration are
// applied after the adapter's own. A non-2xx answer is returned as an
// UpstreamError with its body already read and the connection released.
func (b *base) send(ctx context.Context, url string, payload any, headers map[string]string) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", b.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}
	for k, v := range b.cfg.Headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", b.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &UpstreamError{Provider: b.name, StatusCode: resp.StatusCode, Body: body}
	}
	return resp, nil
}

// post performs a unary call bounded by the provider timeout and returns the
// full response body.
func (b *base) post(ctx context.Context, url string, payload any, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout())
	defer cancel()

	resp, err := b.send(ctx, url, payload, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", b.name, err)
	}
	return body, nil
}

// openStream starts a streaming call. The provider timeout applies to the
// wait for response headers and then to every gap between lines; a stream
// that keeps producing output is never cut off.
func (b *base) openStream(ctx context.Context, url string, payload any, headers map[string]string, decode lineDecoder) (Stream, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &lineStream{
		provider:    b.name,
		decode:      decode,
		cancel:      cancel,
		idleTimeout: b.timeout(),
	}
	s.idle = time.AfterFunc(s.idleTimeout, s.expire)

	resp, err := b.send(ctx, url, payload, headers)
	if err != nil {
		s.idle.Stop()
		cancel()
		if s.timedOut.Load() {
			return nil, fmt.Errorf("%s: no response within %s: %w", b.name, s.idleTimeout, err)
		}
		return nil, err
	}
	s.start(resp.Body)
	return s, nil
}

func bearer(key string) map[string]string {
	if key == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + key}
}
