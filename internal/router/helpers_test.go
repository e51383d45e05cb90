package router

import (
	"context"
	"testing"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/router/adapters"
	"github.com/af-corp/llm-router/internal/types"
)

// fakeAdapter implements adapters.ProviderAdapter for testing.
type fakeAdapter struct {
	name string
}

func (f *fakeAdapter) Name() string { return f.name }
func (f *fakeAdapter) Type() string { return "fake" }
func (f *fakeAdapter) Complete(_ context.Context, _ string, _ []types.Message, _ types.Params) (*types.ChatResponse, error) {
	return nil, nil
}
func (f *fakeAdapter) CompleteStream(_ context.Context, _ string, _ []types.Message, _ types.Params) (adapters.Stream, error) {
	return nil, nil
}

type providerSpec struct {
	name     string
	typ      string
	disabled bool
	models   []config.ModelConfig
}

func providersWith(specs ...providerSpec) *config.ProvidersConfig {
	providers := &config.ProvidersConfig{}
	for _, s := range specs {
		cfg := config.DefaultProviderConfig()
		cfg.Type = s.typ
		if cfg.Type == "" {
			cfg.Type = config.ProviderOpenAI
		}
		cfg.BaseURL = "http://" + s.name + ".test"
		cfg.Enabled = !s.disabled
		cfg.Models = s.models
		providers.Add(s.name, cfg)
	}
	return providers
}

func model(name, providerModelID string, aliases ...string) config.ModelConfig {
	return config.ModelConfig{Name: name, ProviderModelID: providerModelID, Aliases: aliases}
}

// newTestRouter builds a router whose providers are backed by fake adapters.
func newTestRouter(t *testing.T, providers *config.ProvidersConfig) *Router {
	t.Helper()
	table, err := BuildTable(providers)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	registry := NewRegistry()
	for _, name := range providers.Names() {
		if p, _ := providers.Get(name); p.Enabled {
			registry.Register(name, &fakeAdapter{name: name})
		}
	}
	return New(table, registry, providers)
}
