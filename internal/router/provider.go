package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/af-corp/llm-router/internal/config"
	"github.com/af-corp/llm-router/internal/router/adapters"
	"github.com/af-corp/llm-router/internal/types"
)

// adapterFactory builds the adapter for one configured provider.
type adapterFactory func(name string, cfg config.ProviderConfig, client *http.Client) adapters.ProviderAdapter

var factories = map[string]adapterFactory{
	config.ProviderOpenAI: func(name string, cfg config.ProviderConfig, client *http.Client) adapters.ProviderAdapter {
		return adapters.NewOpenAIAdapter(name, cfg, client)
	},
	config.ProviderLlamaCpp: func(name string, cfg config.ProviderConfig, client *http.Client) adapters.ProviderAdapter {
		return adapters.NewLlamaCppAdapter(name, cfg, client)
	},
	config.ProviderOpenRouter: func(name string, cfg config.ProviderConfig, client *http.Client) adapters.ProviderAdapter {
		return adapters.NewOpenRouterAdapter(name, cfg, client)
	},
	config.ProviderAnthropic: func(name string, cfg config.ProviderConfig, client *http.Client) adapters.ProviderAdapter {
		return adapters.NewAnthropicAdapter(name, cfg, client)
	},
	config.ProviderOllama: func(name string, cfg config.ProviderConfig, client *http.Client) adapters.ProviderAdapter {
		return adapters.NewOllamaAdapter(name, cfg, client)
	},
	config.ProviderQwen: func(name string, cfg config.ProviderConfig, client *http.Client) adapters.ProviderAdapter {
		return adapters.NewQwenAdapter(name, cfg, client)
	},
}

// Registry holds one adapter per enabled provider. It is filled during
// startup and only read afterwards.
type Registry struct {
	adapters map[string]adapters.ProviderAdapter
}

func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]adapters.ProviderAdapter),
	}
}

func (r *Registry) Register(name string, adapter adapters.ProviderAdapter) {
	r.adapters[name] = adapter
}

func (r *Registry) Get(name string) (adapters.ProviderAdapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// BuildRegistry constructs an adapter for every enabled provider, all
// sharing client.
func BuildRegistry(providers *config.ProvidersConfig, client *http.Client) (*Registry, error) {
	registry := NewRegistry()
	for _, name := range providers.Names() {
		cfg, _ := providers.Get(name)
		if !cfg.Enabled {
			continue
		}
		factory, ok := factories[cfg.Type]
		if !ok {
			return nil, fmt.Errorf("provider %s: unknown provider type %q", name, cfg.Type)
		}
		registry.Register(name, factory(name, cfg, client))
	}
	return registry, nil
}

// ModelNotFoundError is returned when a requested model matches no name or
// alias. Available lists every valid name, sorted.
type ModelNotFoundError struct {
	Model     string
	Available []string
}

func (e *ModelNotFoundError) Error() string {
	quoted := make([]string, len(e.Available))
	for i, name := range e.Available {
		quoted[i] = "'" + name + "'"
	}
	return fmt.Sprintf("Model '%s' not found. Available models: [%s]", e.Model, strings.Join(quoted, ", "))
}

// Route is the outcome of resolving a model name.
type Route struct {
	Adapter         adapters.ProviderAdapter
	ProviderID      string
	ProviderModelID string
	CanonicalName   string
}

// Router resolves model names to adapters and serves the read-only model and
// provider views. Everything it holds is immutable after construction.
type Router struct {
	table     *Table
	registry  *Registry
	providers *config.ProvidersConfig
}

func New(table *Table, registry *Registry, providers *config.ProvidersConfig) *Router {
	return &Router{table: table, registry: registry, providers: providers}
}

// BuildFromConfig builds the routing table, the shared connection pool and
// one adapter per enabled provider. A *DuplicateModelNameError means the
// configuration must be fixed before the router can serve traffic.
func BuildFromConfig(cfg *config.Config) (*Router, error) {
	table, err := BuildTable(&cfg.Providers)
	if err != nil {
		return nil, err
	}
	registry, err := BuildRegistry(&cfg.Providers, NewPool(cfg.Pool))
	if err != nil {
		return nil, err
	}
	return New(table, registry, &cfg.Providers), nil
}

// Resolve finds the adapter and provider-native model id for a model name or
// alias.
func (r *Router) Resolve(model string) (Route, error) {
	entry, ok := r.table.Lookup(model)
	if !ok {
		return Route{}, &ModelNotFoundError{Model: model, Available: r.table.Names()}
	}
	adapter, ok := r.registry.Get(entry.ProviderID)
	if !ok {
		return Route{}, fmt.Errorf("no adapter registered for provider %s", entry.ProviderID)
	}
	return Route{
		Adapter:         adapter,
		ProviderID:      entry.ProviderID,
		ProviderModelID: entry.ProviderModelID,
		CanonicalName:   entry.CanonicalName,
	}, nil
}

// ListModels returns one entry per canonical model name across enabled
// providers. When two providers share a name, the first declared wins.
func (r *Router) ListModels() []types.ModelObject {
	models := []types.ModelObject{}
	seen := make(map[string]bool)
	r.eachModel(func(provider string, p config.ProviderConfig, m config.ModelConfig) {
		if seen[m.Name] {
			return
		}
		seen[m.Name] = true
		models = append(models, modelObject(provider, p, m))
	})
	return models
}

// ListAllModels returns every model of every enabled provider with its
// provider-native id and aliases.
func (r *Router) ListAllModels() []types.ModelObject {
	models := []types.ModelObject{}
	r.eachModel(func(provider string, p config.ProviderConfig, m config.ModelConfig) {
		obj := modelObject(provider, p, m)
		obj.ProviderModelID = m.ProviderModelID
		obj.Aliases = append([]string(nil), m.Aliases...)
		models = append(models, obj)
	})
	return models
}

// ProviderStatus reports every configured provider, including disabled ones.
func (r *Router) ProviderStatus() map[string]string {
	status := make(map[string]string, r.providers.Len())
	for _, name := range r.providers.Names() {
		p, _ := r.providers.Get(name)
		if p.Enabled {
			status[name] = "enabled"
		} else {
			status[name] = "disabled"
		}
	}
	return status
}

func (r *Router) eachModel(fn func(provider string, p config.ProviderConfig, m config.ModelConfig)) {
	for _, name := range r.providers.Names() {
		p, _ := r.providers.Get(name)
		if !p.Enabled {
			continue
		}
		for _, m := range p.Models {
			fn(name, p, m)
		}
	}
}

func modelObject(provider string, p config.ProviderConfig, m config.ModelConfig) types.ModelObject {
	return types.ModelObject{
		ID:           m.Name,
		Object:       "model",
		Created:      0,
		OwnedBy:      provider,
		Provider:     provider,
		ProviderType: p.Type,
	}
}
