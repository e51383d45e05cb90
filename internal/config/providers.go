package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider types understood by the router.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
	ProviderLlamaCpp   = "llama_cpp"
	ProviderOpenRouter = "openrouter"
	ProviderQwen       = "qwen"
)

const (
	defaultProviderTimeout = 60 * time.Second
	defaultMaxRetries      = 2
)

// ProvidersConfig is the providers section of the configuration. It keeps
// the order in which providers were declared in the YAML document: model
// listings and duplicate-name detection are defined in terms of that order.
type ProvidersConfig struct {
	order  []string
	byName map[string]ProviderConfig
}

type ProviderConfig struct {
	Type    string   `yaml:"type"`
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Enabled bool     `yaml:"enabled"`
	Timeout Duration `yaml:"timeout"`
	// MaxRetries is accepted for compatibility with existing configuration
	// files. The router never retries a provider call.
	MaxRetries int               `yaml:"max_retries"`
	Headers    map[string]string `yaml:"headers,omitempty"`
	Models     []ModelConfig     `yaml:"models"`
}

// DefaultProviderConfig returns the values a provider gets for every field
// its YAML block leaves out.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Enabled:    true,
		Timeout:    Duration(defaultProviderTimeout),
		MaxRetries: defaultMaxRetries,
	}
}

// Add appends a provider, replacing any earlier provider of the same name
// in place.
func (p *ProvidersConfig) Add(name string, cfg ProviderConfig) {
	if p.byName == nil {
		p.byName = make(map[string]ProviderConfig)
	}
	if _, exists := p.byName[name]; !exists {
		p.order = append(p.order, name)
	}
	p.byName[name] = cfg
}

// Names returns provider names in declaration order.
func (p *ProvidersConfig) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *ProvidersConfig) Get(name string) (ProviderConfig, bool) {
	cfg, ok := p.byName[name]
	return cfg, ok
}

func (p *ProvidersConfig) Len() int { return len(p.order) }

func (p *ProvidersConfig) UnmarshalYAML(value *yaml.Node) error {
	p.order = nil
	p.byName = make(map[string]ProviderConfig)

	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: providers must be a mapping of provider name to settings", value.Line)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("line %d: provider name: %w", value.Content[i].Line, err)
		}
		if _, exists := p.byName[name]; exists {
			return fmt.Errorf("line %d: provider %q declared twice", value.Content[i].Line, name)
		}
		cfg := DefaultProviderConfig()
		if err := value.Content[i+1].Decode(&cfg); err != nil {
			return fmt.Errorf("provider %s: %w", name, err)
		}
		p.Add(name, cfg)
	}
	return nil
}

// Duration is a timeout given either as a number of seconds (60, 2.5) or as
// a Go duration string ("90s", "2m").
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var secs float64
	if err := value.Decode(&secs); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: invalid duration: %w", value.Line, err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}
