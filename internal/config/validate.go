package config

import (
	"fmt"
	"strings"
)

// ConfigError reports an invalid configuration value. The router refuses to
// start when it sees one.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

var knownProviderTypes = map[string]bool{
	ProviderOpenAI:     true,
	ProviderAnthropic:  true,
	ProviderOllama:     true,
	ProviderLlamaCpp:   true,
	ProviderOpenRouter: true,
	ProviderQwen:       true,
}

// Validate checks field-level sanity. Cross-provider constraints such as
// duplicate model names are enforced when the routing table is built.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: fmt.Sprintf("must be a valid TCP port, got %d", c.Server.Port)}
	}
	if c.Pool.MaxConnections <= 0 {
		return &ConfigError{Field: "pool.max_connections", Message: "must be positive"}
	}
	if c.Pool.MaxKeepAlive < 0 {
		return &ConfigError{Field: "pool.max_keepalive", Message: "must not be negative"}
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return &ConfigError{Field: "rate_limit.requests_per_minute", Message: "must be positive when rate limiting is enabled"}
	}

	for _, name := range c.Providers.Names() {
		p, _ := c.Providers.Get(name)
		if err := validateProvider(name, p); err != nil {
			return err
		}
	}
	return nil
}

func validateProvider(name string, p ProviderConfig) error {
	field := "providers." + name
	if !knownProviderTypes[p.Type] {
		return &ConfigError{Field: field + ".type", Message: fmt.Sprintf("unknown provider type %q", p.Type)}
	}
	if strings.TrimSpace(p.BaseURL) == "" {
		return &ConfigError{Field: field + ".base_url", Message: "must be provided"}
	}
	if p.Timeout <= 0 {
		return &ConfigError{Field: field + ".timeout", Message: "must be positive"}
	}
	if p.MaxRetries < 0 {
		return &ConfigError{Field: field + ".max_retries", Message: "must not be negative"}
	}
	for i, m := range p.Models {
		if strings.TrimSpace(m.Name) == "" {
			return &ConfigError{Field: fmt.Sprintf("%s.models[%d].name", field, i), Message: "must not be empty"}
		}
		if strings.TrimSpace(m.ProviderModelID) == "" {
			return &ConfigError{Field: fmt.Sprintf("%s.models[%d].provider_model_id", field, i), Message: "must not be empty"}
		}
		for _, alias := range m.Aliases {
			if strings.TrimSpace(alias) == "" {
				return &ConfigError{Field: fmt.Sprintf("%s.models[%d].aliases", field, i), Message: "alias must not be empty"}
			}
		}
	}
	return nil
}
