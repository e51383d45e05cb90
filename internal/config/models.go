package config

// ModelConfig declares one model served by a provider.
type ModelConfig struct {
	Name            string   `yaml:"name"`
	ProviderModelID string   `yaml:"provider_model_id"`
	Aliases         []string `yaml:"aliases"`
}

// Names returns the canonical name followed by every alias.
func (m ModelConfig) Names() []string {
	names := make([]string, 0, 1+len(m.Aliases))
	names = append(names, m.Name)
	return append(names, m.Aliases...)
}
