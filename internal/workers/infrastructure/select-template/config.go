// internal/workers/infrastructure/select-template/config.go
package selecttemplate

import "time"

type Config struct {
	// TemplateOverrides remaps a selected template ID to a custom one,
	// keyed by the default ID.
	TemplateOverrides map[string]string `mapstructure:"template_overrides"`
	Timeout           time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
