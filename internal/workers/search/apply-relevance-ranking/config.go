// internal/workers/search/apply-relevance-ranking/config.go
package applyrelevanceranking

import "time"

type Config struct {
	MaxItems int
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxItems: 100,
		Timeout:  30 * time.Second,
	}
}
