// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import "time"

// Config bounds a single search round-trip against the cluster.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
