// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

import "time"

// Config bounds a single query execution; the registry queries
// themselves carry no timeouts.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
