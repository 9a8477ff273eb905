// internal/workers/search/parse-search-filters/config.go
package parsesearchfilters

import "time"

// No per-worker config needed beyond the timeout, but struct provided for consistency
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
