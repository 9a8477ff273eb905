// internal/workers/assessment/store-assessment-record/config.go
package storeassessmentrecord

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
