// internal/workers/planning/recommend-event-packages/config.go
package recommendeventpackages

import (
	"time"

	"event-package-workers/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	MaxCatalogSize int
}

func LoadConfig(wcfg config.WorkerConfig, rec config.RecommendationConfig) *Config {
	cfg := &Config{
		Timeout:        config.GetDuration(wcfg.Timeout),
		MaxCatalogSize: rec.MaxCatalogSize,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}
