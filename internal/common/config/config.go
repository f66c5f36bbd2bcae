// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"event-package-workers/internal/recommend"
)

// Catalog sources understood by the recommend worker.
const (
	CatalogSourcePostgres      = "postgres"
	CatalogSourceElasticsearch = "elasticsearch"
	CatalogSourceInline        = "inline"
)

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig               `mapstructure:"app"`
	Camunda        CamundaConfig           `mapstructure:"camunda"`
	Database       DatabaseConfig          `mapstructure:"database"`
	Workers        map[string]WorkerConfig `mapstructure:"workers"`
	Recommendation RecommendationConfig    `mapstructure:"recommendation"`
	Notifications  NotificationConfig      `mapstructure:"notifications"`
	Logging        LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HealthPort  int    `mapstructure:"health_port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// --- Recommendation ---

// RecommendationConfig drives the recommend-event-packages worker.
type RecommendationConfig struct {
	CatalogSource   string                   `mapstructure:"catalog_source"`
	CatalogIndex    string                   `mapstructure:"catalog_index"`
	CacheEnabled    bool                     `mapstructure:"cache_enabled"`
	CatalogCacheTTL int                      `mapstructure:"catalog_cache_ttl"` // milliseconds
	MaxCatalogSize  int                      `mapstructure:"max_catalog_size"`
	Profiles        map[string]ProfileConfig `mapstructure:"profiles"`
}

// ProfileConfig adds or replaces one event type profile.
type ProfileConfig struct {
	Categories []string           `mapstructure:"categories"`
	Weights    map[string]float64 `mapstructure:"weights"`
}

// ProfileTable merges configured profiles over the built-in table.
func (r RecommendationConfig) ProfileTable() (*recommend.ProfileTable, error) {
	table := recommend.DefaultProfileTable()
	if len(r.Profiles) == 0 {
		return table, nil
	}

	extra := make(map[string]recommend.CategoryProfile, len(r.Profiles))
	for name, p := range r.Profiles {
		extra[name] = recommend.CategoryProfile{
			Name:       name,
			Categories: p.Categories,
			Weights:    p.Weights,
		}
	}
	return table.WithProfiles(extra)
}

// CacheTTL is CatalogCacheTTL as a duration.
func (r RecommendationConfig) CacheTTL() time.Duration {
	return GetDuration(r.CatalogCacheTTL)
}

// --- Notifications ---

// NotificationConfig holds settings for the deliver-package-proposals worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		Subject   string `mapstructure:"subject"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
