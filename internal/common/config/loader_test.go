package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const postgresConfig = `
app:
  name: event-package-workers
  environment: test
camunda:
  broker_address: localhost:26500
  use_plaintext: true
database:
  postgres:
    host: localhost
    database: marketplace
    user: planner
    password: ${TEST_PG_PASSWORD}
workers:
  recommend-event-packages:
    enabled: true
    timeout: 10000
  deliver-package-proposals:
    enabled: false
recommendation:
  catalog_source: postgres
  profiles:
    gala:
      categories: [venue, catering]
      weights:
        venue: 0.6
        catering: 0.4
`

func TestLoadFromFile_Postgres(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, postgresConfig))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.True(t, cfg.Camunda.UsePlaintext)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "dbname=marketplace")

	assert.Equal(t, CatalogSourcePostgres, cfg.Recommendation.CatalogSource)
	assert.Equal(t, "products", cfg.Recommendation.CatalogIndex)
	assert.Equal(t, 5*time.Minute, cfg.Recommendation.CacheTTL())
	assert.Equal(t, 5000, cfg.Recommendation.MaxCatalogSize)
	assert.Equal(t, 8080, cfg.App.HealthPort)
	assert.Equal(t, "info", cfg.Logging.Level)

	rec := GetWorkerConfig(cfg, "recommend-event-packages")
	assert.True(t, rec.Enabled)
	assert.Equal(t, 10000, rec.Timeout)
	assert.Equal(t, 5, rec.MaxJobsActive)
	assert.Equal(t, 3, rec.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "deliver-package-proposals"))
	assert.True(t, IsWorkerEnabled(cfg, "unlisted-worker"))

	table, err := cfg.Recommendation.ProfileTable()
	require.NoError(t, err)
	assert.Equal(t, "gala", table.Resolve("Gala").Name)
	assert.Equal(t, "wedding", table.Resolve("marriage").Name)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("DB_USER", "from-env")

	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: zeebe:26500
database:
  postgres:
    host: db
    database: marketplace
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Postgres.User)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "recommendation:\n  catalog_source: inline\n",
			wantErr: "camunda.broker_address",
		},
		{
			name: "postgres source without host",
			body: `
camunda:
  broker_address: zeebe:26500
recommendation:
  catalog_source: postgres
`,
			wantErr: "database.postgres.host",
		},
		{
			name: "elasticsearch source without addresses",
			body: `
camunda:
  broker_address: zeebe:26500
recommendation:
  catalog_source: elasticsearch
`,
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name: "unknown source",
			body: `
camunda:
  broker_address: zeebe:26500
recommendation:
  catalog_source: csv
`,
			wantErr: "catalog_source",
		},
		{
			name: "cache without redis",
			body: `
camunda:
  broker_address: zeebe:26500
recommendation:
  catalog_source: inline
  cache_enabled: true
`,
			wantErr: "database.redis.address",
		},
		{
			name: "bad profile weights",
			body: `
camunda:
  broker_address: zeebe:26500
recommendation:
  catalog_source: inline
  profiles:
    gala:
      categories: [venue, catering]
      weights:
        venue: 0.9
        catering: 0.9
`,
			wantErr: "recommendation.profiles",
		},
		{
			name: "email without sender",
			body: `
camunda:
  broker_address: zeebe:26500
recommendation:
  catalog_source: inline
notifications:
  email:
    enabled: true
  aws:
    region: eu-west-1
`,
			wantErr: "notifications.email.from_email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NOTIFICATION_FROM_EMAIL", "")

			cfg, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
