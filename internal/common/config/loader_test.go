package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: swellyo
    user: swellyo
`

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "swellyo-workers", cfg.App.Name)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, SourcePostgres, cfg.Candidates.Source)
	assert.Equal(t, 200, cfg.Candidates.DefaultLimit)
	assert.False(t, cfg.Candidates.CacheEnabled())
	assert.Equal(t, 3, cfg.Matching.TopK)
	assert.Equal(t, 2.0, cfg.Matching.Multipliers.Max)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_MatchingAndWorkers(t *testing.T) {
	body := `
camunda:
  broker_address: localhost:26500
candidates:
  source: Elasticsearch
  cache_ttl: 60
database:
  postgres:
    host: localhost
    database: swellyo
    user: swellyo
  elasticsearch:
    addresses: ["http://es:9200"]
  redis:
    address: redis:6379
matching:
  top_k: 5
  board_partial_credit: 0
  base_weights:
    connect_traveler:
      destination_days: 10
      lifestyle: 30
  multipliers:
    same_country_visa: 1.8
workers:
  match-companions:
    enabled: true
    timeout: 2000
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, SourceElasticsearch, cfg.Candidates.Source)
	assert.True(t, cfg.Candidates.CacheEnabled())
	assert.Equal(t, 5, cfg.Matching.TopK)
	assert.Equal(t, 1.8, cfg.Matching.Multipliers.SameCountryVisa)
	assert.Equal(t, 1.3, cfg.Matching.Multipliers.WaveExpertise, "unset factors keep defaults")
	require.NotNil(t, cfg.Matching.BoardPartialCredit)
	assert.Equal(t, 0.0, *cfg.Matching.BoardPartialCredit, "explicit zero disables partial credit")
	assert.Equal(t, 0.5, *cfg.Matching.AreaPartialCredit)

	connect := cfg.Matching.BaseWeights["connect_traveler"]
	assert.Equal(t, 30.0, connect.Lifestyle)
	assert.Equal(t, 10.0, connect.DestinationDays)
	assert.Equal(t, 20.0, connect.SurfLevel, "unset components keep the default table")
	assert.Equal(t, 12.0, connect.BoardType)
	assert.Equal(t, 20.0, cfg.Matching.BaseWeights["specific_advice"].DestinationDays)

	wc := GetWorkerConfig(cfg, "match-companions")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 2000, wc.Timeout)
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 3, wc.MaxRetries)

	assert.True(t, IsWorkerEnabled(cfg, "query-candidates"), "unlisted workers default to enabled")
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_BROKER", "zeebe:26500")
	body := `
camunda:
  broker_address: ${TEST_BROKER}
database:
  postgres:
    host: localhost
    database: swellyo
    user: swellyo
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing broker", `
database:
  postgres: {host: localhost, database: swellyo, user: swellyo}
`},
		{"postgres incomplete", `
camunda: {broker_address: localhost:26500}
`},
		{"unknown source", minimalConfig + `
candidates: {source: mongo}
`},
		{"elasticsearch without addresses", `
camunda: {broker_address: localhost:26500}
candidates: {source: elasticsearch}
`},
		{"cache without redis", minimalConfig + `
candidates: {cache_ttl: 30}
`},
		{"limits inverted", minimalConfig + `
candidates: {default_limit: 500, max_limit: 100}
`},
		{"bad matching", minimalConfig + `
matching:
  area_partial_credit: 3
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
