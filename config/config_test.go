package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/effective-security/factoryagent/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
backend:
  base_url: http://backend:8000
database_description: |
  The database contains the tables machine, ambient and logs.
search:
  endpoint: https://myservice.search.windows.net
  index_name: machine-docs
  api_key: ${TEST_SEARCH_API_KEY}
llm:
  provider: OPENAI
  model: gpt-5-mini
  token: ${TEST_OPENAI_TOKEN}
docs:
  top_k: 5
  min_score: 1.5
charts:
  store: memory
  public_base_url: http://host:8080/charts
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TEST_SEARCH_API_KEY", "search-secret")
	t.Setenv("TEST_OPENAI_TOKEN", "openai-secret")

	cfg, err := config.LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8000", cfg.Backend.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Contains(t, cfg.DatabaseDescription, "machine, ambient and logs")
	assert.Equal(t, "search-secret", cfg.Search.APIKey)
	assert.Equal(t, "openai-secret", cfg.LLM.Token)
	assert.Equal(t, 5, cfg.Docs.TopK)
	assert.InDelta(t, 1.5, cfg.Docs.MinScore, 0.001)
	assert.Equal(t, "memory", cfg.Charts.Store)
	assert.Equal(t, "http://host:8080/charts", cfg.Charts.PublicBaseURL)

	require.NoError(t, cfg.ValidateSearch())
}

func TestLoadConfigMissing(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig("testdata/does-not-exist.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		return &config.Config{
			Backend:             config.BackendConfig{BaseURL: "http://backend:8000"},
			DatabaseDescription: "tables: machine, ambient, logs",
			Charts: config.ChartsConfig{
				PublicBaseURL: "http://host:8080/charts",
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing_backend", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.Backend.BaseURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("missing_description", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.DatabaseDescription = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("redis_without_addr", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.Charts.Store = "redis"
		assert.EqualError(t, cfg.Validate(),
			"invalid configuration: charts.redis_addr is required for the redis store")
	})

	t.Run("search_section", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		// empty search and llm pass Validate, they are checked separately
		require.NoError(t, cfg.Validate())
		require.Error(t, cfg.ValidateSearch())
	})
}
