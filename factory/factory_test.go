package factory_test

import (
	"context"
	"testing"

	"github.com/effective-security/factoryagent/config"
	"github.com/effective-security/factoryagent/factory"
	"github.com/effective-security/factoryagent/pkg/llm"
	"github.com/effective-security/factoryagent/pkg/search"
	"github.com/effective-security/factoryagent/tools/ambient"
	"github.com/effective-security/factoryagent/tools/dbinfo"
	"github.com/effective-security/factoryagent/tools/docs"
	"github.com/effective-security/factoryagent/tools/faultlog"
	"github.com/effective-security/factoryagent/tools/machine"
	"github.com/effective-security/factoryagent/tools/visualize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{
			BaseURL: "http://backend:8000",
		},
		DatabaseDescription: "The database contains the tables machine, ambient and logs.",
		Charts: config.ChartsConfig{
			Store:         "memory",
			PublicBaseURL: "http://host:8080/charts",
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tk, err := factory.New(baseConfig())
	require.NoError(t, err)
	require.NotNil(t, tk.Charts)

	// the documentation tool needs the search section, the rest is always on
	assert.Equal(t, []string{
		ambient.ToolName,
		dbinfo.ToolName,
		faultlog.ToolName,
		machine.ToolName,
		visualize.ToolName,
	}, tk.Registry.Names())

	_, ok := tk.Registry.Get(docs.ToolName)
	assert.False(t, ok)

	// the info tool is callable without any wiring beyond the config
	out, err := tk.Registry.Call(context.Background(), dbinfo.ToolName, "")
	require.NoError(t, err)
	assert.Contains(t, out, "machine, ambient and logs")
}

func TestNewWithDocs(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Search = search.Config{
		Endpoint:  "https://myservice.search.windows.net",
		IndexName: "machine-docs",
		APIKey:    "search-secret",
	}
	cfg.LLM = llm.Config{
		Provider: "OPENAI",
		Model:    "gpt-5-mini",
		Token:    "openai-secret",
	}

	tk, err := factory.New(cfg)
	require.NoError(t, err)

	_, ok := tk.Registry.Get(docs.ToolName)
	assert.True(t, ok)
	assert.Len(t, tk.Registry.List(), 6)
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()

	t.Run("config", func(t *testing.T) {
		t.Parallel()
		cfg := baseConfig()
		cfg.Backend.BaseURL = ""
		_, err := factory.New(cfg)
		require.Error(t, err)
	})

	t.Run("chart_store", func(t *testing.T) {
		t.Parallel()
		cfg := baseConfig()
		cfg.Charts.Store = "redis"
		_, err := factory.New(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "charts.redis_addr is required")
	})

	t.Run("incomplete_search", func(t *testing.T) {
		t.Parallel()
		cfg := baseConfig()
		cfg.Search.Endpoint = "https://myservice.search.windows.net"
		_, err := factory.New(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid search configuration")
	})
}
