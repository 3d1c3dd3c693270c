// Package factory assembles the tool registry from the configuration.
// It owns the wiring of clients, stores and tools, the host process only
// deals with the finished registry and the chart handler.
package factory

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/config"
	"github.com/effective-security/factoryagent/pkg/backend"
	"github.com/effective-security/factoryagent/pkg/llm"
	"github.com/effective-security/factoryagent/pkg/search"
	"github.com/effective-security/factoryagent/store"
	"github.com/effective-security/factoryagent/tools"
	"github.com/effective-security/factoryagent/tools/ambient"
	"github.com/effective-security/factoryagent/tools/dbinfo"
	"github.com/effective-security/factoryagent/tools/docs"
	"github.com/effective-security/factoryagent/tools/faultlog"
	"github.com/effective-security/factoryagent/tools/machine"
	"github.com/effective-security/factoryagent/tools/visualize"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "factory")

// Toolkit is the assembled tool registry with its supporting stores.
type Toolkit struct {
	// Registry holds every configured tool.
	Registry *tools.Registry
	// Charts is the store backing the visualization tool and the chart handler.
	Charts store.ChartStore
}

// New assembles the toolkit from the configuration.
// The documentation tool is included only when the search and llm sections are
// configured, the remaining tools are always present.
func New(cfg *config.Config) (*Toolkit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := backend.NewClient(cfg.Backend.BaseURL)
	if cfg.Backend.Timeout > 0 {
		client = client.WithTimeout(cfg.Backend.Timeout)
	}

	charts, err := newChartStore(cfg)
	if err != nil {
		return nil, err
	}

	infoTool, err := dbinfo.New(cfg.DatabaseDescription)
	if err != nil {
		return nil, err
	}
	machineTool, err := machine.New(client)
	if err != nil {
		return nil, err
	}
	ambientTool, err := ambient.New(client)
	if err != nil {
		return nil, err
	}
	logsTool, err := faultlog.New(client)
	if err != nil {
		return nil, err
	}
	chartTool, err := visualize.New(client, charts, cfg.Charts.PublicBaseURL)
	if err != nil {
		return nil, err
	}

	list := []tools.ITool{
		infoTool,
		machineTool,
		ambientTool,
		logsTool,
		chartTool,
	}

	if cfg.Search.Endpoint != "" {
		if err := cfg.ValidateSearch(); err != nil {
			return nil, err
		}
		model, err := llm.New(&cfg.LLM)
		if err != nil {
			return nil, err
		}
		docsTool, err := docs.New(search.NewClient(cfg.Search), model, cfg.Docs.TopK, cfg.Docs.MinScore)
		if err != nil {
			return nil, err
		}
		list = append(list, docsTool)
	} else {
		logger.KV(xlog.INFO, "reason", "search is not configured", "tool", docs.ToolName, "status", "disabled")
	}

	registry, err := tools.NewRegistry(list...)
	if err != nil {
		return nil, err
	}

	return &Toolkit{
		Registry: registry,
		Charts:   charts,
	}, nil
}

func newChartStore(cfg *config.Config) (store.ChartStore, error) {
	switch cfg.Charts.Store {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Charts.RedisAddr})
		return store.NewRedisStore(client, cfg.Charts.RedisPrefix, cfg.Charts.TTL), nil
	}
	return nil, errors.Errorf("unsupported chart store: %s", cfg.Charts.Store)
}
