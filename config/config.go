// Package config defines the shared read-only configuration of the toolkit.
// The config is loaded once and injected into tool constructors,
// tools never read ambient global state.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/factoryagent/pkg/llm"
	"github.com/effective-security/factoryagent/pkg/search"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Config for the factory-monitoring toolkit.
type Config struct {
	// Backend specifies the factory data service.
	Backend BackendConfig `json:"backend" yaml:"backend"`
	// DatabaseDescription is the fixed schema description returned by the
	// database-info tool. It grounds the agent's tool selection.
	DatabaseDescription string `json:"database_description" yaml:"database_description" validate:"required"`
	// Search specifies the documentation index, required for the documentation tool.
	Search search.Config `json:"search" yaml:"search"`
	// LLM specifies the chat model used for grounded documentation answers.
	LLM llm.Config `json:"llm" yaml:"llm"`
	// Docs tunes documentation retrieval.
	Docs DocsConfig `json:"docs" yaml:"docs"`
	// Charts specifies storage and addressing of rendered charts.
	Charts ChartsConfig `json:"charts" yaml:"charts"`
}

// BackendConfig specifies the factory data service.
type BackendConfig struct {
	// BaseURL of the data service, e.g. http://backend:8000
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`
	// Timeout bounds a single backend call. Zero means the client default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DocsConfig tunes documentation retrieval.
type DocsConfig struct {
	// TopK is the number of passages retrieved per question.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// MinScore drops passages below this relevance score. Zero keeps all.
	MinScore float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
}

// ChartsConfig specifies storage and addressing of rendered charts.
type ChartsConfig struct {
	// Store selects the chart store: memory or redis.
	Store string `json:"store,omitempty" yaml:"store,omitempty" validate:"omitempty,oneof=memory redis"`
	// RedisAddr is the Redis address, required when Store is redis.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	// RedisPrefix namespaces chart keys in Redis.
	RedisPrefix string `json:"redis_prefix,omitempty" yaml:"redis_prefix,omitempty"`
	// TTL expires stored charts. Zero keeps them until deleted.
	TTL time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	// PublicBaseURL is the externally reachable URL prefix under which the
	// chart handler is mounted, e.g. http://host:8080/charts
	PublicBaseURL string `json:"public_base_url" yaml:"public_base_url" validate:"required,url"`
}

// LoadConfig loads the config from a YAML or JSON file,
// expanding ${ENV} references in values.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for structural consistency.
// Search and LLM sections are validated by the documentation tool constructor,
// deployments without that tool may leave them empty.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.StructExcept(c, "Search", "LLM"); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	if c.Charts.Store == "redis" && c.Charts.RedisAddr == "" {
		return errors.New("invalid configuration: charts.redis_addr is required for the redis store")
	}
	return nil
}

// ValidateSearch checks the documentation index and chat model sections.
func (c *Config) ValidateSearch() error {
	validate := validator.New()
	if err := validate.Struct(c.Search); err != nil {
		return errors.WithMessage(err, "invalid search configuration")
	}
	if err := validate.Struct(c.LLM); err != nil {
		return errors.WithMessage(err, "invalid llm configuration")
	}
	return nil
}
