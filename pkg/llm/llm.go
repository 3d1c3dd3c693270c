// Package llm provides the chat model used for grounded documentation answers,
// with provider selection driven by configuration.
package llm

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/factoryagent", "llm")

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderOpenAI is the type of provider.
	ProviderOpenAI ProviderType = "OPENAI"
	// ProviderAnthropic is the type of provider.
	ProviderAnthropic ProviderType = "ANTHROPIC"
)

// Model is the interface chat models implement.
type Model interface {
	// GetName returns the model name.
	GetName() string
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// Complete asks the model for a single completion of the user prompt,
	// under the given system prompt.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config specifies the chat model provider.
type Config struct {
	// Provider is OPENAI or ANTHROPIC.
	Provider string `json:"provider" yaml:"provider" validate:"required,oneof=OPENAI ANTHROPIC"`
	// Model is the model name, e.g. gpt-5-mini.
	Model string `json:"model" yaml:"model" validate:"required"`
	// Token authenticates API requests, typically expanded from the environment.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// New creates a chat model from the config.
func New(cfg *Config) (Model, error) {
	switch ProviderType(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	}
	return nil, errors.Errorf("unsupported provider type: %s", cfg.Provider)
}
