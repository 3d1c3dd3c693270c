package llm

import (
	"context"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

// TokenEnvVarNameAnthropic is the fallback source of the Anthropic API key.
const TokenEnvVarNameAnthropic = "ANTHROPIC_API_KEY"

// DefaultMaxTokens bounds the answer length of a grounded completion.
const DefaultMaxTokens = 4096

// Anthropic is a Model backed by the Anthropic messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

var _ Model = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic chat model.
func NewAnthropic(cfg *Config) (*Anthropic, error) {
	token := values.StringsCoalesce(cfg.Token, os.Getenv(TokenEnvVarNameAnthropic))
	if token == "" {
		return nil, errors.Errorf("anthropic: missing API key, set it in the %s environment variable", TokenEnvVarNameAnthropic)
	}
	if cfg.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(token),
		option.WithMaxRetries(2),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	return &Anthropic{
		client: &client,
		model:  cfg.Model,
	}, nil
}

// GetName implements the Model interface.
func (a *Anthropic) GetName() string {
	return a.model
}

// GetProviderType implements the Model interface.
func (a *Anthropic) GetProviderType() ProviderType {
	return ProviderAnthropic
}

// Complete implements the Model interface.
func (a *Anthropic) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: DefaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: systemPrompt,
			},
		}
	}

	result, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "anthropic: failed to create message")
	}

	var answer string
	for _, contentBlock := range result.Content {
		if content, ok := contentBlock.AsAny().(anthropic.TextBlock); ok {
			answer += content.Text
		}
	}
	if answer == "" {
		return "", errors.WithStack(ErrEmptyResponse)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"provider", ProviderAnthropic,
		"model", a.model,
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
	)
	return answer, nil
}
