package llm

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// TokenEnvVarNameOpenAI is the fallback source of the OpenAI API key.
const TokenEnvVarNameOpenAI = "OPENAI_API_KEY"

// ErrEmptyResponse is returned when the model returns no choices.
var ErrEmptyResponse = errors.New("empty response")

// OpenAI is a Model backed by the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

var _ Model = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI chat model.
func NewOpenAI(cfg *Config) (*OpenAI, error) {
	token := values.StringsCoalesce(cfg.Token, os.Getenv(TokenEnvVarNameOpenAI))
	if token == "" {
		return nil, errors.Errorf("openai: missing API key, set it in the %s environment variable", TokenEnvVarNameOpenAI)
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(token),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// GetName implements the Model interface.
func (o *OpenAI) GetName() string {
	return o.model
}

// GetProviderType implements the Model interface.
func (o *OpenAI) GetProviderType() ProviderType {
	return ProviderOpenAI
}

// Complete implements the Model interface.
func (o *OpenAI) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai: failed to create completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.WithStack(ErrEmptyResponse)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"provider", ProviderOpenAI,
		"model", o.model,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}
