package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/effective-security/factoryagent/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		_, err := llm.New(&llm.Config{Provider: "GEMINI", Model: "m"})
		assert.EqualError(t, err, "unsupported provider type: GEMINI")
	})

	t.Run("openai_missing_token", func(t *testing.T) {
		t.Setenv(llm.TokenEnvVarNameOpenAI, "")
		_, err := llm.New(&llm.Config{Provider: "OPENAI", Model: "gpt-5-mini"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai: missing API key")
	})

	t.Run("anthropic_missing_model", func(t *testing.T) {
		_, err := llm.New(&llm.Config{Provider: "ANTHROPIC", Token: "test"})
		assert.EqualError(t, err, "anthropic: model is required")
	})
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-5-mini", body["model"])

		msgs, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-5-mini",
			"choices": [
				{
					"index": 0,
					"message": {"role": "assistant", "content": "The motor limit is 3000 RPM."},
					"finish_reason": "stop"
				}
			],
			"usage": {"prompt_tokens": 42, "completion_tokens": 9, "total_tokens": 51}
		}`))
	}))
	defer srv.Close()

	model, err := llm.New(&llm.Config{
		Provider: "OPENAI",
		Model:    "gpt-5-mini",
		Token:    "test-token",
		BaseURL:  srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-mini", model.GetName())
	assert.Equal(t, llm.ProviderOpenAI, model.GetProviderType())

	answer, err := model.Complete(context.Background(), "You answer about machines.", "What is the motor limit?")
	require.NoError(t, err)
	assert.Equal(t, "The motor limit is 3000 RPM.", answer)
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-5", body["model"])
		assert.NotNil(t, body["system"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"content": [{"type": "text", "text": "The motor limit is 3000 RPM."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 42, "output_tokens": 9}
		}`))
	}))
	defer srv.Close()

	model, err := llm.New(&llm.Config{
		Provider: "ANTHROPIC",
		Model:    "claude-sonnet-4-5",
		Token:    "test-token",
		BaseURL:  srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, model.GetProviderType())

	answer, err := model.Complete(context.Background(), "You answer about machines.", "What is the motor limit?")
	require.NoError(t, err)
	assert.Equal(t, "The motor limit is 3000 RPM.", answer)
}
