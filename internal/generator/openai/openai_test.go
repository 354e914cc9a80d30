package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/generator"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
}

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := New(config.OpenAIConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL + "/v1/",
	}, &http.Client{Timeout: 5 * time.Second})
	require.NoError(t, err)
	return g
}

func writeChatResponse(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(config.OpenAIConfig{Model: "gpt-4o-mini"}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(config.OpenAIConfig{APIKey: "   ", Model: "gpt-4o-mini"}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewRequiresModel(t *testing.T) {
	_, err := New(config.OpenAIConfig{APIKey: "sk-test"}, nil)
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, SystemPrompt, req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "the prompt", req.Messages[1].Content)
		assert.InDelta(t, 0.3, req.Temperature, 1e-6)
		assert.Equal(t, 512, req.MaxTokens)
		assert.InDelta(t, 0.9, req.TopP, 1e-6)

		writeChatResponse(w, "  F = m·a  \n")
	})

	got, err := g.Generate(context.Background(), "the prompt", generator.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "F = m·a", got)
	assert.Equal(t, "openai", g.Name())
	assert.Equal(t, "gpt-4o-mini", g.Model())
}

func TestGenerateZeroTemperatureIsSent(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, ok := raw["temperature"]
		assert.True(t, ok, "temperature must be present for greedy decoding")
		writeChatResponse(w, "ok")
	})

	params := generator.DefaultParams()
	params.Temperature = 0
	_, err := g.Generate(context.Background(), "p", params)
	require.NoError(t, err)
}

func TestGenerateAPIError(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := g.Generate(context.Background(), "p", generator.DefaultParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestGenerateEmptyChoice(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		writeChatResponse(w, "   ")
	})

	_, err := g.Generate(context.Background(), "p", generator.DefaultParams())
	assert.True(t, errors.Is(err, generator.ErrEmptyOutput))
}

func TestGenerateContextCancel(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "p", generator.DefaultParams())
	assert.Error(t, err)
}
