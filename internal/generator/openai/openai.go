// Package openai implements the Generator interface using the OpenAI Chat
// Completions API (or any OpenAI-compatible endpoint).
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	openaiClient "github.com/sashabaranov/go-openai"

	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/generator"
)

// Name is the backend identifier reported in every response.
const Name = "openai"

// SystemPrompt frames every chat request.
const SystemPrompt = "You are a helpful teacher who responds with structured, educational answers."

// ErrNoAPIKey is returned by New when no credential is configured.
var ErrNoAPIKey = errors.New("openai: no API key configured")

// Generator answers prompts through the hosted chat API.
type Generator struct {
	client *openaiClient.Client
	model  string
}

// New creates an OpenAI generator from config. It fails when the credential
// is missing or the model is unset, which lets the caller fall back to the
// local backend.
func New(cfg config.OpenAIConfig, httpClient *http.Client) (*Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: no model configured")
	}

	clientConfig := openaiClient.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &Generator{
		client: openaiClient.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// Name returns the backend identifier.
func (g *Generator) Name() string { return Name }

// Model returns the chat model requests are sent to.
func (g *Generator) Model() string { return g.model }

// Generate sends the prompt as the user turn of a chat completion.
func (g *Generator) Generate(ctx context.Context, prompt string, params generator.Params) (string, error) {
	req := openaiClient.ChatCompletionRequest{
		Model: g.model,
		Messages: []openaiClient.ChatCompletionMessage{
			{Role: openaiClient.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openaiClient.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature(params.Temperature),
		MaxTokens:   params.MaxNewTokens,
		TopP:        float32(params.TopP),
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", generator.ErrEmptyOutput)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai: %w", generator.ErrEmptyOutput)
	}

	slog.Debug("openai generation complete", "model", g.model, "answer_length", len(content),
		"completion_tokens", resp.Usage.CompletionTokens)
	return content, nil
}

// Close is a no-op for the OpenAI generator.
func (g *Generator) Close() error { return nil }

// temperature converts to the client's representation. The client omits a
// zero temperature from the request, so greedy decoding is sent as the
// smallest positive value instead.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
