// Package local implements the Generator interface using a self-hosted
// instruction-tuned model.
//
// It speaks the Hugging Face text-generation-inference style API exposed by
// common model servers: POST /generate with {"inputs", "parameters"} and a
// list (or single object) of {"generated_text"} candidates in the response.
// Servers that manage their own model lifecycle may also implement POST /load.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/generator"
)

// BackendPrefix precedes the model id in the backend identifier.
const BackendPrefix = "transformers:"

// Generator runs prompts against a locally served text2text model.
type Generator struct {
	endpoint   string
	model      string
	autoDevice bool
	client     *http.Client
}

// New creates a local generator from config. It does not contact the server;
// call Load before the first Generate.
func New(cfg config.LocalConfig, httpClient *http.Client) *Generator {
	model := cfg.Model
	if model == "" {
		model = config.DefaultLocalModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Generator{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		model:      model,
		autoDevice: cfg.UseAutoDevice(),
		client:     httpClient,
	}
}

// Name returns the backend identifier, e.g. "transformers:google/flan-t5-base".
func (g *Generator) Name() string { return BackendPrefix + g.model }

// Model returns the model id.
func (g *Generator) Model() string { return g.model }

type loadRequest struct {
	Model     string `json:"model"`
	Task      string `json:"task"`
	DeviceMap string `json:"device_map,omitempty"`
}

// Load asks the server to initialise the model and blocks until it is ready.
// This may take a long time on first start (download + weight init). If the
// server has no /load route the model is assumed to be preloaded, and a
// GET /health probe decides readiness instead.
func (g *Generator) Load(ctx context.Context) error {
	start := time.Now()

	body := loadRequest{Model: g.model, Task: "text2text-generation"}
	if g.autoDevice {
		body.DeviceMap = "auto"
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("local: marshal load request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/load", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("local: create load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("local: load %s: %w", g.model, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed:
		if err := g.probe(ctx); err != nil {
			return err
		}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("local: load %s failed (status %d): %s", g.model, resp.StatusCode, respBody)
	}

	slog.Info("local model ready", "model", g.model, "auto_device", g.autoDevice, "duration", time.Since(start))
	return nil
}

func (g *Generator) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("local: create health request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("local: health probe: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("local: model server not healthy (status %d)", resp.StatusCode)
	}
	return nil
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxNewTokens       int     `json:"max_new_tokens"`
	Temperature        float64 `json:"temperature,omitempty"`
	TopP               float64 `json:"top_p,omitempty"`
	DoSample           bool    `json:"do_sample"`
	NumReturnSequences int     `json:"num_return_sequences"`
}

type candidate struct {
	GeneratedText string `json:"generated_text"`
}

// Generate runs the prompt through the model and returns the first candidate.
func (g *Generator) Generate(ctx context.Context, prompt string, params generator.Params) (string, error) {
	reqBody := generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens:       params.MaxNewTokens,
			NumReturnSequences: 1,
		},
	}
	// Sampling servers reject temperature 0 and top_p 1; greedy decoding is
	// expressed by leaving them out.
	if params.Temperature > 0 {
		reqBody.Parameters.DoSample = true
		reqBody.Parameters.Temperature = params.Temperature
		if params.TopP > 0 && params.TopP < 1 {
			reqBody.Parameters.TopP = params.TopP
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("local: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("local: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local: generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("local: generate failed (status %d): %s", resp.StatusCode, respBody)
	}

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("local: read response: %w", err)
	}

	text, err := firstCandidate(respData)
	if err != nil {
		return "", err
	}

	slog.Debug("local generation complete", "model", g.model, "answer_length", len(text))
	return text, nil
}

// Close is a no-op; the model lives in the server process.
func (g *Generator) Close() error { return nil }

// firstCandidate extracts the first generated text from either response shape.
func firstCandidate(data []byte) (string, error) {
	var list []candidate
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return "", fmt.Errorf("local: %w", generator.ErrEmptyOutput)
		}
		return nonEmpty(list[0].GeneratedText)
	}

	var single candidate
	if err := json.Unmarshal(data, &single); err != nil {
		return "", fmt.Errorf("local: decode response: %w", err)
	}
	return nonEmpty(single.GeneratedText)
}

func nonEmpty(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("local: %w", generator.ErrEmptyOutput)
	}
	return s, nil
}
