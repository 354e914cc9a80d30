package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/generator"
	"github.com/nadzzz/teacherbot/internal/generator/local"
	"github.com/nadzzz/teacherbot/internal/generator/openai"
)

// Select picks the generation backend for a bot.
//
// In auto mode the hosted backend is used when a credential is configured
// and its client constructs; otherwise the local model is loaded. Loading
// blocks until the model server reports ready, which can be slow on first
// start. Forcing a mode turns a failure of that backend into an error.
func Select(ctx context.Context, cfg config.BackendConfig, httpClient *http.Client) (generator.Generator, error) {
	switch cfg.Mode {
	case config.ModeOpenAI:
		g, err := openai.New(cfg.OpenAI, httpClient)
		if err != nil {
			return nil, fmt.Errorf("initializing openai backend: %w", err)
		}
		return g, nil

	case config.ModeLocal:
		return loadLocal(ctx, cfg.Local, httpClient)

	default:
		if strings.TrimSpace(cfg.OpenAI.APIKey) != "" {
			g, err := openai.New(cfg.OpenAI, httpClient)
			if err == nil {
				return g, nil
			}
			slog.Warn("openai backend unavailable, falling back to local model", "error", err)
		}
		return loadLocal(ctx, cfg.Local, httpClient)
	}
}

func loadLocal(ctx context.Context, cfg config.LocalConfig, httpClient *http.Client) (generator.Generator, error) {
	g := local.New(cfg, httpClient)
	slog.Info("loading local model", "model", g.Model(), "endpoint", cfg.Endpoint, "auto_device", cfg.UseAutoDevice())
	if err := g.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading local backend: %w", err)
	}
	return g, nil
}
