// Teacherbot is the interactive command-line teacher bot. It answers each
// question in the language it was asked, in a structured teaching style.
//
// Usage:
//
//	teacherbot [flags]
//	teacherbot -config /path/to/teacherbot.yaml -temperature 0.5
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nadzzz/teacherbot/internal/bot"
	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/repl"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/teacherbot.yaml)")
	temperature := flag.Float64("temperature", -1, "sampling temperature (0.0-1.0); overrides config")
	maxTokens := flag.Int("max-tokens", 0, "maximum new tokens (64-1024); overrides config")
	topP := flag.Float64("top-p", 0, "nucleus sampling threshold (0.1-1.0); overrides config")
	flag.Parse()

	if *showVersion {
		fmt.Printf("teacherbot %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Answers go to stdout; keep log records out of the conversation.
	config.SetupLogging(cfg.Logging, os.Stderr)

	params := cfg.Generation
	if *temperature >= 0 {
		params.Temperature = *temperature
	}
	if *maxTokens > 0 {
		params.MaxNewTokens = *maxTokens
	}
	if *topP > 0 {
		params.TopP = *topP
	}
	params = params.Clamp()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, err := bot.New(ctx, cfg.Backend, bot.WithDefaults(params))
	if err != nil {
		slog.Error("failed to initialize bot", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	if err := repl.Run(ctx, os.Stdin, os.Stdout, b, params); err != nil {
		slog.Error("session ended with error", "error", err)
		os.Exit(1)
	}
}
