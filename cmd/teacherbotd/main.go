// Teacherbotd serves the teacher bot over a web UI, a JSON API and gRPC.
//
// Usage:
//
//	teacherbotd [flags]
//	teacherbotd -config /path/to/teacherbot.yaml
//
// @title       TeacherBot API
// @version     1.0
// @description Multilingual, teacher-style question answering over a hosted or local model.
// @BasePath    /
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/nadzzz/teacherbot/docs"
	"github.com/nadzzz/teacherbot/internal/bot"
	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/health"
	"github.com/nadzzz/teacherbot/internal/i18n"
	"github.com/nadzzz/teacherbot/internal/metrics"
	"github.com/nadzzz/teacherbot/internal/transcript"
	"github.com/nadzzz/teacherbot/internal/transport"
	grpctransport "github.com/nadzzz/teacherbot/internal/transport/grpc"
	httptransport "github.com/nadzzz/teacherbot/internal/transport/http"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/teacherbot.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("teacherbotd %s\n", version)
		os.Exit(0)
	}

	if err := run(*configFile); err != nil {
		slog.Error("teacherbotd failed", "error", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	// Load configuration.
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging, os.Stdout)
	slog.Info("teacherbotd starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Health reports not_ready while the backend loads.
	healthServer := health.New(cfg.Server.HealthPort)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	m := metrics.NewMetrics(version)

	translator, err := i18n.New()
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}

	b, err := bot.New(ctx, cfg.Backend,
		bot.WithDefaults(cfg.Generation),
		bot.WithTranslator(translator),
		bot.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("initializing bot: %w", err)
	}
	defer b.Close()
	healthServer.SetBackend(b.Backend())

	store, err := transcript.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening transcript store: %w", err)
	}
	defer store.Close()

	// Initialize enabled transports.
	var transports []transport.Transport

	if cfg.Transports.HTTP.Enabled {
		t, err := httptransport.New(cfg.Transports.HTTP.Port,
			httptransport.WithStore(store),
			httptransport.WithTranslator(translator),
			httptransport.WithMetrics(m),
		)
		if err != nil {
			return err
		}
		transports = append(transports, t)
	}
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}

	if len(transports) == 0 {
		return fmt.Errorf("no transports enabled: enable http or grpc in config")
	}

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, b); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	slog.Info("teacherbotd ready",
		"backend", b.Backend(),
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")
	healthServer.SetReady(false)

	// Close all transports gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("teacherbotd stopped")
	return nil
}
