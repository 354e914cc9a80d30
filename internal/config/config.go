// Package config handles loading and validating the teacherbot configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nadzzz/teacherbot/internal/generator"
)

// Backend modes.
const (
	ModeAuto   = "auto"
	ModeOpenAI = "openai"
	ModeLocal  = "local"
)

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// DefaultLocalModel is the instruction-tuned model served by the local backend.
const DefaultLocalModel = "google/flan-t5-base"

// Config is the root configuration for teacherbot.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Generation generator.Params `mapstructure:"generation"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each front-end transport.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the web UI and JSON API.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// BackendConfig selects and configures the generation backend.
type BackendConfig struct {
	Mode    string        `mapstructure:"mode"` // "auto", "openai" or "local"
	Timeout time.Duration `mapstructure:"timeout"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Local   LocalConfig   `mapstructure:"local"`
}

// OpenAIConfig holds hosted chat API settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // empty for api.openai.com
}

// LocalConfig holds self-hosted model settings.
type LocalConfig struct {
	Endpoint   string `mapstructure:"endpoint"`    // base URL of the model server
	Model      string `mapstructure:"model"`       // Hugging Face model id
	AutoDevice string `mapstructure:"auto_device"` // "1" requests automatic accelerator placement
}

// UseAutoDevice reports whether automatic accelerator placement is requested.
func (c LocalConfig) UseAutoDevice() bool {
	return strings.TrimSpace(c.AutoDevice) == "1"
}

// StorageConfig selects where web transcripts are kept.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"` // "memory" or "sqlite"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./teacherbot.yaml, ./configs/teacherbot.yaml, /etc/teacherbot/teacherbot.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	def := generator.DefaultParams()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("backend.mode", ModeAuto)
	v.SetDefault("backend.timeout", "120s")
	v.SetDefault("backend.openai.api_key", "")
	v.SetDefault("backend.openai.model", "gpt-4o-mini")
	v.SetDefault("backend.openai.base_url", "")
	v.SetDefault("backend.local.endpoint", "http://localhost:8000")
	v.SetDefault("backend.local.model", DefaultLocalModel)
	v.SetDefault("backend.local.auto_device", "1")
	v.SetDefault("generation.temperature", def.Temperature)
	v.SetDefault("generation.max_new_tokens", def.MaxNewTokens)
	v.SetDefault("generation.top_p", def.TopP)
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.sqlite_path", "teacherbot.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("teacherbot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/teacherbot")
	}

	// Environment variables: TEACHERBOT_SERVER_HEALTH_PORT, TEACHERBOT_BACKEND_MODE, etc.
	v.SetEnvPrefix("TEACHERBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known variables shared with other OpenAI / Transformers tooling.
	bindings := map[string][]string{
		"backend.openai.api_key":    {"TEACHERBOT_BACKEND_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"backend.openai.model":      {"TEACHERBOT_BACKEND_OPENAI_MODEL", "OPENAI_MODEL"},
		"backend.openai.base_url":   {"TEACHERBOT_BACKEND_OPENAI_BASE_URL", "OPENAI_BASE_URL"},
		"backend.local.auto_device": {"TEACHERBOT_BACKEND_LOCAL_AUTO_DEVICE", "USE_AUTO_DEVICE"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.Backend.OpenAI.APIKey = resolveEnvRef(cfg.Backend.OpenAI.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations no component can run with.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case ModeAuto, ModeOpenAI, ModeLocal:
	default:
		return fmt.Errorf("invalid backend.mode %q: want auto, openai or local", c.Backend.Mode)
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid storage.driver %q: want memory or sqlite", c.Storage.Driver)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
// A reference to an unset variable resolves to the empty string.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
// Records are written to w; the daemon uses stdout, the REPL stderr.
func SetupLogging(cfg LoggingConfig, w io.Writer) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
