// Package bot implements the teacher bot pipeline.
//
// A Bot detects the language of a question, builds the teaching prompt,
// runs it through the backend chosen at construction, and packages the
// outcome as a message.Response. Every call returns a complete response:
// generation failures on either backend become a readable answer with
// Response.Error set, so no front end ever has to handle a failed query.
package bot

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/nadzzz/teacherbot/internal/config"
	"github.com/nadzzz/teacherbot/internal/generator"
	"github.com/nadzzz/teacherbot/internal/i18n"
	"github.com/nadzzz/teacherbot/internal/language"
	"github.com/nadzzz/teacherbot/internal/message"
	"github.com/nadzzz/teacherbot/internal/metrics"
	"github.com/nadzzz/teacherbot/internal/prompt"
)

// Detector resolves the language of a question.
type Detector interface {
	DetectLanguage(text string) language.Language
}

// Bot answers single-turn questions. It is safe for concurrent use;
// generation calls are serialised because neither backend is assumed to
// handle parallel requests.
type Bot struct {
	detector   Detector
	gen        generator.Generator
	translator *i18n.Translator
	metrics    metrics.Metrics
	defaults   generator.Params

	mu sync.Mutex // guards gen.Generate
}

type options struct {
	detector   Detector
	translator *i18n.Translator
	metrics    metrics.Metrics
	httpClient *http.Client
	defaults   *generator.Params
}

// Option customises a Bot.
type Option func(*options)

// WithDetector replaces the default lingua-based detector.
func WithDetector(d Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithTranslator sets the translator used for error answers.
func WithTranslator(t *i18n.Translator) Option {
	return func(o *options) { o.translator = t }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithHTTPClient sets the client the backends use.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithDefaults sets the generation parameters used when a query sets none.
func WithDefaults(p generator.Params) Option {
	return func(o *options) { o.defaults = &p }
}

// New selects and initialises the backend described by cfg and returns a
// ready bot. It blocks while a local model loads.
func New(ctx context.Context, cfg config.BackendConfig, opts ...Option) (*Bot, error) {
	o := buildOptions(opts)
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	gen, err := Select(ctx, cfg, o.httpClient)
	if err != nil {
		return nil, err
	}
	slog.Info("generation backend selected", "backend", gen.Name())

	return newBot(gen, o)
}

// NewWithGenerator builds a bot around an already initialised backend.
func NewWithGenerator(gen generator.Generator, opts ...Option) (*Bot, error) {
	return newBot(gen, buildOptions(opts))
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newBot(gen generator.Generator, o *options) (*Bot, error) {
	if o.detector == nil {
		o.detector = language.NewDetector()
	}
	if o.translator == nil {
		t, err := i18n.New()
		if err != nil {
			return nil, err
		}
		o.translator = t
	}
	if o.metrics == nil {
		o.metrics = metrics.NewNoopMetrics()
	}
	defaults := generator.DefaultParams()
	if o.defaults != nil {
		defaults = o.defaults.Clamp()
	}

	return &Bot{
		detector:   o.detector,
		gen:        gen,
		translator: o.translator,
		metrics:    o.metrics,
		defaults:   defaults,
	}, nil
}

// Backend returns the identifier of the active backend.
func (b *Bot) Backend() string { return b.gen.Name() }

// Defaults returns the generation parameters used when a query sets none.
func (b *Bot) Defaults() generator.Params { return b.defaults }

// Ask answers a query, merging its parameter overrides onto the defaults.
func (b *Bot) Ask(ctx context.Context, q message.Query) message.Response {
	return b.Answer(ctx, q.Text, q.Params(b.defaults))
}

// Answer runs the full pipeline for one question. Latency covers the
// generation call only.
func (b *Bot) Answer(ctx context.Context, text string, params generator.Params) message.Response {
	lang := b.detector.DetectLanguage(text)
	built := prompt.Build(text, lang)
	backend := b.gen.Name()

	b.mu.Lock()
	start := time.Now()
	answer, err := b.gen.Generate(ctx, built, params)
	elapsed := time.Since(start)
	b.mu.Unlock()

	resp := message.Response{
		Language:   lang,
		Backend:    backend,
		Prompt:     built,
		Answer:     answer,
		LatencySec: message.RoundLatency(elapsed),
	}

	b.metrics.ObserveQuery(backend, lang.Code)
	b.metrics.ObserveGeneration(backend, elapsed.Seconds())

	if err != nil {
		b.metrics.IncrementGenerationErrors(backend)
		resp.Error = err.Error()
		resp.Answer = b.translator.BackendError(lang.Code, backend, err)
		slog.Error("generation failed", "backend", backend, "language", lang.Code, "error", err)
		return resp
	}

	slog.Info("question answered", "backend", backend, "language", lang.Code,
		"answer_length", len(answer), "latency_sec", resp.LatencySec)
	return resp
}

// Close releases the backend.
func (b *Bot) Close() error {
	return b.gen.Close()
}
