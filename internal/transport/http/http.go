// Package http implements the web transport for teacherbot.
//
// It serves a single-page web UI with generation sliders and a per-session
// transcript, plus a small JSON API for scripted clients. It also exposes
// Prometheus metrics and the Swagger UI for the API.
package http

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nadzzz/teacherbot/internal/generator"
	"github.com/nadzzz/teacherbot/internal/i18n"
	"github.com/nadzzz/teacherbot/internal/language"
	"github.com/nadzzz/teacherbot/internal/message"
	"github.com/nadzzz/teacherbot/internal/metrics"
	"github.com/nadzzz/teacherbot/internal/transcript"
	"github.com/nadzzz/teacherbot/internal/transport"
)

// SessionCookie names the cookie carrying the web session id.
const SessionCookie = "teacherbot_session"

const maxBodyBytes = 1 << 20

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port       int
	store      transcript.Store
	translator *i18n.Translator
	metrics    metrics.Metrics

	mu     sync.Mutex // guards server and closed
	server *http.Server
	closed bool
}

// Option customises a Transport.
type Option func(*Transport)

// WithStore sets the transcript store. Defaults to an in-memory store.
func WithStore(s transcript.Store) Option {
	return func(t *Transport) { t.store = s }
}

// WithTranslator sets the translator for UI labels.
func WithTranslator(tr *i18n.Translator) Option {
	return func(t *Transport) { t.translator = tr }
}

// WithMetrics sets the registry served on /metrics.
func WithMetrics(m metrics.Metrics) Option {
	return func(t *Transport) { t.metrics = m }
}

// New creates a new HTTP transport on the given port.
func New(port int, opts ...Option) (*Transport, error) {
	t := &Transport{port: port}
	for _, opt := range opts {
		opt(t)
	}
	if t.store == nil {
		t.store = transcript.NewMemoryStore()
	}
	if t.translator == nil {
		tr, err := i18n.New()
		if err != nil {
			return nil, fmt.Errorf("http: loading translations: %w", err)
		}
		t.translator = tr
	}
	if t.metrics == nil {
		t.metrics = metrics.NewNoopMetrics()
	}
	return t, nil
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler builds the router for the given answerer.
func (t *Transport) Handler(answerer transport.Answerer) http.Handler {
	mux := http.NewServeMux()

	// GET / renders the web UI with the session transcript.
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		t.handleIndex(w, r, answerer)
	})

	// POST /ask answers a form submission and redirects back to the UI.
	mux.HandleFunc("POST /ask", func(w http.ResponseWriter, r *http.Request) {
		t.handleAsk(w, r, answerer)
	})

	mux.HandleFunc("POST /api/answer", func(w http.ResponseWriter, r *http.Request) {
		t.handleAPIAnswer(w, r, answerer)
	})
	mux.HandleFunc("GET /api/languages", t.handleLanguages)

	mux.Handle("GET /metrics", promhttp.HandlerFor(t.metrics.GetRegistry(), promhttp.HandlerOpts{}))

	// Swagger UI for the JSON API, served from the registered docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// Listen starts the HTTP server and routes incoming requests to the answerer.
// A transport that was already closed returns nil without listening.
func (t *Transport) Listen(ctx context.Context, answerer transport.Answerer) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Handler(answerer),
		ReadHeaderTimeout: 10 * time.Second,
	}
	t.server = server
	t.mu.Unlock()

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Close gracefully shuts down the HTTP server. It is safe to call from any
// goroutine, before or after Listen.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	server := t.server
	t.mu.Unlock()

	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

type labels struct {
	Title, Subtitle, Settings    string
	Temperature, MaxTokens, TopP string
	Ask, Submit, You             string
	BackendNote                  string
}

type limits struct {
	MinTemperature, MaxTemperature   float64
	MinMaxNewTokens, MaxMaxNewTokens int
	MinTopP, MaxTopP                 float64
}

type pageData struct {
	Lang   string
	Labels labels
	Limits limits
	Params generator.Params
	Turns  []message.Turn
}

func (t *Transport) pageLabels(lang, backend string) labels {
	l := func(m *i18n.Message) string { return t.translator.Localize(m, nil, lang) }
	return labels{
		Title:       l(i18n.MsgTitle),
		Subtitle:    l(i18n.MsgSubtitle),
		Settings:    l(i18n.MsgSettings),
		Temperature: l(i18n.MsgTemperature),
		MaxTokens:   l(i18n.MsgMaxTokens),
		TopP:        l(i18n.MsgTopP),
		Ask:         l(i18n.MsgAsk),
		Submit:      l(i18n.MsgSubmit),
		You:         l(i18n.MsgYou),
		BackendNote: t.translator.Localize(i18n.MsgBackendNote, map[string]any{"Backend": backend}, lang),
	}
}

func (t *Transport) handleIndex(w http.ResponseWriter, r *http.Request, answerer transport.Answerer) {
	sessionID := t.session(w, r)

	turns, err := t.store.List(r.Context(), sessionID)
	if err != nil {
		slog.Error("listing transcript failed", "session", sessionID, "error", err)
		http.Error(w, "transcript unavailable", http.StatusInternalServerError)
		return
	}

	lang := t.translator.Match(r.Header.Get("Accept-Language"))
	data := pageData{
		Lang:   lang,
		Labels: t.pageLabels(lang, answerer.Backend()),
		Limits: limits{
			MinTemperature: generator.MinTemperature, MaxTemperature: generator.MaxTemperature,
			MinMaxNewTokens: generator.MinMaxNewTokens, MaxMaxNewTokens: generator.MaxMaxNewTokens,
			MinTopP: generator.MinTopP, MaxTopP: generator.MaxTopP,
		},
		Params: formParams(r.URL.Query(), answerer.Defaults()),
		Turns:  turns,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		slog.Error("rendering page failed", "error", err)
	}
}

func (t *Transport) handleAsk(w http.ResponseWriter, r *http.Request, answerer transport.Answerer) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := t.session(w, r)
	params := formParams(r.PostForm, answerer.Defaults())

	if text := strings.TrimSpace(r.PostForm.Get("text")); text != "" {
		resp := answerer.Answer(r.Context(), text, params)
		turn := message.Turn{Question: text, Response: resp, CreatedAt: time.Now()}
		if err := t.store.Append(r.Context(), sessionID, turn); err != nil {
			slog.Error("appending transcript failed", "session", sessionID, "error", err)
			http.Error(w, "transcript unavailable", http.StatusInternalServerError)
			return
		}
	}

	// Carry the slider positions over to the next render.
	q := url.Values{}
	q.Set("temperature", strconv.FormatFloat(params.Temperature, 'f', -1, 64))
	q.Set("max_new_tokens", strconv.Itoa(params.MaxNewTokens))
	q.Set("top_p", strconv.FormatFloat(params.TopP, 'f', -1, 64))
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// handleAPIAnswer processes a POST /api/answer request.
//
// @Summary     Answer a question
// @Description Detects the language of the question, builds the teaching prompt and runs it through
// @Description the active backend. Generation failures are reported in the error field, not as HTTP errors.
// @Description Zero or missing generation parameters use the configured defaults; others are clamped to range.
// @Tags        answer
// @Accept      json
// @Produce     json
// @Param       query  body      message.Query     true  "Question and optional generation parameters"
// @Success     200    {object}  message.Response  "Answer with detected language, backend and prompt"
// @Failure     400    {string}  string            "Invalid JSON or blank text"
// @Router      /api/answer [post]
func (t *Transport) handleAPIAnswer(w http.ResponseWriter, r *http.Request, answerer transport.Answerer) {
	var q message.Query
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&q); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(q.Text) == "" {
		http.Error(w, "text must not be empty", http.StatusBadRequest)
		return
	}

	resp := answerer.Ask(r.Context(), q)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleLanguages processes a GET /api/languages request.
//
// @Summary     List supported languages
// @Description Returns the languages questions are detected as. Anything else is answered as English.
// @Tags        answer
// @Produce     json
// @Success     200  {array}  language.Language
// @Router      /api/languages [get]
func (t *Transport) handleLanguages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(language.Supported())
}

// session returns the caller's session id, issuing a new cookie when the
// request carries none or an invalid one.
func (t *Transport) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// formParams reads slider values from v, keeping base for missing or
// malformed fields. A zero temperature is a valid slider position.
func formParams(v url.Values, base generator.Params) generator.Params {
	p := base
	if f, err := strconv.ParseFloat(v.Get("temperature"), 64); err == nil {
		p.Temperature = f
	}
	if n, err := strconv.Atoi(v.Get("max_new_tokens")); err == nil {
		p.MaxNewTokens = n
	}
	if f, err := strconv.ParseFloat(v.Get("top_p"), 64); err == nil {
		p.TopP = f
	}
	return p.Clamp()
}
