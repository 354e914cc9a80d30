// Package message defines the core data types flowing through the teacherbot pipeline.
package message

import (
	"math"
	"time"

	"github.com/nadzzz/teacherbot/internal/generator"
	"github.com/nadzzz/teacherbot/internal/language"
)

// Query is a single question submitted by any front end.
type Query struct {
	// Text is the user's question, in any of the supported languages.
	Text string `json:"text"`

	// Temperature, MaxNewTokens and TopP override the configured generation
	// parameters when non-zero.
	Temperature  float64 `json:"temperature,omitempty"`
	MaxNewTokens int     `json:"max_new_tokens,omitempty"`
	TopP         float64 `json:"top_p,omitempty"`
}

// Params merges the query's overrides onto base and clamps the result.
func (q Query) Params(base generator.Params) generator.Params {
	p := base
	if q.Temperature != 0 {
		p.Temperature = q.Temperature
	}
	if q.MaxNewTokens != 0 {
		p.MaxNewTokens = q.MaxNewTokens
	}
	if q.TopP != 0 {
		p.TopP = q.TopP
	}
	return p.Clamp()
}

// Response is the outcome of answering one query. It is built once and never
// mutated afterwards.
type Response struct {
	// Language is the detected (or fallback) language of the question.
	Language language.Language `json:"language"`

	// Backend identifies the generator: "openai" or "transformers:<model-id>".
	Backend string `json:"backend"`

	// Prompt is the exact text sent to the generator.
	Prompt string `json:"prompt_used"`

	// Answer is the generated text, or a readable error description when
	// generation failed.
	Answer string `json:"answer"`

	// LatencySec is the wall-clock duration of the generation call, in
	// seconds rounded to two decimals.
	LatencySec float64 `json:"latency_sec"`

	// Error is set when generation failed; Answer then carries the message
	// shown to the user.
	Error string `json:"error,omitempty"`
}

// Failed reports whether generation failed for this response.
func (r Response) Failed() bool { return r.Error != "" }

// Turn pairs a question with its response, as shown in a transcript.
type Turn struct {
	Question  string    `json:"question"`
	Response  Response  `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// RoundLatency converts d to seconds rounded to two decimals, never negative.
func RoundLatency(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return math.Round(d.Seconds()*100) / 100
}
