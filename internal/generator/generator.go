// Package generator defines the interface for text-generation backends.
//
// A generator takes a fully built teaching prompt and produces the answer
// text. TeacherBot ships with two backends: OpenAI (hosted chat API) and
// Local (a self-hosted instruction-tuned model such as Flan-T5).
package generator

import (
	"context"
	"errors"
)

// ErrEmptyOutput is returned when a backend answers without any text.
var ErrEmptyOutput = errors.New("backend returned no text")

// Generator is the interface every generation backend implements.
type Generator interface {
	// Name returns the backend identifier (e.g., "openai",
	// "transformers:google/flan-t5-base").
	Name() string

	// Generate produces the answer text for prompt.
	Generate(ctx context.Context, prompt string, params Params) (string, error)

	// Close releases any resources held by the backend.
	Close() error
}
