// Package transport defines the interface for pluggable front ends.
//
// Each transport (HTTP web UI, gRPC) implements this interface and serves
// questions by handing them to an Answerer. Transports don't care which
// backend produces the answer; they only work with the Answerer contract.
package transport

import (
	"context"

	"github.com/nadzzz/teacherbot/internal/generator"
	"github.com/nadzzz/teacherbot/internal/message"
)

// Answerer runs one question through the teacher bot pipeline.
// *bot.Bot satisfies it.
type Answerer interface {
	// Ask answers a query. It never fails; backend errors are reported in
	// the response.
	Ask(ctx context.Context, q message.Query) message.Response

	// Answer answers text with exactly the given parameters.
	Answer(ctx context.Context, text string, params generator.Params) message.Response

	// Backend returns the active backend identifier.
	Backend() string

	// Defaults returns the generation parameters used when a query sets none.
	Defaults() generator.Params
}

// Transport is the interface that every front end must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "http", "grpc").
	Name() string

	// Listen starts accepting questions and hands them to the answerer.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, answerer Answerer) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
