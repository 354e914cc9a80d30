package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals messages as JSON. It is selected per call by the
// "application/grpc+json" content type.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return codecName }
