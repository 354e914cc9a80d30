package generator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0.3, p.Temperature)
	assert.Equal(t, 512, p.MaxNewTokens)
	assert.Equal(t, 0.9, p.TopP)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"defaults unchanged", DefaultParams(), DefaultParams()},
		{"zero values get defaults", Params{}, Params{Temperature: 0, MaxNewTokens: 512, TopP: 0.9}},
		{"upper bounds", Params{Temperature: 3, MaxNewTokens: 4096, TopP: 2}, Params{Temperature: 1, MaxNewTokens: 1024, TopP: 1}},
		{"nan gets defaults", Params{Temperature: math.NaN(), MaxNewTokens: 256, TopP: math.NaN()}, Params{Temperature: 0.3, MaxNewTokens: 256, TopP: 0.9}},
		{"infinities clamped", Params{Temperature: math.Inf(1), MaxNewTokens: 256, TopP: math.Inf(-1)}, Params{Temperature: 1, MaxNewTokens: 256, TopP: 0.1}},
		{"lower bounds", Params{Temperature: -1, MaxNewTokens: 8, TopP: 0.01}, Params{Temperature: 0, MaxNewTokens: 64, TopP: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamp())
		})
	}
}
