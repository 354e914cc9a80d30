package generator

import "math"

// Slider bounds used by the front ends.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0

	MinMaxNewTokens = 64
	MaxMaxNewTokens = 1024

	MinTopP = 0.1
	MaxTopP = 1.0
)

// Params holds the sampling parameters of a single generation request.
type Params struct {
	// Temperature is the sampling temperature.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// MaxNewTokens caps the length of the generated answer.
	MaxNewTokens int `json:"max_new_tokens" mapstructure:"max_new_tokens"`

	// TopP is the nucleus-sampling threshold.
	TopP float64 `json:"top_p" mapstructure:"top_p"`
}

// DefaultParams returns the parameters used when the caller sets none.
func DefaultParams() Params {
	return Params{
		Temperature:  0.3,
		MaxNewTokens: 512,
		TopP:         0.9,
	}
}

// Clamp returns a copy of p with every field forced into the slider range.
// A zero MaxNewTokens or TopP is replaced by its default, as is a NaN
// Temperature or TopP.
func (p Params) Clamp() Params {
	def := DefaultParams()
	if p.MaxNewTokens == 0 {
		p.MaxNewTokens = def.MaxNewTokens
	}
	if p.TopP == 0 || math.IsNaN(p.TopP) {
		p.TopP = def.TopP
	}
	if math.IsNaN(p.Temperature) {
		p.Temperature = def.Temperature
	}
	p.Temperature = clampFloat(p.Temperature, MinTemperature, MaxTemperature)
	p.TopP = clampFloat(p.TopP, MinTopP, MaxTopP)
	p.MaxNewTokens = min(max(p.MaxNewTokens, MinMaxNewTokens), MaxMaxNewTokens)
	return p
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
