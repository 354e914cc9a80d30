package language

import (
	"log/slog"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// candidates are the languages the statistical model chooses between. Besides
// the supported ones it knows a few other Indic scripts so that such input is
// recognised as unsupported instead of being forced onto Hindi or Telugu.
var candidates = []lingua.Language{
	lingua.English,
	lingua.Hindi,
	lingua.Telugu,
	lingua.Tamil,
	lingua.Bengali,
	lingua.Gujarati,
	lingua.Punjabi,
	lingua.Urdu,
}

// Detector maps free text to a supported language code.
//
// The underlying lingua model is deterministic, so the same input always
// yields the same code. A Detector is safe for concurrent use.
type Detector struct {
	model lingua.LanguageDetector
}

// NewDetector builds a detector over the candidate languages.
func NewDetector() *Detector {
	model := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidates...).
		Build()
	return &Detector{model: model}
}

// Detect returns the ISO-639-1 code of text, always one of the supported codes.
// Empty input, an undecidable input, or an unsupported language all yield
// the Fallback code.
func (d *Detector) Detect(text string) string {
	return d.DetectLanguage(text).Code
}

// DetectLanguage is like Detect but returns the full Language value.
func (d *Detector) DetectLanguage(text string) Language {
	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback
	}

	detected, ok := d.model.DetectLanguageOf(text)
	if !ok {
		slog.Debug("language undetermined, using fallback", "fallback", Fallback.Code)
		return Fallback
	}

	code := strings.ToLower(detected.IsoCode639_1().String())
	lang, supported := Lookup(code)
	if !supported {
		slog.Debug("unsupported language detected, using fallback", "detected", code, "fallback", Fallback.Code)
	}
	return lang
}
