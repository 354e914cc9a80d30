// Package language defines the languages TeacherBot answers in and detects
// which of them a question is written in.
package language

import "strings"

// Language is one of the fixed set of languages TeacherBot supports.
type Language struct {
	// Code is the ISO-639-1 code (e.g., "en", "hi", "te").
	Code string `json:"code"`

	// Name is the English display name (e.g., "Hindi").
	Name string `json:"name"`
}

var (
	English = Language{Code: "en", Name: "English"}
	Hindi   = Language{Code: "hi", Name: "Hindi"}
	Telugu  = Language{Code: "te", Name: "Telugu"}
)

// Fallback is used whenever detection fails or yields an unsupported language.
var Fallback = English

var supported = []Language{English, Hindi, Telugu}

// Supported returns the supported languages in display order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Lookup resolves an ISO-639-1 code to a supported language.
// The second return value is false when the code is not supported, in which
// case Fallback is returned.
func Lookup(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range supported {
		if l.Code == code {
			return l, true
		}
	}
	return Fallback, false
}

// IsSupported reports whether code is one of the supported language codes.
func IsSupported(code string) bool {
	_, ok := Lookup(code)
	return ok
}
