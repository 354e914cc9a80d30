package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		code   string
		want   Language
		wantOK bool
	}{
		{"en", English, true},
		{"hi", Hindi, true},
		{"te", Telugu, true},
		{" TE ", Telugu, true},
		{"fr", English, false},
		{"", English, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := Lookup(tt.code)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSupportedReturnsCopy(t *testing.T) {
	got := Supported()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"en", "hi", "te"}, []string{got[0].Code, got[1].Code, got[2].Code})

	got[0] = Language{Code: "xx", Name: "Mutated"}
	assert.Equal(t, English, Supported()[0])
}

func TestDetect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"english question", "What is Newton's second law?", "en"},
		{"hindi question", "एंटीबायोटिक रेसिस्टेंस क्या है?", "hi"},
		{"telugu question", "న్యూటన్ రెండవ నియమం ఏమిటి?", "te"},
		{"empty", "", "en"},
		{"whitespace", "   \n\t", "en"},
		{"digits only", "12345", "en"},
		{"unsupported tamil coerced", "நியூட்டனின் இரண்டாவது விதி என்ன?", "en"},
		{"unsupported bengali coerced", "নিউটনের দ্বিতীয় সূত্র কী?", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestDetectAlwaysSupported(t *testing.T) {
	d := NewDetector()
	inputs := []string{
		"Bonjour, comment ça va?",
		"¿Qué es la fotosíntesis?",
		"こんにちは",
		"مرحبا",
		"?!.,",
		"a",
	}
	for _, in := range inputs {
		assert.True(t, IsSupported(d.Detect(in)), "input %q", in)
	}
}

func TestDetectDeterministic(t *testing.T) {
	d := NewDetector()
	text := "ఫోటోసింథసిస్ అంటే ఏమిటి?"
	first := d.Detect(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Detect(text))
	}
}
