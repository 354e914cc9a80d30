package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nadzzz/teacherbot/internal/language"
)

func TestBuildEmbedsQuestionAndLanguage(t *testing.T) {
	tests := []struct {
		name     string
		question string
		lang     language.Language
	}{
		{"english", "What is Newton's second law?", language.English},
		{"hindi", "एंटीबायोटिक रेसिस्टेंस क्या है?", language.Hindi},
		{"telugu", "న్యూటన్ రెండవ నియమం ఏమిటి?", language.Telugu},
		{"template syntax in question", "What does {{.Question}} mean?", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.question, tt.lang)
			assert.Contains(t, got, tt.question)
			assert.Contains(t, got, tt.lang.Name)
			assert.Contains(t, got, "("+tt.lang.Code+")")
		})
	}
}

func TestBuildTrimsQuestion(t *testing.T) {
	got := Build("  \n What is gravity?\t ", language.English)
	assert.Contains(t, got, "USER QUESTION (in English): What is gravity?\n")
	assert.NotContains(t, got, " What is gravity?\t")
}

func TestBuildStructure(t *testing.T) {
	got := Build("What is a cell?", language.Telugu)

	sections := []string{
		"1) Definition / Direct Answer",
		"2) Explanation",
		"3) Examples",
		"4) Quick recap",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(got, s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}
	assert.Contains(t, got, "answer **only** in the language: Telugu (te)")
}

func TestBuildNeverPanics(t *testing.T) {
	inputs := []string{"", "   ", "{{", "}}", "<script>alert(1)</script>", "%s %d"}
	for _, lang := range language.Supported() {
		for _, in := range inputs {
			assert.NotPanics(t, func() { Build(in, lang) }, "lang %s input %q", lang.Code, in)
		}
	}
	assert.NotPanics(t, func() { Build("What is DNA?", language.Language{}) })
}
