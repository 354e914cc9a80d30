// Package prompt renders the teaching instruction sent to the generation backend.
package prompt

import (
	"embed"
	"strings"
	"text/template"

	"github.com/nadzzz/teacherbot/internal/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var teacherTemplate = template.Must(template.ParseFS(templatesFS, "templates/teacher.tmpl"))

// data is the value the teacher template is executed with.
type data struct {
	Language language.Language
	Question string
}

// Build renders the teacher prompt for a question in the given language.
// The question is trimmed of surrounding whitespace and embedded verbatim.
func Build(question string, lang language.Language) string {
	question = strings.TrimSpace(question)

	var sb strings.Builder
	if err := teacherTemplate.Execute(&sb, data{Language: lang, Question: question}); err != nil {
		panic(err)
	}
	return strings.TrimSpace(sb.String())
}
