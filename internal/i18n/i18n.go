// Package i18n localizes the fixed strings teacherbot shows around answers.
package i18n

import (
	"embed"
	"errors"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFiles embed.FS

// Message is a localizable string with its English default.
type Message = i18n.Message

// Message IDs with their English defaults.
var (
	MsgBackendError = &i18n.Message{ID: "backend_error", Other: "Error from {{.Backend}} backend: {{.Error}}"}

	MsgTitle       = &i18n.Message{ID: "ui.title", Other: "TeacherBot — Multilingual, Teacher-Style Chatbot"}
	MsgSubtitle    = &i18n.Message{ID: "ui.subtitle", Other: "Understands your question and teaches back in the same language (English/Hindi/Telugu)."}
	MsgSettings    = &i18n.Message{ID: "ui.settings", Other: "Settings"}
	MsgTemperature = &i18n.Message{ID: "ui.temperature", Other: "Temperature"}
	MsgMaxTokens   = &i18n.Message{ID: "ui.max_tokens", Other: "Max new tokens"}
	MsgTopP        = &i18n.Message{ID: "ui.top_p", Other: "Top-p"}
	MsgAsk         = &i18n.Message{ID: "ui.ask", Other: "Ask me anything (try English/Hindi/తెలుగు):"}
	MsgSubmit      = &i18n.Message{ID: "ui.submit", Other: "Teach me"}
	MsgYou         = &i18n.Message{ID: "ui.you", Other: "You"}
	MsgBackendNote = &i18n.Message{ID: "ui.backend_note", Other: "Backend: {{.Backend}}"}
)

// Translator renders messages in one of the bundled languages.
type Translator struct {
	bundle *i18n.Bundle
}

// New loads the embedded message files. English is the source language and
// needs no file.
func New() (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	for _, name := range []string{"locales/hi.json", "locales/te.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFiles, name); err != nil {
			return nil, err
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Localize renders msg for the given language preferences (ISO codes or an
// Accept-Language value). Missing translations fall back to English.
func (t *Translator) Localize(msg *Message, data map[string]any, langs ...string) string {
	localizer := i18n.NewLocalizer(t.bundle, langs...)
	out, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		if !errors.As(err, &notFound) {
			slog.Warn("localization failed", "message_id", msg.ID, "error", err)
		}
		if out == "" {
			return msg.Other
		}
	}
	return out
}

// BackendError renders the answer shown when generation fails.
func (t *Translator) BackendError(lang, backend string, err error) string {
	return t.Localize(MsgBackendError, map[string]any{
		"Backend": backend,
		"Error":   err.Error(),
	}, lang)
}

// Match returns the code of the bundled language that best fits an
// Accept-Language value, or "en" when none does.
func (t *Translator) Match(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	supported := t.bundle.LanguageTags()
	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No {
		return "en"
	}
	base, _ := supported[idx].Base()
	return base.String()
}
