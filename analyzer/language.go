package analyzer

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/mo"
)

// LanguageDetector guesses the ISO 639-1 code of a text. None means the
// detector could not decide; callers fall back to DefaultLanguage.
type LanguageDetector interface {
	Detect(text string) mo.Option[string]
}

// DetectorFunc adapts a plain function to LanguageDetector.
type DetectorFunc func(text string) mo.Option[string]

// Detect calls f.
func (f DetectorFunc) Detect(text string) mo.Option[string] {
	return f(text)
}

// ScriptDetector detects languages with trigram statistics and script
// ranges. It needs no model files.
type ScriptDetector struct{}

// Detect implements LanguageDetector.
func (ScriptDetector) Detect(text string) mo.Option[string] {
	if strings.TrimSpace(text) == "" {
		return mo.None[string]()
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return mo.None[string]()
	}
	return mo.Some(code)
}

// resolveOutputLanguage uses the requested language unless it is empty or
// "auto", in which case the detected language is used.
func resolveOutputLanguage(requested, detected string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" || strings.EqualFold(requested, "auto") {
		return NormalizeLang(detected)
	}
	return NormalizeLang(requested)
}
