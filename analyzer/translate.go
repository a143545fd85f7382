package analyzer

import (
	"context"

	"github.com/samber/mo"
)

// Translator turns English template text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) mo.Result[string]
}

// PassthroughTranslator returns text unchanged for every target.
type PassthroughTranslator struct{}

// Translate implements Translator.
func (PassthroughTranslator) Translate(_ context.Context, text, _ string) mo.Result[string] {
	return mo.Ok(text)
}

// translateOrKeep never fails: any translator error yields the source text.
func translateOrKeep(ctx context.Context, tr Translator, text, target string) string {
	if tr == nil || text == "" {
		return text
	}
	return tr.Translate(ctx, text, target).OrElse(text)
}
