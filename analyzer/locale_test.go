package analyzer

import (
	"strings"
	"testing"
)

func TestNormalizeLang(t *testing.T) {
	tests := map[string]string{
		"HI-in": "hi",
		"":      "en",
		"xx":    "en",
		"mr":    "mr",
		"es-MX": "es",
		" en ":  "en",
		"fr":    "en",
	}
	for in, want := range tests {
		if got := NormalizeLang(in); got != want {
			t.Errorf("NormalizeLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSuggestionInterpolatesTopic(t *testing.T) {
	got := Suggestion("What is a stack", "en")
	want := "Please give a proper, detailed answer for: 'What is a stack'. Provide explanation and an example."
	if got != want {
		t.Errorf("Suggestion = %q, want %q", got, want)
	}
	if es := Suggestion("pila", "es"); !strings.Contains(es, "'pila'") {
		t.Errorf("Spanish suggestion lost topic: %q", es)
	}
	if Suggestion("x", "zz") != Suggestion("x", "en") {
		t.Error("unknown language should use English template")
	}
}

func TestGenericFollowUps(t *testing.T) {
	for lang := range locales {
		if n := len(GenericFollowUps(lang, false)); n != 2 {
			t.Errorf("%s complete follow-ups = %d, want 2", lang, n)
		}
		if n := len(GenericFollowUps(lang, true)); n != 3 {
			t.Errorf("%s incomplete follow-ups = %d, want 3", lang, n)
		}
	}
}

func TestGenericFollowUpsReturnsCopy(t *testing.T) {
	got := GenericFollowUps("en", true)
	got[0] = "mutated"
	if GenericFollowUps("en", true)[0] == "mutated" {
		t.Fatal("caller mutation leaked into templates")
	}
}

func TestSummaryBands(t *testing.T) {
	if got := Summary(9, true, "en"); got != "AI response is too short or not informative enough." {
		t.Errorf("too short summary = %q", got)
	}
	if got := Summary(5.99, false, "en"); got != "AI response misses several aspects of the user's prompt." {
		t.Errorf("partial summary = %q", got)
	}
	if got := Summary(6, false, "en"); !strings.HasPrefix(got, "AI response reasonably covers") {
		t.Errorf("covered summary = %q", got)
	}
}

func TestTemplatesAreDeterministic(t *testing.T) {
	for lang := range locales {
		if Summary(3, false, lang) != Summary(3, false, lang) {
			t.Errorf("%s summary not deterministic", lang)
		}
		if Suggestion("t", lang) != Suggestion("t", lang) {
			t.Errorf("%s suggestion not deterministic", lang)
		}
	}
}

func TestImprovementBlock(t *testing.T) {
	if ImprovementBlock("en") != "" {
		t.Error("English has no extra improvement block")
	}
	for _, lang := range []string{"hi", "mr", "es"} {
		if !strings.HasPrefix(ImprovementBlock(lang), "\n\n") {
			t.Errorf("%s block should start on a new paragraph", lang)
		}
	}
}

func TestBuildImprovedAnswer(t *testing.T) {
	got := BuildImprovedAnswer("OK.", []MissingTopic{{Topic: "Explain recursion"}})
	if !strings.HasPrefix(got, "Current answer:\nOK.\n\nThe answer is incomplete. It should also cover:\n- Explain recursion\n") {
		t.Errorf("unexpected improved answer:\n%s", got)
	}
	if !strings.HasSuffix(got, "Mention any important differences, pros/cons, or limitations if relevant.") {
		t.Errorf("missing improvement instructions:\n%s", got)
	}

	complete := BuildImprovedAnswer("  A full answer.  ", nil)
	if !strings.HasPrefix(complete, "Current answer:\nA full answer.\n\nThe answer is mostly on topic") {
		t.Errorf("unexpected complete answer:\n%s", complete)
	}

	empty := BuildImprovedAnswer("   ", nil)
	if !strings.HasPrefix(empty, "Current answer: (no answer provided)") {
		t.Errorf("unexpected empty answer text:\n%s", empty)
	}
}

func TestBuildImprovedAnswerLocalAppendsBlock(t *testing.T) {
	base := BuildImprovedAnswer("Respuesta.", nil)
	got := BuildImprovedAnswerLocal("Respuesta.", nil, "es")
	if !strings.HasPrefix(got, base) {
		t.Fatal("localized answer should keep the English base")
	}
	if !strings.HasSuffix(got, "Menciona diferencias, ventajas/desventajas o limitaciones si aplican.") {
		t.Errorf("missing Spanish block:\n%s", got)
	}
	if BuildImprovedAnswerLocal("x", nil, "en") != BuildImprovedAnswer("x", nil) {
		t.Error("English local answer should equal the base")
	}
}
