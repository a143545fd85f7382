package analyzer

import "strings"

const (
	improveIncomplete = "\nHow to improve this answer:\n" +
		"Start with a clear and correct definition that directly answers the question.\n" +
		"Explain the key ideas or types in 2–3 short sentences.\n" +
		"Add at least one real-world example so that a beginner can understand.\n" +
		"Mention any important differences, pros/cons, or limitations if relevant."

	improveComplete = "\nThe answer is mostly on topic, but you can improve it by:\n" +
		"Giving a more detailed explanation in simple language.\n" +
		"Adding a concrete real-world example.\n" +
		"Breaking down the concept into 2–3 key points."
)

// BuildImprovedAnswer describes, in English, how the answer should be
// improved. It echoes the answer and lists missing topics; it never writes
// the factual answer itself.
func BuildImprovedAnswer(answer string, missing []MissingTopic) string {
	parts := make([]string, 0, len(missing)+3)
	if trimmed := strings.TrimSpace(answer); trimmed != "" {
		parts = append(parts, "Current answer:\n"+trimmed)
	} else {
		parts = append(parts, "Current answer: (no answer provided)")
	}
	if len(missing) > 0 {
		parts = append(parts, "\nThe answer is incomplete. It should also cover:")
		for _, m := range missing {
			parts = append(parts, "- "+m.Topic)
		}
		parts = append(parts, improveIncomplete)
	} else {
		parts = append(parts, improveComplete)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// BuildImprovedAnswerLocal keeps the English text and appends the localized
// instruction block for non-English output.
func BuildImprovedAnswerLocal(answer string, missing []MissingTopic, lang string) string {
	return BuildImprovedAnswer(answer, missing) + ImprovementBlock(lang)
}
