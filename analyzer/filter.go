package analyzer

import "strings"

// instructionFragments are meta-instructions that carry no topic of their own.
var instructionFragments = []string{
	"explain with an example",
	"give an example",
	"with an example",
	"with examples",
	"give two examples",
	"give two real-life examples",
	"explain in detail",
	"explain step by step",
}

func isInstruction(sentence string) bool {
	low := strings.ToLower(sentence)
	for _, fragment := range instructionFragments {
		if strings.Contains(low, fragment) {
			return true
		}
	}
	return false
}

// FilterInstructions drops instruction-only sentences. When every sentence is
// an instruction the input is returned unchanged so a non-empty question
// never becomes empty.
func FilterInstructions(sentences []string) []string {
	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if isInstruction(s) {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return sentences
	}
	return kept
}
