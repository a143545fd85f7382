package analyzer

import (
	"context"
	"math"
)

// gapInput is everything the gap detector needs for one analysis.
type gapInput struct {
	questions  []string
	vectors    [][]float32
	answers    *SentenceIndex
	penalized  bool
	threshold  float64
	lang       string
	translator Translator
}

// tooShort reports whether the answer has fewer than minWords words.
func tooShort(answer string, minWords int) bool {
	return WordCount(answer) < minWords
}

// detectGaps decides coverage per question sentence. Missing topics and
// their suggestions keep question order; generic follow-ups come last.
func detectGaps(ctx context.Context, in gapInput) ([]MissingTopic, []string) {
	missing := make([]MissingTopic, 0, len(in.questions))
	followUps := make([]string, 0, len(in.questions)+3)
	for i, q := range in.questions {
		sim := 0.0
		if !in.penalized {
			sim = in.answers.MaxSimilarity(in.vectors[i])
			if sim >= in.threshold {
				continue
			}
		}
		topic := newMissingTopic(ctx, q, sim, in.lang, in.translator)
		missing = append(missing, topic)
		followUps = append(followUps, topic.SuggestionEN)
	}
	followUps = append(followUps, GenericFollowUps(in.lang, len(missing) > 0)...)
	return missing, followUps
}

func newMissingTopic(ctx context.Context, topic string, sim float64, lang string, tr Translator) MissingTopic {
	rounded := roundTo(sim, 3)
	suggestion := Suggestion(topic, lang)
	return MissingTopic{
		Topic:           topic,
		MaxSimilarity:   rounded,
		Confidence:      roundTo(1-rounded, 3),
		SuggestionEN:    suggestion,
		SuggestionLocal: translateOrKeep(ctx, tr, suggestion, lang),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
