package analyzer

import "time"

// Outcome labels how an analysis finished.
type Outcome string

const (
	// OutcomeScored means similarities were computed.
	OutcomeScored Outcome = "scored"
	// OutcomePenalized means the answer was too short, empty, or could not be embedded.
	OutcomePenalized Outcome = "penalized"
	// OutcomeEmptyPrompt means the question had no usable sentences.
	OutcomeEmptyPrompt Outcome = "empty_prompt"
)

// Recorder receives per-analysis observations, typically for metrics.
type Recorder interface {
	ObserveAnalysis(outcome Outcome, elapsed time.Duration, missing int, score float64)
	EmbeddingFailed()
}

type nopRecorder struct{}

func (nopRecorder) ObserveAnalysis(Outcome, time.Duration, int, float64) {}
func (nopRecorder) EmbeddingFailed() {}
