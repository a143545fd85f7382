package analyzer

import "math"

// penaltyScore is the fixed score for answers that are too short, empty or
// could not be embedded.
const penaltyScore = 2.0

// qualityScore averages the best answer match of every question sentence
// and maps it onto 0–10.
func qualityScore(questions [][]float32, answers *SentenceIndex, penalized bool) float64 {
	if penalized {
		return penaltyScore
	}
	best := RowMax(answers.SimilarityMatrix(questions))
	if len(best) == 0 {
		return 0
	}
	var sum float64
	for _, v := range best {
		sum += v
	}
	avg := clamp01(sum / float64(len(best)))
	return roundTo(avg*10, 2)
}

// clamp01 maps NaN to 0.
func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
