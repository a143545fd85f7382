package analyzer

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// VectorItem is an answer sentence with its embedding.
type VectorItem struct {
	Text   string
	Vector []float32
}

// Hit is a scored match against the index.
type Hit struct {
	Text  string
	Score float64
}

// SentenceIndex is a brute-force cosine index over the sentences of one
// answer. It lives for a single analysis and is not safe for mutation after
// construction.
type SentenceIndex struct {
	items []VectorItem
}

// NewSentenceIndex pairs texts with vectors. Extra entries on either side are
// ignored.
func NewSentenceIndex(texts []string, vecs [][]float32) *SentenceIndex {
	n := len(texts)
	if len(vecs) < n {
		n = len(vecs)
	}
	items := make([]VectorItem, n)
	for i := 0; i < n; i++ {
		items[i] = VectorItem{Text: texts[i], Vector: vecs[i]}
	}
	return &SentenceIndex{items: items}
}

// Size returns the number of indexed sentences.
func (idx *SentenceIndex) Size() int {
	if idx == nil {
		return 0
	}
	return len(idx.items)
}

// Search performs cosine similarity against all stored items and returns the top-k hits.
func (idx *SentenceIndex) Search(vec []float32, k int) []Hit {
	if idx.Size() == 0 || len(vec) == 0 || k <= 0 {
		return nil
	}
	hits := make([]Hit, 0, len(idx.items))
	for _, it := range idx.items {
		hits = append(hits, Hit{Text: it.Text, Score: cosineSimilarity(vec, it.Vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Best returns the closest answer sentence to vec.
func (idx *SentenceIndex) Best(vec []float32) (Hit, bool) {
	hits := idx.Search(vec, 1)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// MaxSimilarity is the best cosine similarity of vec against the index, or 0
// when the index is empty.
func (idx *SentenceIndex) MaxSimilarity(vec []float32) float64 {
	hit, ok := idx.Best(vec)
	if !ok {
		return 0
	}
	return hit.Score
}

// SimilarityMatrix returns cosine similarities with one row per query and one
// column per indexed sentence.
func (idx *SentenceIndex) SimilarityMatrix(queries [][]float32) [][]float64 {
	m := make([][]float64, len(queries))
	for i, q := range queries {
		row := make([]float64, idx.Size())
		for j, it := range idx.items {
			row[j] = cosineSimilarity(q, it.Vector)
		}
		m[i] = row
	}
	return m
}

// RowMax returns the maximum of each row. Empty rows yield 0.
func RowMax(m [][]float64) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		if len(row) == 0 {
			continue
		}
		best := math.Inf(-1)
		for _, v := range row {
			if v > best {
				best = v
			}
		}
		out[i] = best
	}
	return out
}

// checkVectors requires every vector to be finite and of one non-zero
// dimension. Cached vectors from a different embedding space fail here.
func checkVectors(groups ...[][]float32) error {
	dim := -1
	for _, vecs := range groups {
		for _, v := range vecs {
			if len(v) == 0 {
				return errors.New("empty embedding")
			}
			if dim < 0 {
				dim = len(v)
			} else if len(v) != dim {
				return fmt.Errorf("embedding dimension mismatch: %d vs %d", len(v), dim)
			}
			for _, x := range v {
				if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
					return errors.New("non-finite embedding component")
				}
			}
		}
	}
	return nil
}

// cosineSimilarity is 0 for empty, zero or differently sized vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
