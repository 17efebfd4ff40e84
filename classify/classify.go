// Package classify implements the multiclass linear model that assigns an
// entity-type label to each span found by the boundary segmenter.
package classify

import (
	"math"
)

// Model is a trained multiclass linear classifier. Weights[c] holds the
// linear weights for class c over a span feature vector, with the bias in
// the trailing slot.
type Model struct {
	Dim        int
	NumClasses int
	Weights    [][]float64
}

// NewModel returns a zero-weight model for numClasses classes over
// feature vectors of length dim.
func NewModel(dim, numClasses int) *Model {
	w := make([][]float64, numClasses)
	for c := range w {
		w[c] = make([]float64, dim+1)
	}
	return &Model{Dim: dim, NumClasses: numClasses, Weights: w}
}

func (m *Model) clone() *Model {
	c := NewModel(m.Dim, m.NumClasses)
	for i := range m.Weights {
		copy(c.Weights[i], m.Weights[i])
	}
	return c
}

// Scores returns the raw per-class scores for x.
func (m *Model) Scores(x []float64) []float64 {
	scores := make([]float64, m.NumClasses)
	for c, w := range m.Weights {
		sum := w[m.Dim]
		for i, v := range x {
			sum += w[i] * v
		}
		scores[c] = sum
	}
	return scores
}

// Classify returns the best class for x and a softmax confidence over the
// class scores.
func (m *Model) Classify(x []float64) (class int, confidence float64) {
	scores := m.Scores(x)

	best := 0
	for c := 1; c < len(scores); c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}

	// Softmax shifted by the max score for numeric stability.
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - scores[best])
	}
	return best, 1 / sum
}

// CountOfLeastCommonLabel returns the number of occurrences of the rarest
// label in labels, or 0 if labels is empty. It bounds how many training
// partitions can each receive at least one sample of every class.
func CountOfLeastCommonLabel(labels []int) int {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	least := len(labels)
	for _, n := range counts {
		if n < least {
			least = n
		}
	}
	return least
}
