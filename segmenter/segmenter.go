// Package segmenter implements the structured boundary model that finds
// candidate entity spans in a token sequence, without assigning types.
//
// The model tags each token Outside, Begin, or Inside using linear
// per-state scores over the token's feature vector plus a learned
// transition matrix, decoded with Viterbi under hard BIO constraints
// (Inside may only follow Begin or Inside). Contiguous Begin/Inside runs
// become spans, so predicted spans never overlap.
package segmenter

const negInf = -1e9

// Tagging states.
const (
	stateOutside = iota
	stateBegin
	stateInside
	numStates
)

// Span is a half-open token range [Start, End).
type Span struct {
	Start int
	End   int
}

// Model is a trained boundary detector. Weights[s] holds the linear
// weights for state s over a token feature vector, with the bias in the
// trailing slot. Trans[p][s] is the learned score of moving from state p
// to state s.
type Model struct {
	Dim     int
	Weights [][]float64
	Trans   [][]float64
}

// NewModel returns a zero-weight model for feature vectors of length dim.
func NewModel(dim int) *Model {
	w := make([][]float64, numStates)
	tr := make([][]float64, numStates)
	for s := 0; s < numStates; s++ {
		w[s] = make([]float64, dim+1)
		tr[s] = make([]float64, numStates)
	}
	return &Model{Dim: dim, Weights: w, Trans: tr}
}

func (m *Model) clone() *Model {
	c := NewModel(m.Dim)
	for s := 0; s < numStates; s++ {
		copy(c.Weights[s], m.Weights[s])
		copy(c.Trans[s], m.Trans[s])
	}
	return c
}

// Segment decodes seq and returns the predicted spans in left-to-right
// order.
func (m *Model) Segment(seq [][]float64) []Span {
	return spansFromStates(m.decode(seq, nil, 0, 0))
}

func (m *Model) score(state int, x []float64) float64 {
	w := m.Weights[state]
	sum := w[m.Dim]
	for i, v := range x {
		sum += w[i] * v
	}
	return sum
}

// decode runs constrained Viterbi over seq. When gold is non-nil the
// decode is cost-augmented: every token whose state disagrees with gold
// adds missCost (gold token inside an entity) or faCost (gold token
// outside) to the path score, so training updates enforce a margin.
func (m *Model) decode(seq [][]float64, gold []int, missCost, faCost float64) []int {
	n := len(seq)
	if n == 0 {
		return nil
	}

	cost := func(t, s int) float64 {
		if gold == nil || gold[t] == s {
			return 0
		}
		if gold[t] == stateOutside {
			return faCost
		}
		return missCost
	}

	delta := make([][]float64, n)
	back := make([][]int, n)
	for t := range delta {
		delta[t] = make([]float64, numStates)
		back[t] = make([]int, numStates)
	}

	for s := 0; s < numStates; s++ {
		if s == stateInside {
			delta[0][s] = negInf
			continue
		}
		delta[0][s] = m.score(s, seq[0]) + cost(0, s)
	}

	for t := 1; t < n; t++ {
		for s := 0; s < numStates; s++ {
			best := negInf
			arg := stateOutside
			for p := 0; p < numStates; p++ {
				if s == stateInside && p == stateOutside {
					continue // entity interiors need an open entity
				}
				if v := delta[t-1][p] + m.Trans[p][s]; v > best {
					best = v
					arg = p
				}
			}
			delta[t][s] = best + m.score(s, seq[t]) + cost(t, s)
			back[t][s] = arg
		}
	}

	bestState := stateOutside
	for s := 1; s < numStates; s++ {
		if delta[n-1][s] > delta[n-1][bestState] {
			bestState = s
		}
	}

	states := make([]int, n)
	states[n-1] = bestState
	for t := n - 1; t > 0; t-- {
		states[t-1] = back[t][states[t]]
	}
	return states
}

// spansFromStates converts a BIO state sequence into spans.
func spansFromStates(states []int) []Span {
	var spans []Span
	start := -1
	for t, s := range states {
		switch s {
		case stateBegin:
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: t})
			}
			start = t
		case stateInside:
			// extends the open span
		default:
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: t})
				start = -1
			}
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(states)})
	}
	return spans
}

// statesFromSpans converts gold spans into the BIO state sequence for a
// sequence of n tokens.
func statesFromSpans(n int, spans []Span) []int {
	states := make([]int, n)
	for _, sp := range spans {
		states[sp.Start] = stateBegin
		for t := sp.Start + 1; t < sp.End; t++ {
			states[t] = stateInside
		}
	}
	return states
}

func statesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
