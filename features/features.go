// Package features converts token sequences into the numeric vectors
// consumed by the boundary segmenter and the span type classifier.
//
// Each token's vector combines its dense word representation, the
// representations of neighbors within a fixed window, and a handful of
// surface features (capitalization pattern, digit content, punctuation).
// Span vectors aggregate the per-token vectors of a detected span.
package features

import (
	"context"
	"unicode"

	"github.com/jamesainslie/go-ner/wordrep"
)

// window is the number of context tokens on each side whose word vectors
// are appended to a token's own.
const window = 2

// Surface feature slots appended after the word vectors.
const (
	surfInitCap = iota
	surfAllCaps
	surfAllLower
	surfHasDigit
	surfAllDigit
	surfHasPunct
	numSurface
)

// Extractor computes per-token and per-span feature vectors from a word
// representation source. It is safe for concurrent use if the source is.
type Extractor struct {
	src wordrep.Source
}

// NewExtractor creates a feature extractor over src.
func NewExtractor(src wordrep.Source) *Extractor {
	return &Extractor{src: src}
}

// TokenDim returns the length of per-token feature vectors.
func (e *Extractor) TokenDim() int {
	return e.src.Dim()*(2*window+1) + numSurface
}

// SpanDim returns the length of span feature vectors built by SpanVector
// from this extractor's token vectors.
func (e *Extractor) SpanDim() int {
	return 3*e.TokenDim() + 1
}

// Sequence returns one feature vector per token. Each vector holds the
// token's own word vector, then the window neighbors left to right (zeros
// past the sequence edges), then the surface features.
func (e *Extractor) Sequence(ctx context.Context, tokens []string) ([][]float64, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	embs := make([][]float32, len(tokens))
	for i, tok := range tokens {
		v, err := e.src.Lookup(ctx, tok)
		if err != nil {
			return nil, err
		}
		embs[i] = v
	}

	d := e.src.Dim()
	out := make([][]float64, len(tokens))
	for i := range tokens {
		vec := make([]float64, e.TokenDim())
		copyEmb(vec[0:d], embs[i])

		slot := 1
		for off := -window; off <= window; off++ {
			if off == 0 {
				continue
			}
			j := i + off
			if j >= 0 && j < len(tokens) {
				copyEmb(vec[slot*d:(slot+1)*d], embs[j])
			}
			slot++
		}

		surface(tokens[i], vec[(2*window+1)*d:])
		out[i] = vec
	}
	return out, nil
}

func copyEmb(dst []float64, src []float32) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}

// surface fills dst with the token's surface features.
func surface(token string, dst []float64) {
	var upper, lower, digit, punct, letters int
	runes := []rune(token)
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			upper++
			letters++
		case unicode.IsLower(r):
			lower++
			letters++
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digit++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			punct++
		}
	}

	if len(runes) > 0 && unicode.IsUpper(runes[0]) {
		dst[surfInitCap] = 1
	}
	if letters > 0 && upper == letters {
		dst[surfAllCaps] = 1
	}
	if letters > 0 && lower == letters {
		dst[surfAllLower] = 1
	}
	if digit > 0 {
		dst[surfHasDigit] = 1
	}
	if len(runes) > 0 && digit == len(runes) {
		dst[surfAllDigit] = 1
	}
	if punct > 0 {
		dst[surfHasPunct] = 1
	}
}

// SpanVector aggregates the token vectors of the half-open range
// [start, end) into a single span vector: first token, last token, the
// mean over the span, and a bounded length component.
func SpanVector(seq [][]float64, start, end int) []float64 {
	d := len(seq[start])
	vec := make([]float64, 3*d+1)

	copy(vec[0:d], seq[start])
	copy(vec[d:2*d], seq[end-1])

	mean := vec[2*d : 3*d]
	for i := start; i < end; i++ {
		for k, v := range seq[i] {
			mean[k] += v
		}
	}
	n := float64(end - start)
	for k := range mean {
		mean[k] /= n
	}

	// Length saturates so very long spans do not dominate.
	vec[3*d] = n / (n + 4)
	return vec
}
