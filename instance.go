package ner

import "fmt"

// Span is a half-open token range [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether the two spans share at least one token.
func (s Span) Overlaps(o Span) bool { return s.Start < o.End && o.Start < s.End }

// Instance is an annotated token sequence used as NER training data. The
// token sequence is fixed at construction; entity annotations are added
// with AddEntity or AddEntityAt and must not overlap each other.
type Instance struct {
	tokens []string
	spans  []Span
	labels []string
}

// NewInstance creates a training instance over a copy of tokens.
func NewInstance(tokens []string) *Instance {
	return &Instance{tokens: append([]string(nil), tokens...)}
}

// NumTokens returns the number of tokens in the instance.
func (in *Instance) NumTokens() int { return len(in.tokens) }

// NumEntities returns the number of entities added so far.
func (in *Instance) NumEntities() int { return len(in.spans) }

// Tokens returns a copy of the instance's token sequence.
func (in *Instance) Tokens() []string {
	return append([]string(nil), in.tokens...)
}

// Entities returns copies of the annotated spans and their labels, in
// insertion order.
func (in *Instance) Entities() ([]Span, []string) {
	return append([]Span(nil), in.spans...), append([]string(nil), in.labels...)
}

// OverlapsAnyEntity reports whether the range [start, start+length)
// intersects any previously added entity.
func (in *Instance) OverlapsAnyEntity(start, length int) bool {
	probe := Span{Start: start, End: start + length}
	for _, s := range in.spans {
		if s.Overlaps(probe) {
			return true
		}
	}
	return false
}

// AddEntity annotates the half-open token range span with label. It fails
// with ErrInvalidSpan if the span is out of bounds, empty, or overlaps an
// existing entity; the instance is unchanged on failure.
func (in *Instance) AddEntity(span Span, label string) error {
	if span.Start < 0 || span.Start >= span.End || span.End > len(in.tokens) {
		return fmt.Errorf("%w: [%d,%d) over %d tokens", ErrInvalidSpan, span.Start, span.End, len(in.tokens))
	}
	if in.OverlapsAnyEntity(span.Start, span.Len()) {
		return fmt.Errorf("%w: [%d,%d) overlaps an existing entity", ErrInvalidSpan, span.Start, span.End)
	}
	in.spans = append(in.spans, span)
	in.labels = append(in.labels, label)
	return nil
}

// AddEntityAt annotates length tokens beginning at start with label. It is
// equivalent to AddEntity(Span{start, start + length}, label).
func (in *Instance) AddEntityAt(start, length int, label string) error {
	return in.AddEntity(Span{Start: start, End: start + length}, label)
}
