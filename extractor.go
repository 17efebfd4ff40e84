package ner

import (
	"context"

	"github.com/jamesainslie/go-ner/classify"
	"github.com/jamesainslie/go-ner/features"
	"github.com/jamesainslie/go-ner/segmenter"
	"github.com/jamesainslie/go-ner/wordrep"
)

// Entity is one extracted named entity: a token span, its type label, and
// the classifier's confidence.
type Entity struct {
	Span
	Label string
	Score float64
}

// Extractor is a trained named-entity extractor: the boundary detector,
// the span type classifier, the label table, and the word-feature source
// they were trained with. It is produced by Trainer.Train and is safe for
// concurrent use as long as its wordrep source is.
type Extractor struct {
	src    wordrep.Source
	fx     *features.Extractor
	seg    *segmenter.Model
	cls    *classify.Model
	labels []string
}

// Labels returns the extractor's label vocabulary in id order.
func (e *Extractor) Labels() []string {
	return append([]string(nil), e.labels...)
}

// Extract finds named entities in the token sequence. Returned entities
// are non-overlapping and ordered left to right.
func (e *Extractor) Extract(ctx context.Context, tokens []string) ([]Entity, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	seq, err := e.fx.Sequence(ctx, tokens)
	if err != nil {
		return nil, err
	}

	var entities []Entity
	for _, sp := range e.seg.Segment(seq) {
		vec := features.SpanVector(seq, sp.Start, sp.End)
		id, score := e.cls.Classify(vec)
		entities = append(entities, Entity{
			Span:  Span{Start: sp.Start, End: sp.End},
			Label: e.labels[id],
			Score: score,
		})
	}
	return entities, nil
}

// Close releases the extractor's word-feature source.
func (e *Extractor) Close() error {
	return e.src.Close()
}
