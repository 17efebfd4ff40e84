package ner

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrInvalidSpan indicates an entity span that is out of bounds,
	// zero-length, or overlapping a previously added entity.
	ErrInvalidSpan = errors.New("ner: invalid entity span")

	// ErrEmptyCorpus indicates Train was called before any training
	// instances were added.
	ErrEmptyCorpus = errors.New("ner: no training instances")

	// ErrInvalidHyperparameter indicates a rejected hyperparameter value,
	// such as a negative beta or a non-positive thread count.
	ErrInvalidHyperparameter = errors.New("ner: invalid hyperparameter")

	// ErrFeatureSource indicates the dense word-feature source could not
	// be loaded at trainer construction.
	ErrFeatureSource = errors.New("ner: word feature source failed to load")
)
