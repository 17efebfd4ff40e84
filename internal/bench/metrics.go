package bench

import ner "github.com/jamesainslie/go-ner"

// Config holds evaluation parameters.
type Config struct {
	// Beta weights recall against precision in the F-beta score, matching
	// the trainer hyperparameter of the same name.
	Beta float64
}

// DefaultConfig returns the default evaluation configuration.
func DefaultConfig() Config {
	return Config{Beta: 1.0}
}

// Metrics holds span-level evaluation results.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	FBeta          float64
}

// Evaluate compares predicted entities against a gold sentence. A
// prediction counts as a true positive only when span and label both
// match exactly.
func Evaluate(predicted []ner.Entity, truth Sentence, cfg Config) Metrics {
	gold := make(map[ner.Span]string, len(truth.Spans))
	for i, sp := range truth.Spans {
		gold[sp] = truth.Labels[i]
	}

	tp := 0
	for _, p := range predicted {
		if label, ok := gold[p.Span]; ok && label == p.Label {
			tp++
		}
	}

	return Compute(tp, len(predicted)-tp, len(truth.Spans)-tp, cfg)
}

// Compute derives the ratio metrics from raw counts.
func Compute(tp, fp, fn int, cfg Config) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	b2 := cfg.Beta * cfg.Beta
	if d := b2*m.Precision + m.Recall; d > 0 {
		m.FBeta = (1 + b2) * m.Precision * m.Recall / d
	}
	return m
}
