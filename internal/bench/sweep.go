package bench

import (
	"context"
	"fmt"
	"sort"

	ner "github.com/jamesainslie/go-ner"
	"github.com/jamesainslie/go-ner/wordrep"
)

// SweepResult holds self-evaluation metrics for one beta value.
type SweepResult struct {
	Beta    float64
	Metrics Metrics
}

// SweepBetas generates beta values from min to max with the given step.
func SweepBetas(min, max, step float64) []float64 {
	var betas []float64
	for b := min; b <= max+step/2; b += step {
		betas = append(betas, b)
	}
	return betas
}

// Sweep trains one extractor per beta value on the given sentences and
// evaluates each on the same sentences. Results are sorted by F-beta
// descending, computed with the swept beta.
func Sweep(ctx context.Context, sentences []Sentence, src wordrep.Source, threads int, betas []float64) ([]SweepResult, error) {
	var results []SweepResult

	for _, beta := range betas {
		m, err := TrainAndEvaluate(ctx, sentences, src, beta, threads)
		if err != nil {
			return nil, fmt.Errorf("beta %.2f: %w", beta, err)
		}
		results = append(results, SweepResult{Beta: beta, Metrics: m})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Metrics.FBeta > results[j].Metrics.FBeta
	})
	return results, nil
}

// TrainAndEvaluate trains an extractor on sentences with the given
// hyperparameters and evaluates it on the same sentences.
func TrainAndEvaluate(ctx context.Context, sentences []Sentence, src wordrep.Source, beta float64, threads int) (Metrics, error) {
	trainer, err := ner.NewFromSource(src, ner.WithBeta(beta), ner.WithNumThreads(threads))
	if err != nil {
		return Metrics{}, err
	}
	for _, s := range sentences {
		if err := trainer.AddAnnotated(s.Tokens, s.Spans, s.Labels); err != nil {
			return Metrics{}, err
		}
	}

	ext, err := trainer.Train(ctx)
	if err != nil {
		return Metrics{}, err
	}

	cfg := Config{Beta: beta}
	var tp, fp, fn int
	for _, s := range sentences {
		entities, err := ext.Extract(ctx, s.Tokens)
		if err != nil {
			return Metrics{}, err
		}
		m := Evaluate(entities, s, cfg)
		tp += m.TruePositives
		fp += m.FalsePositives
		fn += m.FalseNegatives
	}

	return Compute(tp, fp, fn, cfg), nil
}
