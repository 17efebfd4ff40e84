package classify

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxEpochs bounds the training loop when the samples are not
// separable.
const DefaultMaxEpochs = 200

// Trainer fits a multiclass Model with max-margin perceptron updates.
// Samples are split into stratified partitions trained in parallel, with
// a synchronized weight-averaging reduction after every epoch.
type Trainer struct {
	// Workers is the desired number of parallel partitions. The effective
	// count never exceeds the count of the least common label, so every
	// class contributes at least one sample to every partition.
	Workers int

	// MaxEpochs bounds the optimization; 0 means DefaultMaxEpochs.
	MaxEpochs int

	// Logger receives per-epoch progress. Nil means slog.Default().
	Logger *slog.Logger
}

// Train fits a model on span feature vectors of length dim and their
// label ids in [0, numClasses).
func (t *Trainer) Train(ctx context.Context, dim, numClasses int, samples [][]float64, labels []int) (*Model, error) {
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("classify: %d samples but %d labels", len(samples), len(labels))
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("classify: no training samples")
	}
	for _, l := range labels {
		if l < 0 || l >= numClasses {
			return nil, fmt.Errorf("classify: label id %d outside [0,%d)", l, numClasses)
		}
	}

	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxEpochs := t.MaxEpochs
	if maxEpochs <= 0 {
		maxEpochs = DefaultMaxEpochs
	}

	parts := stratify(labels, t.Workers)
	model := NewModel(dim, numClasses)

	for epoch := 1; epoch <= maxEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		locals := make([]*Model, len(parts))
		mistakes := make([]int, len(parts))

		g, _ := errgroup.WithContext(ctx)
		for w, part := range parts {
			g.Go(func() error {
				local := model.clone()
				for _, i := range part {
					if pred := local.argmax(samples[i]); pred != labels[i] {
						local.step(samples[i], labels[i], pred)
						mistakes[w]++
					}
				}
				locals[w] = local
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		model = mixModels(locals, parts, dim, numClasses)

		total := 0
		for _, m := range mistakes {
			total += m
		}
		logger.Debug("classifier epoch", "epoch", epoch, "mistakes", total)
		if total == 0 {
			logger.Debug("classifier converged", "epochs", epoch)
			return model, nil
		}
	}

	logger.Debug("classifier epoch cap reached", "epochs", maxEpochs)
	return model, nil
}

func (m *Model) argmax(x []float64) int {
	best := 0
	bestScore := negScore
	for c, w := range m.Weights {
		sum := w[m.Dim]
		for i, v := range x {
			sum += w[i] * v
		}
		if sum > bestScore {
			bestScore = sum
			best = c
		}
	}
	return best
}

const negScore = -1e18

// step moves the weights toward the gold class and away from the
// mispredicted one.
func (m *Model) step(x []float64, gold, pred int) {
	wg := m.Weights[gold]
	wp := m.Weights[pred]
	for i, v := range x {
		wg[i] += v
		wp[i] -= v
	}
	wg[m.Dim]++
	wp[m.Dim]--
}

// stratify splits sample indices into at most workers partitions, capped
// by the least common label count, distributing each class round-robin so
// no partition is ever missing a class.
func stratify(labels []int, workers int) [][]int {
	parts := workers
	if least := CountOfLeastCommonLabel(labels); parts > least {
		parts = least
	}
	if parts < 1 {
		parts = 1
	}

	out := make([][]int, parts)
	next := make(map[int]int)
	for i, l := range labels {
		p := next[l] % parts
		out[p] = append(out[p], i)
		next[l]++
	}
	return out
}

// mixModels averages the partition-local models, weighting each by its
// partition size, in partition order.
func mixModels(locals []*Model, parts [][]int, dim, numClasses int) *Model {
	out := NewModel(dim, numClasses)
	total := 0.0
	for _, p := range parts {
		total += float64(len(p))
	}
	for w, local := range locals {
		weight := float64(len(parts[w])) / total
		for c := range local.Weights {
			for i, v := range local.Weights[c] {
				out.Weights[c][i] += weight * v
			}
		}
	}
	return out
}
