package segmenter

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxEpochs bounds the training loop when the corpus is not
// separable under the cost-augmented decode.
const DefaultMaxEpochs = 150

// maxCostRatio caps the false-alarm cost as beta approaches zero.
const maxCostRatio = 100

// Trainer fits a boundary Model with a cost-augmented structured
// perceptron. Work is split across Workers disjoint instance shards; each
// epoch the shards train locally and a synchronized reduction averages
// their weights back into the shared model (iterative parameter mixing).
type Trainer struct {
	// Beta trades precision against recall. Missing a gold entity token
	// costs proportionally to Beta, tagging a non-entity token costs
	// proportionally to 1/Beta.
	Beta float64

	// Workers is the number of parallel training shards. Values below 1
	// default to 1.
	Workers int

	// MaxEpochs bounds the optimization; 0 means DefaultMaxEpochs.
	MaxEpochs int

	// Logger receives per-epoch progress. Nil means slog.Default().
	Logger *slog.Logger
}

// Train fits a model on feature sequences and their gold spans. seqs[i]
// holds one feature vector of length dim per token of sentence i, and
// gold[i] its annotated spans. Training stops at the first epoch with no
// cost-augmented mistakes, or at the epoch cap.
func (t *Trainer) Train(ctx context.Context, dim int, seqs [][][]float64, gold [][]Span) (*Model, error) {
	if len(seqs) != len(gold) {
		return nil, fmt.Errorf("segmenter: %d sequences but %d annotation sets", len(seqs), len(gold))
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("segmenter: no training sequences")
	}

	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxEpochs := t.MaxEpochs
	if maxEpochs <= 0 {
		maxEpochs = DefaultMaxEpochs
	}

	missCost := t.Beta
	faCost := float64(maxCostRatio)
	if t.Beta > 1.0/maxCostRatio {
		faCost = 1 / t.Beta
	}

	goldStates := make([][]int, len(seqs))
	for i := range seqs {
		goldStates[i] = statesFromSpans(len(seqs[i]), gold[i])
	}

	shards := shardBounds(len(seqs), t.Workers)
	model := NewModel(dim)

	for epoch := 1; epoch <= maxEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		locals := make([]*Model, len(shards))
		mistakes := make([]int, len(shards))

		g, _ := errgroup.WithContext(ctx)
		for w, sh := range shards {
			g.Go(func() error {
				local := model.clone()
				for i := sh.lo; i < sh.hi; i++ {
					if len(seqs[i]) == 0 {
						continue
					}
					pred := local.decode(seqs[i], goldStates[i], missCost, faCost)
					if !statesEqual(pred, goldStates[i]) {
						local.update(seqs[i], goldStates[i], pred)
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

		model = mix(locals, shards, dim)

		total := 0
		for _, m := range mistakes {
			total += m
		}
		logger.Debug("segmenter epoch", "epoch", epoch, "mistakes", total)
		if total == 0 {
			logger.Debug("segmenter converged", "epochs", epoch)
			return model, nil
		}
	}

	logger.Debug("segmenter epoch cap reached", "epochs", maxEpochs)
	return model, nil
}

// update applies a perceptron step moving the weights toward the gold
// state sequence and away from the predicted one.
func (m *Model) update(seq [][]float64, gold, pred []int) {
	for t := range gold {
		if gold[t] != pred[t] {
			wg := m.Weights[gold[t]]
			wp := m.Weights[pred[t]]
			for i, v := range seq[t] {
				wg[i] += v
				wp[i] -= v
			}
			wg[m.Dim]++
			wp[m.Dim]--
		}
		if t > 0 && (gold[t-1] != pred[t-1] || gold[t] != pred[t]) {
			m.Trans[gold[t-1]][gold[t]]++
			m.Trans[pred[t-1]][pred[t]]--
		}
	}
}

type shard struct{ lo, hi int }

// shardBounds splits n instances into at most workers contiguous shards.
func shardBounds(n, workers int) []shard {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	shards := make([]shard, 0, workers)
	base := n / workers
	extra := n % workers
	lo := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < extra {
			size++
		}
		shards = append(shards, shard{lo: lo, hi: lo + size})
		lo += size
	}
	return shards
}

// mix averages the shard-local models, weighting each by its shard size.
// The reduction runs in shard order so results are deterministic for a
// fixed shard count.
func mix(locals []*Model, shards []shard, dim int) *Model {
	out := NewModel(dim)
	total := 0.0
	for _, sh := range shards {
		total += float64(sh.hi - sh.lo)
	}
	for w, local := range locals {
		weight := float64(shards[w].hi-shards[w].lo) / total
		for s := 0; s < numStates; s++ {
			for i := range local.Weights[s] {
				out.Weights[s][i] += weight * local.Weights[s][i]
			}
			for p := 0; p < numStates; p++ {
				out.Trans[s][p] += weight * local.Trans[s][p]
			}
		}
	}
	return out
}
