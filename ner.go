package ner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-ner/classify"
	"github.com/jamesainslie/go-ner/features"
	"github.com/jamesainslie/go-ner/segmenter"
	"github.com/jamesainslie/go-ner/wordrep"
)

// Trainer accumulates annotated training instances and trains Extractors.
// Construction requires a dense word-feature source; instances are then
// added with Add, AddAnnotated, or AddBatch, and Train produces the final
// artifact.
//
// Label ids are assigned per-Trainer in first-seen order and define the
// label vocabulary of the trained Extractor.
type Trainer struct {
	cfg config
	src wordrep.Source

	labelIDs   map[string]int
	labelNames []string

	sentences   [][]string
	chunks      [][]Span
	chunkLabels [][]int
}

// New creates a Trainer whose word-feature source is loaded from the
// model file at path. A load failure is fatal and reported as
// ErrFeatureSource.
func New(path string, opts ...Option) (*Trainer, error) {
	src, err := wordrep.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeatureSource, err)
	}
	return NewFromSource(src, opts...)
}

// NewFromSource creates a Trainer over an already constructed word-feature
// source, such as a wordrep.Static built in memory or a wordrep.ONNX.
func NewFromSource(src wordrep.Source, opts ...Option) (*Trainer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrFeatureSource)
	}
	if src.Dim() <= 0 {
		return nil, fmt.Errorf("%w: source has non-positive dimension %d", ErrFeatureSource, src.Dim())
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Trainer{
		cfg:      cfg,
		src:      src,
		labelIDs: make(map[string]int),
	}, nil
}

// Size returns the number of training instances added so far.
func (t *Trainer) Size() int { return len(t.sentences) }

// Beta returns the boundary detector's precision/recall trade-off.
func (t *Trainer) Beta() float64 { return t.cfg.beta }

// SetBeta sets the trade-off parameter. Values below 1 make the trained
// detector avoid false alarms, values above 1 make it avoid misses.
// Negative values are rejected.
func (t *Trainer) SetBeta(beta float64) error {
	if beta < 0 {
		return fmt.Errorf("%w: beta %v is negative", ErrInvalidHyperparameter, beta)
	}
	t.cfg.beta = beta
	return nil
}

// NumThreads returns the training parallelism.
func (t *Trainer) NumThreads() int { return t.cfg.numThreads }

// SetNumThreads sets the training parallelism. Values below 1 are
// rejected.
func (t *Trainer) SetNumThreads(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: thread count %d is not positive", ErrInvalidHyperparameter, n)
	}
	t.cfg.numThreads = n
	return nil
}

// Add copies the instance's tokens, spans, and labels into the corpus.
// Unseen labels are registered in first-seen order. Later mutation of the
// instance does not affect the trainer.
func (t *Trainer) Add(inst *Instance) {
	spans, labels := inst.Entities()
	ids := make([]int, len(labels))
	for i, l := range labels {
		ids[i] = t.labelID(l)
	}
	t.sentences = append(t.sentences, inst.Tokens())
	t.chunks = append(t.chunks, spans)
	t.chunkLabels = append(t.chunkLabels, ids)
}

// AddAnnotated adds one instance built from parallel span and label
// collections. It is equivalent to constructing an Instance, adding every
// span, and calling Add, and fails the whole call on the first invalid
// span or a length mismatch, leaving the corpus unchanged.
func (t *Trainer) AddAnnotated(tokens []string, spans []Span, labels []string) error {
	inst, err := buildInstance(tokens, spans, labels)
	if err != nil {
		return err
	}
	t.Add(inst)
	return nil
}

// AddBatch adds one instance per element of the parallel top-level
// collections. All instances are validated before any is added, so an
// invalid element leaves the corpus unchanged.
func (t *Trainer) AddBatch(tokens [][]string, spans [][]Span, labels [][]string) error {
	if len(tokens) != len(spans) || len(tokens) != len(labels) {
		return fmt.Errorf("%w: batch lengths %d/%d/%d differ", ErrInvalidSpan, len(tokens), len(spans), len(labels))
	}
	insts := make([]*Instance, len(tokens))
	for i := range tokens {
		inst, err := buildInstance(tokens[i], spans[i], labels[i])
		if err != nil {
			return fmt.Errorf("batch element %d: %w", i, err)
		}
		insts[i] = inst
	}
	for _, inst := range insts {
		t.Add(inst)
	}
	return nil
}

func buildInstance(tokens []string, spans []Span, labels []string) (*Instance, error) {
	if len(spans) != len(labels) {
		return nil, fmt.Errorf("%w: %d spans but %d labels", ErrInvalidSpan, len(spans), len(labels))
	}
	inst := NewInstance(tokens)
	for i, sp := range spans {
		if err := inst.AddEntity(sp, labels[i]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Labels returns the label vocabulary accumulated so far, in id order.
func (t *Trainer) Labels() []string {
	return append([]string(nil), t.labelNames...)
}

func (t *Trainer) labelID(label string) int {
	if id, ok := t.labelIDs[label]; ok {
		return id
	}
	id := len(t.labelNames)
	t.labelIDs[label] = id
	t.labelNames = append(t.labelNames, label)
	return id
}

// Train fits the two-stage model and returns the extractor artifact. It
// fails with ErrEmptyCorpus if no instances were added. Training either
// fully succeeds or returns no artifact; the corpus is left untouched
// either way.
func (t *Trainer) Train(ctx context.Context) (*Extractor, error) {
	if t.Size() == 0 {
		return nil, ErrEmptyCorpus
	}

	logger := t.cfg.logger
	logger.Info("training boundary detector",
		"instances", t.Size(),
		"labels", len(t.labelNames),
		"beta", t.cfg.beta,
		"threads", t.cfg.numThreads,
	)

	fx := features.NewExtractor(t.src)
	seqs, err := t.sequenceFeatures(ctx, fx)
	if err != nil {
		return nil, fmt.Errorf("extracting features: %w", err)
	}

	gold := make([][]segmenter.Span, len(t.chunks))
	for i, spans := range t.chunks {
		gold[i] = make([]segmenter.Span, len(spans))
		for j, sp := range spans {
			gold[i][j] = segmenter.Span{Start: sp.Start, End: sp.End}
		}
	}

	segTrainer := &segmenter.Trainer{
		Beta:    t.cfg.beta,
		Workers: t.cfg.numThreads,
		Logger:  logger,
	}
	segModel, err := segTrainer.Train(ctx, fx.TokenDim(), seqs, gold)
	if err != nil {
		return nil, fmt.Errorf("training segmenter: %w", err)
	}

	samples, sampleLabels, err := t.harvestSpanSamples(ctx, segModel, seqs)
	if err != nil {
		return nil, err
	}
	logger.Info("training span classifier",
		"samples", len(samples),
		"least_common_label_count", classify.CountOfLeastCommonLabel(sampleLabels),
	)

	clsTrainer := &classify.Trainer{
		Workers: t.cfg.numThreads,
		Logger:  logger,
	}
	clsModel, err := clsTrainer.Train(ctx, fx.SpanDim(), len(t.labelNames), samples, sampleLabels)
	if err != nil {
		return nil, fmt.Errorf("training classifier: %w", err)
	}

	return &Extractor{
		src:    t.src,
		fx:     fx,
		seg:    segModel,
		cls:    clsModel,
		labels: t.Labels(),
	}, nil
}

// sequenceFeatures computes per-token feature vectors for every training
// sentence, in parallel across up to NumThreads workers.
func (t *Trainer) sequenceFeatures(ctx context.Context, fx *features.Extractor) ([][][]float64, error) {
	seqs := make([][][]float64, len(t.sentences))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.numThreads)
	for i, tokens := range t.sentences {
		g.Go(func() error {
			seq, err := fx.Sequence(ctx, tokens)
			if err != nil {
				return err
			}
			seqs[i] = seq
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return seqs, nil
}

// harvestSpanSamples re-runs the trained segmenter over the corpus and
// keeps the spans that exactly match a gold annotation as classifier
// training samples labeled with the gold type. Boundary errors are the
// segmenter's responsibility and are discarded here.
func (t *Trainer) harvestSpanSamples(ctx context.Context, segModel *segmenter.Model, seqs [][][]float64) ([][]float64, []int, error) {
	perSentence := make([][][]float64, len(seqs))
	perLabels := make([][]int, len(seqs))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.numThreads)
	for i := range seqs {
		g.Go(func() error {
			bySpan := make(map[Span]int, len(t.chunks[i]))
			for j, sp := range t.chunks[i] {
				bySpan[sp] = t.chunkLabels[i][j]
			}
			for _, pred := range segModel.Segment(seqs[i]) {
				id, ok := bySpan[Span{Start: pred.Start, End: pred.End}]
				if !ok {
					continue
				}
				perSentence[i] = append(perSentence[i], features.SpanVector(seqs[i], pred.Start, pred.End))
				perLabels[i] = append(perLabels[i], id)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var samples [][]float64
	var labels []int
	for i := range perSentence {
		samples = append(samples, perSentence[i]...)
		labels = append(labels, perLabels[i]...)
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("ner: boundary detector recovered no annotated spans to train the classifier on")
	}
	return samples, labels, nil
}
