package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jamesainslie/go-ner/internal/bench"
	"github.com/jamesainslie/go-ner/wordrep"
)

func main() {
	var (
		wordrepPath = flag.String("wordrep", "", "Path to word representation model file (required)")
		corpusDir   = flag.String("corpus", "testdata/corpus", "Directory containing .conll files")
		beta        = flag.Float64("beta", 0.5, "Boundary detector precision/recall trade-off")
		threads     = flag.Int("threads", 16, "Training parallelism")
		sweep       = flag.Bool("sweep", false, "Run beta sweep")
		sweepMin    = flag.Float64("sweep-min", 0.1, "Sweep minimum beta")
		sweepMax    = flag.Float64("sweep-max", 2.0, "Sweep maximum beta")
		sweepStep   = flag.Float64("sweep-step", 0.1, "Sweep step size")
	)
	flag.Parse()

	if *wordrepPath == "" {
		fmt.Fprintln(os.Stderr, "error: -wordrep required")
		flag.Usage()
		os.Exit(1)
	}

	src, err := wordrep.Load(*wordrepPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading word representations: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = src.Close() }()

	sentences, err := bench.LoadCorpus(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d sentences from %s\n\n", len(sentences), *corpusDir)

	ctx := context.Background()

	if *sweep {
		runSweep(ctx, sentences, src, *threads, *sweepMin, *sweepMax, *sweepStep)
		return
	}

	m, err := bench.TrainAndEvaluate(ctx, sentences, src, *beta, *threads)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Precision: %.2f  Recall: %.2f  F1: %.2f  F-beta: %.2f\n",
		m.Precision, m.Recall, m.F1, m.FBeta)
	fmt.Printf("(TP: %d, FP: %d, FN: %d)\n",
		m.TruePositives, m.FalsePositives, m.FalseNegatives)
}

func runSweep(ctx context.Context, sentences []bench.Sentence, src *wordrep.Static, threads int, min, max, step float64) {
	betas := bench.SweepBetas(min, max, step)

	fmt.Println("Beta Sweep Results")
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%-8s %-8s %-8s %-8s %-8s\n", "Beta", "Prec", "Rec", "F1", "F-beta")

	results, err := bench.Sweep(ctx, sentences, src, threads, betas)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}

	// Print sorted by beta for readability
	for _, b := range betas {
		for _, r := range results {
			if r.Beta == b {
				fmt.Printf("%-8.2f %-8.2f %-8.2f %-8.2f %-8.2f\n",
					r.Beta, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.FBeta)
				break
			}
		}
	}

	fmt.Println(strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: beta=%.2f (F-beta: %.2f)\n", best.Beta, best.Metrics.FBeta)
	}
}
