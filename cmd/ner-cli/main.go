package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	ner "github.com/jamesainslie/go-ner"
	"github.com/jamesainslie/go-ner/internal/bench"
)

func main() {
	wordrepPath := flag.String("wordrep", "", "Path to word representation model file")
	corpusDir := flag.String("corpus", "", "Directory of .conll training files")
	beta := flag.Float64("beta", 0.5, "Boundary detector precision/recall trade-off")
	threads := flag.Int("threads", 16, "Training parallelism")

	flag.Parse()

	if *wordrepPath == "" || *corpusDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: ner-cli -wordrep MODEL -corpus DIR [OPTIONS] TEXT")
		flag.PrintDefaults()
		os.Exit(1)
	}

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "Error: no text provided")
		os.Exit(1)
	}

	trainer, err := ner.New(*wordrepPath, ner.WithBeta(*beta), ner.WithNumThreads(*threads))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating trainer: %v\n", err)
		os.Exit(1)
	}

	sentences, err := bench.LoadCorpus(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading corpus: %v\n", err)
		os.Exit(1)
	}
	for _, s := range sentences {
		if err := trainer.AddAnnotated(s.Tokens, s.Spans, s.Labels); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding sentence: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	ext, err := trainer.Train(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error training: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Trained on %d sentences, labels: %v\n", trainer.Size(), ext.Labels())

	tokens := strings.Fields(text)
	entities, err := ext.Extract(ctx, tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Entities (%d):\n", len(entities))
	for _, e := range entities {
		fmt.Printf("  [%d,%d) %-12s %.3f %q\n",
			e.Start, e.End, e.Label, e.Score, strings.Join(tokens[e.Start:e.End], " "))
	}
}
