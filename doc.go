// Package ner trains named-entity extractors from annotated token sequences.
//
// # Quick Start
//
//	trainer, err := ner.New("wordrep.dat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst := ner.NewInstance([]string{"John", "lives", "in", "Boston"})
//	_ = inst.AddEntityAt(0, 1, "PERSON")
//	_ = inst.AddEntityAt(3, 1, "LOCATION")
//	trainer.Add(inst)
//
//	ext, err := trainer.Train(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	entities, _ := ext.Extract(ctx, tokens)
//
// Training runs in two stages: a structured boundary model (package
// segmenter) learns where entities occur, then a multiclass linear model
// (package classify) learns which label each detected span carries. Both
// stages draw per-token features from a dense word representation source
// (package wordrep) combined with surface features (package features).
//
// # Thread Safety
//
// A Trainer is not safe for concurrent use. Corpus accumulation is
// sequential; Train parallelizes internally across NumThreads workers. The
// Extractor returned by Train is safe for concurrent use as long as its
// wordrep source is.
package ner
