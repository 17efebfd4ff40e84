package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ner "github.com/jamesainslie/go-ner"
)

const sampleCoNLL = `John B-PER
lives O
in O
New B-LOC
York I-LOC

Paris B-LOC
is O
nice O
`

func TestParseCoNLL(t *testing.T) {
	sentences, err := ParseCoNLL(strings.NewReader(sampleCoNLL))
	if err != nil {
		t.Fatalf("ParseCoNLL failed: %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("got %d sentences, want 2", len(sentences))
	}

	s := sentences[0]
	if len(s.Tokens) != 5 {
		t.Fatalf("sentence 0 has %d tokens, want 5", len(s.Tokens))
	}
	if len(s.Spans) != 2 {
		t.Fatalf("sentence 0 has %d spans, want 2", len(s.Spans))
	}
	if s.Spans[0] != (ner.Span{Start: 0, End: 1}) || s.Labels[0] != "PER" {
		t.Errorf("span 0 = %v %q, want [0,1) PER", s.Spans[0], s.Labels[0])
	}
	if s.Spans[1] != (ner.Span{Start: 3, End: 5}) || s.Labels[1] != "LOC" {
		t.Errorf("span 1 = %v %q, want [3,5) LOC", s.Spans[1], s.Labels[1])
	}

	s = sentences[1]
	if len(s.Spans) != 1 || s.Spans[0] != (ner.Span{Start: 0, End: 1}) || s.Labels[0] != "LOC" {
		t.Errorf("sentence 1 spans = %v %v, want [[0,1)] [LOC]", s.Spans, s.Labels)
	}
}

func TestParseCoNLL_DanglingInside(t *testing.T) {
	// An I- tag without a matching open entity is treated as B-.
	sentences, err := ParseCoNLL(strings.NewReader("York I-LOC\n"))
	if err != nil {
		t.Fatalf("ParseCoNLL failed: %v", err)
	}
	if len(sentences) != 1 || len(sentences[0].Spans) != 1 {
		t.Fatalf("got %v", sentences)
	}
	if sentences[0].Spans[0] != (ner.Span{Start: 0, End: 1}) {
		t.Errorf("span = %v, want [0,1)", sentences[0].Spans[0])
	}
}

func TestParseCoNLL_TypeChangeInside(t *testing.T) {
	// I- continuing a different type opens a new span.
	sentences, err := ParseCoNLL(strings.NewReader("New B-LOC\nJohn I-PER\n"))
	if err != nil {
		t.Fatalf("ParseCoNLL failed: %v", err)
	}
	s := sentences[0]
	if len(s.Spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(s.Spans))
	}
	if s.Labels[0] != "LOC" || s.Labels[1] != "PER" {
		t.Errorf("labels = %v, want [LOC PER]", s.Labels)
	}
}

func TestParseCoNLL_BadTag(t *testing.T) {
	if _, err := ParseCoNLL(strings.NewReader("John PERSON\n")); err == nil {
		t.Error("expected error for unknown tag")
	}
}

func TestParseCoNLL_BadLine(t *testing.T) {
	if _, err := ParseCoNLL(strings.NewReader("John\n")); err == nil {
		t.Error("expected error for missing tag column")
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.conll"), []byte(sampleCoNLL), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	// Non-.conll files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	sentences, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus failed: %v", err)
	}
	if len(sentences) != 2 {
		t.Errorf("got %d sentences, want 2", len(sentences))
	}
}

func TestLoadCorpus_MissingDir(t *testing.T) {
	if _, err := LoadCorpus("nonexistent"); err == nil {
		t.Error("expected error for missing directory")
	}
}
