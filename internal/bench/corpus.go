// Package bench provides corpus loading and evaluation utilities for NER
// training experiments.
package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ner "github.com/jamesainslie/go-ner"
)

// Sentence is one annotated sentence from an evaluation corpus.
type Sentence struct {
	Tokens []string
	Spans  []ner.Span
	Labels []string
}

// ParseCoNLL reads sentences in CoNLL-style format: one "token tag" pair
// per line with tags O, B-TYPE, or I-TYPE, and a blank line between
// sentences. An I- tag opening a sentence or following a different type
// is tolerated and treated as B-.
func ParseCoNLL(r io.Reader) ([]Sentence, error) {
	var sentences []Sentence
	var tokens, tags []string

	flush := func() error {
		if len(tokens) == 0 {
			return nil
		}
		s, err := fromBIO(tokens, tags)
		if err != nil {
			return err
		}
		sentences = append(sentences, s)
		tokens, tags = nil, nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want \"token tag\", got %q", line, text)
		}
		tokens = append(tokens, fields[0])
		tags = append(tags, fields[len(fields)-1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning corpus: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return sentences, nil
}

func fromBIO(tokens, tags []string) (Sentence, error) {
	s := Sentence{Tokens: append([]string(nil), tokens...)}

	start := -1
	var label string
	flush := func(end int) {
		if start >= 0 {
			s.Spans = append(s.Spans, ner.Span{Start: start, End: end})
			s.Labels = append(s.Labels, label)
			start = -1
		}
	}

	for i, tag := range tags {
		switch {
		case tag == "O":
			flush(i)
		case strings.HasPrefix(tag, "B-"):
			flush(i)
			start = i
			label = tag[2:]
		case strings.HasPrefix(tag, "I-"):
			if start < 0 || label != tag[2:] {
				flush(i)
				start = i
				label = tag[2:]
			}
		default:
			return Sentence{}, fmt.Errorf("unknown tag %q", tag)
		}
	}
	flush(len(tags))
	return s, nil
}

// LoadCorpus loads all .conll files from a directory.
func LoadCorpus(dir string) ([]Sentence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var sentences []Sentence
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".conll" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", entry.Name(), err)
		}
		parsed, err := ParseCoNLL(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		sentences = append(sentences, parsed...)
	}

	return sentences, nil
}
