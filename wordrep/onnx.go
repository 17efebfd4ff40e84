package wordrep

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ONNX computes word vectors with an ONNX Runtime embedding model. Tokens
// are mapped to ids through a vocabulary file (one token per line; the
// line number is the id), fed to the model, and the resulting vectors are
// cached. Unknown tokens fall back to FallbackVector rather than the
// model's unk row so they stay distinguishable.
//
// ONNX is safe for concurrent use; it maintains an internal session pool.
type ONNX struct {
	vocab map[string]int64
	pool  *pool
	dim   int

	mu    sync.RWMutex
	cache map[string][]float32
}

// LoadONNX creates an ONNX-backed source from an embedding model and a
// vocabulary file. poolSize controls how many concurrent sessions are
// kept; values below 1 default to 1. The vector width is probed with a
// single inference at load time.
func LoadONNX(modelPath, vocabPath string, poolSize int) (*ONNX, error) {
	vocab, err := loadVocab(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocabulary %s is empty", vocabPath)
	}

	p, err := newPool(modelPath, poolSize)
	if err != nil {
		return nil, err
	}

	o := &ONNX{
		vocab: vocab,
		pool:  p,
		cache: make(map[string][]float32),
	}

	// Probe the output width so Dim is known before the first Lookup.
	s, err := p.acquire(context.Background())
	if err != nil {
		_ = p.close()
		return nil, err
	}
	vecs, err := s.embed(context.Background(), []int64{0})
	p.release(s)
	if err != nil {
		_ = p.close()
		return nil, fmt.Errorf("probing embedding width: %w", err)
	}
	o.dim = len(vecs[0])
	if o.dim == 0 {
		_ = p.close()
		return nil, fmt.Errorf("model produced zero-width embeddings")
	}

	return o, nil
}

func loadVocab(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		tok := strings.TrimRight(scanner.Text(), "\r\n")
		if tok != "" {
			vocab[tok] = id
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning vocabulary: %w", err)
	}
	return vocab, nil
}

// Dim returns the embedding width.
func (o *ONNX) Dim() int { return o.dim }

// Lookup returns the embedding for token, computing and caching it on
// first use.
func (o *ONNX) Lookup(ctx context.Context, token string) ([]float32, error) {
	o.mu.RLock()
	v, ok := o.cache[token]
	o.mu.RUnlock()
	if ok {
		return v, nil
	}

	id, ok := o.vocab[token]
	if !ok {
		v = FallbackVector(token, o.dim)
		o.mu.Lock()
		o.cache[token] = v
		o.mu.Unlock()
		return v, nil
	}

	s, err := o.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}
	vecs, err := s.embed(ctx, []int64{id})
	o.pool.release(s)
	if err != nil {
		return nil, fmt.Errorf("embedding %q: %w", token, err)
	}
	if len(vecs[0]) != o.dim {
		return nil, fmt.Errorf("embedding for %q has width %d, want %d", token, len(vecs[0]), o.dim)
	}

	o.mu.Lock()
	o.cache[token] = vecs[0]
	o.mu.Unlock()
	return vecs[0], nil
}

// Close releases the session pool.
func (o *ONNX) Close() error {
	return o.pool.close()
}
