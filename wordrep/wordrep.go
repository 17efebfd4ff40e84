// Package wordrep provides dense word representation sources for NER
// training and inference. A Source maps a token string to a fixed-length
// vector, with a deterministic fallback for out-of-vocabulary tokens.
//
// Two backends are provided: Static, an in-memory table loaded from a
// persisted model file (see Load/Save), and ONNX, which computes
// embeddings with an ONNX Runtime model (see LoadONNX).
package wordrep

import (
	"context"
	"fmt"
	"hash/fnv"
)

// Source maps tokens to fixed-length dense vectors.
//
// Lookup must return a vector of exactly Dim() values and must succeed for
// out-of-vocabulary tokens by falling back to a deterministic substitute
// vector. Returned slices are read-only; callers must not modify them.
type Source interface {
	// Dim returns the vector length produced by Lookup.
	Dim() int

	// Lookup returns the vector for token.
	Lookup(ctx context.Context, token string) ([]float32, error)

	// Close releases any resources held by the source.
	Close() error
}

// Static is an in-memory word vector table. It is safe for concurrent use.
type Static struct {
	dim     int
	vectors map[string][]float32
}

// NewStatic creates a static source over the given table. Every vector
// must have exactly dim values.
func NewStatic(dim int, vectors map[string][]float32) (*Static, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("non-positive dimension %d", dim)
	}
	for tok, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector for %q has %d values, want %d", tok, len(v), dim)
		}
	}
	copied := make(map[string][]float32, len(vectors))
	for tok, v := range vectors {
		copied[tok] = append([]float32(nil), v...)
	}
	return &Static{dim: dim, vectors: copied}, nil
}

// Dim returns the vector length.
func (s *Static) Dim() int { return s.dim }

// Size returns the number of in-vocabulary tokens.
func (s *Static) Size() int { return len(s.vectors) }

// Lookup returns the stored vector for token, or the deterministic
// out-of-vocabulary fallback if the token is unknown.
func (s *Static) Lookup(_ context.Context, token string) ([]float32, error) {
	if v, ok := s.vectors[token]; ok {
		return v, nil
	}
	return FallbackVector(token, s.dim), nil
}

// Close releases source resources.
func (s *Static) Close() error { return nil }

// FallbackVector returns the substitute vector used for out-of-vocabulary
// tokens: a small pseudo-random vector seeded from the token text, so
// distinct unknown tokens stay distinguishable while repeated lookups are
// stable.
func FallbackVector(token string, dim int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	seed := h.Sum64()

	v := make([]float32, dim)
	for i := range v {
		seed = seed*6364136223846793005 + 1442695040888963407
		v[i] = (float32(seed>>40)/float32(1<<24) - 0.5) * 0.2
	}
	return v
}
