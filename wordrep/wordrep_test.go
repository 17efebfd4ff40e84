package wordrep

import (
	"context"
	"testing"
)

func TestNewStatic_Validation(t *testing.T) {
	if _, err := NewStatic(0, nil); err == nil {
		t.Error("expected error for zero dimension")
	}
	if _, err := NewStatic(3, map[string][]float32{"a": {1, 2}}); err == nil {
		t.Error("expected error for wrong vector length")
	}
}

func TestStatic_Lookup(t *testing.T) {
	src, err := NewStatic(2, map[string][]float32{
		"hello": {0.5, -0.5},
	})
	if err != nil {
		t.Fatalf("NewStatic failed: %v", err)
	}
	defer func() { _ = src.Close() }()

	ctx := context.Background()

	v, err := src.Lookup(ctx, "hello")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(v) != 2 || v[0] != 0.5 || v[1] != -0.5 {
		t.Errorf("Lookup(hello) = %v, want [0.5 -0.5]", v)
	}

	if src.Size() != 1 {
		t.Errorf("Size() = %d, want 1", src.Size())
	}
	if src.Dim() != 2 {
		t.Errorf("Dim() = %d, want 2", src.Dim())
	}
}

func TestStatic_Lookup_OOV(t *testing.T) {
	src, err := NewStatic(8, map[string][]float32{})
	if err != nil {
		t.Fatalf("NewStatic failed: %v", err)
	}

	ctx := context.Background()

	a, err := src.Lookup(ctx, "unseen")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(a) != 8 {
		t.Fatalf("fallback has %d values, want 8", len(a))
	}

	// Repeated lookups are stable.
	b, err := src.Lookup(ctx, "unseen")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("fallback not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}

	// Distinct unknown tokens get distinct vectors.
	c, err := src.Lookup(ctx, "different")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct unknown tokens produced identical fallback vectors")
	}
}

func TestFallbackVector_Bounded(t *testing.T) {
	v := FallbackVector("anything", 32)
	for i, x := range v {
		if x < -0.1 || x > 0.1 {
			t.Errorf("fallback[%d] = %v outside [-0.1, 0.1]", i, x)
		}
	}
}
