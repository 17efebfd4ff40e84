package bench

import (
	"testing"

	ner "github.com/jamesainslie/go-ner"
)

func TestEvaluate(t *testing.T) {
	truth := Sentence{
		Tokens: []string{"John", "lives", "in", "Boston"},
		Spans:  []ner.Span{{Start: 0, End: 1}, {Start: 3, End: 4}},
		Labels: []string{"PER", "LOC"},
	}

	tests := []struct {
		name      string
		predicted []ner.Entity
		wantTP    int
		wantFP    int
		wantFN    int
	}{
		{
			name: "perfect",
			predicted: []ner.Entity{
				{Span: ner.Span{Start: 0, End: 1}, Label: "PER"},
				{Span: ner.Span{Start: 3, End: 4}, Label: "LOC"},
			},
			wantTP: 2, wantFP: 0, wantFN: 0,
		},
		{
			name:      "nothing predicted",
			predicted: nil,
			wantTP:    0, wantFP: 0, wantFN: 2,
		},
		{
			name: "wrong label",
			predicted: []ner.Entity{
				{Span: ner.Span{Start: 0, End: 1}, Label: "LOC"},
			},
			wantTP: 0, wantFP: 1, wantFN: 2,
		},
		{
			name: "wrong boundary",
			predicted: []ner.Entity{
				{Span: ner.Span{Start: 0, End: 2}, Label: "PER"},
				{Span: ner.Span{Start: 3, End: 4}, Label: "LOC"},
			},
			wantTP: 1, wantFP: 1, wantFN: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Evaluate(tt.predicted, truth, DefaultConfig())
			if m.TruePositives != tt.wantTP {
				t.Errorf("TP = %d, want %d", m.TruePositives, tt.wantTP)
			}
			if m.FalsePositives != tt.wantFP {
				t.Errorf("FP = %d, want %d", m.FalsePositives, tt.wantFP)
			}
			if m.FalseNegatives != tt.wantFN {
				t.Errorf("FN = %d, want %d", m.FalseNegatives, tt.wantFN)
			}
		})
	}
}

func TestCompute_Ratios(t *testing.T) {
	m := Compute(2, 1, 2, Config{Beta: 1.0})

	if m.Precision != 2.0/3.0 {
		t.Errorf("Precision = %v, want 2/3", m.Precision)
	}
	if m.Recall != 0.5 {
		t.Errorf("Recall = %v, want 0.5", m.Recall)
	}

	// With beta 1, F-beta equals F1.
	if m.FBeta != m.F1 {
		t.Errorf("FBeta = %v, F1 = %v, want equal", m.FBeta, m.F1)
	}
}

func TestCompute_Empty(t *testing.T) {
	m := Compute(0, 0, 0, DefaultConfig())
	if m.Precision != 0 || m.Recall != 0 || m.F1 != 0 || m.FBeta != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}

func TestSweepBetas(t *testing.T) {
	betas := SweepBetas(0.5, 1.0, 0.25)
	want := []float64{0.5, 0.75, 1.0}
	if len(betas) != len(want) {
		t.Fatalf("got %v, want %v", betas, want)
	}
	for i := range want {
		if diff := betas[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("betas[%d] = %v, want %v", i, betas[i], want[i])
		}
	}
}
