package classify

import (
	"context"
	"testing"
)

func TestCountOfLeastCommonLabel(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		want   int
	}{
		{"empty", nil, 0},
		{"single", []int{0}, 1},
		{"balanced", []int{0, 1, 0, 1}, 2},
		{"skewed", []int{0, 0, 0, 1}, 1},
		{"three classes", []int{2, 0, 1, 0, 2, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountOfLeastCommonLabel(tt.labels); got != tt.want {
				t.Errorf("CountOfLeastCommonLabel(%v) = %d, want %d", tt.labels, got, tt.want)
			}
		})
	}
}

func TestStratify_EveryClassInEveryPartition(t *testing.T) {
	// Three classes with 4, 3, and 3 samples; 3 workers fit within the
	// least common count.
	labels := []int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0}

	parts := stratify(labels, 3)
	if len(parts) != 3 {
		t.Fatalf("got %d partitions, want 3", len(parts))
	}

	for p, part := range parts {
		seen := make(map[int]bool)
		for _, i := range part {
			seen[labels[i]] = true
		}
		for class := 0; class < 3; class++ {
			if !seen[class] {
				t.Errorf("partition %d missing class %d", p, class)
			}
		}
	}
}

func TestStratify_CappedByLeastCommon(t *testing.T) {
	// Class 1 appears once, so only one partition is possible.
	labels := []int{0, 0, 0, 0, 1}

	parts := stratify(labels, 8)
	if len(parts) != 1 {
		t.Fatalf("got %d partitions, want 1", len(parts))
	}
	if len(parts[0]) != len(labels) {
		t.Errorf("partition holds %d samples, want %d", len(parts[0]), len(labels))
	}
}

func trainToy(t *testing.T, workers int) (*Model, [][]float64, []int) {
	t.Helper()

	samples := [][]float64{
		{1, 0, 0}, {1, 0.1, 0},
		{0, 1, 0}, {0.1, 1, 0},
		{0, 0, 1}, {0, 0.1, 1},
	}
	labels := []int{0, 0, 1, 1, 2, 2}

	tr := &Trainer{Workers: workers}
	m, err := tr.Train(context.Background(), 3, 3, samples, labels)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	return m, samples, labels
}

func TestTrainer_Train_Separable(t *testing.T) {
	for _, workers := range []int{1, 2} {
		m, samples, labels := trainToy(t, workers)

		for i, x := range samples {
			got, conf := m.Classify(x)
			if got != labels[i] {
				t.Errorf("workers=%d: Classify(sample %d) = %d, want %d", workers, i, got, labels[i])
			}
			if conf <= 0 || conf > 1 {
				t.Errorf("workers=%d: confidence %v outside (0,1]", workers, conf)
			}
		}
	}
}

func TestTrainer_Train_Validation(t *testing.T) {
	tr := &Trainer{Workers: 1}
	ctx := context.Background()

	if _, err := tr.Train(ctx, 2, 2, nil, nil); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, err := tr.Train(ctx, 2, 2, [][]float64{{1, 0}}, []int{0, 1}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := tr.Train(ctx, 2, 2, [][]float64{{1, 0}}, []int{5}); err == nil {
		t.Error("expected error for out-of-range label")
	}
}

func TestModel_Scores(t *testing.T) {
	m := NewModel(2, 2)
	m.Weights[0] = []float64{1, 0, 0.5}
	m.Weights[1] = []float64{0, 1, -0.5}

	scores := m.Scores([]float64{2, 3})
	if scores[0] != 2.5 {
		t.Errorf("scores[0] = %v, want 2.5", scores[0])
	}
	if scores[1] != 2.5 {
		t.Errorf("scores[1] = %v, want 2.5", scores[1])
	}
}
