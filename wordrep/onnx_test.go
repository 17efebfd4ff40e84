package wordrep

import (
	"os"
	"path/filepath"
	"testing"
)

const testONNXModel = "testdata/embeddings.onnx"

// skipIfNoModel skips the test if the ONNX embedding model is not
// available.
func skipIfNoModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testONNXModel); err != nil {
		t.Skipf("Skipping: ONNX model not available at %s", testONNXModel)
	}
}

func writeVocab(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("writing vocab: %v", err)
	}
	return path
}

func TestLoadVocab(t *testing.T) {
	path := writeVocab(t, "<unk>\nthe\nof\n")

	vocab, err := loadVocab(path)
	if err != nil {
		t.Fatalf("loadVocab failed: %v", err)
	}
	if len(vocab) != 3 {
		t.Fatalf("len(vocab) = %d, want 3", len(vocab))
	}
	if vocab["the"] != 1 || vocab["of"] != 2 {
		t.Errorf("unexpected ids: the=%d of=%d", vocab["the"], vocab["of"])
	}
}

func TestLoadVocab_FileNotFound(t *testing.T) {
	if _, err := loadVocab("nonexistent/vocab.txt"); err == nil {
		t.Error("expected error for nonexistent vocab")
	}
}

func TestLoadONNX_ModelNotFound(t *testing.T) {
	vocabPath := writeVocab(t, "<unk>\n")

	if _, err := LoadONNX("nonexistent/model.onnx", vocabPath, 1); err == nil {
		t.Error("expected error for nonexistent model")
	}
}

func TestLoadONNX_EmptyVocab(t *testing.T) {
	vocabPath := writeVocab(t, "")

	if _, err := LoadONNX(testONNXModel, vocabPath, 1); err == nil {
		t.Error("expected error for empty vocabulary")
	}
}

func TestLoadONNX(t *testing.T) {
	skipIfNoModel(t)

	vocabPath := writeVocab(t, "<unk>\nhello\nworld\n")

	src, err := LoadONNX(testONNXModel, vocabPath, 2)
	if err != nil {
		t.Skipf("Skipping: ONNX runtime not available: %v", err)
	}
	defer func() { _ = src.Close() }()

	if src.Dim() <= 0 {
		t.Errorf("Dim() = %d, want > 0", src.Dim())
	}
}
