package wordrep

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// initORT initializes the ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// session wraps an ONNX Runtime session for embedding extraction. The
// model is expected to map a batch of token ids to one embedding vector
// per id ("input_ids" -> "embeddings").
type session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

func newSession(modelPath string) (*session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	inputNames := []string{"input_ids"}
	outputNames := []string{"embeddings"}

	s, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &session{session: s}, nil
}

// embed runs the model on ids and returns one vector per id. The vector
// width is inferred from the output tensor size.
func (s *session) embed(ctx context.Context, ids []int64) ([][]float32, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("session is closed")
	}

	batch := int64(len(ids))
	idTensor, err := ort.NewTensor(ort.NewShape(batch), ids)
	if err != nil {
		return nil, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = idTensor.Destroy() }()

	inputs := []ort.Value{idTensor}
	outputs := []ort.Value{nil}

	if err := s.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	embTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type")
	}

	data := embTensor.GetData()
	if len(ids) == 0 || len(data)%len(ids) != 0 {
		return nil, fmt.Errorf("output size %d not divisible by batch %d", len(data), len(ids))
	}
	dim := len(data) / len(ids)

	vecs := make([][]float32, len(ids))
	for i := range vecs {
		vecs[i] = append([]float32(nil), data[i*dim:(i+1)*dim]...)
	}
	return vecs, nil
}

func (s *session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
