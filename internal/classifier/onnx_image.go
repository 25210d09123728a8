package classifier

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"predictd/internal/normalize"
)

// onnxImageModel wraps an ONNX session over a CIFAR-10 style CNN. The
// session is bound to a fixed input/output tensor pair, so Run is not safe
// for concurrent use; a mutex serializes inference calls.
type onnxImageModel struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	labels  []string
}

// LoadImageModel loads the image classifier from a .onnx file. The label
// set is fixed at load time. A missing file surfaces as an artifact-missing
// error so the FailFast policy can abort startup with a precise message.
func LoadImageModel(path string) (ImageModel, error) {
	if err := checkFileArtifact(path); err != nil {
		return nil, err
	}
	if err := initONNXRuntime(); err != nil {
		return nil, err
	}

	labels := CIFAR10Labels
	inputShape := ort.NewShape(1, 3, normalize.ImageSize, normalize.ImageSize)
	outputShape := ort.NewShape(1, int64(len(labels)))

	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &onnxImageModel{
		session: session,
		input:   input,
		output:  output,
		labels:  labels,
	}, nil
}

func (m *onnxImageModel) Labels() []string { return m.labels }

func (m *onnxImageModel) Score(ctx context.Context, t *normalize.Tensor) ([]float32, error) {
	dst := m.input.GetData()
	if len(t.Data) != len(dst) {
		return nil, fmt.Errorf("input size %d does not match model input %d", len(t.Data), len(dst))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copy(dst, t.Data)
	if err := m.session.Run(); err != nil {
		return nil, err
	}
	scores := make([]float32, len(m.output.GetData()))
	copy(scores, m.output.GetData())
	return scores, nil
}

func (m *onnxImageModel) Close() error {
	m.input.Destroy()
	m.output.Destroy()
	m.session.Destroy()
	return nil
}
