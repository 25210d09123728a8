package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	textModelFile  = "model.onnx"
	textConfigFile = "config.json"
	textVocabFile  = "vocab.json"

	padTokenID = 0
	unkTokenID = 1

	defaultSeqLen = 128
)

// textModelConfig mirrors the config.json written next to the trained
// artifact: the ordered label set and the fixed sequence length.
type textModelConfig struct {
	Labels    []string `json:"labels"`
	MaxSeqLen int      `json:"max_seq_len"`
}

// onnxTextModel wraps an ONNX sequence classifier plus the tokenizer state
// loaded from the artifact directory. Like the image session, the bound
// tensor pair forces serialized Run calls.
type onnxTextModel struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[int64]
	output  *ort.Tensor[float32]
	labels  []string
	vocab   map[string]int64
	seqLen  int
}

// LoadTextModel loads the sentiment classifier from an artifact directory
// containing model.onnx, config.json and vocab.json. A missing or empty
// directory surfaces as an artifact-missing error, which is the trigger for
// the baseline fallback policy; anything else is a hard load failure.
func LoadTextModel(dir string) (TextModel, error) {
	if err := checkDirArtifact(dir); err != nil {
		return nil, err
	}

	var cfg textModelConfig
	if err := readJSONFile(filepath.Join(dir, textConfigFile), &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Labels) == 0 {
		return nil, fmt.Errorf("%s: empty label set", textConfigFile)
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = defaultSeqLen
	}

	vocab := make(map[string]int64)
	if err := readJSONFile(filepath.Join(dir, textVocabFile), &vocab); err != nil {
		return nil, err
	}

	if err := initONNXRuntime(); err != nil {
		return nil, err
	}

	input, err := ort.NewEmptyTensor[int64](ort.NewShape(1, int64(cfg.MaxSeqLen)))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(cfg.Labels))))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(filepath.Join(dir, textModelFile),
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &onnxTextModel{
		session: session,
		input:   input,
		output:  output,
		labels:  cfg.Labels,
		vocab:   vocab,
		seqLen:  cfg.MaxSeqLen,
	}, nil
}

func (m *onnxTextModel) Labels() []string { return m.labels }

func (m *onnxTextModel) Score(ctx context.Context, text string) ([]float32, error) {
	ids := m.tokenize(text)

	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.input.GetData(), ids)
	if err := m.session.Run(); err != nil {
		return nil, err
	}
	scores := make([]float32, len(m.output.GetData()))
	copy(scores, m.output.GetData())
	return scores, nil
}

func (m *onnxTextModel) Close() error {
	m.input.Destroy()
	m.output.Destroy()
	m.session.Destroy()
	return nil
}

// tokenize lowercases, splits on non-alphanumeric runes, and maps words
// through the vocabulary. Unknown words get the UNK id; the sequence is
// padded or truncated to the fixed length.
func (m *onnxTextModel) tokenize(text string) []int64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	ids := make([]int64, m.seqLen)
	for i := range ids {
		ids[i] = padTokenID
	}
	for i, w := range words {
		if i >= m.seqLen {
			break
		}
		if id, ok := m.vocab[w]; ok {
			ids[i] = id
		} else {
			ids[i] = unkTokenID
		}
	}
	return ids
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
