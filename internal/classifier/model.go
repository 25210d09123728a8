package classifier

import (
	"context"
	"math"

	"predictd/internal/normalize"
)

// TextModel is a loaded handle capable of scoring normalized text.
// Implementations must be safe for concurrent read-only use; handles are
// never mutated after load.
type TextModel interface {
	// Labels returns the fixed, ordered label set bound at load time.
	Labels() []string
	// Score runs inference and returns one raw score per label.
	Score(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// ImageModel is a loaded handle capable of scoring a normalized image
// tensor.
type ImageModel interface {
	Labels() []string
	Score(ctx context.Context, t *normalize.Tensor) ([]float32, error)
	Close() error
}

// CIFAR10Labels is the fixed label set bound to the image classifier.
// Order matters: probabilities are reported in this order.
var CIFAR10Labels = []string{
	"airplane", "automobile", "bird", "cat", "deer",
	"dog", "frog", "horse", "ship", "truck",
}

// softmax maps raw scores to a probability distribution. Numerically
// stable: shifts by the max before exponentiating.
func softmax(scores []float32) []float32 {
	out := make([]float32, len(scores))
	if len(scores) == 0 {
		return out
	}
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	for i, s := range scores {
		e := math.Exp(float64(s - max))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

func argmax(p []float32) int {
	best := 0
	for i, v := range p {
		if v > p[best] {
			best = i
		}
	}
	return best
}
