package classifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"predictd/internal/normalize"
	"predictd/pkg/types"
)

// ImageClassifier runs the image prediction lifecycle. Unlike the
// sentiment variant it returns the full probability vector, near-zero
// entries included, so callers can inspect the whole distribution.
type ImageClassifier struct {
	cache *Cache[ImageModel]
	log   zerolog.Logger
}

func NewImageClassifier(cache *Cache[ImageModel], log zerolog.Logger) *ImageClassifier {
	return &ImageClassifier{cache: cache, log: log}
}

// Predict classifies raw uploaded image bytes.
func (c *ImageClassifier) Predict(ctx context.Context, raw []byte) (types.ImagePrediction, error) {
	var zero types.ImagePrediction

	tensor, err := normalize.Image(raw)
	if err != nil {
		return zero, err
	}

	m, err := c.cache.Get(ctx)
	if err != nil {
		return zero, err
	}

	scores, err := m.Score(ctx, tensor)
	if err != nil {
		return zero, ErrInference(err)
	}
	labels := m.Labels()
	if len(scores) != len(labels) {
		return zero, ErrInference(fmt.Errorf("got %d scores for %d labels", len(scores), len(labels)))
	}

	probs := softmax(scores)
	top := argmax(probs)
	predictionsTotal.WithLabelValues(labels[top]).Inc()
	return types.ImagePrediction{ClassLabel: labels[top], Probabilities: probs}, nil
}

// Ensure loads the model eagerly; the image variant calls this at startup
// and treats failure as fatal.
func (c *ImageClassifier) Ensure(ctx context.Context) error { return c.cache.Ensure(ctx) }

// Ready reports whether the model handle is live.
func (c *ImageClassifier) Ready() bool { return c.cache.Ready() }
