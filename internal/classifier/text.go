package classifier

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"predictd/internal/normalize"
	"predictd/pkg/types"
)

// TextClassifier runs the sentiment prediction lifecycle: normalize,
// acquire the cached model (loading it on first use), infer, and map raw
// scores to a label plus confidence.
type TextClassifier struct {
	cache *Cache[TextModel]
	log   zerolog.Logger
}

func NewTextClassifier(cache *Cache[TextModel], log zerolog.Logger) *TextClassifier {
	return &TextClassifier{cache: cache, log: log}
}

// Predict classifies raw request text. Normalization failures pass through
// untyped so the HTTP layer can map them; model and inference failures come
// back as the typed taxonomy.
func (c *TextClassifier) Predict(ctx context.Context, raw string) (types.TextPrediction, error) {
	var zero types.TextPrediction

	text, err := normalize.Text(raw)
	if err != nil {
		return zero, err
	}

	m, err := c.cache.Get(ctx)
	if err != nil {
		return zero, err
	}

	scores, err := m.Score(ctx, text)
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
	return types.TextPrediction{Sentiment: labels[top], Confidence: probs[top]}, nil
}

// Ready reports whether the model handle is live.
func (c *TextClassifier) Ready() bool { return c.cache.Ready() }
