package classifier

import (
	"context"
	"strings"
	"unicode"
)

// baselineModel is the generic sentiment model the fallback policy
// substitutes when no trained artifact exists. It is a small lexicon
// scorer embedded in the binary, so the fallback itself can never fail to
// load and the service keeps accepting traffic in degraded mode.
type baselineModel struct{}

// NewBaselineTextModel returns the embedded baseline sentiment model.
func NewBaselineTextModel() TextModel { return baselineModel{} }

var baselineLabels = []string{"NEGATIVE", "POSITIVE"}

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "awesome": {},
	"love": {}, "loved": {}, "like": {}, "liked": {}, "best": {},
	"wonderful": {}, "fantastic": {}, "happy": {}, "nice": {}, "perfect": {},
	"brilliant": {}, "enjoy": {}, "enjoyed": {}, "superb": {}, "delightful": {},
	"favorite": {}, "beautiful": {}, "recommend": {}, "impressive": {},
	"pleased": {}, "fun": {}, "cool": {}, "solid": {}, "works": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "worst": {},
	"hate": {}, "hated": {}, "dislike": {}, "disliked": {}, "poor": {},
	"disappointing": {}, "disappointed": {}, "broken": {}, "useless": {},
	"boring": {}, "sad": {}, "angry": {}, "annoying": {}, "ugly": {},
	"slow": {}, "buggy": {}, "waste": {}, "fail": {}, "failed": {},
	"mediocre": {}, "wrong": {}, "problem": {}, "refund": {},
}

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "dont": {}, "didnt": {},
	"isnt": {}, "wasnt": {}, "cant": {}, "wont": {},
}

func (baselineModel) Labels() []string { return baselineLabels }

// Score counts lexicon hits and returns one raw score per label, flipping
// the polarity of a word directly preceded by a negator. Raw counts feed
// the same softmax mapping as a real model's logits.
func (baselineModel) Score(ctx context.Context, text string) ([]float32, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var pos, neg float32
	negated := false
	for _, w := range words {
		if _, ok := negators[w]; ok {
			negated = true
			continue
		}
		if _, ok := positiveWords[w]; ok {
			if negated {
				neg++
			} else {
				pos++
			}
		} else if _, ok := negativeWords[w]; ok {
			if negated {
				pos++
			} else {
				neg++
			}
		}
		negated = false
	}

	return []float32{neg, pos}, nil
}

func (baselineModel) Close() error { return nil }
