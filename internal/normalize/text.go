package normalize

import (
	"errors"
	"strings"
)

// MaxTextRunes bounds the text passed to inference. Longer inputs are
// truncated silently; truncation is a latency/memory policy, not an error.
const MaxTextRunes = 10000

// ErrEmptyInput indicates text that is empty after trimming whitespace.
var ErrEmptyInput = errors.New("text is empty")

// Text canonicalizes raw request text for inference: trims surrounding
// whitespace, rejects empty input, and truncates to MaxTextRunes.
func Text(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyInput
	}
	if r := []rune(s); len(r) > MaxTextRunes {
		s = string(r[:MaxTextRunes])
	}
	return s, nil
}
