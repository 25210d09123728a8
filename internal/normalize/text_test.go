package normalize

import (
	"errors"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{name: "plain", in: "I love this!", want: "I love this!"},
		{name: "trimmed", in: "  hello \n", want: "hello"},
		{name: "empty", in: "", err: ErrEmptyInput},
		{name: "whitespace only", in: " \t\n ", err: ErrEmptyInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Text(c.in)
			if !errors.Is(err, c.err) {
				t.Fatalf("err=%v, want %v", err, c.err)
			}
			if err == nil && got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestTextTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxTextRunes+500)
	got, err := Text(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len([]rune(got)) != MaxTextRunes {
		t.Fatalf("len=%d, want %d", len([]rune(got)), MaxTextRunes)
	}
}

func TestTextTruncatesRuneSafe(t *testing.T) {
	long := strings.Repeat("é", MaxTextRunes+1)
	got, err := Text(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len([]rune(got)); n != MaxTextRunes {
		t.Fatalf("rune len=%d, want %d", n, MaxTextRunes)
	}
	if strings.ContainsRune(got, '�') {
		t.Fatalf("truncation split a rune")
	}
}
