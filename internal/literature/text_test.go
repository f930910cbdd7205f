package literature

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"multibyte counted as one", "αβγδ", 2, "αβ"},
		{"empty", "", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestTruncate_NeverSplitsRunes(t *testing.T) {
	s := strings.Repeat("é", MaxContentChars+500)
	got := Truncate(s, MaxContentChars)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxContentChars, utf8.RuneCountInString(got))
}

func TestTruncate_RepairsInvalidUTF8(t *testing.T) {
	got := Truncate("ab\xffcd", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ab\uFFFDcd", got)
}
