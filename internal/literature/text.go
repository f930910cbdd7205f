// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"strings"
	"unicode/utf8"
)

// MaxContentChars bounds every piece of retrieved content.
const MaxContentChars = 2000

// Truncate returns the first n characters of s. It counts runes, not bytes,
// so the result is always valid UTF-8 when s is. Invalid byte sequences are
// replaced so downstream model calls never receive a corrupt string.
func Truncate(s string, n int) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// charLen returns the character length of s.
func charLen(s string) int {
	return utf8.RuneCountInString(s)
}
