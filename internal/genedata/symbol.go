package genedata

import (
	"strings"
	"unicode"
)

// ExtractGeneSymbol returns the gene symbol from a positional gene string:
// the first token before whitespace or an opening parenthesis.
//
//	"CTNND2 (delta catenin-2)" -> "CTNND2"
//	"WI2-2373I1.2"             -> "WI2-2373I1.2"
func ExtractGeneSymbol(positional string) string {
	s := strings.TrimSpace(positional)
	if i := strings.IndexFunc(s, func(r rune) bool { return r == '(' || unicode.IsSpace(r) }); i >= 0 {
		s = s[:i]
	}
	return s
}
