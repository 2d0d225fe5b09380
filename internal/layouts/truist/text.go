package truist

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// compile builds an anchor pattern whose \s also matches Unicode space
// separators, so a non-breaking space between words still anchors.
func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(expr, `\s`, `[\s\p{Z}]`))
}

// forward returns the byte index n characters after from, capped at len(text)
func forward(text string, from, n int) int {
	i := from
	for ; n > 0 && i < len(text); n-- {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i
}

// back returns the byte index n characters before to, floored at 0
func back(text string, to, n int) int {
	i := to
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return i
}
