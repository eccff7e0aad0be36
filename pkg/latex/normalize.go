// Package latex classifies and parses LaTeX source text.
package latex

import "strings"

// StripComments removes every comment from text. A comment starts at a '%'
// that is not immediately preceded by a backslash and runs to the end of the
// line. The newline itself is kept so line structure survives.
func StripComments(text string) string {
	if strings.IndexByte(text, '%') < 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))

	i := 0
	for i < len(text) {
		c := text[i]
		if c == '%' && (i == 0 || text[i-1] != '\\') {
			nl := strings.IndexByte(text[i:], '\n')
			if nl < 0 {
				break
			}
			i += nl
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String()
}
