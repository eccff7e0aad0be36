package latex

import (
	"strings"

	"github.com/dtnitsch/paperstats/models"
)

// SniffSize is the number of leading bytes inspected for LaTeX markers.
const SniffSize = 500

// Extensions are the file suffixes that mark a member as LaTeX without
// looking at its content. Matching is case-sensitive.
var Extensions = []string{".tex", ".sty", ".cls", ".bib"}

var markers = []string{
	`\documentclass`,
	`\begin{document}`,
	`\end{document}`,
	`\usepackage`,
}

// HasExtension reports whether name ends in one of Extensions.
func HasExtension(name string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Sniff reports whether the first SniffSize bytes of content contain a LaTeX marker.
func Sniff(content []byte) bool {
	if len(content) > SniffSize {
		content = content[:SniffSize]
	}
	text := Decode(content)
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// IsLaTeX reports whether a member is LaTeX, by name first and then by content.
func IsLaTeX(name string, prefix []byte) bool {
	return HasExtension(name) || Sniff(prefix)
}

// ShouldAnalyze reports whether a LaTeX member is parsed for content.
// Support files (.sty, .cls, .bib) mark a payload as LaTeX but are not parsed
// unless their content looks like a document.
func ShouldAnalyze(name string, prefix []byte) bool {
	return strings.HasSuffix(name, ".tex") || Sniff(prefix)
}

// Category classifies a single member.
func Category(name string, prefix []byte) models.LatexCategory {
	switch {
	case strings.HasSuffix(name, ".tex"):
		return models.CategoryTex
	case Sniff(prefix):
		return models.CategoryContent
	case HasExtension(name):
		return models.CategoryOther
	default:
		return models.CategoryNone
	}
}

// Stronger returns whichever of a and b ranks higher: tex, then content, then other.
func Stronger(a, b models.LatexCategory) models.LatexCategory {
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func rank(c models.LatexCategory) int {
	switch c {
	case models.CategoryTex:
		return 3
	case models.CategoryContent:
		return 2
	case models.CategoryOther:
		return 1
	default:
		return 0
	}
}
