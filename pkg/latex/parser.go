package latex

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dtnitsch/paperstats/models"
)

// Pattern is one entry of a declarative match table. Group selects the
// capture group holding the value of interest; 0 means the whole match.
type Pattern struct {
	Name  string
	Expr  *regexp.Regexp
	Group int
}

func pattern(name, expr string, group int) Pattern {
	return Pattern{Name: name, Expr: regexp.MustCompile(expr), Group: group}
}

// FigurePatterns capture the file argument of every supported figure macro,
// both free-standing and inside a figure environment.
var FigurePatterns = []Pattern{
	pattern("includegraphics", `\\includegraphics(?:\[[^\]]*\])?\{([^}]+)\}`, 1),
	pattern("psfig", `\\psfig\{file=([^,]+),`, 1),
	pattern("epsfig", `\\epsfig\{file=([^,]+),`, 1),
	pattern("epsfbox", `\\epsfbox\{([^}]+)\}`, 1),
	pattern("epsfysize", `\\epsfysize=[^ ]+ \\epsfbox\{([^}]+)\}`, 1),
	pattern("figure/includegraphics", `(?s)\\begin\{figure\}.*?\\includegraphics(?:\[[^\]]*\])?\{([^}]+)\}`, 1),
	pattern("figure/psfig", `(?s)\\begin\{figure\}.*?\\psfig\{file=([^,]+),`, 1),
	pattern("figure/epsfig", `(?s)\\begin\{figure\}.*?\\epsfig\{file=([^,]+),`, 1),
	pattern("figure/epsfbox", `(?s)\\begin\{figure\}.*?\\epsfbox\{([^}]+)\}`, 1),
	pattern("figure/epsfysize", `(?s)\\begin\{figure\}.*?\\epsfysize=[^ ]+ \\epsfbox\{([^}]+)\}`, 1),
}

// TablePattern counts table environments.
var TablePattern = pattern("table", `\\begin\{table\}`, 0)

// EquationPatterns are display-math openers. Each is counted independently.
var EquationPatterns = []Pattern{
	pattern("equation", `\\begin\{equation\}`, 0),
	pattern("equation*", `\\begin\{equation\*\}`, 0),
	pattern("align", `\\begin\{align\}`, 0),
	pattern("align*", `\\begin\{align\*\}`, 0),
	pattern("multline", `\\begin\{multline\}`, 0),
	pattern("multline*", `\\begin\{multline\*\}`, 0),
	pattern("gather", `\\begin\{gather\}`, 0),
	pattern("gather*", `\\begin\{gather\*\}`, 0),
	pattern("display", `\\\[`, 0),
	pattern("dollars", `\$\$`, 0),
	pattern("cases", `\\begin\{cases\}`, 0),
	pattern("matrix", `\\begin\{matrix\}`, 0),
	pattern("bmatrix", `\\begin\{bmatrix\}`, 0),
	pattern("pmatrix", `\\begin\{pmatrix\}`, 0),
	pattern("vmatrix", `\\begin\{vmatrix\}`, 0),
	pattern("Bmatrix", `\\begin\{Bmatrix\}`, 0),
	pattern("smallmatrix", `\\begin\{smallmatrix\}`, 0),
	pattern("array", `\\begin\{array\}`, 0),
	pattern("boxed", `\\boxed\{`, 0),
}

var multiColumnMarkers = []string{`\documentclass[twocolumn]`, `\twocolumn`}

// Analyze parses one LaTeX source. Comments are removed before counting.
// Malformed input yields partial or zero results, never an error.
func Analyze(text string) models.ContentAnalysis {
	clean := StripComments(text)
	return models.ContentAnalysis{
		Figures:      ExtractFigures(clean),
		Tables:       CountTables(clean),
		Equations:    CountEquations(clean),
		ColumnFormat: DetectColumnFormat(text),
	}
}

// ExtractFigures returns the sorted set of figure references in text.
// References are trimmed; blank ones are dropped.
func ExtractFigures(text string) []string {
	seen := make(map[string]struct{})
	for _, p := range FigurePatterns {
		for _, ref := range p.Captures(text) {
			ref = strings.TrimSpace(ref)
			if ref == "" {
				continue
			}
			seen[ref] = struct{}{}
		}
	}

	figures := make([]string, 0, len(seen))
	for ref := range seen {
		figures = append(figures, ref)
	}
	sort.Strings(figures)
	return figures
}

// CountTables counts table environment openers.
func CountTables(text string) int {
	return TablePattern.Count(text)
}

// CountEquations sums the occurrences of every equation pattern.
func CountEquations(text string) int {
	total := 0
	for _, p := range EquationPatterns {
		total += p.Count(text)
	}
	return total
}

// DetectColumnFormat reports multi-column when a two-column marker is present.
func DetectColumnFormat(text string) models.ColumnFormat {
	for _, m := range multiColumnMarkers {
		if strings.Contains(text, m) {
			return models.MultiColumn
		}
	}
	return models.SingleColumn
}

// Captures returns the selected group of every non-overlapping match.
func (p Pattern) Captures(text string) []string {
	matches := p.Expr.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if p.Group < len(m) {
			out = append(out, m[p.Group])
		}
	}
	return out
}

// Count returns the number of non-overlapping matches.
func (p Pattern) Count(text string) int {
	return len(p.Expr.FindAllStringIndex(text, -1))
}
