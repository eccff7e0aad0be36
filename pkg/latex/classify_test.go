package latex

import (
	"strings"
	"testing"

	"github.com/dtnitsch/paperstats/models"
	"github.com/stretchr/testify/assert"
)

func TestIsLaTeX(t *testing.T) {
	tests := []struct {
		name    string
		member  string
		content []byte
		want    bool
	}{
		{"tex extension", "paper/main.tex", nil, true},
		{"bib extension", "refs.bib", []byte("@article{x}"), true},
		{"sty extension", "style.sty", nil, true},
		{"extension is case-sensitive", "MAIN.TEX", []byte("hello"), false},
		{"documentclass marker", "1234", []byte(`\documentclass{article}`), true},
		{"usepackage marker", "notes.txt", []byte(`\usepackage{amsmath}`), true},
		{"end document marker", "tail", []byte(`text \end{document}`), true},
		{"marker beyond sniff window", "late", append([]byte(strings.Repeat("x", SniffSize)), []byte(`\documentclass`)...), false},
		{"invalid bytes before marker", "bin", append([]byte{0xc3, 0x28, 0xfd}, []byte(`\begin{document}`)...), true},
		{"plain data", "image.png", []byte{0x89, 'P', 'N', 'G'}, false},
		{"empty", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLaTeX(tt.member, tt.content))
		})
	}
}

func TestShouldAnalyze(t *testing.T) {
	assert.True(t, ShouldAnalyze("main.tex", nil))
	assert.True(t, ShouldAnalyze("body", []byte(`\documentclass{revtex4}`)))
	assert.False(t, ShouldAnalyze("refs.bib", []byte("@book{a}")))
	assert.False(t, ShouldAnalyze("macros.sty", []byte(`\newcommand{\R}{\mathbb{R}}`)))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		member  string
		content string
		want    models.LatexCategory
	}{
		{"main.tex", "", models.CategoryTex},
		{"main", `\documentclass{article}`, models.CategoryContent},
		{"refs.bib", "@misc{x}", models.CategoryOther},
		{"fig.eps", "%!PS", models.CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.member, []byte(tt.content)))
		})
	}
}

func TestStronger(t *testing.T) {
	assert.Equal(t, models.CategoryTex, Stronger(models.CategoryOther, models.CategoryTex))
	assert.Equal(t, models.CategoryTex, Stronger(models.CategoryTex, models.CategoryContent))
	assert.Equal(t, models.CategoryContent, Stronger(models.CategoryNone, models.CategoryContent))
	assert.Equal(t, models.CategoryOther, Stronger(models.CategoryOther, models.CategoryNone))
	assert.Equal(t, models.CategoryNone, Stronger(models.CategoryNone, models.CategoryNone))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"valid utf8", []byte("héllo"), "héllo"},
		{"invalid bytes replaced", []byte{'a', 0xff, 'b'}, "a\uFFFDb"},
		{"utf8 bom stripped", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, "hi"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}
