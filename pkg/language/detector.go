// Package language guesses the natural language of LaTeX prose.
package language

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/paperstats/pkg/latex"
)

// Unknown is returned when no language could be determined.
const Unknown = "unknown"

// DefaultLanguages are used when none are configured.
var DefaultLanguages = []string{"english", "german", "french", "spanish", "italian", "portuguese", "russian", "chinese", "japanese"}

// maxSample bounds the prose handed to the detector.
const maxSample = 4000

var (
	envName  = regexp.MustCompile(`\\(begin|end)\{[^}]*\}`)
	mathEnv  = regexp.MustCompile(`(?s)\$\$.*?\$\$|\$[^$]*\$|\\\[.*?\\\]`)
	command  = regexp.MustCompile(`\\[a-zA-Z@]+\*?(\[[^\]]*\])?`)
	noise    = regexp.MustCompile(`[{}\[\]~^_&#]`)
	spaceRun = regexp.MustCompile(`\s+`)
)

// Detector wraps a lingua detector restricted to a fixed language set.
// It is safe for concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector for the named languages, e.g. "english".
// At least two languages are required.
func NewDetector(names []string) (*Detector, error) {
	if len(names) == 0 {
		names = DefaultLanguages
	}

	langs := make([]lingua.Language, 0, len(names))
	for _, name := range names {
		lang, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown language %q", name)
		}
		langs = append(langs, lang)
	}
	if len(langs) < 2 {
		return nil, fmt.Errorf("at least two languages are required, got %d", len(langs))
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).Build(),
	}, nil
}

// Detect returns the lowercase ISO 639-1 code of the dominant language of
// text, or Unknown.
func (d *Detector) Detect(text string) string {
	prose := Prose(text)
	if prose == "" {
		return Unknown
	}
	lang, ok := d.detector.DetectLanguageOf(prose)
	if !ok {
		return Unknown
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// Prose strips comments, math and control sequences from LaTeX source,
// leaving the running text.
func Prose(text string) string {
	text = latex.StripComments(text)
	text = envName.ReplaceAllString(text, " ")
	text = mathEnv.ReplaceAllString(text, " ")
	text = command.ReplaceAllString(text, " ")
	text = noise.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
	if len(text) > maxSample {
		n := maxSample
		for n > 0 && !utf8.RuneStart(text[n]) {
			n--
		}
		text = text[:n]
	}
	return text
}

func lookup(name string) (lingua.Language, bool) {
	name = strings.TrimSpace(name)
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.String(), name) || strings.EqualFold(lang.IsoCode639_1().String(), name) {
			return lang, true
		}
	}
	return lingua.Unknown, false
}
