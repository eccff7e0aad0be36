package models

// ColumnFormat is the page layout a LaTeX source declares.
type ColumnFormat string

const (
	SingleColumn ColumnFormat = "single-column"
	MultiColumn  ColumnFormat = "multi-column"
)

// LatexCategory describes how a payload was recognised as LaTeX.
//   - tex: at least one member ends in .tex
//   - content: no .tex member, but content sniffing found LaTeX markers
//   - other: only .sty/.cls/.bib members
type LatexCategory string

const (
	CategoryNone    LatexCategory = ""
	CategoryTex     LatexCategory = "tex"
	CategoryContent LatexCategory = "content"
	CategoryOther   LatexCategory = "other"
)

// ContentAnalysis is the parse result for a single LaTeX source file.
// Figures is a sorted set of raw reference strings. Tables and Equations are
// occurrence counts.
type ContentAnalysis struct {
	Figures      []string     `json:"figures" yaml:"figures"`
	Tables       int          `json:"tables" yaml:"tables"`
	Equations    int          `json:"equations" yaml:"equations"`
	ColumnFormat ColumnFormat `json:"column_format" yaml:"column_format"`
}

// FigureResolution holds the outcome of matching figure references against
// the member names of the enclosing archive. Found holds member names, Missing
// holds the original reference strings.
type FigureResolution struct {
	Found   []string `json:"found" yaml:"found"`
	Missing []string `json:"missing" yaml:"missing"`
}

// SourceFileReport is one parsed LaTeX file inside a payload.
type SourceFileReport struct {
	Filename       string          `json:"filename" yaml:"filename"`
	Analysis       ContentAnalysis `json:"analysis" yaml:"analysis"`
	FoundFigures   []string        `json:"found_figures" yaml:"found_figures"`
	MissingFigures []string        `json:"missing_figures" yaml:"missing_figures"`
	Language       string          `json:"language,omitempty" yaml:"language,omitempty"`
}

// PayloadReport is the rollup of every source file inside one GZIP member.
type PayloadReport struct {
	File          string        `json:"file" yaml:"file"`
	Kind          string        `json:"kind" yaml:"kind"` // nested_tar, flat_file
	ContainsLatex bool          `json:"contains_latex" yaml:"contains_latex"`
	LatexCategory LatexCategory `json:"latex_category,omitempty" yaml:"latex_category,omitempty"`

	HasFigures        bool `json:"has_figures" yaml:"has_figures"`
	HasTables         bool `json:"has_tables" yaml:"has_tables"`
	HasEquations      bool `json:"has_equations" yaml:"has_equations"`
	HasMissingFigures bool `json:"has_missing_figures" yaml:"has_missing_figures"`
	HasSingleColumn   bool `json:"has_single_column" yaml:"has_single_column"`
	HasMultiColumn    bool `json:"has_multi_column" yaml:"has_multi_column"`

	Figures        int `json:"figures" yaml:"figures"`
	Tables         int `json:"tables" yaml:"tables"`
	Equations      int `json:"equations" yaml:"equations"`
	FoundFigures   int `json:"found_figures" yaml:"found_figures"`
	MissingFigures int `json:"missing_figures" yaml:"missing_figures"`

	Files []SourceFileReport `json:"files" yaml:"files"`
}

// HasContent reports whether the payload referenced any figure, table or equation.
func (p PayloadReport) HasContent() bool {
	return p.HasFigures || p.HasTables || p.HasEquations
}
