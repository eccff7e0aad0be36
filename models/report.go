package models

// ArchiveCounters are the per-archive statistics. The JSON keys are consumed
// by the report rollup scripts and must stay stable.
type ArchiveCounters struct {
	TotalFiles               int `json:"total_files" yaml:"total_files"`
	TotalGzFiles             int `json:"total_gz_files" yaml:"total_gz_files"`
	GzFilesWithFigures       int `json:"gz_files_with_figures" yaml:"gz_files_with_figures"`
	GzFilesWithTables        int `json:"gz_files_with_tables" yaml:"gz_files_with_tables"`
	GzFilesWithEquations     int `json:"gz_files_with_equations" yaml:"gz_files_with_equations"`
	GzFilesWithSingleColumn  int `json:"gz_files_with_single_column" yaml:"gz_files_with_single_column"`
	GzFilesWithMultiColumn   int `json:"gz_files_with_multi_column" yaml:"gz_files_with_multi_column"`
	TotalFigures             int `json:"total_figures" yaml:"total_figures"`
	TotalTables              int `json:"total_tables" yaml:"total_tables"`
	TotalEquations           int `json:"total_equations" yaml:"total_equations"`
	TotalMissingFigures      int `json:"total_missing_figures" yaml:"total_missing_figures"`
	TotalFoundFigures        int `json:"total_found_figures" yaml:"total_found_figures"`
	GzFilesMissingFigures    int `json:"gz_files_missing_figures" yaml:"gz_files_missing_figures"`
	GzFilesAllFiguresPresent int `json:"gz_files_all_figures_present" yaml:"gz_files_all_figures_present"`
}

// Add sums other into c field by field.
func (c *ArchiveCounters) Add(other ArchiveCounters) {
	c.TotalFiles += other.TotalFiles
	c.TotalGzFiles += other.TotalGzFiles
	c.GzFilesWithFigures += other.GzFilesWithFigures
	c.GzFilesWithTables += other.GzFilesWithTables
	c.GzFilesWithEquations += other.GzFilesWithEquations
	c.GzFilesWithSingleColumn += other.GzFilesWithSingleColumn
	c.GzFilesWithMultiColumn += other.GzFilesWithMultiColumn
	c.TotalFigures += other.TotalFigures
	c.TotalTables += other.TotalTables
	c.TotalEquations += other.TotalEquations
	c.TotalMissingFigures += other.TotalMissingFigures
	c.TotalFoundFigures += other.TotalFoundFigures
	c.GzFilesMissingFigures += other.GzFilesMissingFigures
	c.GzFilesAllFiguresPresent += other.GzFilesAllFiguresPresent
}

// CategoryCounts counts LaTeX-bearing payloads by how they were recognised.
type CategoryCounts struct {
	Tex     int `json:"tex" yaml:"tex"`
	Content int `json:"content" yaml:"content"`
	Other   int `json:"other" yaml:"other"`
}

// Record increments the bucket for category. CategoryNone is ignored.
func (c *CategoryCounts) Record(category LatexCategory) {
	switch category {
	case CategoryTex:
		c.Tex++
	case CategoryContent:
		c.Content++
	case CategoryOther:
		c.Other++
	}
}

// Add sums other into c.
func (c *CategoryCounts) Add(other CategoryCounts) {
	c.Tex += other.Tex
	c.Content += other.Content
	c.Other += other.Other
}

// MemberFailure records a member that could not be read, decompressed or decoded.
type MemberFailure struct {
	Member    string `json:"member" yaml:"member"`
	ErrorType string `json:"error_type" yaml:"error_type"` // read_error, decompress_error, nested_tar_error, size_limit
	Error     string `json:"error" yaml:"error"`
}

// ArchiveReport is the self-contained record emitted for one processed TAR.
type ArchiveReport struct {
	TarFile               string          `json:"tar_file" yaml:"tar_file"`
	Stats                 ArchiveCounters `json:"stats" yaml:"stats"`
	LatexTypes            CategoryCounts  `json:"latex_types" yaml:"latex_types"`
	DetailedAnalysis      []PayloadReport `json:"detailed_analysis" yaml:"detailed_analysis"`
	FailedMembers         []MemberFailure `json:"failed_members,omitempty" yaml:"failed_members,omitempty"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds" yaml:"processing_time_seconds"`
}

// CorpusReport is the corpus-wide rollup of every archive in a run.
type CorpusReport struct {
	GeneratedAt         string          `json:"generated_at" yaml:"generated_at"`
	ArchivesProcessed   int             `json:"archives_processed" yaml:"archives_processed"`
	ArchivesFailed      int             `json:"archives_failed" yaml:"archives_failed"`
	FailedArchives      []string        `json:"failed_archives,omitempty" yaml:"failed_archives,omitempty"`
	MembersFailed       int             `json:"members_failed" yaml:"members_failed"`
	FailedMembers       []string        `json:"failed_members,omitempty" yaml:"failed_members,omitempty"`
	Stats               ArchiveCounters `json:"stats" yaml:"stats"`
	LatexTypes          CategoryCounts  `json:"latex_types" yaml:"latex_types"`
	PayloadsWithContent int             `json:"payloads_with_content" yaml:"payloads_with_content"`
	Languages           map[string]int  `json:"languages,omitempty" yaml:"languages,omitempty"`
	TotalTimeSeconds    float64         `json:"total_time_seconds" yaml:"total_time_seconds"`
}
