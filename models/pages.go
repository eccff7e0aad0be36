package models

// PageCount is one PDF member with its page count.
type PageCount struct {
	TarFile   string `json:"tar_file" yaml:"tar_file"`
	FilePath  string `json:"filepath" yaml:"filepath"`
	PageCount int    `json:"page_count" yaml:"page_count"`
}

// PageStats summarises the page counts of one archive or a whole corpus.
// Fractional values are rounded to two decimals.
type PageStats struct {
	TotalFiles   int     `json:"total_files" yaml:"total_files"`
	TotalPages   int     `json:"total_pages" yaml:"total_pages"`
	AveragePages float64 `json:"average_pages" yaml:"average_pages"`
	MedianPages  float64 `json:"median_pages" yaml:"median_pages"`
	StdDevPages  float64 `json:"std_dev_pages" yaml:"std_dev_pages"`
	MinPages     int     `json:"min_pages" yaml:"min_pages"`
	MaxPages     int     `json:"max_pages" yaml:"max_pages"`
}

// ArchivePages is the page-count result for one PDF archive.
type ArchivePages struct {
	TarFile       string          `json:"tar_file" yaml:"tar_file"`
	Files         []PageCount     `json:"files" yaml:"files"`
	Stats         PageStats       `json:"stats" yaml:"stats"`
	FailedMembers []MemberFailure `json:"failed_members,omitempty" yaml:"failed_members,omitempty"`
}
