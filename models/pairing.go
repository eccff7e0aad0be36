package models

// Mapping statuses for a paper present on only one side of a pair.
const (
	StatusMissingGz  = "Missing .gz"
	StatusMissingPDF = "Missing .pdf"
)

// MappingEntry is a paper whose source or PDF counterpart is absent.
type MappingEntry struct {
	Path   string `json:"path" yaml:"path"`
	Status string `json:"status" yaml:"status"`
}

// PairResult compares the members of one source archive with its PDF archive.
type PairResult struct {
	TarPair               string   `json:"tar_pair" yaml:"tar_pair"`
	SourceTar             string   `json:"source_tar" yaml:"source_tar"`
	PDFTar                string   `json:"pdf_tar" yaml:"pdf_tar"`
	TotalGz               int      `json:"total_gz" yaml:"total_gz"`
	TotalPDF              int      `json:"total_pdf" yaml:"total_pdf"`
	TotalMapped           int      `json:"total_mapped_files" yaml:"total_mapped_files"`
	MissingGz             int      `json:"missing_gz" yaml:"missing_gz"`
	MissingPDF            int      `json:"missing_pdf" yaml:"missing_pdf"`
	MappedFiles           []string `json:"mapped_files" yaml:"mapped_files"`
	ProcessingTimeSeconds float64  `json:"processing_time_seconds" yaml:"processing_time_seconds"`
}

// PairSummary totals every pair of a comparison run.
type PairSummary struct {
	TotalPairs      int      `json:"total_pairs" yaml:"total_pairs"`
	TotalGz         int      `json:"total_gz" yaml:"total_gz"`
	TotalPDF        int      `json:"total_pdf" yaml:"total_pdf"`
	TotalMapped     int      `json:"total_mapped" yaml:"total_mapped"`
	TotalMissingGz  int      `json:"total_missing_gz" yaml:"total_missing_gz"`
	TotalMissingPDF int      `json:"total_missing_pdf" yaml:"total_missing_pdf"`
	UnpairedFiles   []string `json:"unpaired_files" yaml:"unpaired_files"`
}

// Add folds one pair into the summary.
func (s *PairSummary) Add(r PairResult) {
	s.TotalPairs++
	s.TotalGz += r.TotalGz
	s.TotalPDF += r.TotalPDF
	s.TotalMapped += r.TotalMapped
	s.TotalMissingGz += r.MissingGz
	s.TotalMissingPDF += r.MissingPDF
}
