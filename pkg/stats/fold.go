// Package stats folds per-file analyses into payload, archive and corpus totals.
package stats

import (
	"github.com/dtnitsch/paperstats/models"
)

// FoldPayload rolls the parsed files of one payload into a PayloadReport.
// Figure counts are per-file set sizes, so a figure referenced by two files
// counts twice. Kind, ContainsLatex and LatexCategory are left to the caller.
func FoldPayload(file string, files []models.SourceFileReport) models.PayloadReport {
	p := models.PayloadReport{File: file, Files: files}
	if p.Files == nil {
		p.Files = []models.SourceFileReport{}
	}

	for _, f := range files {
		if n := len(f.Analysis.Figures); n > 0 {
			p.HasFigures = true
			p.Figures += n
		}
		if f.Analysis.Tables > 0 {
			p.HasTables = true
			p.Tables += f.Analysis.Tables
		}
		if f.Analysis.Equations > 0 {
			p.HasEquations = true
			p.Equations += f.Analysis.Equations
		}

		if f.Analysis.ColumnFormat == models.MultiColumn {
			p.HasMultiColumn = true
		} else {
			p.HasSingleColumn = true
		}

		p.FoundFigures += len(f.FoundFigures)
		p.MissingFigures += len(f.MissingFigures)
		if len(f.MissingFigures) > 0 {
			p.HasMissingFigures = true
		}
	}
	return p
}

// FoldArchive adds a payload to an archive report. Payloads without LaTeX
// are ignored. A payload with figures lands in exactly one of the
// missing/all-present buckets; the column counters are independent.
func FoldArchive(report *models.ArchiveReport, p models.PayloadReport) {
	if !p.ContainsLatex {
		return
	}

	s := &report.Stats
	report.LatexTypes.Record(p.LatexCategory)

	s.TotalFigures += p.Figures
	s.TotalTables += p.Tables
	s.TotalEquations += p.Equations
	s.TotalFoundFigures += p.FoundFigures
	s.TotalMissingFigures += p.MissingFigures

	if p.HasFigures {
		s.GzFilesWithFigures++
		if p.HasMissingFigures {
			s.GzFilesMissingFigures++
		} else {
			s.GzFilesAllFiguresPresent++
		}
	}
	if p.HasTables {
		s.GzFilesWithTables++
	}
	if p.HasEquations {
		s.GzFilesWithEquations++
	}
	if p.HasSingleColumn {
		s.GzFilesWithSingleColumn++
	}
	if p.HasMultiColumn {
		s.GzFilesWithMultiColumn++
	}

	if len(p.Files) > 0 {
		report.DetailedAnalysis = append(report.DetailedAnalysis, p)
	}
}
