package stats

import (
	"testing"

	"github.com/dtnitsch/paperstats/models"
	"github.com/stretchr/testify/assert"
)

func source(name string, figs []string, tables, equations int, format models.ColumnFormat, found, missing []string) models.SourceFileReport {
	return models.SourceFileReport{
		Filename: name,
		Analysis: models.ContentAnalysis{
			Figures:      figs,
			Tables:       tables,
			Equations:    equations,
			ColumnFormat: format,
		},
		FoundFigures:   found,
		MissingFigures: missing,
	}
}

func TestFoldPayload(t *testing.T) {
	files := []models.SourceFileReport{
		source("a.tex", []string{"f1", "f2"}, 1, 0, models.SingleColumn, []string{"f1.png"}, []string{"f2"}),
		source("b.tex", []string{"f1"}, 0, 3, models.MultiColumn, []string{"f1.png"}, nil),
	}

	p := FoldPayload("paper.gz", files)

	assert.Equal(t, "paper.gz", p.File)
	assert.True(t, p.HasFigures)
	assert.True(t, p.HasTables)
	assert.True(t, p.HasEquations)
	assert.True(t, p.HasMissingFigures)
	assert.True(t, p.HasSingleColumn)
	assert.True(t, p.HasMultiColumn)
	assert.Equal(t, 3, p.Figures)
	assert.Equal(t, 1, p.Tables)
	assert.Equal(t, 3, p.Equations)
	assert.Equal(t, 2, p.FoundFigures)
	assert.Equal(t, 1, p.MissingFigures)
	assert.Len(t, p.Files, 2)
}

func TestFoldPayload_NoFiles(t *testing.T) {
	p := FoldPayload("empty.gz", nil)

	assert.False(t, p.HasContent())
	assert.False(t, p.HasSingleColumn)
	assert.NotNil(t, p.Files)
}

func TestFoldArchive_FigureBuckets(t *testing.T) {
	tests := []struct {
		name            string
		file            models.SourceFileReport
		wantWithFigures int
		wantMissing     int
		wantAllPresent  int
	}{
		{
			name:            "all present",
			file:            source("a.tex", []string{"x"}, 0, 0, models.SingleColumn, []string{"x.png"}, nil),
			wantWithFigures: 1,
			wantAllPresent:  1,
		},
		{
			name:            "some missing",
			file:            source("a.tex", []string{"x", "y"}, 0, 0, models.SingleColumn, []string{"x.png"}, []string{"y"}),
			wantWithFigures: 1,
			wantMissing:     1,
		},
		{
			name: "no figures",
			file: source("a.tex", nil, 2, 0, models.SingleColumn, nil, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &models.ArchiveReport{}
			p := FoldPayload("p.gz", []models.SourceFileReport{tt.file})
			p.ContainsLatex = true
			FoldArchive(report, p)

			assert.Equal(t, tt.wantWithFigures, report.Stats.GzFilesWithFigures)
			assert.Equal(t, tt.wantMissing, report.Stats.GzFilesMissingFigures)
			assert.Equal(t, tt.wantAllPresent, report.Stats.GzFilesAllFiguresPresent)
			assert.LessOrEqual(t, report.Stats.GzFilesMissingFigures+report.Stats.GzFilesAllFiguresPresent, report.Stats.GzFilesWithFigures)
		})
	}
}

func TestFoldArchive_MixedColumnsCountBoth(t *testing.T) {
	report := &models.ArchiveReport{}
	p := FoldPayload("p.gz", []models.SourceFileReport{
		source("one.tex", nil, 0, 0, models.SingleColumn, nil, nil),
		source("two.tex", nil, 0, 0, models.MultiColumn, nil, nil),
	})
	p.ContainsLatex = true
	p.LatexCategory = models.CategoryTex

	FoldArchive(report, p)

	assert.Equal(t, 1, report.Stats.GzFilesWithSingleColumn)
	assert.Equal(t, 1, report.Stats.GzFilesWithMultiColumn)
	assert.Equal(t, 1, report.LatexTypes.Tex)
	assert.Len(t, report.DetailedAnalysis, 1)
}

func TestFoldArchive_IgnoresNonLatex(t *testing.T) {
	report := &models.ArchiveReport{}
	p := FoldPayload("p.gz", []models.SourceFileReport{
		source("a.tex", []string{"x"}, 1, 1, models.SingleColumn, nil, []string{"x"}),
	})

	FoldArchive(report, p)

	assert.Equal(t, models.ArchiveCounters{}, report.Stats)
	assert.Empty(t, report.DetailedAnalysis)
}

func TestFoldArchive_LatexWithoutParsedFiles(t *testing.T) {
	report := &models.ArchiveReport{}
	p := FoldPayload("bib-only.gz", nil)
	p.ContainsLatex = true
	p.LatexCategory = models.CategoryOther

	FoldArchive(report, p)

	assert.Equal(t, 1, report.LatexTypes.Other)
	assert.Empty(t, report.DetailedAnalysis)
	assert.Zero(t, report.Stats.GzFilesWithSingleColumn)
}
