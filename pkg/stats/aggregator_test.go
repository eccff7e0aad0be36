package stats

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dtnitsch/paperstats/models"
	"github.com/stretchr/testify/assert"
)

func archive(name string, gz int, withTables bool) *models.ArchiveReport {
	r := &models.ArchiveReport{TarFile: name}
	r.Stats.TotalFiles = gz
	r.Stats.TotalGzFiles = gz
	if withTables {
		r.Stats.GzFilesWithTables = 1
		r.Stats.TotalTables = 2
		r.DetailedAnalysis = []models.PayloadReport{{File: "p.gz", ContainsLatex: true, HasTables: true, Tables: 2}}
		r.LatexTypes.Tex = 1
	}
	return r
}

func TestAggregator_Accumulate(t *testing.T) {
	a := NewAggregator()
	a.Accumulate(archive("/data/a.tar", 3, true))
	a.Accumulate(archive("/data/b.tar", 2, false))
	a.MarkFailed("/data/c.tar")

	withFailure := archive("/data/d.tar", 1, false)
	withFailure.FailedMembers = []models.MemberFailure{{Member: "bad.gz", ErrorType: models.FailureDecompress, Error: "boom"}}
	a.Accumulate(withFailure)
	a.Accumulate(nil)

	got := a.Finalize()

	assert.Equal(t, 3, got.ArchivesProcessed)
	assert.Equal(t, 1, got.ArchivesFailed)
	assert.Equal(t, []string{"/data/c.tar"}, got.FailedArchives)
	assert.Equal(t, 1, got.MembersFailed)
	assert.Equal(t, []string{"/data/d.tar:bad.gz"}, got.FailedMembers)
	assert.Equal(t, 6, got.Stats.TotalGzFiles)
	assert.Equal(t, 2, got.Stats.TotalTables)
	assert.Equal(t, 1, got.LatexTypes.Tex)
	assert.Equal(t, 1, got.PayloadsWithContent)
	assert.NotEmpty(t, got.GeneratedAt)
}

func TestAggregator_ContentPayloadsAreDistinct(t *testing.T) {
	a := NewAggregator()
	// Same payload name in two archives counts twice; the same archive twice counts once.
	a.Accumulate(archive("/x.tar", 1, true))
	a.Accumulate(archive("/y.tar", 1, true))
	a.Accumulate(archive("/x.tar", 1, true))

	assert.Equal(t, 2, a.Finalize().PayloadsWithContent)
}

func TestAggregator_Concurrent(t *testing.T) {
	a := NewAggregator()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				a.MarkFailed(fmt.Sprintf("/bad-%d.tar", i))
				return
			}
			a.Accumulate(archive(fmt.Sprintf("/ok-%d.tar", i), 1, true))
		}(i)
	}
	wg.Wait()

	got := a.Finalize()
	assert.Equal(t, 45, got.ArchivesProcessed)
	assert.Equal(t, 5, got.ArchivesFailed)
	assert.Equal(t, 45, got.Stats.TotalGzFiles)
	assert.Equal(t, 45, got.PayloadsWithContent)
}

func TestAggregator_FinalizeIsSnapshot(t *testing.T) {
	a := NewAggregator()
	a.MarkFailed("/a.tar")
	first := a.Finalize()

	a.MarkFailed("/b.tar")
	assert.Equal(t, []string{"/a.tar"}, first.FailedArchives)
	assert.Equal(t, 2, a.Finalize().ArchivesFailed)
}

func TestAggregator_Languages(t *testing.T) {
	a := NewAggregator()
	a.Accumulate(&models.ArchiveReport{TarFile: "a.tar"})
	assert.Nil(t, a.Finalize().Languages)

	a.Accumulate(&models.ArchiveReport{TarFile: "b.tar", DetailedAnalysis: []models.PayloadReport{
		{File: "x.gz", Files: []models.SourceFileReport{{Filename: "x.tex", Language: "en"}, {Filename: "y.tex", Language: "de"}}},
	}})
	a.Accumulate(&models.ArchiveReport{TarFile: "c.tar", DetailedAnalysis: []models.PayloadReport{
		{File: "z.gz", Files: []models.SourceFileReport{{Filename: "z.tex", Language: "en"}}},
	}})
	assert.Equal(t, map[string]int{"en": 2, "de": 1}, a.Finalize().Languages)
}
