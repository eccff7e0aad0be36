package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/mapreduce"
)

// Aggregator accumulates archive reports into corpus totals. It is safe for
// concurrent use; each call merges one whole archive under a single lock.
type Aggregator struct {
	mu sync.Mutex

	start          time.Time
	processed      int
	failedArchives []string
	failedMembers  []string
	stats          models.ArchiveCounters
	latexTypes     models.CategoryCounts
	withContent    map[string]struct{}
	languages      []map[string]int
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		start:       time.Now(),
		withContent: make(map[string]struct{}),
	}
}

// Accumulate merges one archive report.
func (a *Aggregator) Accumulate(report *models.ArchiveReport) {
	if report == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.processed++
	a.stats.Add(report.Stats)
	a.latexTypes.Add(report.LatexTypes)

	for _, m := range report.FailedMembers {
		a.failedMembers = append(a.failedMembers, report.TarFile+":"+m.Member)
	}
	if counts := mapreduce.Map(report); len(counts) > 0 {
		a.languages = append(a.languages, counts)
	}
	for _, p := range report.DetailedAnalysis {
		if p.HasContent() {
			a.withContent[report.TarFile+":"+p.File] = struct{}{}
		}
	}
}

// MarkFailed records an archive that could not be processed.
func (a *Aggregator) MarkFailed(tarFile string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failedArchives = append(a.failedArchives, tarFile)
}

// Finalize returns a snapshot of the corpus totals. The Aggregator remains usable.
func (a *Aggregator) Finalize() models.CorpusReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	failedArchives := append([]string(nil), a.failedArchives...)
	failedMembers := append([]string(nil), a.failedMembers...)
	sort.Strings(failedArchives)
	sort.Strings(failedMembers)

	var languages map[string]int
	if len(a.languages) > 0 {
		languages = mapreduce.Reduce(a.languages)
	}

	return models.CorpusReport{
		GeneratedAt:         time.Now().UTC().Format(time.RFC3339),
		ArchivesProcessed:   a.processed,
		ArchivesFailed:      len(failedArchives),
		FailedArchives:      failedArchives,
		MembersFailed:       len(failedMembers),
		FailedMembers:       failedMembers,
		Stats:               a.stats,
		LatexTypes:          a.latexTypes,
		PayloadsWithContent: len(a.withContent),
		Languages:           languages,
		TotalTimeSeconds:    time.Since(a.start).Seconds(),
	}
}
