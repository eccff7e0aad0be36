package stats

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dtnitsch/paperstats/models"
)

// Rollup rebuilds corpus totals from a stream of JSONL archive records
// without touching the archives themselves.
func Rollup(r io.Reader) (models.CorpusReport, error) {
	agg := NewAggregator()
	dec := json.NewDecoder(r)
	for line := 1; ; line++ {
		var report models.ArchiveReport
		err := dec.Decode(&report)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.CorpusReport{}, fmt.Errorf("failed to decode record %d: %w", line, err)
		}
		agg.Accumulate(&report)
	}

	corpus := agg.Finalize()
	corpus.TotalTimeSeconds = 0
	return corpus, nil
}
