// Package mapreduce counts per-archive signals and merges the counts corpus-wide.
package mapreduce

import "github.com/dtnitsch/paperstats/models"

// Map counts the detected natural language of every source file in one archive.
// Files without a detected language are not counted.
func Map(report *models.ArchiveReport) map[string]int {
	counts := make(map[string]int)
	if report == nil {
		return counts
	}
	for _, p := range report.DetailedAnalysis {
		for _, f := range p.Files {
			if f.Language != "" {
				counts[f.Language]++
			}
		}
	}
	return counts
}

// Reduce aggregates a slice of count maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for key, count := range counts {
			finalResults[key] += count
		}
	}

	return finalResults
}
