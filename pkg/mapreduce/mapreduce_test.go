package mapreduce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/paperstats/models"
)

func TestMapReduce(t *testing.T) {
	a := &models.ArchiveReport{DetailedAnalysis: []models.PayloadReport{
		{Files: []models.SourceFileReport{{Language: "en"}, {Language: "en"}, {Language: ""}}},
		{Files: []models.SourceFileReport{{Language: "de"}}},
	}}
	b := &models.ArchiveReport{DetailedAnalysis: []models.PayloadReport{
		{Files: []models.SourceFileReport{{Language: "fr"}, {Language: "de"}}},
	}}

	assert.Equal(t, map[string]int{"en": 2, "de": 1}, Map(a))
	assert.Empty(t, Map(nil))

	total := Reduce([]map[string]int{Map(a), Map(b)})
	assert.Equal(t, map[string]int{"en": 2, "de": 2, "fr": 1}, total)
}

func TestTopN(t *testing.T) {
	counts := map[string]int{"en": 5, "de": 2, "fr": 2, "it": 1}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"top two with tie", 3, []string{"en:5", "de:2", "fr:2"}},
		{"more than available", 10, []string{"en:5", "de:2", "fr:2", "it:1"}},
		{"zero", 0, []string{}},
		{"negative", -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TopN(counts, tt.n))
		})
	}
}
