package help

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestColdstartYAML(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(ColdstartYAML), &doc))

	commands, ok := doc["commands"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, commands, "analyze")
	assert.Contains(t, commands, "pair_sources_with_pdfs")
	assert.Contains(t, doc, "error_behavior")
}
