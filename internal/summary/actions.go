package summary

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/paperstats/pkg/stats"
)

// SummaryAction rolls an analysis JSONL file up into corpus totals without
// touching the archives.
func SummaryAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: summary <analysis.jsonl>")
	}
	path := c.Args().First()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open analysis file: %w", err)
	}
	defer f.Close()

	report, err := stats.Rollup(f)
	if err != nil {
		return fmt.Errorf("failed to roll up %s: %w", path, err)
	}

	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
