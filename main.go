package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/paperstats/internal/analyze"
	"github.com/dtnitsch/paperstats/internal/db"
	"github.com/dtnitsch/paperstats/internal/pages"
	"github.com/dtnitsch/paperstats/internal/pair"
	"github.com/dtnitsch/paperstats/internal/summary"
	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "paperstats",
		Usage: "Content statistics for TAR/GZIP LaTeX paper corpora",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug detail"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"PAPERSTATS_CONFIG"}},
			&cli.StringFlag{Name: "db", Usage: "Run registry database (relative paths live in the output dir)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Analyze every TAR archive in a directory",
				ArgsUsage: "<input-dir>",
				Action:    analyze.AnalyzeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Value: ".", Usage: "Directory for " + models.DefaultAnalysisFile + " and " + models.DefaultSummaryFile},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: models.DefaultWorkers, Usage: "Archives processed in parallel"},
					&cli.Int64Flag{Name: "max-member-bytes", Value: models.DefaultMaxMemberBytes, Usage: "Largest compressed member read"},
					&cli.Int64Flag{Name: "max-payload-bytes", Value: models.DefaultMaxPayloadBytes, Usage: "Largest decompressed payload read"},
					&cli.BoolFlag{Name: "detect-language", Usage: "Record the natural language of each source file"},
					&cli.StringSliceFlag{Name: "languages", Usage: "Candidate languages for --detect-language"},
					&cli.BoolFlag{Name: "append", Usage: "Append to an existing analysis file instead of truncating it"},
					&cli.BoolFlag{Name: "upload", Value: true, Usage: "Upload outputs when S3 is configured"},
				},
			},
			{
				Name:      "pages",
				Usage:     "Count PDF pages in every TAR archive of a directory",
				ArgsUsage: "<input-dir>",
				Action:    pages.PagesAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Value: ".", Usage: "Directory for " + models.DefaultPageCountFile},
					&cli.Int64Flag{Name: "max-member-bytes", Value: models.DefaultMaxMemberBytes, Usage: "Largest PDF read"},
					&cli.BoolFlag{Name: "append", Usage: "Append to an existing page count file"},
				},
			},
			{
				Name:      "pair",
				Usage:     "Compare source archives with their PDF archives",
				ArgsUsage: "<source-dir> <pdf-dir>",
				Action:    pair.PairAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Value: ".", Usage: "Directory for " + models.DefaultMappingFile + " and " + models.DefaultMappedFile},
				},
			},
			{
				Name:      "summary",
				Usage:     "Roll an analysis JSONL file up into corpus totals",
				ArgsUsage: "<analysis.jsonl>",
				Action:    summary.SummaryAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick start guide as YAML",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:  "db",
				Usage: "Inspect the run registry",
				Subcommands: []*cli.Command{
					{
						Name:   "runs",
						Usage:  "List recent runs",
						Action: db.RunsAction,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum runs to show (0 for all)"},
						},
					},
					{
						Name:      "run",
						Usage:     "Show one run (latest when no ID is given)",
						ArgsUsage: "[run-id]",
						Action:    db.RunAction,
					},
				},
			},
		},
	}

	// Errors implementing cli.ExitCoder exit inside Run with their own code.
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
