package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/paperstats/pkg/db"
)

func RunsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-8s %-10s %-8s %-8s %-8s %-30s\n",
		"ID", "Created", "Command", "Status", "Total", "OK", "Failed", "Input Dir")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-8s %-10s %-8d %-8d %-8d %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Command,
			r.Status,
			r.ArchivesTotal,
			r.ArchivesProcessed,
			r.ArchivesFailed,
			r.InputDir,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'paperstats db run <id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Printf("Run %d (%s)\n", run.RunID, run.Command)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt.Valid {
		fmt.Printf("Finished:    %s\n", run.FinishedAt.Time.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Status:      %s\n", run.Status)
	fmt.Printf("Input:       %s\n", run.InputDir)
	fmt.Printf("Output:      %s\n", run.OutputDir)
	fmt.Printf("Archives:    %d total (%d processed, %d failed)\n",
		run.ArchivesTotal, run.ArchivesProcessed, run.ArchivesFailed)
	fmt.Printf("Members:     %d failed\n", run.MembersFailed)

	switch run.Command {
	case "analyze":
		if err := printArchives(database, runID); err != nil {
			return err
		}
	case "pages":
		files, pages, err := database.CountPages(runID)
		if err != nil {
			return err
		}
		fmt.Printf("PDFs:        %d files, %d pages\n", files, pages)
	case "pair":
		if err := printPairs(database, runID); err != nil {
			return err
		}
	}

	failures, err := database.GetRunFailures(runID)
	if err != nil {
		return fmt.Errorf("failed to get run failures: %w", err)
	}
	if len(failures) > 0 {
		fmt.Printf("\nFailures (%d):\n", len(failures))
		fmt.Println(strings.Repeat("-", 60))
		for i, f := range failures {
			target := f.TarFile
			if f.Member.Valid {
				target += ":" + f.Member.String
			}
			fmt.Printf("%2d. [%s] %s\n", i+1, f.ErrorType, target)
			if f.ErrorMessage != "" {
				fmt.Printf("    Error: %s\n", f.ErrorMessage)
			}
		}
	}

	return nil
}

func printArchives(database *dbpkg.DB, runID int64) error {
	archives, err := database.GetRunArchives(runID)
	if err != nil {
		return fmt.Errorf("failed to get run archives: %w", err)
	}
	if len(archives) == 0 {
		return nil
	}

	fmt.Printf("\nArchives (%d):\n", len(archives))
	fmt.Println(strings.Repeat("-", 60))
	for i, a := range archives {
		fmt.Printf("%2d. [%s] %s\n", i+1, a.Status, a.TarFile)
		if a.Status != "ok" {
			fmt.Printf("    Error: %s\n", a.ErrorMessage.String)
			continue
		}
		fmt.Printf("    Files: %d | GZ: %d | LaTeX: %d | Figures: %d (%d missing) | Tables: %d | Equations: %d | %.2fs\n",
			a.TotalFiles, a.TotalGzFiles, a.PayloadsWithLatex, a.TotalFigures, a.TotalMissingFigures,
			a.TotalTables, a.TotalEquations, a.ProcessingTimeSeconds)
	}
	return nil
}

func printPairs(database *dbpkg.DB, runID int64) error {
	pairs, err := database.GetRunPairs(runID)
	if err != nil {
		return fmt.Errorf("failed to get run pairs: %w", err)
	}
	if len(pairs) == 0 {
		return nil
	}

	fmt.Printf("\nPairs (%d):\n", len(pairs))
	fmt.Println(strings.Repeat("-", 60))
	for i, p := range pairs {
		fmt.Printf("%2d. %s: %d mapped, %d missing .gz, %d missing .pdf\n",
			i+1, p.TarPair, p.TotalMapped, p.MissingGz, p.MissingPDF)
	}
	return nil
}
