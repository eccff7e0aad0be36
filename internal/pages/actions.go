package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/paperstats/internal/common"
	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/db"
	"github.com/dtnitsch/paperstats/pkg/manifest"
	"github.com/dtnitsch/paperstats/pkg/pdfpages"
	"github.com/dtnitsch/paperstats/pkg/storage"
)

// Summary is printed and saved at the end of a pages run.
type Summary struct {
	ArchivesProcessed int              `yaml:"archives_processed"`
	ArchivesFailed    int              `yaml:"archives_failed"`
	FailedArchives    []string         `yaml:"failed_archives,omitempty"`
	FilesFailed       int              `yaml:"files_failed"`
	Stats             models.PageStats `yaml:"stats"`
}

func PagesAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.ResolveConfig(c)
	if err != nil {
		return err
	}

	paths, err := common.ListTarFiles(cfg.InputDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Warn("No archives found", "input_dir", cfg.InputDir)
	}

	store := &storage.Storage{Dir: cfg.OutputDir}
	if err := store.EnsureDir(); err != nil {
		return err
	}

	writer, err := store.OpenJSONL(models.DefaultPageCountFile, cfg.Append)
	if err != nil {
		return err
	}
	defer writer.Close()

	database, runID := common.OpenRegistry(logger, store, cfg.DBPath, "pages", cfg.InputDir, 1, len(paths))
	if database != nil {
		defer database.Close()
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := pdfpages.NewScanner(logger, cfg.MaxMemberBytes)
	summary, runErr := scanAll(ctx, logger, scanner, writer, database, runID, paths)

	if err := store.SaveYAML(models.DefaultPageSummaryFile, summary); err != nil {
		logger.Error("Failed to save page summary", "error", err)
	}
	out, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	fmt.Print(string(out))

	records := map[string]int{models.DefaultPageCountFile: writer.Count()}
	if _, err := manifest.Generate(store, "pages", cfg.InputDir, runID, records, models.DefaultPageCountFile, models.DefaultPageSummaryFile); err != nil {
		logger.Warn("Failed to write manifest", "error", err)
	}

	if database != nil {
		status := db.RunCompleted
		switch {
		case runErr != nil:
			status = db.RunCancelled
		case summary.ArchivesFailed > 0 && summary.ArchivesProcessed == 0:
			status = db.RunFailed
		case summary.ArchivesFailed > 0:
			status = db.RunPartial
		}
		if err := database.FinishRun(runID, status, summary.ArchivesProcessed, summary.ArchivesFailed, summary.FilesFailed); err != nil {
			logger.Warn("Failed to finish run in DB", "run_id", runID, "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if code := common.ExitStatus(summary.ArchivesProcessed, summary.ArchivesFailed); code != common.ExitOK {
		return cli.Exit(fmt.Sprintf("%d of %d archives failed", summary.ArchivesFailed, len(paths)), code)
	}
	return nil
}

// scanAll counts pages archive by archive, writing each file's count as soon
// as its archive completes.
func scanAll(ctx context.Context, logger *slog.Logger, scanner *pdfpages.Scanner, writer *storage.JSONLWriter, database *db.DB, runID int64, paths []string) (Summary, error) {
	summary := Summary{}
	var archives []*models.ArchivePages

	for _, path := range paths {
		result, err := scanner.Scan(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				summary.Stats = pdfpages.Merge(archives)
				return summary, fmt.Errorf("page count interrupted: %w", err)
			}
			logger.Error("Failed to scan archive", "archive", path, "error", err)
			summary.ArchivesFailed++
			summary.FailedArchives = append(summary.FailedArchives, path)
			if database != nil {
				if err := database.InsertFailedItem(runID, path, "", "container_error", err.Error()); err != nil {
					logger.Warn("Failed to record archive failure to DB", "archive", path, "error", err)
				}
			}
			continue
		}

		for _, pc := range result.Files {
			if err := writer.Write(pc); err != nil {
				return summary, fmt.Errorf("failed to write page count: %w", err)
			}
		}
		if database != nil {
			if err := database.InsertPageCounts(runID, result); err != nil {
				logger.Warn("Failed to record page counts to DB", "archive", path, "error", err)
			}
		}

		summary.ArchivesProcessed++
		summary.FilesFailed += len(result.FailedMembers)
		archives = append(archives, result)
		logger.Info("Archive scanned", "archive", path, "pdfs", result.Stats.TotalFiles, "pages", result.Stats.TotalPages, "failed", len(result.FailedMembers))
	}

	summary.Stats = pdfpages.Merge(archives)
	return summary, nil
}
