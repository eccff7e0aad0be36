package pair

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/paperstats/internal/common"
	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/db"
	"github.com/dtnitsch/paperstats/pkg/manifest"
	"github.com/dtnitsch/paperstats/pkg/pairing"
	"github.com/dtnitsch/paperstats/pkg/storage"
)

// PairAction compares every source archive of one directory with its PDF
// archive in another. It only reports; nothing is copied.
func PairAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	if c.NArg() != 2 {
		return fmt.Errorf("usage: pair <source-dir> <pdf-dir>")
	}
	srcDir, pdfDir := c.Args().Get(0), c.Args().Get(1)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}

	pairs, unpaired, err := pairing.PairDirectories(srcDir, pdfDir)
	if err != nil {
		return err
	}
	for _, msg := range unpaired {
		logger.Warn("Unpaired archive", "detail", msg)
	}

	store := &storage.Storage{Dir: cfg.OutputDir}
	if err := store.EnsureDir(); err != nil {
		return err
	}

	mapping, err := store.OpenJSONL(models.DefaultMappingFile, false)
	if err != nil {
		return err
	}
	defer mapping.Close()

	mapped, err := store.OpenJSONL(models.DefaultMappedFile, false)
	if err != nil {
		return err
	}
	defer mapped.Close()

	database, runID := common.OpenRegistry(logger, store, cfg.DBPath, "pair", srcDir, 1, len(pairs))
	if database != nil {
		defer database.Close()
	}

	summary, failed, err := compareAll(logger, pairs, mapping, mapped, database, runID)
	if err != nil {
		return err
	}
	summary.UnpairedFiles = unpaired

	if err := store.SaveYAML(models.DefaultPairSummaryFile, summary); err != nil {
		logger.Error("Failed to save pair summary", "error", err)
	}
	out, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	fmt.Print(string(out))

	records := map[string]int{
		models.DefaultMappingFile: mapping.Count(),
		models.DefaultMappedFile:  mapped.Count(),
	}
	if _, err := manifest.Generate(store, "pair", srcDir, runID, records, models.DefaultMappingFile, models.DefaultMappedFile, models.DefaultPairSummaryFile); err != nil {
		logger.Warn("Failed to write manifest", "error", err)
	}

	if database != nil {
		status := db.RunCompleted
		if failed > 0 {
			status = db.RunPartial
		}
		if err := database.FinishRun(runID, status, summary.TotalPairs, failed, 0); err != nil {
			logger.Warn("Failed to finish run in DB", "run_id", runID, "error", err)
		}
	}

	if code := common.ExitStatus(summary.TotalPairs, failed); code != common.ExitOK {
		return cli.Exit(fmt.Sprintf("%d of %d pairs failed", failed, len(pairs)), code)
	}
	return nil
}

func compareAll(logger *slog.Logger, pairs []pairing.Pair, mapping, mapped *storage.JSONLWriter, database *db.DB, runID int64) (models.PairSummary, int, error) {
	var summary models.PairSummary
	failed := 0

	for _, p := range pairs {
		result, entries, err := pairing.ComparePair(p)
		if err != nil {
			failed++
			logger.Error("Failed to compare pair", "pair", p.Key.String(), "error", err)
			if database != nil {
				if err := database.InsertFailedItem(runID, p.SourceTar, "", "container_error", err.Error()); err != nil {
					logger.Warn("Failed to record pair failure to DB", "pair", p.Key.String(), "error", err)
				}
			}
			continue
		}

		for _, e := range entries {
			if err := mapping.Write(e); err != nil {
				return summary, failed, fmt.Errorf("failed to write mapping entry: %w", err)
			}
		}
		if err := mapped.Write(result); err != nil {
			return summary, failed, fmt.Errorf("failed to write pair result: %w", err)
		}
		if database != nil {
			if err := database.InsertPairResult(runID, result); err != nil {
				logger.Warn("Failed to record pair result to DB", "pair", result.TarPair, "error", err)
			}
		}

		summary.Add(result)
		logger.Info("Pair compared", "pair", result.TarPair, "mapped", result.TotalMapped, "missing_gz", result.MissingGz, "missing_pdf", result.MissingPDF)
	}

	return summary, failed, nil
}
