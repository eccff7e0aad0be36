package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/paperstats/internal/common"
	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/container"
	"github.com/dtnitsch/paperstats/pkg/db"
	"github.com/dtnitsch/paperstats/pkg/figures"
	"github.com/dtnitsch/paperstats/pkg/language"
	"github.com/dtnitsch/paperstats/pkg/manifest"
	"github.com/dtnitsch/paperstats/pkg/mapreduce"
	"github.com/dtnitsch/paperstats/pkg/stats"
	"github.com/dtnitsch/paperstats/pkg/storage"
)

func AnalyzeAction(c *cli.Context) error {
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

	walker, err := newWalker(logger, cfg)
	if err != nil {
		return err
	}

	writer, err := store.OpenJSONL(models.DefaultAnalysisFile, cfg.Append)
	if err != nil {
		return err
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("Failed to close analysis file", "path", writer.Path(), "error", err)
		}
	}()

	database, runID := common.OpenRegistry(logger, store, cfg.DBPath, "analyze", cfg.InputDir, cfg.Workers, len(paths))
	if database != nil {
		defer database.Close()
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := stats.NewAggregator()
	p := &pipeline{
		logger:   logger,
		walker:   walker,
		writer:   writer,
		database: database,
		runID:    runID,
		agg:      agg,
	}
	outcome, runErr := p.run(ctx, paths, cfg.Workers)

	summary := agg.Finalize()
	if len(summary.Languages) > 0 {
		logger.Info("Detected languages", "top", mapreduce.TopN(summary.Languages, 5))
	}
	if err := store.SaveYAML(models.DefaultSummaryFile, summary); err != nil {
		logger.Error("Failed to save corpus summary", "error", err)
	}

	out, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	fmt.Print(string(out))

	records := map[string]int{models.DefaultAnalysisFile: writer.Count()}
	if _, err := manifest.Generate(store, "analyze", cfg.InputDir, runID, records, models.DefaultAnalysisFile, models.DefaultSummaryFile); err != nil {
		logger.Warn("Failed to write manifest", "error", err)
	}

	status := runStatus(outcome, runErr)
	if database != nil {
		if err := database.FinishRun(runID, status, outcome.Processed, outcome.Failed, summary.MembersFailed); err != nil {
			logger.Warn("Failed to finish run in DB", "run_id", runID, "error", err)
		}
	}

	if cfg.S3.Enabled() && status != db.RunCancelled {
		uploadOutputs(c.Context, logger, cfg.S3, runID, writer.Path(), store.Path(models.DefaultSummaryFile), store.Path(manifest.FileName))
	}

	if runErr != nil {
		return runErr
	}
	if outcome.Cancelled > 0 {
		return cli.Exit(fmt.Sprintf("interrupted: %d archives not processed", outcome.Cancelled), common.ExitSomeFailed)
	}
	if code := common.ExitStatus(outcome.Processed, outcome.Failed); code != common.ExitOK {
		return cli.Exit(fmt.Sprintf("%d of %d archives failed", outcome.Failed, len(paths)), code)
	}
	return nil
}

func newWalker(logger *slog.Logger, cfg *models.AnalyzeConfig) (*container.Walker, error) {
	resolver, err := figures.NewResolver(cfg.PatternCacheSize)
	if err != nil {
		return nil, err
	}

	opts := container.Options{
		Limits: container.Limits{
			MaxMemberBytes:  cfg.MaxMemberBytes,
			MaxPayloadBytes: cfg.MaxPayloadBytes,
		},
	}
	if cfg.DetectLanguage {
		detector, err := language.NewDetector(cfg.Languages)
		if err != nil {
			return nil, fmt.Errorf("failed to create language detector: %w", err)
		}
		opts.Language = detector
	}

	return container.NewWalker(logger, resolver, opts), nil
}

func runStatus(o Outcome, runErr error) string {
	switch {
	case runErr != nil:
		return db.RunFailed
	case o.Cancelled > 0:
		return db.RunCancelled
	case o.Failed == 0:
		return db.RunCompleted
	case o.Processed == 0:
		return db.RunFailed
	default:
		return db.RunPartial
	}
}

func uploadOutputs(ctx context.Context, logger *slog.Logger, cfg models.S3Config, runID int64, paths ...string) {
	uploader, err := storage.NewUploader(cfg)
	if err != nil {
		logger.Error("Failed to configure upload", "error", err)
		return
	}

	id := "run-" + strconv.FormatInt(runID, 10)
	for _, path := range paths {
		key, err := uploader.Upload(ctx, id, path)
		if err != nil {
			logger.Error("Failed to upload output", "path", path, "error", err)
			continue
		}
		logger.Info("Uploaded output", "path", path, "key", key)
	}
}
