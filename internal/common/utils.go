package common

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/container"
	"github.com/dtnitsch/paperstats/pkg/db"
	"github.com/dtnitsch/paperstats/pkg/storage"
)

// Exit codes shared by the batch commands.
const (
	ExitOK         = 0
	ExitSomeFailed = 1
	ExitAllFailed  = 2
)

// NewLogger builds the JSON stderr logger used by every command.
// --quiet wins over --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ResolveConfig layers CLI flags over the config file and environment.
func ResolveConfig(c *cli.Context) (*models.AnalyzeConfig, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.Args().Present() {
		cfg.InputDir = c.Args().First()
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("max-member-bytes") {
		cfg.MaxMemberBytes = c.Int64("max-member-bytes")
	}
	if c.IsSet("max-payload-bytes") {
		cfg.MaxPayloadBytes = c.Int64("max-payload-bytes")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("languages") {
		cfg.Languages = c.StringSlice("languages")
	}
	if c.IsSet("append") {
		cfg.Append = c.Bool("append")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("upload") && !c.Bool("upload") {
		cfg.S3 = models.S3Config{}
	}

	if cfg.InputDir == "" {
		return nil, fmt.Errorf("no input directory given")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ListTarFiles returns the sorted paths of the .tar files directly inside dir,
// skipping platform metadata entries.
func ListTarFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || container.IsNoise(e.Name()) {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".tar") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ExitStatus maps archive outcomes to a process exit code.
func ExitStatus(processed, failed int) int {
	switch {
	case failed == 0:
		return ExitOK
	case processed == 0:
		return ExitAllFailed
	default:
		return ExitSomeFailed
	}
}

// OpenRegistry opens the run database and registers a run of command. The
// registry is optional: failures are logged and nil is returned. A relative
// dbPath is placed in the output directory.
func OpenRegistry(logger *slog.Logger, store *storage.Storage, dbPath, command, inputDir string, workers, archives int) (*db.DB, int64) {
	if dbPath == "" {
		return nil, 0
	}
	if !filepath.IsAbs(dbPath) {
		dbPath = store.Path(dbPath)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		logger.Warn("Run registry unavailable", "path", dbPath, "error", err)
		return nil, 0
	}

	runID, err := database.CreateRun(command, inputDir, store.Dir, workers, archives)
	if err != nil {
		logger.Warn("Failed to register run", "error", err)
		_ = database.Close()
		return nil, 0
	}
	logger.Info("Run registered", "run_id", runID, "command", command, "db", dbPath)
	return database, runID
}
