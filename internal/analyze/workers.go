package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/dtnitsch/paperstats/pkg/container"
	"github.com/dtnitsch/paperstats/pkg/db"
	"github.com/dtnitsch/paperstats/pkg/stats"
	"github.com/dtnitsch/paperstats/pkg/storage"
)

// pipeline fans archives out to workers and funnels every finished archive
// through a single collector, which persists it before the next one.
type pipeline struct {
	logger   *slog.Logger
	walker   *container.Walker
	writer   *storage.JSONLWriter
	database *db.DB // nil disables the run registry
	runID    int64
	agg      *stats.Aggregator
}

func (p *pipeline) run(ctx context.Context, paths []string, workerCount int) (Outcome, error) {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.logger.Info("Starting archive analysis", "archives", len(paths), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(paths))
	results := make(chan Result, workerCount)

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go p.worker(ctx, w, &wg, jobs, results)
	}

	for _, path := range paths {
		jobs <- Job{TarPath: path}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var outcome Outcome
	var runErr error
	for result := range results {
		if runErr != nil {
			outcome.Cancelled++
			continue
		}
		if err := p.collect(result, &outcome); err != nil {
			runErr = err
			cancel()
		}
	}
	p.logger.Info("All analysis workers finished", "processed", outcome.Processed, "failed", outcome.Failed, "cancelled", outcome.Cancelled)

	return outcome, runErr
}

func (p *pipeline) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- Result{TarPath: job.TarPath, Error: err}
			continue
		}

		p.logger.Debug("Worker started archive", "worker_id", id, "archive", job.TarPath)
		report, err := p.walker.Walk(ctx, job.TarPath)
		results <- Result{TarPath: job.TarPath, Report: report, Error: err}
	}
}

// collect persists one archive outcome. It returns an error only when the
// output itself can no longer be written.
func (p *pipeline) collect(r Result, outcome *Outcome) error {
	if r.Error != nil {
		if errors.Is(r.Error, context.Canceled) || errors.Is(r.Error, context.DeadlineExceeded) {
			outcome.Cancelled++
			return nil
		}

		outcome.Failed++
		p.logger.Error("Failed to process archive", "archive", r.TarPath, "error", r.Error)
		name := r.TarPath
		if abs, err := filepath.Abs(r.TarPath); err == nil {
			name = abs
		}
		p.agg.MarkFailed(name)
		if p.database != nil {
			if err := p.database.InsertArchiveFailure(p.runID, name, r.Error); err != nil {
				p.logger.Warn("Failed to record archive failure to DB", "archive", r.TarPath, "error", err)
			}
		}
		return nil
	}

	if err := p.writer.Write(r.Report); err != nil {
		return fmt.Errorf("failed to write archive record: %w", err)
	}
	outcome.Processed++
	p.agg.Accumulate(r.Report)

	if p.database != nil {
		if err := p.database.InsertArchiveResult(p.runID, r.Report); err != nil {
			p.logger.Warn("Failed to record archive result to DB", "archive", r.TarPath, "error", err)
		}
	}

	p.logger.Info("Archive analyzed", "archive", r.TarPath,
		"gz_files", r.Report.Stats.TotalGzFiles,
		"failed_members", len(r.Report.FailedMembers),
		"duration", r.Report.ProcessingTimeSeconds)
	return nil
}
