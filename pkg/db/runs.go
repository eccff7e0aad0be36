package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/paperstats/models"
)

// Run statuses
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunPartial   = "partial"
	RunFailed    = "failed"
	RunCancelled = "cancelled"
)

// Run represents one invocation of analyze, pages or pair
type Run struct {
	RunID             int64
	Command           string
	InputDir          string
	OutputDir         string
	Workers           int
	Status            string
	ArchivesTotal     int
	ArchivesProcessed int
	ArchivesFailed    int
	MembersFailed     int
	CreatedAt         time.Time
	FinishedAt        sql.NullTime
}

// ArchiveResult is the stored summary of one archive of a run
type ArchiveResult struct {
	TarFile               string
	Status                string
	ErrorMessage          sql.NullString
	TotalFiles            int
	TotalGzFiles          int
	PayloadsWithLatex     int
	TotalFigures          int
	TotalTables           int
	TotalEquations        int
	TotalMissingFigures   int
	MembersFailed         int
	ProcessingTimeSeconds float64
}

// FailedItem is an archive or member that failed during a run.
// Member is empty for archive-level failures.
type FailedItem struct {
	TarFile      string
	Member       sql.NullString
	ErrorType    string
	ErrorMessage string
}

// CreateRun inserts a new run in the running state and returns its ID
func (db *DB) CreateRun(command, inputDir, outputDir string, workers, archivesTotal int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (command, input_dir, output_dir, workers, archives_total, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, command, inputDir, outputDir, workers, archivesTotal, RunRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// FinishRun stores the final counters and status of a run
func (db *DB) FinishRun(runID int64, status string, processed, failed, membersFailed int) error {
	_, err := db.Exec(`
		UPDATE runs
		SET status = ?, archives_processed = ?, archives_failed = ?, members_failed = ?, finished_at = ?
		WHERE run_id = ?
	`, status, processed, failed, membersFailed, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertArchiveResult records a successfully processed archive and its member failures
func (db *DB) InsertArchiveResult(runID int64, report *models.ArchiveReport) error {
	statsJSON, err := json.Marshal(report.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal archive stats: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	s := report.Stats
	latex := report.LatexTypes.Tex + report.LatexTypes.Content + report.LatexTypes.Other
	_, err = tx.Exec(`
		INSERT INTO archive_results (run_id, tar_file, status, total_files, total_gz_files, payloads_with_latex,
			total_figures, total_tables, total_equations, total_missing_figures, members_failed,
			processing_time_seconds, stats_json)
		VALUES (?, ?, 'ok', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, tar_file) DO UPDATE SET
			status = 'ok',
			error_message = NULL,
			total_files = excluded.total_files,
			total_gz_files = excluded.total_gz_files,
			payloads_with_latex = excluded.payloads_with_latex,
			total_figures = excluded.total_figures,
			total_tables = excluded.total_tables,
			total_equations = excluded.total_equations,
			total_missing_figures = excluded.total_missing_figures,
			members_failed = excluded.members_failed,
			processing_time_seconds = excluded.processing_time_seconds,
			stats_json = excluded.stats_json
	`, runID, report.TarFile, s.TotalFiles, s.TotalGzFiles, latex,
		s.TotalFigures, s.TotalTables, s.TotalEquations, s.TotalMissingFigures, len(report.FailedMembers),
		report.ProcessingTimeSeconds, string(statsJSON))
	if err != nil {
		return fmt.Errorf("failed to insert archive result: %w", err)
	}

	for _, f := range report.FailedMembers {
		if _, err := tx.Exec(`
			INSERT INTO failed_items (run_id, tar_file, member, error_type, error_message)
			VALUES (?, ?, ?, ?, ?)
		`, runID, report.TarFile, f.Member, f.ErrorType, f.Error); err != nil {
			return fmt.Errorf("failed to insert member failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive result: %w", err)
	}
	return nil
}

// InsertArchiveFailure records an archive that could not be opened at all
func (db *DB) InsertArchiveFailure(runID int64, tarFile string, cause error) error {
	_, err := db.Exec(`
		INSERT INTO archive_results (run_id, tar_file, status, error_message)
		VALUES (?, ?, 'failed', ?)
		ON CONFLICT(run_id, tar_file) DO UPDATE SET status = 'failed', error_message = excluded.error_message
	`, runID, tarFile, cause.Error())
	if err != nil {
		return fmt.Errorf("failed to insert archive failure: %w", err)
	}
	return db.InsertFailedItem(runID, tarFile, "", "container_error", cause.Error())
}

// InsertFailedItem records a failure. An empty member marks an archive-level failure.
func (db *DB) InsertFailedItem(runID int64, tarFile, member, errorType, message string) error {
	var memberVal interface{}
	if member != "" {
		memberVal = member
	}
	_, err := db.Exec(`
		INSERT INTO failed_items (run_id, tar_file, member, error_type, error_message)
		VALUES (?, ?, ?, ?, ?)
	`, runID, tarFile, memberVal, errorType, message)
	if err != nil {
		return fmt.Errorf("failed to insert failed item: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of 0 returns all runs.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, command, input_dir, output_dir, workers, status, archives_total,
		       archives_processed, archives_failed, members_failed, created_at, finished_at
		FROM runs
		ORDER BY run_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Command, &r.InputDir, &r.OutputDir, &r.Workers, &r.Status,
			&r.ArchivesTotal, &r.ArchivesProcessed, &r.ArchivesFailed, &r.MembersFailed,
			&r.CreatedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, command, input_dir, output_dir, workers, status, archives_total,
		       archives_processed, archives_failed, members_failed, created_at, finished_at
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.Command, &r.InputDir, &r.OutputDir, &r.Workers, &r.Status,
		&r.ArchivesTotal, &r.ArchivesProcessed, &r.ArchivesFailed, &r.MembersFailed,
		&r.CreatedAt, &r.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// GetRunArchives returns the archive results of a run ordered by archive name
func (db *DB) GetRunArchives(runID int64) ([]ArchiveResult, error) {
	rows, err := db.Query(`
		SELECT tar_file, status, error_message, total_files, total_gz_files, payloads_with_latex,
		       total_figures, total_tables, total_equations, total_missing_figures, members_failed,
		       processing_time_seconds
		FROM archive_results
		WHERE run_id = ?
		ORDER BY tar_file
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run archives: %w", err)
	}
	defer rows.Close()

	var results []ArchiveResult
	for rows.Next() {
		var a ArchiveResult
		if err := rows.Scan(&a.TarFile, &a.Status, &a.ErrorMessage, &a.TotalFiles, &a.TotalGzFiles,
			&a.PayloadsWithLatex, &a.TotalFigures, &a.TotalTables, &a.TotalEquations,
			&a.TotalMissingFigures, &a.MembersFailed, &a.ProcessingTimeSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan archive result: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// GetRunFailures returns every failed archive and member of a run
func (db *DB) GetRunFailures(runID int64) ([]FailedItem, error) {
	rows, err := db.Query(`
		SELECT tar_file, member, error_type, COALESCE(error_message, '')
		FROM failed_items
		WHERE run_id = ?
		ORDER BY tar_file, member
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run failures: %w", err)
	}
	defer rows.Close()

	var items []FailedItem
	for rows.Next() {
		var f FailedItem
		if err := rows.Scan(&f.TarFile, &f.Member, &f.ErrorType, &f.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan failed item: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
