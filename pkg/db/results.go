package db

import (
	"fmt"

	"github.com/dtnitsch/paperstats/models"
)

// InsertPageCounts records the page counts and failures of one PDF archive
func (db *DB) InsertPageCounts(runID int64, archive *models.ArchivePages) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, pc := range archive.Files {
		if _, err := tx.Exec(`
			INSERT INTO pdf_page_counts (run_id, tar_file, file_path, page_count)
			VALUES (?, ?, ?, ?)
		`, runID, pc.TarFile, pc.FilePath, pc.PageCount); err != nil {
			return fmt.Errorf("failed to insert page count: %w", err)
		}
	}
	for _, f := range archive.FailedMembers {
		if _, err := tx.Exec(`
			INSERT INTO failed_items (run_id, tar_file, member, error_type, error_message)
			VALUES (?, ?, ?, ?, ?)
		`, runID, archive.TarFile, f.Member, f.ErrorType, f.Error); err != nil {
			return fmt.Errorf("failed to insert pdf failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit page counts: %w", err)
	}
	return nil
}

// CountPages returns the number of page count rows and their page total for a run
func (db *DB) CountPages(runID int64) (files int, pages int, err error) {
	err = db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(page_count), 0)
		FROM pdf_page_counts
		WHERE run_id = ?
	`, runID).Scan(&files, &pages)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return files, pages, nil
}

// InsertPairResult records the comparison of one source/PDF archive pair
func (db *DB) InsertPairResult(runID int64, r models.PairResult) error {
	_, err := db.Exec(`
		INSERT INTO pair_results (run_id, tar_pair, source_tar, pdf_tar, total_gz, total_pdf, total_mapped, missing_gz, missing_pdf)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, r.TarPair, r.SourceTar, r.PDFTar, r.TotalGz, r.TotalPDF, r.TotalMapped, r.MissingGz, r.MissingPDF)
	if err != nil {
		return fmt.Errorf("failed to insert pair result: %w", err)
	}
	return nil
}

// GetRunPairs returns the pair results of a run ordered by pair key
func (db *DB) GetRunPairs(runID int64) ([]models.PairResult, error) {
	rows, err := db.Query(`
		SELECT tar_pair, source_tar, pdf_tar, total_gz, total_pdf, total_mapped, missing_gz, missing_pdf
		FROM pair_results
		WHERE run_id = ?
		ORDER BY tar_pair
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run pairs: %w", err)
	}
	defer rows.Close()

	var pairs []models.PairResult
	for rows.Next() {
		var p models.PairResult
		if err := rows.Scan(&p.TarPair, &p.SourceTar, &p.PDFTar, &p.TotalGz, &p.TotalPDF,
			&p.TotalMapped, &p.MissingGz, &p.MissingPDF); err != nil {
			return nil, fmt.Errorf("failed to scan pair result: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
