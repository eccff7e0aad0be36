package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per analyze / pages / pair invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    command TEXT NOT NULL,              -- analyze, pages, pair
    input_dir TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    workers INTEGER DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running', -- running, completed, partial, failed, cancelled
    archives_total INTEGER DEFAULT 0,
    archives_processed INTEGER DEFAULT 0,
    archives_failed INTEGER DEFAULT 0,
    members_failed INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

-- Archive results: per-archive counters of an analyze run
CREATE TABLE IF NOT EXISTS archive_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    tar_file TEXT NOT NULL,
    status TEXT NOT NULL,               -- ok, failed
    error_message TEXT,
    total_files INTEGER DEFAULT 0,
    total_gz_files INTEGER DEFAULT 0,
    payloads_with_latex INTEGER DEFAULT 0,
    total_figures INTEGER DEFAULT 0,
    total_tables INTEGER DEFAULT 0,
    total_equations INTEGER DEFAULT 0,
    total_missing_figures INTEGER DEFAULT 0,
    members_failed INTEGER DEFAULT 0,
    processing_time_seconds REAL DEFAULT 0,
    stats_json TEXT,                    -- full counter object as written to JSONL
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, tar_file)
);

CREATE INDEX IF NOT EXISTS idx_archive_results_run ON archive_results(run_id);

-- Failed items: archives and members that could not be processed
CREATE TABLE IF NOT EXISTS failed_items (
    failure_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    tar_file TEXT NOT NULL,
    member TEXT,                        -- NULL for archive-level failures
    error_type TEXT NOT NULL,
    error_message TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_failed_items_run ON failed_items(run_id);
CREATE INDEX IF NOT EXISTS idx_failed_items_type ON failed_items(error_type);

-- PDF page counts of a pages run
CREATE TABLE IF NOT EXISTS pdf_page_counts (
    page_count_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    tar_file TEXT NOT NULL,
    file_path TEXT NOT NULL,
    page_count INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_pdf_page_counts_run ON pdf_page_counts(run_id);

-- Pair results of a pair run
CREATE TABLE IF NOT EXISTS pair_results (
    pair_result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    tar_pair TEXT NOT NULL,
    source_tar TEXT NOT NULL,
    pdf_tar TEXT NOT NULL,
    total_gz INTEGER DEFAULT 0,
    total_pdf INTEGER DEFAULT 0,
    total_mapped INTEGER DEFAULT 0,
    missing_gz INTEGER DEFAULT 0,
    missing_pdf INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_pair_results_run ON pair_results(run_id);
`
