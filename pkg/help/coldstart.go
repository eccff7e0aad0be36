package help

const ColdstartYAML = `# paperstats Quick Start

commands:
  analyze: |
    paperstats analyze ./arxiv-src --output-dir ./out --workers 8

  analyze_with_language: |
    paperstats analyze ./arxiv-src --detect-language --languages english,german,french

  resume_into_existing_file: |
    paperstats analyze ./arxiv-src-batch2 --output-dir ./out --append

  count_pdf_pages: |
    paperstats pages ./arxiv-pdf --output-dir ./out

  pair_sources_with_pdfs: |
    paperstats pair ./arxiv-src ./arxiv-pdf --output-dir ./out

  rebuild_summary: |
    paperstats summary ./out/all_tar_analysis.jsonl

  list_runs: |
    paperstats db runs

  run_details: |
    paperstats db run 5

outputs:
  - "all_tar_analysis.jsonl (one record per archive, flushed as each archive completes)"
  - "corpus_summary.yaml (corpus totals, also printed to stdout)"
  - "pdf_page_counts.jsonl + pdf_page_summary.yaml (pages)"
  - "mapping.jsonl + mapped.jsonl + pair_summary.yaml (pair)"
  - "manifest.yaml (size and sha256 of every output of the last run)"
  - "paperstats.db (run registry, SQLite)"

configuration:
  precedence: "flag > PAPERSTATS_* env (.env loaded) > --config YAML > default"
  env_examples:
    - "PAPERSTATS_WORKERS=8"
    - "PAPERSTATS_MAX_MEMBER_BYTES=536870912"
    - "PAPERSTATS_DETECT_LANGUAGE=true"
    - "PAPERSTATS_S3_ENDPOINT=localhost:9000"
    - "PAPERSTATS_S3_BUCKET=paperstats"

archive_rules:
  - "Only *.tar files directly inside the input directory are processed"
  - "Members containing __MACOSX or starting with ._ are skipped"
  - "Each .gz member is either a nested TAR (multi-file paper) or a single source file"
  - "A corrupt member is logged and skipped; the archive still completes"
  - "A corrupt archive is reported in failed_archives; the run continues"

record_fields:
  latex_category: "tex (.tex member) > content (sniffed markers) > other (LaTeX extension only)"
  figures: "distinct figure references per source file, summed per payload"
  column_format: "multi-column only when every source file is multi-column"

error_behavior:
  - "Exit codes: 0=success, 1=partial failure or interrupted, 2=complete failure"
  - "Ctrl-C stops the run; records of archives already completed are kept"
`
