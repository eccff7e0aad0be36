package manifest

// RunManifest lists the files one run produced so downstream tooling can
// verify them without re-reading the archives.
type RunManifest struct {
	GeneratedAt string       `yaml:"generated_at"`
	Command     string       `yaml:"command"`
	RunID       int64        `yaml:"run_id,omitempty"`
	InputDir    string       `yaml:"input_dir"`
	Outputs     []OutputFile `yaml:"outputs"`
}

// OutputFile describes a single output of a run.
type OutputFile struct {
	Name      string `yaml:"name"`
	SizeBytes int64  `yaml:"size_bytes"`
	SHA256    string `yaml:"sha256"`
	Records   int    `yaml:"records,omitempty"` // JSONL lines written this run
}
