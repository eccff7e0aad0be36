// Package models defines data structures for configuration and analysis records.
package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWorkers          = 4
	DefaultMaxMemberBytes   = 512 << 20
	DefaultMaxPayloadBytes  = 1 << 30
	DefaultPatternCacheSize = 4096
	DefaultAnalysisFile     = "all_tar_analysis.jsonl"
	DefaultSummaryFile      = "corpus_summary.yaml"
	DefaultDBName           = "paperstats.db"
	DefaultPageCountFile    = "pdf_page_counts.jsonl"
	DefaultPageSummaryFile  = "pdf_page_summary.yaml"
	DefaultMappingFile      = "mapping.jsonl"
	DefaultMappedFile       = "mapped.jsonl"
	DefaultPairSummaryFile  = "pair_summary.yaml"

	envPrefix = "PAPERSTATS_"
)

// S3Config configures the optional upload of run outputs to S3-compatible storage.
// Uploading is disabled while Bucket is empty.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether an upload target is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Endpoint != ""
}

// AnalyzeConfig holds runtime configuration for an analysis run.
// Values are resolved in order: defaults, YAML file, PAPERSTATS_* environment,
// then CLI flags.
type AnalyzeConfig struct {
	InputDir         string   `yaml:"input_dir"`
	OutputDir        string   `yaml:"output_dir"`
	Workers          int      `yaml:"workers"`
	MaxMemberBytes   int64    `yaml:"max_member_bytes"`
	MaxPayloadBytes  int64    `yaml:"max_payload_bytes"`
	PatternCacheSize int      `yaml:"pattern_cache_size"`
	DetectLanguage   bool     `yaml:"detect_language"`
	Languages        []string `yaml:"languages"`
	DBPath           string   `yaml:"db_path"`
	Append           bool     `yaml:"append"`
	S3               S3Config `yaml:"s3"`
}

// DefaultAnalyzeConfig returns the built-in defaults.
func DefaultAnalyzeConfig() *AnalyzeConfig {
	return &AnalyzeConfig{
		OutputDir:        ".",
		Workers:          DefaultWorkers,
		MaxMemberBytes:   DefaultMaxMemberBytes,
		MaxPayloadBytes:  DefaultMaxPayloadBytes,
		PatternCacheSize: DefaultPatternCacheSize,
		DBPath:           DefaultDBName,
	}
}

// LoadConfig builds an AnalyzeConfig from the defaults, the optional YAML file
// at path and the environment (including a .env file in the working directory).
func LoadConfig(path string) (*AnalyzeConfig, error) {
	cfg := DefaultAnalyzeConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AnalyzeConfig) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = b
		return nil
	}
	integer := func(key string, dst *int64) error {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("INPUT_DIR", &c.InputDir)
	str("OUTPUT_DIR", &c.OutputDir)
	str("DB_PATH", &c.DBPath)
	str("S3_ENDPOINT", &c.S3.Endpoint)
	str("S3_ACCESS_KEY", &c.S3.AccessKey)
	str("S3_SECRET_KEY", &c.S3.SecretKey)
	str("S3_BUCKET", &c.S3.Bucket)
	str("S3_PREFIX", &c.S3.Prefix)
	str("S3_REGION", &c.S3.Region)

	if v, ok := lookup(envPrefix + "LANGUAGES"); ok && v != "" {
		c.Languages = splitList(v)
	}

	workers := int64(c.Workers)
	cacheSize := int64(c.PatternCacheSize)
	for key, dst := range map[string]*int64{
		"WORKERS":            &workers,
		"MAX_MEMBER_BYTES":   &c.MaxMemberBytes,
		"MAX_PAYLOAD_BYTES":  &c.MaxPayloadBytes,
		"PATTERN_CACHE_SIZE": &cacheSize,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}
	c.Workers = int(workers)
	c.PatternCacheSize = int(cacheSize)

	for key, dst := range map[string]*bool{
		"DETECT_LANGUAGE": &c.DetectLanguage,
		"APPEND":          &c.Append,
		"S3_USE_SSL":      &c.S3.UseSSL,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings no run can proceed with.
func (c *AnalyzeConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxMemberBytes <= 0 {
		return fmt.Errorf("max_member_bytes must be positive, got %d", c.MaxMemberBytes)
	}
	if c.MaxPayloadBytes <= 0 {
		return fmt.Errorf("max_payload_bytes must be positive, got %d", c.MaxPayloadBytes)
	}
	if c.PatternCacheSize < 1 {
		return fmt.Errorf("pattern_cache_size must be at least 1, got %d", c.PatternCacheSize)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
