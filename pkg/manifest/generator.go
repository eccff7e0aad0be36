// Package manifest writes the manifest of a run's output files.
package manifest

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dtnitsch/paperstats/pkg/storage"
)

// FileName is the manifest written next to the run outputs.
const FileName = "manifest.yaml"

// Generate hashes the named outputs in s and saves the manifest. records maps
// an output name to the number of records written to it. Missing outputs are
// left out. Returns the path of the manifest.
func Generate(s *storage.Storage, command, inputDir string, runID int64, records map[string]int, names ...string) (string, error) {
	m := RunManifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Command:     command,
		RunID:       runID,
		InputDir:    inputDir,
		Outputs:     []OutputFile{},
	}

	for _, name := range names {
		if !s.HasFile(name) {
			continue
		}
		stats, err := s.GetFileStats(name)
		if err != nil {
			return "", err
		}
		sum, err := hashFile(s.Path(name))
		if err != nil {
			return "", err
		}
		m.Outputs = append(m.Outputs, OutputFile{
			Name:      name,
			SizeBytes: stats.SizeBytes,
			SHA256:    sum,
			Records:   records[name],
		})
	}

	if err := s.SaveYAML(FileName, m); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}
	return s.Path(FileName), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("error hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
