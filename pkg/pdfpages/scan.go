package pdfpages

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/container"
)

// Scanner counts pages for every PDF member of an archive.
type Scanner struct {
	logger   *slog.Logger
	maxBytes int64
}

func NewScanner(logger *slog.Logger, maxBytes int64) *Scanner {
	if maxBytes <= 0 {
		maxBytes = models.DefaultMaxMemberBytes
	}
	return &Scanner{logger: logger, maxBytes: maxBytes}
}

// Scan reads the archive at tarPath. Unreadable PDFs are recorded as member
// failures; an unreadable archive is an error wrapping ErrContainerCorrupt.
func (s *Scanner) Scan(ctx context.Context, tarPath string) (*models.ArchivePages, error) {
	f, err := os.Open(tarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrContainerCorrupt, tarPath, err)
	}
	defer f.Close()

	result := &models.ArchivePages{TarFile: tarPath, Files: []models.PageCount{}}

	tr := tar.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrContainerCorrupt, tarPath, err)
		}
		if hdr.Typeflag != tar.TypeReg || container.IsNoise(hdr.Name) || !strings.EqualFold(filepath.Ext(hdr.Name), ".pdf") {
			continue
		}

		pages, kind, err := s.countMember(hdr, tr)
		if err != nil {
			s.logger.Warn("Skipping pdf", "archive", tarPath, "member", hdr.Name, "error", err)
			result.FailedMembers = append(result.FailedMembers, models.MemberFailure{Member: hdr.Name, ErrorType: kind, Error: err.Error()})
			continue
		}
		result.Files = append(result.Files, models.PageCount{
			TarFile:   tarPath,
			FilePath:  tarPath + "/" + hdr.Name,
			PageCount: pages,
		})
	}

	counts := make([]int, len(result.Files))
	for i, pc := range result.Files {
		counts[i] = pc.PageCount
	}
	result.Stats = Summarize(counts)
	return result, nil
}

func (s *Scanner) countMember(hdr *tar.Header, r io.Reader) (int, string, error) {
	if hdr.Size > s.maxBytes {
		return 0, models.FailureSizeLimit, fmt.Errorf("%w: %d bytes", models.ErrMemberTooLarge, hdr.Size)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes))
	if err != nil {
		return 0, models.FailureRead, err
	}
	pages, err := CountPages(data)
	if err != nil {
		return 0, "pdf_error", err
	}
	return pages, "", nil
}

// Summarize computes page statistics. The standard deviation is the sample
// deviation and is zero for fewer than two files.
func Summarize(counts []int) models.PageStats {
	stats := models.PageStats{TotalFiles: len(counts)}
	if len(counts) == 0 {
		return stats
	}

	sorted := append([]int(nil), counts...)
	sort.Ints(sorted)

	for _, c := range sorted {
		stats.TotalPages += c
	}
	n := float64(len(sorted))
	mean := float64(stats.TotalPages) / n

	stats.AveragePages = round2(mean)
	stats.MinPages = sorted[0]
	stats.MaxPages = sorted[len(sorted)-1]

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		stats.MedianPages = round2(float64(sorted[mid-1]+sorted[mid]) / 2)
	} else {
		stats.MedianPages = float64(sorted[mid])
	}

	if len(sorted) > 1 {
		var ss float64
		for _, c := range sorted {
			d := float64(c) - mean
			ss += d * d
		}
		stats.StdDevPages = round2(math.Sqrt(ss / (n - 1)))
	}
	return stats
}

// Merge folds per-archive counts into one corpus-wide summary.
func Merge(archives []*models.ArchivePages) models.PageStats {
	var counts []int
	for _, a := range archives {
		for _, f := range a.Files {
			counts = append(counts, f.PageCount)
		}
	}
	return Summarize(counts)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
