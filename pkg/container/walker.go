package container

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/figures"
	"github.com/dtnitsch/paperstats/pkg/latex"
	"github.com/dtnitsch/paperstats/pkg/stats"
)

// Payload kinds reported in PayloadReport.Kind.
const (
	KindNested = "nested_tar"
	KindFlat   = "flat_file"
)

// LanguageDetector names the natural language of a LaTeX source.
type LanguageDetector interface {
	Detect(text string) string
}

// Options configure a Walker.
type Options struct {
	Limits   Limits
	Language LanguageDetector // nil disables detection
}

// Walker analyzes one archive at a time. It holds no per-archive state, so a
// single Walker may serve several goroutines.
type Walker struct {
	logger   *slog.Logger
	resolver *figures.Resolver
	opts     Options
}

// NewWalker creates a Walker.
func NewWalker(logger *slog.Logger, resolver *figures.Resolver, opts Options) *Walker {
	if opts.Limits.MaxMemberBytes <= 0 {
		opts.Limits.MaxMemberBytes = models.DefaultMaxMemberBytes
	}
	if opts.Limits.MaxPayloadBytes <= 0 {
		opts.Limits.MaxPayloadBytes = models.DefaultMaxPayloadBytes
	}
	return &Walker{logger: logger, resolver: resolver, opts: opts}
}

// Walk analyzes every GZIP member of the archive at tarPath. Errors confined
// to a member are recorded in the report's FailedMembers. An error is returned
// only when the archive itself cannot be read (wrapping ErrContainerCorrupt)
// or ctx is cancelled.
func (w *Walker) Walk(ctx context.Context, tarPath string) (*models.ArchiveReport, error) {
	start := time.Now()

	absPath, err := filepath.Abs(tarPath)
	if err != nil {
		absPath = tarPath
	}

	names, err := listMembers(tarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrContainerCorrupt, tarPath, err)
	}

	f, err := os.Open(tarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrContainerCorrupt, tarPath, err)
	}
	defer f.Close()

	report := &models.ArchiveReport{
		TarFile:          absPath,
		DetailedAnalysis: []models.PayloadReport{},
	}

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
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		report.Stats.TotalFiles++
		if !strings.HasSuffix(hdr.Name, ".gz") || IsNoise(hdr.Name) {
			continue
		}
		report.Stats.TotalGzFiles++

		payload, err := w.openMember(hdr, tr)
		if err != nil {
			var memberErr *MemberError
			if !errors.As(err, &memberErr) {
				memberErr = &MemberError{Member: hdr.Name, Kind: models.FailureRead, Err: err}
			}
			w.logger.Warn("Skipping member", "archive", tarPath, "member", hdr.Name, "error_type", memberErr.Kind, "error", memberErr.Err)
			report.FailedMembers = append(report.FailedMembers, memberErr.Failure())
			continue
		}

		result, ok := w.AnalyzePayload(hdr.Name, payload, names)
		if !ok {
			continue
		}
		stats.FoldArchive(report, result)
	}

	report.ProcessingTimeSeconds = time.Since(start).Seconds()
	w.logger.Debug("Archive analyzed", "archive", tarPath, "gz_files", report.Stats.TotalGzFiles, "failed_members", len(report.FailedMembers), "duration", report.ProcessingTimeSeconds)
	return report, nil
}

func (w *Walker) openMember(hdr *tar.Header, r io.Reader) (Payload, error) {
	if hdr.Size > w.opts.Limits.MaxMemberBytes {
		return nil, &MemberError{
			Member: hdr.Name,
			Kind:   models.FailureSizeLimit,
			Err:    fmt.Errorf("%w: %d bytes exceeds %d", models.ErrMemberTooLarge, hdr.Size, w.opts.Limits.MaxMemberBytes),
		}
	}

	compressed, err := readLimited(r, w.opts.Limits.MaxMemberBytes)
	if err != nil {
		return nil, &MemberError{Member: hdr.Name, Kind: models.FailureRead, Err: fmt.Errorf("%w: %v", models.ErrMemberCorrupt, err)}
	}
	return OpenPayload(hdr.Name, bytes.NewReader(compressed), w.opts.Limits)
}

// AnalyzePayload parses the LaTeX sources of a payload. siblings are the
// member names of the outer archive, used to resolve figures of a flat file.
// ok is false when the payload holds no LaTeX.
func (w *Walker) AnalyzePayload(name string, p Payload, siblings []string) (models.PayloadReport, bool) {
	var (
		kind     string
		names    []string
		sources  []SourceFile
		category models.LatexCategory
	)

	switch p := p.(type) {
	case *NestedArchive:
		kind, names, sources = KindNested, p.Names, p.Sources
	case *FlatFile:
		kind, names = KindFlat, siblings
		if latex.IsLaTeX(p.Name, p.Data) {
			sources = []SourceFile{{Name: p.Name, Data: p.Data}}
		}
	default:
		return models.PayloadReport{}, false
	}

	if len(sources) == 0 {
		return models.PayloadReport{}, false
	}

	files := make([]models.SourceFileReport, 0, len(sources))
	for _, src := range sources {
		category = latex.Stronger(category, latex.Category(src.Name, src.Data))
		if !latex.ShouldAnalyze(src.Name, src.Data) {
			continue
		}
		files = append(files, w.analyzeSource(src, names))
	}

	result := stats.FoldPayload(name, files)
	result.Kind = kind
	result.ContainsLatex = true
	result.LatexCategory = category
	return result, true
}

func (w *Walker) analyzeSource(src SourceFile, names []string) models.SourceFileReport {
	text := latex.Decode(src.Data)
	analysis := latex.Analyze(text)
	resolution := w.resolver.Resolve(analysis.Figures, names)

	file := models.SourceFileReport{
		Filename:       src.Name,
		Analysis:       analysis,
		FoundFigures:   resolution.Found,
		MissingFigures: resolution.Missing,
	}
	if w.opts.Language != nil {
		file.Language = w.opts.Language.Detect(text)
	}
	return file
}

// listMembers returns the names of every non-directory member.
func listMembers(tarPath string) ([]string, error) {
	f, err := os.Open(tarPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, errors.New("empty file")
	}

	var names []string
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeDir {
			names = append(names, hdr.Name)
		}
	}
}
