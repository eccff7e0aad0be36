// Package pairing matches source archives with their PDF archives and
// reports papers present on only one side.
package pairing

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/paperstats/models"
)

var tarName = regexp.MustCompile(`^arXiv_(src|pdf)_(\d+)_(\d+)\.tar$`)

// Key identifies a batch, e.g. arXiv_src_1901_001.tar → {1901, 001}.
type Key struct {
	Month string
	Seq   string
}

func (k Key) String() string {
	return k.Month + "_" + k.Seq
}

// ParseTarName extracts the batch key and kind ("src" or "pdf") from a file name.
func ParseTarName(name string) (Key, string, bool) {
	m := tarName.FindStringSubmatch(name)
	if m == nil {
		return Key{}, "", false
	}
	return Key{Month: m[2], Seq: m[3]}, m[1], true
}

// Pair is a source archive and its PDF counterpart.
type Pair struct {
	Key       Key
	SourceTar string
	PDFTar    string
}

// PairDirectories matches archives of srcDir with archives of pdfDir by key.
// Unpaired archives are described in the returned messages.
func PairDirectories(srcDir, pdfDir string) ([]Pair, []string, error) {
	src, err := indexDir(srcDir, "src")
	if err != nil {
		return nil, nil, err
	}
	pdf, err := indexDir(pdfDir, "pdf")
	if err != nil {
		return nil, nil, err
	}

	var pairs []Pair
	var unpaired []string
	for key, name := range src {
		if pdfName, ok := pdf[key]; ok {
			pairs = append(pairs, Pair{
				Key:       key,
				SourceTar: filepath.Join(srcDir, name),
				PDFTar:    filepath.Join(pdfDir, pdfName),
			})
			continue
		}
		unpaired = append(unpaired, "Missing PDF counterpart for source file: "+name)
	}
	for key, name := range pdf {
		if _, ok := src[key]; !ok {
			unpaired = append(unpaired, "Missing source counterpart for PDF file: "+name)
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key.String() < pairs[j].Key.String() })
	sort.Strings(unpaired)
	return pairs, unpaired, nil
}

func indexDir(dir, kind string) (map[Key]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	index := make(map[Key]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, k, ok := ParseTarName(e.Name())
		if !ok || k != kind {
			continue
		}
		index[key] = e.Name()
	}
	return index, nil
}

// MemberBases maps the base name (without directory or extension) of every
// member ending in ext to its member name. Matching ignores case.
func MemberBases(tarPath, ext string) (map[string]string, error) {
	f, err := os.Open(tarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrContainerCorrupt, tarPath, err)
	}
	defer f.Close()

	ext = strings.ToLower(ext)
	bases := make(map[string]string)
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return bases, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrContainerCorrupt, tarPath, err)
		}
		if hdr.Typeflag == tar.TypeDir || strings.Contains(hdr.Name, "__MACOSX") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(hdr.Name), ext) {
			continue
		}
		base := path.Base(hdr.Name)
		base = strings.TrimSuffix(base, path.Ext(base))
		bases[base] = hdr.Name
	}
}

// ComparePair lists the papers of one pair and reports those missing a counterpart.
func ComparePair(p Pair) (models.PairResult, []models.MappingEntry, error) {
	start := time.Now()

	gz, err := MemberBases(p.SourceTar, ".gz")
	if err != nil {
		return models.PairResult{}, nil, err
	}
	pdfs, err := MemberBases(p.PDFTar, ".pdf")
	if err != nil {
		return models.PairResult{}, nil, err
	}

	srcName := filepath.Base(p.SourceTar)
	pdfName := filepath.Base(p.PDFTar)

	result := models.PairResult{
		TarPair:     p.Key.String(),
		SourceTar:   srcName,
		PDFTar:      pdfName,
		TotalGz:     len(gz),
		TotalPDF:    len(pdfs),
		MappedFiles: []string{},
	}

	var entries []models.MappingEntry
	for base := range pdfs {
		if _, ok := gz[base]; ok {
			result.MappedFiles = append(result.MappedFiles, base)
			continue
		}
		result.MissingGz++
		entries = append(entries, models.MappingEntry{
			Path:   filepath.Join(filepath.Dir(p.PDFTar), pdfName, base+".pdf"),
			Status: models.StatusMissingGz,
		})
	}
	for base := range gz {
		if _, ok := pdfs[base]; ok {
			continue
		}
		result.MissingPDF++
		entries = append(entries, models.MappingEntry{
			Path:   filepath.Join(filepath.Dir(p.SourceTar), srcName, base+".gz"),
			Status: models.StatusMissingPDF,
		})
	}

	sort.Strings(result.MappedFiles)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	result.TotalMapped = len(result.MappedFiles)
	result.ProcessingTimeSeconds = time.Since(start).Seconds()
	return result, entries, nil
}
