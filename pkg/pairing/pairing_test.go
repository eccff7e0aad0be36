package pairing

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/paperstats/models"
)

func writeTar(t *testing.T, path string, names ...string) {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range names {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: 1, Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestParseTarName(t *testing.T) {
	tests := []struct {
		name     string
		wantKey  Key
		wantKind string
		wantOK   bool
	}{
		{"arXiv_src_1901_001.tar", Key{"1901", "001"}, "src", true},
		{"arXiv_pdf_1901_001.tar", Key{"1901", "001"}, "pdf", true},
		{"arXiv_src_1901_001.tar.gz", Key{}, "", false},
		{"arXiv_txt_1901_001.tar", Key{}, "", false},
		{"random.tar", Key{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, kind, ok := ParseTarName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestPairDirectories(t *testing.T) {
	srcDir, pdfDir := t.TempDir(), t.TempDir()
	writeTar(t, filepath.Join(srcDir, "arXiv_src_1901_002.tar"))
	writeTar(t, filepath.Join(srcDir, "arXiv_src_1901_001.tar"))
	writeTar(t, filepath.Join(srcDir, "arXiv_src_1902_001.tar"))
	writeTar(t, filepath.Join(srcDir, "notes.txt"))
	writeTar(t, filepath.Join(pdfDir, "arXiv_pdf_1901_001.tar"))
	writeTar(t, filepath.Join(pdfDir, "arXiv_pdf_1901_002.tar"))
	writeTar(t, filepath.Join(pdfDir, "arXiv_pdf_1903_001.tar"))

	pairs, unpaired, err := PairDirectories(srcDir, pdfDir)
	require.NoError(t, err)

	require.Len(t, pairs, 2)
	assert.Equal(t, "1901_001", pairs[0].Key.String())
	assert.Equal(t, filepath.Join(pdfDir, "arXiv_pdf_1901_001.tar"), pairs[0].PDFTar)
	assert.Equal(t, "1901_002", pairs[1].Key.String())
	assert.Equal(t, []string{
		"Missing PDF counterpart for source file: arXiv_src_1902_001.tar",
		"Missing source counterpart for PDF file: arXiv_pdf_1903_001.tar",
	}, unpaired)

	_, _, err = PairDirectories(filepath.Join(srcDir, "missing"), pdfDir)
	assert.Error(t, err)
}

func TestComparePair(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "arXiv_src_1901_001.tar")
	pdf := filepath.Join(dir, "arXiv_pdf_1901_001.tar")
	writeTar(t, src, "1901/1901.00001.gz", "1901/1901.00002.GZ", "1901/1901.00003.gz", "__MACOSX/1901/._1901.00004.gz")
	writeTar(t, pdf, "1901/1901.00001.pdf", "1901/1901.00002.pdf", "1901/1901.00005.PDF", "1901/readme.txt")

	result, entries, err := ComparePair(Pair{Key: Key{"1901", "001"}, SourceTar: src, PDFTar: pdf})
	require.NoError(t, err)

	assert.Equal(t, "1901_001", result.TarPair)
	assert.Equal(t, "arXiv_src_1901_001.tar", result.SourceTar)
	assert.Equal(t, 3, result.TotalGz)
	assert.Equal(t, 3, result.TotalPDF)
	assert.Equal(t, 2, result.TotalMapped)
	assert.Equal(t, []string{"1901.00001", "1901.00002"}, result.MappedFiles)
	assert.Equal(t, 1, result.MissingGz)
	assert.Equal(t, 1, result.MissingPDF)

	require.Len(t, entries, 2)
	statuses := map[string]string{}
	for _, e := range entries {
		statuses[filepath.Base(e.Path)] = e.Status
	}
	assert.Equal(t, models.StatusMissingGz, statuses["1901.00005.pdf"])
	assert.Equal(t, models.StatusMissingPDF, statuses["1901.00003.gz"])

	var summary models.PairSummary
	summary.Add(result)
	summary.Add(result)
	assert.Equal(t, 2, summary.TotalPairs)
	assert.Equal(t, 4, summary.TotalMapped)
}

func TestComparePair_CorruptArchive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "arXiv_src_1901_001.tar")
	require.NoError(t, os.WriteFile(src, bytes.Repeat([]byte("z"), 700), 0o644))

	_, _, err := ComparePair(Pair{SourceTar: src, PDFTar: filepath.Join(dir, "none.tar")})
	assert.True(t, errors.Is(err, models.ErrContainerCorrupt))
}
