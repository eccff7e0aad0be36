package pages

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/pdfpages"
	"github.com/dtnitsch/paperstats/pkg/storage"
)

func onePagePDF() []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func writeArchive(t *testing.T, path string, names ...string) {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range names {
		data := onePagePDF()
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(data)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestScanAll(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	good := filepath.Join(inDir, "arXiv_pdf_1901_001.tar")
	bad := filepath.Join(inDir, "arXiv_pdf_1901_002.tar")
	writeArchive(t, good, "1901/a.pdf", "1901/b.pdf")
	require.NoError(t, os.WriteFile(bad, bytes.Repeat([]byte("p"), 600), 0o644))

	store := &storage.Storage{Dir: outDir}
	writer, err := store.OpenJSONL(models.DefaultPageCountFile, false)
	require.NoError(t, err)
	defer writer.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	summary, err := scanAll(context.Background(), logger, pdfpages.NewScanner(logger, 0), writer, nil, 0, []string{good, bad})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ArchivesProcessed)
	assert.Equal(t, 1, summary.ArchivesFailed)
	assert.Equal(t, []string{bad}, summary.FailedArchives)
	assert.Equal(t, 2, summary.Stats.TotalFiles)
	assert.Equal(t, 2, summary.Stats.TotalPages)

	data, err := os.ReadFile(writer.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"page_count":1`)
	assert.Contains(t, lines[0], `"filepath":`)
}
