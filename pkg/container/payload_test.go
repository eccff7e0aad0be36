package container

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/paperstats/models"
)

func TestOpenPayload(t *testing.T) {
	t.Run("nested archive", func(t *testing.T) {
		inner := tarBytes(t,
			entry{name: "src/", dir: true},
			file("src/main.tex", paperTex),
			file("src/body", `\usepackage{graphicx}`),
			file("src/fig.png", "\x89PNG"),
			file("__MACOSX/src/._main.tex", "fork"),
		)

		p, err := OpenPayload("x.gz", bytes.NewReader(gzBytes(t, inner)), DefaultLimits())
		require.NoError(t, err)

		nested, ok := p.(*NestedArchive)
		require.True(t, ok, "got %T", p)
		assert.Equal(t, []string{"src/main.tex", "src/body", "src/fig.png", "__MACOSX/src/._main.tex"}, nested.Names)
		require.Len(t, nested.Sources, 2)
		assert.Equal(t, "src/main.tex", nested.Sources[0].Name)
		assert.Equal(t, paperTex, string(nested.Sources[0].Data))
		assert.Equal(t, `\usepackage{graphicx}`, string(nested.Sources[1].Data))
	})

	t.Run("flat file", func(t *testing.T) {
		p, err := OpenPayload("dir/1234.tex.gz", bytes.NewReader(gzBytes(t, []byte(paperTex))), DefaultLimits())
		require.NoError(t, err)

		flat, ok := p.(*FlatFile)
		require.True(t, ok, "got %T", p)
		assert.Equal(t, "dir/1234.tex", flat.Name)
		assert.Equal(t, paperTex, string(flat.Data))
	})

	t.Run("empty payload is flat", func(t *testing.T) {
		p, err := OpenPayload("empty.gz", bytes.NewReader(gzBytes(t, nil)), DefaultLimits())
		require.NoError(t, err)
		assert.IsType(t, &FlatFile{}, p)
	})

	t.Run("not gzip", func(t *testing.T) {
		_, err := OpenPayload("bad.gz", bytes.NewReader([]byte("plain")), DefaultLimits())

		var memberErr *MemberError
		require.ErrorAs(t, err, &memberErr)
		assert.Equal(t, models.FailureDecompress, memberErr.Kind)
		assert.ErrorIs(t, err, models.ErrMemberCorrupt)
		assert.Equal(t, "bad.gz", memberErr.Failure().Member)
	})

	t.Run("latex member over limit", func(t *testing.T) {
		inner := tarBytes(t, file("main.tex", paperTex))
		_, err := OpenPayload("x.gz", bytes.NewReader(gzBytes(t, inner)), Limits{MaxMemberBytes: 10, MaxPayloadBytes: 1 << 20})

		var memberErr *MemberError
		require.ErrorAs(t, err, &memberErr)
		assert.Equal(t, models.FailureSizeLimit, memberErr.Kind)
		assert.ErrorIs(t, err, models.ErrMemberTooLarge)
	})
}

func TestIsNoise(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"__MACOSX/paper.gz", true},
		{"._paper.gz", true},
		{"dir/._paper.gz", true},
		{"paper.gz", false},
		{"dir/a._b.gz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNoise(tt.name))
		})
	}
}

func TestAnalyzePayload_FlatNonLatex(t *testing.T) {
	w := newTestWalker(t, Options{})
	_, ok := w.AnalyzePayload("notes.gz", &FlatFile{Name: "notes", Data: []byte("hello")}, nil)
	assert.False(t, ok)
}
