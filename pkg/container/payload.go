// Package container walks TAR archives of GZIP payloads and analyzes the
// LaTeX sources inside them.
package container

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dtnitsch/paperstats/models"
	"github.com/dtnitsch/paperstats/pkg/latex"
)

// Payload is the decompressed content of one GZIP member: either a
// *NestedArchive or a *FlatFile.
type Payload interface {
	payload()
}

// SourceFile is a LaTeX member read from a nested archive.
type SourceFile struct {
	Name string
	Data []byte
}

// NestedArchive is a payload that is itself a TAR. Names lists every
// non-directory entry; Sources holds only the entries recognised as LaTeX.
type NestedArchive struct {
	Names   []string
	Sources []SourceFile
}

// FlatFile is a payload that is a single compressed file.
type FlatFile struct {
	Name string
	Data []byte
}

func (*NestedArchive) payload() {}
func (*FlatFile) payload()      {}

// Limits bound the bytes read for one member.
type Limits struct {
	MaxMemberBytes  int64
	MaxPayloadBytes int64
}

// DefaultLimits returns the default read caps.
func DefaultLimits() Limits {
	return Limits{
		MaxMemberBytes:  models.DefaultMaxMemberBytes,
		MaxPayloadBytes: models.DefaultMaxPayloadBytes,
	}
}

// MemberError describes why a member was skipped.
type MemberError struct {
	Member string
	Kind   string
	Err    error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Member, e.Kind, e.Err)
}

func (e *MemberError) Unwrap() error {
	return e.Err
}

// Failure converts the error to its report form.
func (e *MemberError) Failure() models.MemberFailure {
	return models.MemberFailure{Member: e.Member, ErrorType: e.Kind, Error: e.Err.Error()}
}

// IsNoise reports whether name is platform metadata that is never extracted.
func IsNoise(name string) bool {
	return strings.Contains(name, "__MACOSX") || strings.HasPrefix(path.Base(name), "._")
}

// OpenPayload decompresses a GZIP member and classifies the result.
// name is the member's name inside the outer archive.
func OpenPayload(name string, compressed io.Reader, limits Limits) (Payload, error) {
	gz, err := gzip.NewReader(compressed)
	if err != nil {
		return nil, &MemberError{Member: name, Kind: models.FailureDecompress, Err: fmt.Errorf("%w: %v", models.ErrMemberCorrupt, err)}
	}
	defer gz.Close()

	data, err := readLimited(gz, limits.MaxPayloadBytes)
	if err != nil {
		if errors.Is(err, models.ErrMemberTooLarge) {
			return nil, &MemberError{Member: name, Kind: models.FailureSizeLimit, Err: err}
		}
		return nil, &MemberError{Member: name, Kind: models.FailureDecompress, Err: fmt.Errorf("%w: %v", models.ErrMemberCorrupt, err)}
	}

	if !looksLikeTar(data) {
		return &FlatFile{Name: strings.TrimSuffix(name, ".gz"), Data: data}, nil
	}

	nested, err := readNested(data, limits)
	if err != nil {
		if errors.Is(err, models.ErrMemberTooLarge) {
			return nil, &MemberError{Member: name, Kind: models.FailureSizeLimit, Err: err}
		}
		return nil, &MemberError{Member: name, Kind: models.FailureNestedTar, Err: fmt.Errorf("%w: %v", models.ErrMemberCorrupt, err)}
	}
	return nested, nil
}

func looksLikeTar(data []byte) bool {
	_, err := tar.NewReader(bytes.NewReader(data)).Next()
	return err == nil
}

// readNested lists a nested TAR and reads its LaTeX entries. Entries that are
// neither named nor sniffed as LaTeX are skipped after a SniffSize prefix.
func readNested(data []byte, limits Limits) (*NestedArchive, error) {
	nested := &NestedArchive{}
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read nested header: %w", err)
		}
		if hdr.Typeflag == tar.TypeDir {
			continue
		}
		nested.Names = append(nested.Names, hdr.Name)

		if hdr.Typeflag != tar.TypeReg || IsNoise(hdr.Name) {
			continue
		}

		content, err := readSource(hdr.Name, tr, limits.MaxMemberBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", hdr.Name, err)
		}
		if content != nil {
			nested.Sources = append(nested.Sources, SourceFile{Name: hdr.Name, Data: content})
		}
	}
	return nested, nil
}

// readSource returns the entry content when it is LaTeX, nil otherwise.
func readSource(name string, r io.Reader, limit int64) ([]byte, error) {
	if latex.HasExtension(name) {
		return readLimited(r, limit)
	}

	prefix := make([]byte, latex.SniffSize)
	n, err := io.ReadFull(r, prefix)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	prefix = prefix[:n]
	if !latex.Sniff(prefix) {
		return nil, nil
	}

	rest, err := readLimited(r, limit-int64(n))
	if err != nil {
		return nil, err
	}
	return append(prefix, rest...), nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit < 0 {
		limit = 0
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", models.ErrMemberTooLarge, limit)
	}
	return data, nil
}
