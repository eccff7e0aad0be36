// Package pdfpages counts the pages of PDF members inside TAR archives.
package pdfpages

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var disableConfigOnce sync.Once

// CountPages returns the page count of an in-memory PDF. The lightweight
// ledongthuc reader is tried first; pdfcpu is the fallback for files it
// rejects.
func CountPages(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, errors.New("empty pdf")
	}

	n, err := countLedongthuc(data)
	if err == nil && n > 0 {
		return n, nil
	}

	m, cpuErr := countPdfcpu(data)
	if cpuErr == nil && m > 0 {
		return m, nil
	}
	if cpuErr == nil {
		cpuErr = errors.New("no pages")
	}
	return 0, fmt.Errorf("failed to read pdf: %w", errors.Join(err, cpuErr))
}

func countLedongthuc(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

func countPdfcpu(data []byte) (n int, err error) {
	disableConfigOnce.Do(api.DisableConfigDir)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	ctx, err := api.ReadContext(bytes.NewReader(data), nil)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}
