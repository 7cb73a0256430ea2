// Package document extracts per-page plain text from uploaded documents.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPages is returned when a document decodes but holds no pages
var ErrNoPages = errors.New("document has no pages")

// ErrUnsupportedFormat is returned for payloads that are not PDF
var ErrUnsupportedFormat = errors.New("unsupported document format")

// PageExtractor turns binary document data into one string per page, in order
type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

// PDFExtractor decodes PDF text content. It never runs embedded scripts or
// actions; only text-showing operators are interpreted.
type PDFExtractor struct {
	// MaxPages bounds decoding work; 0 means unlimited
	MaxPages int
}

// NewPDFExtractor creates a PDF page extractor
func NewPDFExtractor(maxPages int) *PDFExtractor {
	return &PDFExtractor{MaxPages: maxPages}
}

// IsPDF reports whether data starts with the PDF header
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\n\r "), []byte("%PDF-"))
}

// ExtractPages returns the plain text of every page
func (e *PDFExtractor) ExtractPages(ctx context.Context, data []byte) (pages []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document: %w", ErrUnsupportedFormat)
	}
	if !IsPDF(data) {
		return nil, ErrUnsupportedFormat
	}

	// the decoder panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("corrupt pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, ErrNoPages
	}
	if e.MaxPages > 0 && total > e.MaxPages {
		return nil, fmt.Errorf("pdf has %d pages, limit is %d", total, e.MaxPages)
	}

	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return pages, nil
}
