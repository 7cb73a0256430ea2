package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.True(t, IsPDF([]byte("\n  %PDF-1.4")))
	assert.False(t, IsPDF([]byte("PK\x03\x04 docx")))
	assert.False(t, IsPDF(nil))
}

func TestPDFExtractor_RejectsNonPDF(t *testing.T) {
	extractor := NewPDFExtractor(0)

	_, err := extractor.ExtractPages(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = extractor.ExtractPages(context.Background(), []byte("<html>not a pdf</html>"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPDFExtractor_CorruptPDF(t *testing.T) {
	extractor := NewPDFExtractor(0)

	pages, err := extractor.ExtractPages(context.Background(), []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\ngarbage without xref"))
	require.Error(t, err)
	assert.Nil(t, pages)
}

func TestPDFExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFExtractor(0).ExtractPages(ctx, []byte("%PDF-1.4"))
	assert.True(t, errors.Is(err, context.Canceled))
}

// buildPDF writes a minimal PDF with one line of Helvetica text per page
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestPDFExtractor_PagesInOrder(t *testing.T) {
	data := buildPDF("Senior Engineer", "Apply now")
	require.True(t, IsPDF(data))

	pages, err := NewPDFExtractor(0).ExtractPages(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Senior Engineer", "Apply now"}, pages)
}

func TestPDFExtractor_PageLimit(t *testing.T) {
	_, err := NewPDFExtractor(1).ExtractPages(context.Background(), buildPDF("one", "two"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 1")
}
