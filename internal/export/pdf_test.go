package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"resume-tailor/internal/config"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2024, time.June, 10, 23, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	assert.Equal(t, "resume-tailored-2024-06-11.pdf", Filename(ts))
	assert.Equal(t, "resume-tailored-2024-01-02.pdf", Filename(time.UnixMilli(1704196800000)))
}

func TestDocument(t *testing.T) {
	wrapped := Document("<h1>Jane Doe</h1>")
	assert.Contains(t, wrapped, "<body><h1>Jane Doe</h1></body>")
	assert.Contains(t, wrapped, "size: A4")

	full := "<HTML><body><p>x</p></body></HTML>"
	assert.Equal(t, full, Document(full))
}

func TestNewPDFRenderer_DoesNotLaunch(t *testing.T) {
	cfg := config.Default()
	cfg.Export.BrowserBin = "/nonexistent/chrome"
	r := NewPDFRenderer(cfg)
	assert.Nil(t, r.browser)
}
