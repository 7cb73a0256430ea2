// Package export prints tailored resumes to PDF with a headless browser.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"resume-tailor/internal/config"
	"resume-tailor/internal/logging"
)

// Renderer turns an HTML document into PDF bytes
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// Filename is the download name of a PDF exported at t
func Filename(t time.Time) string {
	return "resume-tailored-" + t.UTC().Format("2006-01-02") + ".pdf"
}

const pageStyle = `<style>@page { size: A4; margin: 10mm; } body { margin: 0; }</style>`

// Document wraps a body fragment into a printable page. Full documents are returned unchanged.
func Document(html string) string {
	if strings.Contains(strings.ToLower(html), "<html") {
		return html
	}
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\">" + pageStyle + "</head><body>" + html + "</body></html>"
}

// PDFRenderer prints pages with a lazily launched, shared browser
type PDFRenderer struct {
	config   *config.Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	logger   logging.Logger
	mu       sync.Mutex
}

// NewPDFRenderer creates a renderer. The browser starts on first use.
func NewPDFRenderer(cfg *config.Config) *PDFRenderer {
	logger := logging.GetGlobalLogger().WithField("component", "pdf_export")

	l := launcher.New().
		Headless(cfg.Export.Headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if bin := cfg.Export.BrowserBin; bin != "" {
		l = l.Bin(bin)
	} else if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
		logger.Info("Using system Chrome browser", map[string]interface{}{
			"chrome_path": path,
		})
	}

	return &PDFRenderer{
		config:   cfg,
		launcher: l,
		logger:   logger,
	}
}

func (r *PDFRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	url, err := r.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r.logger.Info("Export browser started")
	r.browser = browser
	return browser, nil
}

// Render prints html on a fresh page
func (r *PDFRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()

	if r.config.Export.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Export.Timeout)
		defer cancel()
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Warn("Failed to close export page", map[string]interface{}{"error": err.Error()})
		}
	}()

	if err := page.SetDocumentContent(Document(html)); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for document: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF stream: %w", err)
	}

	r.logger.Info("PDF exported", map[string]interface{}{
		"bytes":    len(data),
		"duration": time.Since(start).String(),
	})
	return data, nil
}

// Close shuts the browser down
func (r *PDFRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.launcher.Cleanup()
	return err
}
