// Package acquire turns pasted text, uploaded documents and remote pages into
// canonical plain text.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resume-tailor/internal/config"
	"resume-tailor/internal/document"
	"resume-tailor/internal/logging"
	"resume-tailor/internal/sanitizer"
	"resume-tailor/pkg/utils"
)

// Mode selects how a source payload is interpreted
type Mode string

const (
	ModeText     Mode = "text"
	ModeDocument Mode = "document"
	ModeRemote   Mode = "remote"
)

// ParseMode maps a mode name to a Mode
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText, true
	case ModeDocument:
		return ModeDocument, true
	case ModeRemote:
		return ModeRemote, true
	}
	return "", false
}

// Source is one acquisition payload. Only the field matching Mode is read.
type Source struct {
	Mode Mode
	Text string
	Data []byte
	URL  string

	// AllowEmpty lets blank text through in text mode
	AllowEmpty bool
}

// Result is the canonical text plus what was learned along the way
type Result struct {
	Text  string
	Title string // remote mode, from the page <title>
	Pages int    // document mode
}

// Acquirer resolves sources into canonical text
type Acquirer struct {
	extractor    document.PageExtractor
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	limiter      *HostLimiter
	logger       logging.Logger
}

// Option customizes an Acquirer
type Option func(*Acquirer)

// WithHTTPClient replaces the client used for remote fetches
func WithHTTPClient(client *http.Client) Option {
	return func(a *Acquirer) { a.client = client }
}

// WithLimiter paces remote fetches per host
func WithLimiter(limiter *HostLimiter) Option {
	return func(a *Acquirer) { a.limiter = limiter }
}

// NewAcquirer creates an acquirer from configuration
func NewAcquirer(cfg *config.Config, extractor document.PageExtractor, opts ...Option) *Acquirer {
	timeout := cfg.Acquisition.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	a := &Acquirer{
		extractor:    extractor,
		client:       &http.Client{Timeout: timeout},
		userAgent:    utils.GetStringOrDefault(cfg.Acquisition.UserAgent, config.DefaultUserAgent),
		maxBodyBytes: cfg.Acquisition.MaxBodyBytes,
		limiter:      NewHostLimiter(cfg.Acquisition.RateLimit),
		logger:       logging.GetGlobalLogger().WithField("component", "acquirer"),
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ResumeText acquires the resume field
func (a *Acquirer) ResumeText(ctx context.Context, src Source) (*Result, error) {
	return a.acquireField(ctx, "resume", src)
}

// JobPostingText acquires the job-posting field
func (a *Acquirer) JobPostingText(ctx context.Context, src Source) (*Result, error) {
	return a.acquireField(ctx, "job_posting", src)
}

func (a *Acquirer) acquireField(ctx context.Context, field string, src Source) (*Result, error) {
	start := time.Now()
	result, err := a.Acquire(ctx, src)
	if err != nil {
		a.logger.Warn("Source acquisition failed", map[string]interface{}{
			"field": field,
			"mode":  string(src.Mode),
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("Source acquired", map[string]interface{}{
		"field":       field,
		"mode":        string(src.Mode),
		"text_length": len(result.Text),
		"duration":    utils.FormatDuration(time.Since(start)),
	})
	return result, nil
}

// Acquire resolves src according to its mode
func (a *Acquirer) Acquire(ctx context.Context, src Source) (*Result, error) {
	switch src.Mode {
	case ModeText:
		if !src.AllowEmpty && utils.IsBlank(src.Text) {
			return nil, utils.NewValidationError("text is required")
		}
		return &Result{Text: src.Text}, nil
	case ModeDocument:
		return a.fromDocument(ctx, src.Data)
	case ModeRemote:
		return a.fromRemote(ctx, src.URL)
	default:
		return nil, utils.NewInvalidInputError(fmt.Sprintf("unknown source mode %q", src.Mode))
	}
}

func (a *Acquirer) fromDocument(ctx context.Context, data []byte) (*Result, error) {
	if a.extractor == nil {
		return nil, utils.NewDocumentExtractionError("no document extractor configured", nil)
	}

	pages, err := a.extractor.ExtractPages(ctx, data)
	if err != nil {
		return nil, utils.NewDocumentExtractionError(err.Error(), err)
	}
	if len(pages) == 0 {
		return nil, utils.NewDocumentExtractionError(document.ErrNoPages.Error(), document.ErrNoPages)
	}

	return &Result{Text: strings.Join(pages, "\n"), Pages: len(pages)}, nil
}

// ValidateURL checks that raw is an absolute http(s) URL
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, utils.NewInvalidInputError("URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, utils.NewInvalidInputError(fmt.Sprintf("malformed URL: %v", err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, utils.NewInvalidInputError(fmt.Sprintf("URL must be absolute http(s): %q", raw))
	}
	return u, nil
}

func (a *Acquirer) fromRemote(ctx context.Context, raw string) (*Result, error) {
	target, err := ValidateURL(raw)
	if err != nil {
		return nil, err
	}

	if err := a.limiter.Wait(ctx, target.Hostname()); err != nil {
		return nil, utils.NewRemoteFetchError(err.Error(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, utils.NewInvalidInputError(err.Error())
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, utils.NewRemoteFetchError(err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.NewRemoteFetchError(fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}

	var body io.Reader = resp.Body
	if a.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, a.maxBodyBytes+1)
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, utils.NewRemoteFetchError(fmt.Sprintf("read body: %v", err), err)
	}
	if a.maxBodyBytes > 0 && int64(len(payload)) > a.maxBodyBytes {
		a.logger.Warn("Remote body too large", map[string]interface{}{
			"url":       target.String(),
			"max_bytes": a.maxBodyBytes,
		})
		return nil, utils.NewRemoteFetchError(fmt.Sprintf("response body exceeds %d bytes", a.maxBodyBytes), nil)
	}

	markup := string(payload)
	return &Result{
		Text:  sanitizer.Sanitize(markup),
		Title: sanitizer.PageTitle(markup),
	}, nil
}
