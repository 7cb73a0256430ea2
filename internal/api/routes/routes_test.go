package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/acquire"
	"resume-tailor/internal/config"
	"resume-tailor/internal/export"
	"resume-tailor/internal/history"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/pipeline"
	"resume-tailor/internal/prompt"
	"resume-tailor/internal/tailor"
	"resume-tailor/pkg/models"
)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeProvider) Generate(_ context.Context, req llm.GenerateRequest) (*llm.Generation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, req.Prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Generation{Blocks: []llm.ContentBlock{{Type: "text", Text: f.reply}}}, nil
}

func (f *fakeProvider) IsHealthy(context.Context) error { return nil }

func (f *fakeProvider) GetProviderName() string { return "fake" }

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 " + html), nil
}

func (fakeRenderer) Close() error { return nil }

type testServer struct {
	echo     *echo.Echo
	provider *fakeProvider
	store    *history.Store
}

type downSlot struct{ *history.MemorySlot }

func (downSlot) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T, renderer export.Renderer) *testServer {
	t.Helper()
	return newTestServerWith(t, config.Default(), history.NewMemorySlot(), renderer)
}

func newTestServerWith(t *testing.T, cfg *config.Config, slot history.Slot, renderer export.Renderer) *testServer {
	t.Helper()

	provider := &fakeProvider{reply: "<h1>Jane Doe</h1>"}
	manager := llm.NewManagerWithProvider(cfg, provider)
	store := history.NewStore(slot, 0)
	orchestrator := tailor.NewOrchestrator(cfg, prompt.NewComposer(cfg), manager)
	svc := pipeline.NewService(acquire.NewAcquirer(cfg, nil), orchestrator, store, renderer)

	e := echo.New()
	SetupRoutes(e, cfg, manager, svc)
	return &testServer{echo: e, provider: provider, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func tailorBody() map[string]interface{} {
	return map[string]interface{}{
		"resume_text":         "JANE DOE\nAcme Corp, Engineer",
		"job_posting":         "Senior Engineer\nWe need Go.",
		"current_experiences": "Company: Initech\nExperience Details:\nLed migration",
	}
}

func TestTailorRecordsHistory(t *testing.T) {
	s := newTestServer(t, nil)

	first := s.do(t, http.MethodPost, "/api/v1/resume/tailor", tailorBody())
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	var resp models.TailorResponse
	decode(t, first, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "<h1>Jane Doe</h1>", resp.TailoredResume)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "Senior Engineer", resp.Result.JobTitle)
	assert.NotEmpty(t, first.Header().Get(echo.HeaderXRequestID))

	second := s.do(t, http.MethodPost, "/api/v1/resume/tailor", tailorBody())
	require.Equal(t, http.StatusOK, second.Code)
	var secondResp models.TailorResponse
	decode(t, second, &secondResp)

	list := s.do(t, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var hist models.HistoryResponse
	decode(t, list, &hist)
	require.Equal(t, 2, hist.Count)
	assert.Equal(t, secondResp.Result.ID, hist.History[0].ID, "newest first")
	assert.Equal(t, resp.Result.ID, hist.History[1].ID)
}

func TestTailorStructuredExperience(t *testing.T) {
	s := newTestServer(t, nil)
	body := tailorBody()
	delete(body, "current_experiences")
	body["experience"] = map[string]interface{}{
		"company":     "Initech",
		"job_title":   "Staff Engineer",
		"location":    "Remote",
		"time_period": "2024 - Present",
		"bullets":     []string{"Led migration"},
	}

	rec := s.do(t, http.MethodPost, "/api/v1/resume/tailor", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1, s.provider.calls())
	assert.Contains(t, s.provider.prompts[0], "Company: Initech\nJob Title: Staff Engineer\nLocation: Remote\nTime: 2024 - Present\nExperience Details:\nLed migration")
}

func TestTailorValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{name: "blank resume", mutate: func(b map[string]interface{}) { b["resume_text"] = "   " }},
		{name: "missing job posting", mutate: func(b map[string]interface{}) { delete(b, "job_posting") }},
		{name: "no experiences", mutate: func(b map[string]interface{}) { delete(b, "current_experiences") }},
		{name: "empty structured record", mutate: func(b map[string]interface{}) {
			delete(b, "current_experiences")
			b["experience"] = map[string]interface{}{"company": "Initech", "bullets": []string{" "}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			body := tailorBody()
			tt.mutate(body)

			rec := s.do(t, http.MethodPost, "/api/v1/resume/tailor", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp models.ErrorResponse
			decode(t, rec, &errResp)
			assert.Equal(t, "validation_failed", errResp.Error)
			assert.Zero(t, s.provider.calls(), "no generation call")
			assert.Empty(t, s.store.Load(context.Background()))
		})
	}
}

func TestTailorGenerationFailureAppendsNothing(t *testing.T) {
	s := newTestServer(t, nil)
	s.provider.err = errors.New("overloaded")

	rec := s.do(t, http.MethodPost, "/api/v1/resume/tailor", tailorBody())
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp models.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "generation_failed", errResp.Error)
	assert.Contains(t, errResp.Message, "overloaded")
	assert.Empty(t, s.store.Load(context.Background()))
}

func TestClearHistory(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/resume/tailor", tailorBody()).Code)

	rec := s.do(t, http.MethodDelete, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist models.HistoryResponse
	decode(t, rec, &hist)
	assert.Equal(t, 0, hist.Count)
	assert.NotNil(t, hist.History)

	assert.Empty(t, s.store.Load(context.Background()))
}

func TestFetchJobPosting(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<html><head><title>Senior Engineer</title></head><body><p>Build &amp; ship</p></body></html>"))
	}))
	defer upstream.Close()

	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/job-posting/fetch", map[string]string{"url": upstream.URL + "/job"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.AcquireResponse
	decode(t, rec, &resp)
	assert.Equal(t, "Senior Engineer Build & ship", resp.Text)
	assert.Equal(t, "Senior Engineer", resp.Title)

	rec = s.do(t, http.MethodPost, "/api/v1/job-posting/fetch", map[string]string{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/job-posting/fetch", map[string]string{"url": upstream.URL + "/missing"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var errResp models.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "remote_fetch_failed", errResp.Error)
	assert.Contains(t, errResp.Message, "404")
}

func TestAcquireSourceTextMode(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/v1/sources/acquire", map[string]string{"field": "resume", "mode": "text", "text": "Jane Doe"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AcquireResponse
	decode(t, rec, &resp)
	assert.Equal(t, "Jane Doe", resp.Text)
	assert.Equal(t, "text", resp.Mode)

	rec = s.do(t, http.MethodPost, "/api/v1/sources/acquire", map[string]string{"mode": "carrier-pigeon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	s := newTestServer(t, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("plain text, not a pdf"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/extract", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/job-posting/extract", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing file")
}

func TestExportHistoryPDF(t *testing.T) {
	s := newTestServer(t, fakeRenderer{})

	rec := s.do(t, http.MethodPost, "/api/v1/resume/tailor", tailorBody())
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.TailorResponse
	decode(t, rec, &resp)

	pdf := s.do(t, http.MethodGet, "/api/v1/history/"+resp.Result.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, pdf.Code)
	assert.Equal(t, "application/pdf", pdf.Header().Get(echo.HeaderContentType))
	assert.Contains(t, pdf.Header().Get(echo.HeaderContentDisposition), `attachment; filename="resume-tailored-`)
	assert.True(t, strings.HasPrefix(pdf.Body.String(), "%PDF-1.4 <h1>Jane Doe</h1>"))

	missing := s.do(t, http.MethodGet, "/api/v1/history/nope/pdf", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestExportDisabled(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/api/v1/history/1/pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/health", "/health/ready", "/health/live", "/status", "/"} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	var status models.HealthResponse
	decode(t, s.do(t, http.MethodGet, "/status", nil), &status)
	assert.Equal(t, "fake", status.Checks["llm_provider"])
	assert.Equal(t, "memory", status.Checks["history"])
	assert.Equal(t, "disabled", status.Checks["export"])
}

func TestReadinessReportsHistoryDown(t *testing.T) {
	s := newTestServerWith(t, config.Default(), downSlot{history.NewMemorySlot()}, nil)

	rec := s.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var ready models.HealthResponse
	decode(t, rec, &ready)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "unavailable", ready.Checks["history"])
	assert.Equal(t, "ok", ready.Checks["llm"])
}

func TestOversizedChunkedBodyRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 1024
	s := newTestServerWith(t, cfg, history.NewMemorySlot(), nil)

	payload := `{"resume_text":"` + strings.Repeat("a", 4096) + `","job_posting":"Senior Engineer","current_experiences":"Company: Initech"}`
	// io.MultiReader hides the length, so the request carries no Content-Length
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/tailor", io.MultiReader(strings.NewReader(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var body models.ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "request_too_large", body.Error)
	assert.Equal(t, 0, s.provider.calls())
	assert.Empty(t, s.store.Load(context.Background()))
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
}
