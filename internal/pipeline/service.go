// Package pipeline wires acquisition, tailoring, history and export into the
// operations exposed over HTTP and gRPC.
package pipeline

import (
	"context"
	"time"

	"resume-tailor/internal/acquire"
	"resume-tailor/internal/export"
	"resume-tailor/internal/history"
	"resume-tailor/internal/logging"
	"resume-tailor/internal/tailor"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

// Service is the single logical writer of the history log
type Service struct {
	acquirer     *acquire.Acquirer
	orchestrator *tailor.Orchestrator
	store        *history.Store
	renderer     export.Renderer
	logger       logging.Logger
}

// NewService creates a service. renderer may be nil when export is disabled.
func NewService(acquirer *acquire.Acquirer, orchestrator *tailor.Orchestrator, store *history.Store, renderer export.Renderer) *Service {
	return &Service{
		acquirer:     acquirer,
		orchestrator: orchestrator,
		store:        store,
		renderer:     renderer,
		logger:       logging.GetGlobalLogger().WithField("component", "pipeline"),
	}
}

// Acquirer exposes the source acquirer
func (s *Service) Acquirer() *acquire.Acquirer {
	return s.acquirer
}

// Store exposes the history store
func (s *Service) Store() *history.Store {
	return s.store
}

// ExportEnabled reports whether PDF export is available
func (s *Service) ExportEnabled() bool {
	return s.renderer != nil
}

// FetchJobPosting acquires a job posting from a URL
func (s *Service) FetchJobPosting(ctx context.Context, url string) (*acquire.Result, error) {
	return s.acquirer.JobPostingText(ctx, acquire.Source{Mode: acquire.ModeRemote, URL: url})
}

// Tailor runs one tailoring pass and records the result. Nothing is recorded on failure.
func (s *Service) Tailor(ctx context.Context, req models.TailorRequest) (*models.TailoringResult, error) {
	var (
		result *models.TailoringResult
		err    error
	)

	if req.Experience != nil && utils.IsBlank(req.CurrentExperiences) {
		result, err = s.orchestrator.Tailor(ctx, req.ResumeText, req.JobPosting, *req.Experience)
	} else {
		result, err = s.orchestrator.TailorComposed(ctx, req.ResumeText, req.JobPosting, req.CurrentExperiences)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Record(ctx, *result); err != nil {
		s.logger.Error("Failed to record tailoring result", map[string]interface{}{
			"result_id": result.ID,
			"error":     err.Error(),
		})
		return nil, err
	}
	return result, nil
}

// History returns the persisted log, newest first
func (s *Service) History(ctx context.Context) models.HistoryLog {
	return s.store.Load(ctx)
}

// ClearHistory erases every persisted result
func (s *Service) ClearHistory(ctx context.Context) (models.HistoryLog, error) {
	return s.store.Clear(ctx)
}

// ExportPDF prints the history entry with the given id. The filename is dated now.
func (s *Service) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", utils.NewUnavailableError("PDF export is disabled")
	}

	entry, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderer.Render(ctx, entry.HTML)
	if err != nil {
		return nil, "", utils.NewInternalServerError("Failed to export PDF: " + err.Error())
	}
	return data, export.Filename(time.Now()), nil
}
