// Package tailor runs one resume tailoring pass end to end.
package tailor

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"resume-tailor/internal/config"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/logging"
	"resume-tailor/internal/prompt"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

// JobTitleMaxRunes bounds the job-title label of a result
const JobTitleMaxRunes = 100

// Generator is the generative capability the orchestrator calls
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.Generation, error)
}

// Orchestrator validates, composes, generates and builds the result.
// It does not persist anything.
type Orchestrator struct {
	composer  *prompt.Composer
	generator Generator
	clock     Clock
	maxTokens int
	logger    logging.Logger
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithClock replaces the timestamp source
func WithClock(clock Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(cfg *config.Config, composer *prompt.Composer, generator Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		composer:  composer,
		generator: generator,
		clock:     NewMonotonicClock(),
		maxTokens: cfg.LLM.MaxTokens,
		logger:    logging.GetGlobalLogger().WithField("component", "tailor"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Tailor renders rec and runs a tailoring pass
func (o *Orchestrator) Tailor(ctx context.Context, resumeText, jobPostingText string, rec models.ExperienceRecord) (*models.TailoringResult, error) {
	if err := validateTexts(resumeText, jobPostingText); err != nil {
		return nil, err
	}
	if !rec.HasDetails() {
		return nil, utils.NewValidationError("current experiences are required")
	}

	return o.run(ctx, models.TailoringRequest{
		ResumeText:      resumeText,
		JobPostingText:  jobPostingText,
		ExperienceBlock: prompt.RenderExperience(rec),
	})
}

// TailorComposed runs a tailoring pass with an already rendered experience block
func (o *Orchestrator) TailorComposed(ctx context.Context, resumeText, jobPostingText, experienceBlock string) (*models.TailoringResult, error) {
	if err := validateTexts(resumeText, jobPostingText); err != nil {
		return nil, err
	}
	if utils.IsBlank(experienceBlock) {
		return nil, utils.NewValidationError("current experiences are required")
	}

	return o.run(ctx, models.TailoringRequest{
		ResumeText:      resumeText,
		JobPostingText:  jobPostingText,
		ExperienceBlock: experienceBlock,
	})
}

func validateTexts(resumeText, jobPostingText string) error {
	if utils.IsBlank(resumeText) {
		return utils.NewValidationError("resume text is required")
	}
	if utils.IsBlank(jobPostingText) {
		return utils.NewValidationError("job posting is required")
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, req models.TailoringRequest) (*models.TailoringResult, error) {
	instructions, err := o.composer.Compose(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	generation, err := o.generator.Generate(ctx, llm.GenerateRequest{
		Prompt:    instructions,
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		o.logger.Error("Generation failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": utils.FormatDuration(time.Since(start)),
		})
		if errors.Is(err, utils.ErrUnavailable) {
			return nil, err
		}
		return nil, utils.NewGenerationError(err.Error(), err)
	}

	html, ok := generation.FirstText()
	if !ok || utils.IsBlank(html) {
		return nil, utils.NewGenerationError("response contained no text content", nil)
	}

	ts := o.clock.NowMillis()
	result := &models.TailoringResult{
		ID:        strconv.FormatInt(ts, 10),
		JobTitle:  JobTitleLabel(req.JobPostingText),
		HTML:      html,
		Timestamp: ts,
	}

	o.logger.Info("Resume tailored", map[string]interface{}{
		"result_id":   result.ID,
		"job_title":   result.JobTitle,
		"html_length": len(html),
		"stop_reason": generation.StopReason,
		"duration":    utils.FormatDuration(time.Since(start)),
	})

	return result, nil
}

// JobTitleLabel returns the first line of the posting, capped at JobTitleMaxRunes
func JobTitleLabel(jobPostingText string) string {
	line, _, _ := strings.Cut(jobPostingText, "\n")
	line = strings.TrimSuffix(line, "\r")
	return utils.TruncateRunes(line, JobTitleMaxRunes)
}
