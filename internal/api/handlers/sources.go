package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-tailor/internal/acquire"
	"resume-tailor/internal/api/validation"
	"resume-tailor/internal/document"
	"resume-tailor/internal/logging"
	"resume-tailor/internal/pipeline"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

var requestValidator = validation.New()

// FetchJobPostingHandler handles POST /api/v1/job-posting/fetch
func FetchJobPostingHandler(svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := requestID(c)

		var req models.FetchJobPostingRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, bindError(err))
		}

		logging.GetGlobalLogger().Info("Fetching job posting", map[string]interface{}{
			"request_id": id,
			"url":        req.URL,
		})

		result, err := svc.FetchJobPosting(c.Request().Context(), req.URL)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, models.AcquireResponse{
			Success:   true,
			Mode:      string(acquire.ModeRemote),
			Text:      result.Text,
			Title:     result.Title,
			RequestID: id,
		})
	}
}

// ExtractDocumentHandler handles a multipart PDF upload for one field
func ExtractDocumentHandler(svc *pipeline.Service, field string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := requestID(c)

		fileHeader, err := c.FormFile("file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return respondError(c, utils.NewRequestTooLargeError(tooLarge.Limit))
		}
		if err != nil {
			return respondError(c, utils.NewValidationError("file is required"))
		}

		file, err := fileHeader.Open()
		if err != nil {
			return respondError(c, utils.NewInvalidInputError("failed to open upload: "+err.Error()))
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return respondError(c, utils.NewInvalidInputError("failed to read upload: "+err.Error()))
		}
		if !document.IsPDF(data) {
			return respondError(c, utils.NewDocumentExtractionError(document.ErrUnsupportedFormat.Error(), document.ErrUnsupportedFormat))
		}

		logging.GetGlobalLogger().Info("Extracting uploaded document", map[string]interface{}{
			"request_id": id,
			"field":      field,
			"filename":   fileHeader.Filename,
			"bytes":      len(data),
		})

		src := acquire.Source{Mode: acquire.ModeDocument, Data: data}
		var result *acquire.Result
		if field == "resume" {
			result, err = svc.Acquirer().ResumeText(c.Request().Context(), src)
		} else {
			result, err = svc.Acquirer().JobPostingText(c.Request().Context(), src)
		}
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, models.AcquireResponse{
			Success:   true,
			Mode:      string(acquire.ModeDocument),
			Text:      result.Text,
			Pages:     result.Pages,
			RequestID: id,
		})
	}
}

// AcquireSourceHandler handles POST /api/v1/sources/acquire for any mode
func AcquireSourceHandler(svc *pipeline.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := requestID(c)

		var req models.AcquireSourceRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, bindError(err))
		}
		if err := requestValidator.Struct(&req); err != nil {
			return respondError(c, utils.NewValidationError(err.Error()))
		}

		mode, _ := acquire.ParseMode(req.Mode)
		src := acquire.Source{Mode: mode, Text: req.Text, URL: req.URL, Data: req.Data}

		var (
			result *acquire.Result
			err    error
		)
		switch req.Field {
		case "resume":
			result, err = svc.Acquirer().ResumeText(c.Request().Context(), src)
		case "job_posting":
			result, err = svc.Acquirer().JobPostingText(c.Request().Context(), src)
		default:
			result, err = svc.Acquirer().Acquire(c.Request().Context(), src)
		}
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusOK, models.AcquireResponse{
			Success:   true,
			Mode:      string(mode),
			Text:      result.Text,
			Title:     result.Title,
			Pages:     result.Pages,
			RequestID: id,
		})
	}
}
