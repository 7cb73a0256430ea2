package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDocumentExtraction = errors.New("document extraction failed")
	ErrRemoteFetch        = errors.New("remote fetch failed")
	ErrGeneration         = errors.New("generation failed")
	ErrPersistence        = errors.New("persistence failed")
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("unavailable")
	ErrTooLarge           = errors.New("request too large")
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`

	Kind error `json:"-"`
	Err  error `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Is reports whether target is the kind of this error.
func (e *CustomError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Category returns the machine readable name used in error responses.
func (e *CustomError) Category() string {
	switch e.Kind {
	case ErrValidation:
		return "validation_failed"
	case ErrInvalidInput:
		return "invalid_input"
	case ErrDocumentExtraction:
		return "document_extraction_failed"
	case ErrRemoteFetch:
		return "remote_fetch_failed"
	case ErrGeneration:
		return "generation_failed"
	case ErrPersistence:
		return "persistence_failed"
	case ErrNotFound:
		return "not_found"
	case ErrUnavailable:
		return "unavailable"
	case ErrTooLarge:
		return "request_too_large"
	default:
		return "internal_error"
	}
}

func newKindError(kind error, code int, message, detail string, cause error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Kind:    kind,
		Err:     cause,
	}
}

// Common error constructors
func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return newKindError(ErrValidation, http.StatusBadRequest, "Validation failed", detail, nil)
}

func NewInvalidInputError(detail string) *CustomError {
	return newKindError(ErrInvalidInput, http.StatusBadRequest, "Invalid input", detail, nil)
}

// Acquisition errors
func NewDocumentExtractionError(detail string, cause error) *CustomError {
	return newKindError(ErrDocumentExtraction, http.StatusUnprocessableEntity, "Document extraction failed", detail, cause)
}

func NewRemoteFetchError(detail string, cause error) *CustomError {
	return newKindError(ErrRemoteFetch, http.StatusBadGateway, "Failed to fetch URL", detail, cause)
}

// NewGenerationError wraps a failure of the generative service or an unusable response
func NewGenerationError(detail string, cause error) *CustomError {
	return newKindError(ErrGeneration, http.StatusBadGateway, "Failed to tailor resume", detail, cause)
}

func NewPersistenceError(detail string, cause error) *CustomError {
	return newKindError(ErrPersistence, http.StatusInternalServerError, "History persistence failed", detail, cause)
}

func NewNotFoundError(detail string) *CustomError {
	return newKindError(ErrNotFound, http.StatusNotFound, "Not found", detail, nil)
}

func NewUnavailableError(detail string) *CustomError {
	return newKindError(ErrUnavailable, http.StatusServiceUnavailable, "Service unavailable", detail, nil)
}

func NewRequestTooLargeError(limit int64) *CustomError {
	return newKindError(ErrTooLarge, http.StatusRequestEntityTooLarge, "Request body too large",
		fmt.Sprintf("body exceeds %d bytes", limit), nil)
}

// HTTPStatus returns the status code carried by err, or 500.
func HTTPStatus(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Code != 0 {
		return ce.Code
	}
	return http.StatusInternalServerError
}

// ErrorCategory returns the response category carried by err.
func ErrorCategory(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Category()
	}
	return "internal_error"
}
