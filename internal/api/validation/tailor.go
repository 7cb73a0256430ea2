package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-tailor/internal/acquire"
)

// ValidateNotBlankText requires at least one non-whitespace character
func ValidateNotBlankText(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateSourceMode accepts the acquisition mode names
func ValidateSourceMode(fl validator.FieldLevel) bool {
	_, ok := acquire.ParseMode(fl.Field().String())
	return ok
}

// RegisterTailorValidators registers all tailoring-related custom validators
func RegisterTailorValidators(v *validator.Validate) {
	v.RegisterValidation("notblank_text", ValidateNotBlankText)
	v.RegisterValidation("source_mode", ValidateSourceMode)
}

// New returns a validator with the custom tags registered
func New() *validator.Validate {
	v := validator.New()
	RegisterTailorValidators(v)
	return v
}
