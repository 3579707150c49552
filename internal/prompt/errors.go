package prompt

import "errors"

// Validation errors. They are raised before any request is built and never
// reach the model.
var (
	ErrInputTooShort    = errors.New("reference script is too short to analyze")
	ErrMissingSelection = errors.New("a required selection is missing")
	ErrInvalidLength    = errors.New("target length is out of range")
)

// IsValidation reports whether err is one of the local validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInputTooShort) ||
		errors.Is(err, ErrMissingSelection) ||
		errors.Is(err, ErrInvalidLength)
}
