package wizard

import (
	"errors"

	"github.com/mark3labs/scriptmatch/internal/prompt"
)

// Validation errors, re-exported so callers need only this package.
var (
	ErrInputTooShort    = prompt.ErrInputTooShort
	ErrMissingSelection = prompt.ErrMissingSelection
	ErrInvalidLength    = prompt.ErrInvalidLength
)

var (
	// ErrBusy is returned while a request is outstanding.
	ErrBusy = errors.New("a request is already in progress")
	// ErrStepGated is returned when the next step's entry condition does not hold.
	ErrStepGated = errors.New("the next step is not available yet")
	// ErrFinalStep is returned by Next on the last step.
	ErrFinalStep = errors.New("already at the final step")
	// ErrNothingToExport is returned when no script has been generated.
	ErrNothingToExport = errors.New("no generated script to export")
)

// User-facing failure messages stored in the state's error field.
const (
	MsgAnalysisFailed   = "Analysis failed. Please try again."
	MsgGenerationFailed = "Script generation failed."
	MsgKeywordsFailed   = "Keyword analysis failed."
)

// IsValidation reports whether err is a local input validation error.
func IsValidation(err error) bool {
	return prompt.IsValidation(err)
}
