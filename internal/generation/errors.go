// Package generation produces the customized CV and cover letter for one
// job, constrained to verified facts from the fact store.
package generation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input errors for the cover-letter generator, which requires both the
// applicant's facts and the already-tailored CV.
var (
	ErrMissingPersonalInfo = errors.New("personal info is required")
	ErrMissingCV           = errors.New("a generated CV document is required")
)

// ValidationError reports structural problems in a generated document that
// would make it unrenderable or misleading.
type ValidationError struct {
	Document string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s failed validation: %s", e.Document, strings.Join(e.Problems, "; "))
}

// GenerationError wraps a failure in a generation stage with the stage name
// so pipeline error reports stay attributable.
type GenerationError struct {
	Stage string
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// collectValidatorProblems flattens validator/v10 field errors into
// human-readable problem strings.
func collectValidatorProblems(err error) []string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, fmt.Sprintf("%s violates %q", fe.Namespace(), fe.Tag()))
		}
		return problems
	}
	return []string{err.Error()}
}
