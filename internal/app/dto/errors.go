package dto

import (
	"errors"
	"fmt"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// Request errors
var (
	ErrMissingFlow          = errors.New("flow data is required")
	ErrMissingFlowName      = errors.New("flow name is required")
	ErrMissingTemplateID    = errors.New("template ID is required")
	ErrMissingTemplateName  = errors.New("template name is required")
	ErrMissingQuery         = errors.New("search query is required")
	ErrInvalidFlow          = errors.New("flow failed validation")
	ErrSearchUnavailable    = errors.New("similarity search is not configured")
	ErrSubmitterUnavailable = errors.New("execution host is not configured")
)

// ValidationFailedError carries the structural violations that stopped
// a flow from entering layout, sanitization or submission.
type ValidationFailedError struct {
	Violations []validation.Violation
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("flow failed validation with %d violation(s)", len(e.Violations))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrInvalidFlow
}
