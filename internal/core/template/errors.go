// Package template defines domain-specific errors
package template

import (
	"errors"
	"fmt"
)

// Domain errors - DRY principle: defined once, used everywhere
var (
	ErrNilTemplate         = errors.New("template cannot be nil")
	ErrInvalidTemplateID   = errors.New("invalid template id")
	ErrInvalidTemplateName = errors.New("invalid template name")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrNilCatalog          = errors.New("catalog cannot be nil")
)

// NotFoundError reports a catalog lookup that found no template. It
// carries the missing id so callers can distinguish absence from a
// transport failure, and unwraps to ErrTemplateNotFound.
type NotFoundError struct {
	TemplateID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.TemplateID)
}

func (e *NotFoundError) Unwrap() error { return ErrTemplateNotFound }

// CoercionError reports a parameter value that could not be converted
// to the type its target field expects. Fatal to the single
// substitution call that produced it.
type CoercionError struct {
	Field    string // node data field being assigned
	Param    string // parameter supplying the value
	Expected string
	Value    string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("parameter %q for field %q: cannot coerce %q to %s",
		e.Param, e.Field, e.Value, e.Expected)
}
