package dto

import (
	"encoding/json"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/layout"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// Flow payloads ride as raw JSON so the wire parser owns shape
// enforcement; decoding them eagerly would let malformed positions
// slip through as zero values.

// ValidateFlowRequest asks for a structural validation report.
type ValidateFlowRequest struct {
	Flow json.RawMessage `json:"flow" validate:"required"`
}

// Validate validates the request shape
func (req *ValidateFlowRequest) Validate() error {
	if len(req.Flow) == 0 {
		return ErrMissingFlow
	}
	return nil
}

// ValidateFlowResponse reports every violation found; an empty list
// means the flow is structurally sound.
type ValidateFlowResponse struct {
	Valid      bool                   `json:"valid"`
	Violations []validation.Violation `json:"violations"`
}

// LayoutFlowRequest asks for positions to be assigned to a flow.
type LayoutFlowRequest struct {
	Flow    json.RawMessage `json:"flow" validate:"required"`
	Options *layout.Options `json:"options,omitempty"`
}

// Validate validates the request shape
func (req *LayoutFlowRequest) Validate() error {
	if len(req.Flow) == 0 {
		return ErrMissingFlow
	}
	return nil
}

// LayoutFlowResponse carries the positioned flow and its bounding box.
type LayoutFlowResponse struct {
	Flow   *flow.FlowData `json:"flow"`
	Bounds layout.Rect    `json:"bounds"`
}

// SanitizeFlowRequest asks for the API-safe projection of a flow.
type SanitizeFlowRequest struct {
	Flow json.RawMessage `json:"flow" validate:"required"`
}

// Validate validates the request shape
func (req *SanitizeFlowRequest) Validate() error {
	if len(req.Flow) == 0 {
		return ErrMissingFlow
	}
	return nil
}

// SanitizeFlowResponse carries the sanitized flow.
type SanitizeFlowResponse struct {
	Flow *flow.FlowData `json:"flow"`
}

// SubmitFlowRequest asks for a flow to be validated, laid out,
// sanitized and handed to the execution host.
type SubmitFlowRequest struct {
	Name string          `json:"name" validate:"required,flow_name"`
	Flow json.RawMessage `json:"flow" validate:"required"`
}

// Validate validates the request shape
func (req *SubmitFlowRequest) Validate() error {
	if req.Name == "" {
		return ErrMissingFlowName
	}
	if len(req.Flow) == 0 {
		return ErrMissingFlow
	}
	return nil
}

// SubmitFlowResponse reports the identifier assigned by the execution
// host.
type SubmitFlowResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
