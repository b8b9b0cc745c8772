package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/dto"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// errorResponse is the JSON error envelope. Violations are present only
// when the validation gate refused the flow.
type errorResponse struct {
	Error      string                 `json:"error"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var failed *dto.ValidationFailedError
	if errors.As(err, &failed) {
		resp.Violations = failed.Violations
	}
	s.writeJSON(w, statusFromError(err), resp)
}

// statusFromError maps service errors onto HTTP statuses. Anything
// unrecognized is treated as internal.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, dto.ErrInvalidFlow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, template.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, dto.ErrSubmitterUnavailable),
		errors.Is(err, dto.ErrSearchUnavailable):
		return http.StatusServiceUnavailable
	case isBadRequest(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// isBadRequest reports whether the error originated from a malformed
// request payload rather than from this service.
func isBadRequest(err error) bool {
	for _, target := range []error{
		dto.ErrMissingFlow,
		dto.ErrMissingFlowName,
		dto.ErrMissingTemplateID,
		dto.ErrMissingTemplateName,
		dto.ErrMissingQuery,
		template.ErrInvalidTemplateID,
		template.ErrInvalidTemplateName,
		flow.ErrBadPosition,
		flow.ErrEmptyNodeID,
		flow.ErrEmptyNodeType,
		flow.ErrEmptyEdgeID,
		flow.ErrEmptySource,
		flow.ErrEmptyTarget,
		flow.ErrSelfLoop,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	var shape *flow.ShapeError
	var coercion *template.CoercionError
	var badType *json.UnmarshalTypeError
	var badSyntax *json.SyntaxError
	return errors.As(err, &shape) || errors.As(err, &coercion) ||
		errors.As(err, &badType) || errors.As(err, &badSyntax)
}
