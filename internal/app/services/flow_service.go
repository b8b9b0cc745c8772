package services

import (
	"context"
	"fmt"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/dto"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/layout"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/sanitize"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/infrastructure/metrics"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// FlowService implements the flow pipeline: validation, layout,
// sanitization, and submission to the execution host
// PRINCIPLES:
// - SRP: Orchestrates the core operations, owns none of their logic
// - DIP: Depends on the FlowSubmitter abstraction
type FlowService struct {
	submitter FlowSubmitter
}

// NewFlowService creates a flow service. The submitter may be nil when
// no execution host is configured; Submit then fails fast.
func NewFlowService(submitter FlowSubmitter) *FlowService {
	return &FlowService{submitter: submitter}
}

// Validate parses the flow payload and reports its structural
// violations. A flow with violations is a successful validation with
// findings, not an error.
func (s *FlowService) Validate(ctx context.Context, req *dto.ValidateFlowRequest) (*dto.ValidateFlowResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fd, err := flow.ParseFlowData(req.Flow)
	if err != nil {
		return nil, err
	}

	violations := validation.ValidateFlow(fd)
	for _, v := range violations {
		metrics.AddViolations(string(v.Kind), 1)
	}
	if len(violations) > 0 {
		metrics.IncValidations("invalid")
		return &dto.ValidateFlowResponse{Valid: false, Violations: violations}, nil
	}
	metrics.IncValidations("valid")
	return &dto.ValidateFlowResponse{Valid: true, Violations: []validation.Violation{}}, nil
}

// Layout assigns canvas positions to every node. Flows with structural
// violations are refused; positioning a broken graph would only hide
// the defect.
func (s *FlowService) Layout(ctx context.Context, req *dto.LayoutFlowRequest) (*dto.LayoutFlowResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fd, err := flow.ParseFlowData(req.Flow)
	if err != nil {
		return nil, err
	}
	if violations := validation.ValidateFlow(fd); len(violations) > 0 {
		return nil, &dto.ValidationFailedError{Violations: violations}
	}

	opts := layout.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	layout.ApplyWithOptions(fd.Nodes, fd.Edges, opts)
	metrics.IncLayouts()

	return &dto.LayoutFlowResponse{Flow: fd, Bounds: layout.Bounds(fd.Nodes)}, nil
}

// Sanitize reduces the flow to its API-safe projection. The same
// violation gate as Layout applies.
func (s *FlowService) Sanitize(ctx context.Context, req *dto.SanitizeFlowRequest) (*dto.SanitizeFlowResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fd, err := flow.ParseFlowData(req.Flow)
	if err != nil {
		return nil, err
	}
	if violations := validation.ValidateFlow(fd); len(violations) > 0 {
		return nil, &dto.ValidationFailedError{Violations: violations}
	}

	clean := sanitize.CleanFlowData(fd)
	metrics.IncSanitizations()

	return &dto.SanitizeFlowResponse{Flow: clean}, nil
}

// Submit runs the full pipeline and hands the result to the execution
// host: validate, lay out, sanitize, submit.
func (s *FlowService) Submit(ctx context.Context, req *dto.SubmitFlowRequest) (*dto.SubmitFlowResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.submitter == nil {
		return nil, dto.ErrSubmitterUnavailable
	}
	fd, err := flow.ParseFlowData(req.Flow)
	if err != nil {
		return nil, err
	}
	if violations := validation.ValidateFlow(fd); len(violations) > 0 {
		metrics.IncSubmissions("rejected")
		return nil, &dto.ValidationFailedError{Violations: violations}
	}

	layout.Apply(fd.Nodes, fd.Edges)
	clean := sanitize.CleanFlowData(fd)

	id, err := s.submitter.SubmitFlow(ctx, req.Name, clean)
	if err != nil {
		metrics.IncSubmissions("failed")
		return nil, fmt.Errorf("flow submission failed: %w", err)
	}
	metrics.IncSubmissions("submitted")

	return &dto.SubmitFlowResponse{ID: id, Name: req.Name}, nil
}
