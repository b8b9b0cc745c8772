package dto

import (
	"encoding/json"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
)

// CreateTemplateRequest registers a template in the catalog.
type CreateTemplateRequest struct {
	TemplateID    string          `json:"template_id" validate:"required,template_id"`
	Name          string          `json:"name" validate:"required,flow_name"`
	Description   string          `json:"description,omitempty"`
	RequiredNodes []string        `json:"required_nodes,omitempty"`
	Flow          json.RawMessage `json:"flow,omitempty"`
	Parameters    map[string]any  `json:"parameters,omitempty"`
}

// Validate validates the request shape
func (req *CreateTemplateRequest) Validate() error {
	if req.TemplateID == "" {
		return ErrMissingTemplateID
	}
	if req.Name == "" {
		return ErrMissingTemplateName
	}
	return nil
}

// ToTemplate builds the domain template, parsing the embedded flow
// payload when present.
func (req *CreateTemplateRequest) ToTemplate() (*template.Template, error) {
	tpl := &template.Template{
		TemplateID:    req.TemplateID,
		Name:          req.Name,
		Description:   req.Description,
		RequiredNodes: req.RequiredNodes,
		Parameters:    req.Parameters,
	}

	if len(req.Flow) > 0 {
		fd, err := flow.ParseFlowData(req.Flow)
		if err != nil {
			return nil, err
		}
		tpl.FlowData = fd
	}

	return tpl, nil
}

// InstantiateTemplateRequest asks for a working flow built from a
// stored template.
type InstantiateTemplateRequest struct {
	TemplateID string         `json:"template_id" validate:"required,template_id"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Validate validates the request shape
func (req *InstantiateTemplateRequest) Validate() error {
	if req.TemplateID == "" {
		return ErrMissingTemplateID
	}
	return nil
}

// InstantiateTemplateResponse carries the instantiated flow together
// with its validation report.
type InstantiateTemplateResponse struct {
	TemplateID string                 `json:"template_id"`
	Flow       *flow.FlowData         `json:"flow"`
	Valid      bool                   `json:"valid"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

// SearchTemplatesRequest looks up templates by semantic similarity.
type SearchTemplatesRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1"`
}

// Validate validates the request shape and applies limit defaults
func (req *SearchTemplatesRequest) Validate() error {
	if req.Query == "" {
		return ErrMissingQuery
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}
	if req.Limit > maxSearchLimit {
		req.Limit = maxSearchLimit
	}
	return nil
}

// SearchTemplatesResponse lists the closest catalog entries.
type SearchTemplatesResponse struct {
	Results []template.SearchResult `json:"results"`
}

// ListTemplatesResponse lists every catalog entry's metadata.
type ListTemplatesResponse struct {
	Templates []*template.Metadata `json:"templates"`
	Count     int                  `json:"count"`
}

// SeedResponse reports how many built-in templates were loaded.
type SeedResponse struct {
	Seeded int `json:"seeded"`
}
