// Package template provides the core flow template domain entities
// following Clean Architecture principles.
package template

import (
	"regexp"
	"strings"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// templateIDPattern is the canonical template identifier shape.
var templateIDPattern = regexp.MustCompile(`^tmpl_[a-z0-9_]+$`)

// Template represents a named, reusable base flow plus declared
// parameters and required node types. Templates are immutable once
// loaded; instantiation always works on a deep copy
// PRINCIPLES:
// - KISS: Simple struct with clear fields
// - SRP: Only responsible for template data
type Template struct {
	TemplateID    string         `json:"template_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	RequiredNodes []string       `json:"required_nodes,omitempty"`
	FlowData      *flow.FlowData `json:"flow_data,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// Metadata is the read-only projection returned by catalog lookups.
// Nodes carries the comma-separated node-name list consumed by
// BuildFromTemplate.
type Metadata struct {
	TemplateID    string         `json:"template_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Nodes         string         `json:"nodes"`
	RequiredNodes []string       `json:"required_nodes,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// Validate ensures template integrity
// PRINCIPLES:
// - SRP: Single responsibility - validation only
func (t *Template) Validate() error {
	if !templateIDPattern.MatchString(t.TemplateID) {
		return ErrInvalidTemplateID
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrInvalidTemplateName
	}
	return nil
}

// Metadata derives the catalog projection of the template.
func (t *Template) Metadata() *Metadata {
	return &Metadata{
		TemplateID:    t.TemplateID,
		Name:          t.Name,
		Description:   t.Description,
		Nodes:         strings.Join(t.RequiredNodes, ","),
		RequiredNodes: t.RequiredNodes,
		Parameters:    t.Parameters,
	}
}

// SearchResult pairs a catalog entry with its similarity to a query
// embedding. Higher similarity means a closer match.
type SearchResult struct {
	Metadata   *Metadata `json:"metadata"`
	Similarity float64   `json:"similarity"`
}
