package services

import (
	"context"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
)

// TemplateStore defines the interface for template persistence
// PRINCIPLES:
// - SRP: Only responsible for template storage and retrieval
// - DIP: Services depend on this abstraction, not on a concrete catalog
type TemplateStore interface {
	// Put validates and stores a template with its optional embedding
	Put(ctx context.Context, tpl *template.Template, embedding []float32) error

	// Get returns the full template, or a *template.NotFoundError
	Get(ctx context.Context, templateID string) (*template.Template, error)

	// GetMetadata returns the catalog projection of a template
	GetMetadata(ctx context.Context, templateID string) (*template.Metadata, error)

	// List returns all template metadata ordered by template id
	List(ctx context.Context) ([]*template.Metadata, error)

	// Search ranks stored templates by similarity to the embedding
	Search(ctx context.Context, embedding []float32, limit int) ([]template.SearchResult, error)

	// Delete removes a template, or reports a *template.NotFoundError
	Delete(ctx context.Context, templateID string) error
}

// Embedder defines the interface for turning text into vectors
// PRINCIPLES:
// - ISP: Single method; batch and usage APIs stay on the adapter
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// FlowSubmitter defines the interface for handing sanitized flows to a
// remote execution host
// PRINCIPLES:
// - SRP: Transport only; validation and sanitization happen before
// - DIP: The service never sees HTTP details
type FlowSubmitter interface {
	// SubmitFlow registers the flow remotely and returns its remote id
	SubmitFlow(ctx context.Context, name string, fd *flow.FlowData) (string, error)
}
