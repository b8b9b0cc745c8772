package fluentmind

import (
	"context"

	catalog "github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/catalog/memory"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/layout"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/sanitize"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// Re-export core flow types for convenience
type FlowData = flow.FlowData
type Node = flow.Node
type Edge = flow.Edge
type Position = flow.Position
type Viewport = flow.Viewport
type Template = template.Template
type TemplateMetadata = template.Metadata
type Violation = validation.Violation
type LayoutOptions = layout.Options

// ParseFlow decodes a flow from its JSON wire envelope, enforcing the
// position shape rules the plain decoder would silently zero-fill.
func ParseFlow(raw []byte) (*FlowData, error) {
	return flow.ParseFlowData(raw)
}

// DefaultViewport returns the viewport used when a flow carries none.
func DefaultViewport() Viewport {
	return flow.DefaultViewport()
}

// Validate reports the flow's structural violations, if any.
func Validate(fd *FlowData) []Violation {
	return validation.ValidateFlow(fd)
}

// Runtime is a simple façade to work with flows and templates without
// importing internal packages directly. The default runtime uses an
// in-memory catalog and is suitable for local usage and tests.
type Runtime struct {
	catalog      *catalog.Catalog
	instantiator *template.Instantiator
}

// NewRuntime constructs a default runtime with an in-memory template
// catalog suitable for local usage.
func NewRuntime() *Runtime {
	store := catalog.DefaultCatalog()
	// The catalog is never nil here, so the constructor cannot fail.
	inst, _ := template.NewInstantiator(store)
	return &Runtime{catalog: store, instantiator: inst}
}

// RegisterTemplate stores a template in the runtime catalog.
func (rt *Runtime) RegisterTemplate(ctx context.Context, tpl *Template) error {
	return rt.catalog.Put(ctx, tpl, nil)
}

// Template retrieves a stored template by id.
func (rt *Runtime) Template(ctx context.Context, templateID string) (*Template, error) {
	return rt.catalog.Get(ctx, templateID)
}

// Templates lists stored template metadata ordered by template id.
func (rt *Runtime) Templates(ctx context.Context) ([]*TemplateMetadata, error) {
	return rt.catalog.List(ctx)
}

// Instantiate builds a flow from a stored template. Templates carrying
// flow data are instantiated by placeholder substitution with the given
// parameters overlaid on the template's defaults; metadata-only
// templates produce a linear starter flow. The result is not validated;
// run Validate or Prepare before handing it downstream.
func (rt *Runtime) Instantiate(ctx context.Context, templateID string, params map[string]any) (*FlowData, error) {
	tpl, err := rt.catalog.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl.FlowData != nil {
		return template.Substitute(tpl.FlowData, template.MergeParams(tpl.Parameters, params))
	}
	return rt.instantiator.BuildFromTemplate(ctx, templateID)
}

// Prepare runs the local pipeline on a flow: it validates the
// structure, then lays out the nodes and sanitizes the result for the
// wire. A flow with violations is rejected; the violations come back
// and the flow is nil.
func (rt *Runtime) Prepare(fd *FlowData) (*FlowData, []Violation) {
	if violations := validation.ValidateFlow(fd); len(violations) > 0 {
		return nil, violations
	}
	layout.Apply(fd.Nodes, fd.Edges)
	return sanitize.CleanFlowData(fd), nil
}
