// Package template provides flow instantiation from catalog templates
package template

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// Linear starter-flow geometry. Simpler than the hierarchical layout
// engine; the coordinates are not expected to match it.
const (
	linearStartX   = 100.0
	linearStartY   = 100.0
	linearSpacingX = 400.0
)

// Catalog is the narrow template source the instantiator depends on
// PRINCIPLES:
// - ISP: Interface segregation with a single lookup method
// - DIP: Core domain depends on interface, not implementations
type Catalog interface {
	// GetMetadata returns the template projection, or a *NotFoundError
	// when the id names no template.
	GetMetadata(ctx context.Context, templateID string) (*Metadata, error)
}

// Instantiator builds starter flows from catalog templates.
type Instantiator struct {
	catalog Catalog
}

// NewInstantiator creates an instantiator backed by the given catalog.
func NewInstantiator(catalog Catalog) (*Instantiator, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	return &Instantiator{catalog: catalog}, nil
}

// BuildFromTemplate retrieves template metadata and builds a linear
// starter flow with one node per name in the template's
// comma-separated node list, chained left to right under the default
// viewport. Node ids carry a random suffix so repeated builds never
// collide.
//
// The result is not validated; callers run the validator before
// handing the flow downstream.
func (i *Instantiator) BuildFromTemplate(ctx context.Context, templateID string) (*flow.FlowData, error) {
	meta, err := i.catalog.GetMetadata(ctx, templateID)
	if err != nil {
		return nil, err
	}

	fd := flow.NewFlowData()
	var prev *flow.Node
	index := 0
	for _, raw := range strings.Split(meta.Nodes, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		node, err := flow.NewNode(
			fmt.Sprintf("%s_%d_%s", name, index, randomSuffix()),
			name,
			map[string]any{"name": name, "label": name},
		)
		if err != nil {
			return nil, err
		}
		node.Position = &flow.Position{
			X: linearStartX + float64(index)*linearSpacingX,
			Y: linearStartY,
		}
		fd.AddNode(node)

		if prev != nil {
			edge, err := flow.NewEdge(prev.ID+"-"+node.ID, prev.ID, node.ID)
			if err != nil {
				return nil, err
			}
			fd.AddEdge(edge)
		}
		prev = node
		index++
	}
	return fd, nil
}

// randomSuffix returns 8 hex characters from a fresh UUID.
func randomSuffix() string {
	return uuid.NewString()[:8]
}
