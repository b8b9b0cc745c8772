// Package flow provides the core workflow graph domain entities
// following Clean Architecture principles with zero external dependencies.
package flow

// Position is a 2D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport describes the visible canvas region of a flow.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// DefaultViewport returns the viewport used when a flow carries none.
func DefaultViewport() Viewport {
	return Viewport{X: 0, Y: 0, Zoom: 1}
}

// IsZero reports whether the viewport is unset.
func (v Viewport) IsZero() bool {
	return v == Viewport{}
}

// FlowData represents a complete workflow graph in its wire shape
// PRINCIPLES:
// - KISS: Simple struct, ordered node/edge sequences
// - SRP: Only responsible for graph structure, not execution
type FlowData struct {
	Nodes    []*Node  `json:"nodes"`
	Edges    []*Edge  `json:"edges"`
	Viewport Viewport `json:"viewport"`
}

// NewFlowData creates an empty flow with the default viewport.
func NewFlowData() *FlowData {
	return &FlowData{
		Nodes:    []*Node{},
		Edges:    []*Edge{},
		Viewport: DefaultViewport(),
	}
}

// AddNode appends a node to the flow
// PRINCIPLES:
// - SRP: Only appends, whole-graph checks belong to the validator
func (fd *FlowData) AddNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	fd.Nodes = append(fd.Nodes, node)
	return nil
}

// AddEdge appends an edge to the flow
func (fd *FlowData) AddEdge(edge *Edge) error {
	if edge == nil {
		return ErrNilEdge
	}
	fd.Edges = append(fd.Edges, edge)
	return nil
}

// Node returns the first node with the given ID, or nil.
func (fd *FlowData) Node(id string) *Node {
	for _, n := range fd.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Clone returns a deep structural copy sharing no maps or slices
// with the receiver. Template instantiation relies on this.
func (fd *FlowData) Clone() *FlowData {
	if fd == nil {
		return nil
	}
	out := &FlowData{
		Nodes:    make([]*Node, 0, len(fd.Nodes)),
		Edges:    make([]*Edge, 0, len(fd.Edges)),
		Viewport: fd.Viewport,
	}
	for _, n := range fd.Nodes {
		out.Nodes = append(out.Nodes, n.Clone())
	}
	for _, e := range fd.Edges {
		out.Edges = append(out.Edges, e.Clone())
	}
	return out
}

// cloneValue deep-copies the JSON-shaped values found in node data:
// nested maps and slices are copied, scalars pass through.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
