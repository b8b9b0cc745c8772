// Package flow provides node definitions
package flow

// Node data keys carrying anchor and parameter collections. The
// sanitizer and instantiator address these by name.
const (
	DataKeyInputParams   = "inputParams"
	DataKeyInputAnchors  = "inputAnchors"
	DataKeyOutputAnchors = "outputAnchors"
)

// Node represents a vertex in the workflow graph
// PRINCIPLES:
// - KISS: Simple node representation
// - SRP: Only responsible for node data
type Node struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	Data             map[string]any `json:"data"`
	Position         *Position      `json:"position,omitempty"`
	PositionAbsolute *Position      `json:"positionAbsolute,omitempty"`
	Width            int            `json:"width,omitempty"`
	Height           int            `json:"height,omitempty"`
}

// NewNode constructs a node, rejecting structurally malformed input
// PRINCIPLES:
// - SRP: Local shape checks only; whole-graph checks belong to the validator
func NewNode(id, nodeType string, data map[string]any) (*Node, error) {
	if id == "" {
		return nil, &ShapeError{Entity: "node", Err: ErrEmptyNodeID}
	}
	if nodeType == "" {
		return nil, &ShapeError{Entity: "node", ID: id, Err: ErrEmptyNodeType}
	}
	if data == nil {
		data = map[string]any{}
	}
	return &Node{ID: id, Type: nodeType, Data: data}, nil
}

// Validate ensures node integrity
func (n *Node) Validate() error {
	if n.ID == "" {
		return &ShapeError{Entity: "node", Err: ErrEmptyNodeID}
	}
	if n.Type == "" {
		return &ShapeError{Entity: "node", ID: n.ID, Err: ErrEmptyNodeType}
	}
	return nil
}

// Clone returns a deep copy, including nested data collections.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:     n.ID,
		Type:   n.Type,
		Data:   cloneMap(n.Data),
		Width:  n.Width,
		Height: n.Height,
	}
	if n.Position != nil {
		p := *n.Position
		out.Position = &p
	}
	if n.PositionAbsolute != nil {
		p := *n.PositionAbsolute
		out.PositionAbsolute = &p
	}
	return out
}
