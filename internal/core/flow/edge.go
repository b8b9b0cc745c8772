// Package flow provides edge definitions
package flow

// Edge represents a directed connection between nodes
// PRINCIPLES:
// - KISS: Simple edge representation
// - SRP: Only responsible for edge data
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"` // Source node ID
	Target       string `json:"target"` // Target node ID
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// NewEdge constructs an edge, rejecting structurally malformed input.
// Self-loops are rejected here at creation time; the validator reports
// them again for graphs assembled without the constructor.
func NewEdge(id, source, target string) (*Edge, error) {
	if id == "" {
		return nil, &ShapeError{Entity: "edge", Err: ErrEmptyEdgeID}
	}
	if source == "" {
		return nil, &ShapeError{Entity: "edge", ID: id, Err: ErrEmptySource}
	}
	if target == "" {
		return nil, &ShapeError{Entity: "edge", ID: id, Err: ErrEmptyTarget}
	}
	if source == target {
		return nil, &ShapeError{Entity: "edge", ID: id, Err: ErrSelfLoop}
	}
	return &Edge{ID: id, Source: source, Target: target}, nil
}

// Validate ensures edge integrity
func (e *Edge) Validate() error {
	if e.ID == "" {
		return &ShapeError{Entity: "edge", Err: ErrEmptyEdgeID}
	}
	if e.Source == "" {
		return &ShapeError{Entity: "edge", ID: e.ID, Err: ErrEmptySource}
	}
	if e.Target == "" {
		return &ShapeError{Entity: "edge", ID: e.ID, Err: ErrEmptyTarget}
	}
	if e.Source == e.Target {
		return &ShapeError{Entity: "edge", ID: e.ID, Err: ErrSelfLoop}
	}
	return nil
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}
