// Package flow provides wire-format ingestion
package flow

import (
	"encoding/json"
	"fmt"
)

// wireNode defers position decoding so malformed shapes surface as
// ShapeError rather than a silent zero value.
type wireNode struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Data             map[string]any  `json:"data"`
	Position         json.RawMessage `json:"position"`
	PositionAbsolute json.RawMessage `json:"positionAbsolute"`
	Width            int             `json:"width"`
	Height           int             `json:"height"`
}

type wireEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
}

type wireFlow struct {
	Nodes    []wireNode `json:"nodes"`
	Edges    []wireEdge `json:"edges"`
	Viewport *Viewport  `json:"viewport"`
}

// ParseFlowData decodes the persisted {nodes, edges, viewport} wire
// format, constructing every entity through its constructor so that
// structurally malformed input is rejected at ingestion time
// PRINCIPLES:
// - SRP: Shape checks only; duplicate ids and dangling references are
//   the validator's responsibility
func ParseFlowData(raw []byte) (*FlowData, error) {
	var wire wireFlow
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode flow data: %w", err)
	}

	fd := &FlowData{
		Nodes: make([]*Node, 0, len(wire.Nodes)),
		Edges: make([]*Edge, 0, len(wire.Edges)),
	}
	for _, wn := range wire.Nodes {
		node, err := NewNode(wn.ID, wn.Type, wn.Data)
		if err != nil {
			return nil, err
		}
		if node.Position, err = parsePosition(wn.ID, "position", wn.Position); err != nil {
			return nil, err
		}
		if node.PositionAbsolute, err = parsePosition(wn.ID, "positionAbsolute", wn.PositionAbsolute); err != nil {
			return nil, err
		}
		node.Width = wn.Width
		node.Height = wn.Height
		fd.Nodes = append(fd.Nodes, node)
	}
	for _, we := range wire.Edges {
		edge, err := NewEdge(we.ID, we.Source, we.Target)
		if err != nil {
			return nil, err
		}
		edge.SourceHandle = we.SourceHandle
		edge.TargetHandle = we.TargetHandle
		fd.Edges = append(fd.Edges, edge)
	}
	if wire.Viewport != nil {
		fd.Viewport = *wire.Viewport
	}
	return fd, nil
}

// parsePosition accepts an absent position but rejects one that is
// present with missing or non-numeric coordinates.
func parsePosition(nodeID, field string, raw json.RawMessage) (*Position, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &ShapeError{Entity: "node", ID: nodeID, Err: ErrBadPosition,
			Detail: fmt.Sprintf("%s is not an object", field)}
	}
	x, ok := obj["x"].(float64)
	if !ok {
		return nil, &ShapeError{Entity: "node", ID: nodeID, Err: ErrBadPosition,
			Detail: fmt.Sprintf("%s requires a numeric %q", field, "x")}
	}
	y, ok := obj["y"].(float64)
	if !ok {
		return nil, &ShapeError{Entity: "node", ID: nodeID, Err: ErrBadPosition,
			Detail: fmt.Sprintf("%s requires a numeric %q", field, "y")}
	}
	return &Position{X: x, Y: y}, nil
}
