// Package flow defines domain-specific errors
package flow

import (
	"errors"
	"fmt"
)

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Node shape errors
	ErrNilNode       = errors.New("node cannot be nil")
	ErrEmptyNodeID   = errors.New("node id cannot be empty")
	ErrEmptyNodeType = errors.New("node type cannot be empty")

	// Edge shape errors
	ErrNilEdge     = errors.New("edge cannot be nil")
	ErrEmptyEdgeID = errors.New("edge id cannot be empty")
	ErrEmptySource = errors.New("edge source cannot be empty")
	ErrEmptyTarget = errors.New("edge target cannot be empty")
	ErrSelfLoop    = errors.New("self-loop edges are not allowed")

	// Wire ingestion errors
	ErrBadPosition = errors.New("malformed position")
)

// ShapeError reports a single structurally malformed entity, detected
// at construction or wire ingestion. It wraps one of the sentinel
// errors above so callers can branch with errors.Is.
type ShapeError struct {
	Entity string // "node" or "edge"
	ID     string // entity id when known
	Detail string // optional field-level detail
	Err    error
}

func (e *ShapeError) Error() string {
	id := e.ID
	if id == "" {
		id = "<unknown>"
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s %q: %v: %s", e.Entity, id, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s %q: %v", e.Entity, id, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }
