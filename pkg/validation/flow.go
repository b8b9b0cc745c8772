package validation

import (
	"fmt"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// ViolationKind identifies a class of structural defect.
type ViolationKind string

const (
	// KindDuplicateNodeID reports a node id appearing more than once.
	KindDuplicateNodeID ViolationKind = "duplicate_node_id"
	// KindDanglingEdgeReference reports an edge endpoint that names no node.
	KindDanglingEdgeReference ViolationKind = "dangling_edge_reference"
	// KindSelfLoopEdge reports an edge connecting a node to itself.
	KindSelfLoopEdge ViolationKind = "self_loop_edge"
)

// Violation describes one structural defect found in a flow.
// Violations are reported, never raised; callers decide severity.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Message  string        `json:"message"`
	EntityID string        `json:"entity_id"`
}

// ValidateFlow performs structural validation on a flow loaded from an
// external source where constructor guards may have been bypassed.
// Every check runs over the whole flow; a flow with three defects
// reports three violations in a single pass. A nil flow yields none.
// PRINCIPLES:
// - SRP: Whole-graph checks only; single-entity shape checks live in
//   the flow constructors
func ValidateFlow(fd *flow.FlowData) []Violation {
	if fd == nil {
		return nil
	}
	var violations []Violation

	// Node id uniqueness: one violation per duplicated id, reported in
	// first-seen order regardless of how often the id repeats.
	occurrences := make(map[string]int, len(fd.Nodes))
	var duplicates []string
	for _, n := range fd.Nodes {
		if n == nil {
			continue
		}
		occurrences[n.ID]++
		if occurrences[n.ID] == 2 {
			duplicates = append(duplicates, n.ID)
		}
	}
	for _, id := range duplicates {
		violations = append(violations, Violation{
			Kind:     KindDuplicateNodeID,
			Message:  fmt.Sprintf("node id %q appears %d times", id, occurrences[id]),
			EntityID: id,
		})
	}

	// Edge endpoint checks: one violation per missing endpoint, plus a
	// self-loop check for edges assembled without the constructor.
	for _, e := range fd.Edges {
		if e == nil {
			continue
		}
		if _, ok := occurrences[e.Source]; !ok {
			violations = append(violations, Violation{
				Kind:     KindDanglingEdgeReference,
				Message:  fmt.Sprintf("edge %q references missing source node %q", e.ID, e.Source),
				EntityID: e.ID,
			})
		}
		if _, ok := occurrences[e.Target]; !ok {
			violations = append(violations, Violation{
				Kind:     KindDanglingEdgeReference,
				Message:  fmt.Sprintf("edge %q references missing target node %q", e.ID, e.Target),
				EntityID: e.ID,
			})
		}
		if e.Source == e.Target {
			violations = append(violations, Violation{
				Kind:     KindSelfLoopEdge,
				Message:  fmt.Sprintf("edge %q connects node %q to itself", e.ID, e.Source),
				EntityID: e.ID,
			})
		}
	}

	return violations
}

// IsValid reports whether the flow has zero structural violations.
func IsValid(fd *flow.FlowData) bool {
	return len(ValidateFlow(fd)) == 0
}
