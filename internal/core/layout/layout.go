// Package layout provides deterministic hierarchical positioning for
// workflow graphs. Nodes are arranged into columns by BFS depth from
// the source nodes, then spaced vertically within each column.
package layout

import (
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// Default node dimensions applied when a node carries none.
const (
	DefaultNodeWidth  = 300
	DefaultNodeHeight = 600
)

// Options controls layout geometry. Zero-valued fields fall back to
// the defaults.
type Options struct {
	SpacingX float64 `json:"spacing_x"`
	SpacingY float64 `json:"spacing_y"`
	StartX   float64 `json:"start_x"`
	StartY   float64 `json:"start_y"`
}

// DefaultOptions returns the standard canvas geometry.
func DefaultOptions() Options {
	return Options{
		SpacingX: 400,
		SpacingY: 250,
		StartX:   100,
		StartY:   100,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.SpacingX == 0 {
		o.SpacingX = def.SpacingX
	}
	if o.SpacingY == 0 {
		o.SpacingY = def.SpacingY
	}
	if o.StartX == 0 {
		o.StartX = def.StartX
	}
	if o.StartY == 0 {
		o.StartY = def.StartY
	}
	return o
}

// Apply positions nodes with the default geometry.
func Apply(nodes []*flow.Node, edges []*flow.Edge) []*flow.Node {
	return ApplyWithOptions(nodes, edges, DefaultOptions())
}

// ApplyWithOptions assigns a position to every node, mutating the given
// nodes and returning the same slice. The algorithm is deterministic:
// identical input always yields identical coordinates.
//
// Depth assignment is a multi-source BFS where a node's final depth is
// the maximum depth at which it was ever dequeued. Depth bookkeeping
// happens before the visited short-circuit, but children are walked
// only on the first dequeue: a node pulled deeper by a later visit does
// not push its children deeper. Cyclic flows terminate because children
// are walked once per node; cycle members unreachable from any source
// stay at depth 0.
//
// Callers are expected to validate the flow first. Edges referencing
// unknown nodes contribute nothing here.
func ApplyWithOptions(nodes []*flow.Node, edges []*flow.Edge, opts Options) []*flow.Node {
	if len(nodes) == 0 {
		return nodes
	}
	opts = opts.withDefaults()

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	adjacency := make(map[string][]string, len(nodes))
	inDegree := make(map[string]int, len(nodes))
	for _, e := range edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	type queueItem struct {
		id    string
		depth int
	}

	// Sources are the zero in-degree nodes. A flow with none (fully
	// cyclic) falls back to the first node in input order.
	var queue []queueItem
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, queueItem{id: n.ID})
		}
	}
	if len(queue) == 0 {
		queue = append(queue, queueItem{id: nodes[0].ID})
	}

	depth := make(map[string]int, len(nodes))
	visited := make(map[string]bool, len(nodes))
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.depth > depth[item.id] {
			depth[item.id] = item.depth
		}
		if visited[item.id] {
			continue
		}
		visited[item.id] = true
		for _, child := range adjacency[item.id] {
			queue = append(queue, queueItem{id: child, depth: item.depth + 1})
		}
	}

	// Column order follows input order within each depth.
	columnIndex := make(map[string]int, len(nodes))
	columnCount := make(map[int]int)
	for _, n := range nodes {
		d := depth[n.ID]
		columnIndex[n.ID] = columnCount[d]
		columnCount[d]++
	}

	for _, n := range nodes {
		pos := flow.Position{
			X: opts.StartX + float64(depth[n.ID])*opts.SpacingX,
			Y: opts.StartY + float64(columnIndex[n.ID])*opts.SpacingY,
		}
		abs := pos
		n.Position = &pos
		n.PositionAbsolute = &abs
		if n.Width == 0 {
			n.Width = DefaultNodeWidth
		}
		if n.Height == 0 {
			n.Height = DefaultNodeHeight
		}
	}
	return nodes
}
