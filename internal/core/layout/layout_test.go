package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

func node(t *testing.T, id string) *flow.Node {
	t.Helper()
	n, err := flow.NewNode(id, "customNode", nil)
	require.NoError(t, err)
	return n
}

func edge(t *testing.T, source, target string) *flow.Edge {
	t.Helper()
	e, err := flow.NewEdge(source+"-"+target, source, target)
	require.NoError(t, err)
	return e
}

func position(t *testing.T, n *flow.Node) flow.Position {
	t.Helper()
	require.NotNil(t, n.Position, "node %s has no position", n.ID)
	return *n.Position
}

func TestApply_Diamond(t *testing.T) {
	nodes := []*flow.Node{node(t, "a"), node(t, "b"), node(t, "c"), node(t, "d")}
	edges := []*flow.Edge{
		edge(t, "a", "b"),
		edge(t, "a", "c"),
		edge(t, "b", "d"),
		edge(t, "c", "d"),
	}

	out := Apply(nodes, edges)
	require.Len(t, out, 4)

	assert.Equal(t, flow.Position{X: 100, Y: 100}, position(t, nodes[0]))
	assert.Equal(t, flow.Position{X: 500, Y: 100}, position(t, nodes[1]))
	assert.Equal(t, flow.Position{X: 500, Y: 350}, position(t, nodes[2]))
	assert.Equal(t, flow.Position{X: 900, Y: 100}, position(t, nodes[3]))

	for _, n := range nodes {
		require.NotNil(t, n.PositionAbsolute)
		assert.Equal(t, *n.Position, *n.PositionAbsolute)
		assert.NotSame(t, n.Position, n.PositionAbsolute)
		assert.Equal(t, DefaultNodeWidth, n.Width)
		assert.Equal(t, DefaultNodeHeight, n.Height)
	}
}

func TestApply_MaxDepthWins(t *testing.T) {
	// c is reachable at depth 1 (a->c) and depth 2 (a->b->c); the
	// deeper path decides its column.
	nodes := []*flow.Node{node(t, "a"), node(t, "b"), node(t, "c")}
	edges := []*flow.Edge{
		edge(t, "a", "b"),
		edge(t, "b", "c"),
		edge(t, "a", "c"),
	}

	Apply(nodes, edges)

	assert.Equal(t, 100.0, position(t, nodes[0]).X)
	assert.Equal(t, 500.0, position(t, nodes[1]).X)
	assert.Equal(t, 900.0, position(t, nodes[2]).X)
}

func TestApply_DepthUpdateDoesNotPropagate(t *testing.T) {
	// c is first dequeued at depth 1, which is when its child d is
	// enqueued. The later dequeue at depth 2 deepens c itself but not
	// d, so both land in the same column. Known asymmetry of the
	// max-depth BFS; kept for layout stability.
	nodes := []*flow.Node{node(t, "a"), node(t, "b"), node(t, "c"), node(t, "d")}
	edges := []*flow.Edge{
		edge(t, "a", "b"),
		edge(t, "a", "c"),
		edge(t, "b", "c"),
		edge(t, "c", "d"),
	}

	Apply(nodes, edges)

	assert.Equal(t, 900.0, position(t, nodes[2]).X)
	assert.Equal(t, 900.0, position(t, nodes[3]).X)
	// Same column, stacked in input order.
	assert.Equal(t, 100.0, position(t, nodes[2]).Y)
	assert.Equal(t, 350.0, position(t, nodes[3]).Y)
}

func TestApply_FullyCyclicFallsBackToFirstNode(t *testing.T) {
	// No zero in-degree node exists, so the first node seeds the BFS.
	// Walking the cycle re-dequeues it at depth 2, and depth updates
	// land before the visited check, so the seed itself ends deeper
	// than its successor.
	nodes := []*flow.Node{node(t, "a"), node(t, "b")}
	edges := []*flow.Edge{edge(t, "a", "b"), edge(t, "b", "a")}

	Apply(nodes, edges)

	assert.Equal(t, 900.0, position(t, nodes[0]).X)
	assert.Equal(t, 500.0, position(t, nodes[1]).X)
}

func TestApply_UnreachedCycleStaysAtDepthZero(t *testing.T) {
	nodes := []*flow.Node{node(t, "a"), node(t, "b"), node(t, "c"), node(t, "d")}
	edges := []*flow.Edge{
		edge(t, "a", "b"),
		edge(t, "c", "d"),
		edge(t, "d", "c"),
	}

	Apply(nodes, edges)

	// a, c, d share column 0 in input order; b sits alone in column 1.
	assert.Equal(t, flow.Position{X: 100, Y: 100}, position(t, nodes[0]))
	assert.Equal(t, flow.Position{X: 500, Y: 100}, position(t, nodes[1]))
	assert.Equal(t, flow.Position{X: 100, Y: 350}, position(t, nodes[2]))
	assert.Equal(t, flow.Position{X: 100, Y: 600}, position(t, nodes[3]))
}

func TestApply_NoEdges(t *testing.T) {
	nodes := []*flow.Node{node(t, "a"), node(t, "b"), node(t, "c")}

	Apply(nodes, nil)

	assert.Equal(t, flow.Position{X: 100, Y: 100}, position(t, nodes[0]))
	assert.Equal(t, flow.Position{X: 100, Y: 350}, position(t, nodes[1]))
	assert.Equal(t, flow.Position{X: 100, Y: 600}, position(t, nodes[2]))
}

func TestApply_EmptyNodes(t *testing.T) {
	assert.Empty(t, Apply(nil, nil))
	assert.Empty(t, Apply([]*flow.Node{}, []*flow.Edge{edge(t, "a", "b")}))
}

func TestApply_EdgesToUnknownNodesIgnored(t *testing.T) {
	nodes := []*flow.Node{node(t, "a"), node(t, "b")}
	edges := []*flow.Edge{edge(t, "a", "ghost"), edge(t, "ghost", "b")}

	Apply(nodes, edges)

	// Neither edge contributes, so both nodes are sources at depth 0.
	assert.Equal(t, 100.0, position(t, nodes[0]).X)
	assert.Equal(t, 100.0, position(t, nodes[1]).X)
}

func TestApply_PreservesExistingDimensions(t *testing.T) {
	n := node(t, "a")
	n.Width = 150
	n.Height = 80

	Apply([]*flow.Node{n}, nil)

	assert.Equal(t, 150, n.Width)
	assert.Equal(t, 80, n.Height)
}

func TestApplyWithOptions(t *testing.T) {
	t.Run("custom geometry", func(t *testing.T) {
		nodes := []*flow.Node{node(t, "a"), node(t, "b")}
		edges := []*flow.Edge{edge(t, "a", "b")}

		ApplyWithOptions(nodes, edges, Options{
			SpacingX: 10, SpacingY: 20, StartX: 1, StartY: 2,
		})

		assert.Equal(t, flow.Position{X: 1, Y: 2}, position(t, nodes[0]))
		assert.Equal(t, flow.Position{X: 11, Y: 2}, position(t, nodes[1]))
	})

	t.Run("zero options use defaults", func(t *testing.T) {
		nodes := []*flow.Node{node(t, "a")}
		ApplyWithOptions(nodes, nil, Options{})
		assert.Equal(t, flow.Position{X: 100, Y: 100}, position(t, nodes[0]))
	})
}

func TestApply_Deterministic(t *testing.T) {
	build := func() ([]*flow.Node, []*flow.Edge) {
		nodes := []*flow.Node{node(t, "a"), node(t, "b"), node(t, "c"), node(t, "d")}
		edges := []*flow.Edge{
			edge(t, "a", "b"),
			edge(t, "a", "c"),
			edge(t, "b", "d"),
			edge(t, "c", "d"),
		}
		return nodes, edges
	}

	first, firstEdges := build()
	second, secondEdges := build()
	Apply(first, firstEdges)
	Apply(second, secondEdges)

	for i := range first {
		assert.Equal(t, *first[i].Position, *second[i].Position)
	}
}

func TestBounds(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Rect{}, Bounds(nil))
	})

	t.Run("single laid-out node", func(t *testing.T) {
		n := node(t, "a")
		Apply([]*flow.Node{n}, nil)

		r := Bounds([]*flow.Node{n})
		assert.Equal(t, Rect{
			MinX: 100, MaxX: 400,
			MinY: 100, MaxY: 700,
			Width: 300, Height: 600,
		}, r)
	})

	t.Run("diamond", func(t *testing.T) {
		nodes := []*flow.Node{node(t, "a"), node(t, "b"), node(t, "c"), node(t, "d")}
		edges := []*flow.Edge{
			edge(t, "a", "b"),
			edge(t, "a", "c"),
			edge(t, "b", "d"),
			edge(t, "c", "d"),
		}
		Apply(nodes, edges)

		r := Bounds(nodes)
		assert.Equal(t, 100.0, r.MinX)
		assert.Equal(t, 1200.0, r.MaxX)
		assert.Equal(t, 100.0, r.MinY)
		assert.Equal(t, 950.0, r.MaxY)
		assert.Equal(t, 1100.0, r.Width)
		assert.Equal(t, 850.0, r.Height)
	})

	t.Run("unpositioned node counts at origin", func(t *testing.T) {
		r := Bounds([]*flow.Node{node(t, "a")})
		assert.Equal(t, Rect{
			MinX: 0, MaxX: 300,
			MinY: 0, MaxY: 600,
			Width: 300, Height: 600,
		}, r)
	})
}
