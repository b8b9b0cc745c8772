package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		nodeType string
		data     map[string]any
		wantErr  error
	}{
		{
			name:     "valid node",
			id:       "chatOpenAI_0",
			nodeType: "chatOpenAI",
			data:     map[string]any{"label": "ChatOpenAI"},
			wantErr:  nil,
		},
		{
			name:     "missing id",
			id:       "",
			nodeType: "chatOpenAI",
			wantErr:  ErrEmptyNodeID,
		},
		{
			name:     "missing type",
			id:       "chatOpenAI_0",
			nodeType: "",
			wantErr:  ErrEmptyNodeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewNode(tt.id, tt.nodeType, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var shapeErr *ShapeError
				assert.True(t, errors.As(err, &shapeErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, node.ID)
			assert.Equal(t, tt.nodeType, node.Type)
		})
	}

	t.Run("nil data becomes empty map", func(t *testing.T) {
		node, err := NewNode("n1", "tool", nil)
		require.NoError(t, err)
		assert.NotNil(t, node.Data)
	})
}

func TestNewEdge(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		source  string
		target  string
		wantErr error
	}{
		{
			name:   "valid edge",
			id:     "a-b",
			source: "a",
			target: "b",
		},
		{
			name:    "missing id",
			id:      "",
			source:  "a",
			target:  "b",
			wantErr: ErrEmptyEdgeID,
		},
		{
			name:    "missing source",
			id:      "a-b",
			source:  "",
			target:  "b",
			wantErr: ErrEmptySource,
		},
		{
			name:    "missing target",
			id:      "a-b",
			source:  "a",
			target:  "",
			wantErr: ErrEmptyTarget,
		},
		{
			name:    "self loop",
			id:      "a-a",
			source:  "a",
			target:  "a",
			wantErr: ErrSelfLoop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge, err := NewEdge(tt.id, tt.source, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.source, edge.Source)
			assert.Equal(t, tt.target, edge.Target)
		})
	}
}

func TestFlowData_AddNode(t *testing.T) {
	fd := NewFlowData()

	t.Run("add valid node", func(t *testing.T) {
		node, err := NewNode("n1", "tool", nil)
		require.NoError(t, err)
		require.NoError(t, fd.AddNode(node))
		assert.Len(t, fd.Nodes, 1)
		assert.Equal(t, node, fd.Node("n1"))
	})

	t.Run("add nil node", func(t *testing.T) {
		err := fd.AddNode(nil)
		assert.ErrorIs(t, err, ErrNilNode)
	})

	t.Run("lookup missing node", func(t *testing.T) {
		assert.Nil(t, fd.Node("nonexistent"))
	})
}

func TestFlowData_AddEdge(t *testing.T) {
	fd := NewFlowData()

	t.Run("add valid edge", func(t *testing.T) {
		edge, err := NewEdge("a-b", "a", "b")
		require.NoError(t, err)
		require.NoError(t, fd.AddEdge(edge))
		assert.Len(t, fd.Edges, 1)
	})

	t.Run("add nil edge", func(t *testing.T) {
		err := fd.AddEdge(nil)
		assert.ErrorIs(t, err, ErrNilEdge)
	})
}

func TestParseFlowData(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		raw := []byte(`{
			"nodes": [
				{
					"id": "chatOpenAI_0",
					"type": "customNode",
					"data": {"label": "ChatOpenAI", "name": "chatOpenAI"},
					"position": {"x": 100, "y": 200},
					"positionAbsolute": {"x": 100, "y": 200},
					"width": 300,
					"height": 600
				},
				{
					"id": "serpAPI_0",
					"type": "customNode",
					"data": {"label": "SerpAPI"}
				}
			],
			"edges": [
				{"id": "serpAPI_0-chatOpenAI_0", "source": "serpAPI_0", "target": "chatOpenAI_0", "sourceHandle": "out", "targetHandle": "in"}
			],
			"viewport": {"x": 10, "y": -20, "zoom": 0.75}
		}`)

		fd, err := ParseFlowData(raw)
		require.NoError(t, err)
		require.Len(t, fd.Nodes, 2)
		require.Len(t, fd.Edges, 1)

		n := fd.Nodes[0]
		assert.Equal(t, "chatOpenAI_0", n.ID)
		assert.Equal(t, "customNode", n.Type)
		require.NotNil(t, n.Position)
		assert.Equal(t, 100.0, n.Position.X)
		assert.Equal(t, 200.0, n.Position.Y)
		require.NotNil(t, n.PositionAbsolute)
		assert.Equal(t, 300, n.Width)
		assert.Equal(t, 600, n.Height)

		assert.Nil(t, fd.Nodes[1].Position)

		e := fd.Edges[0]
		assert.Equal(t, "out", e.SourceHandle)
		assert.Equal(t, "in", e.TargetHandle)

		assert.Equal(t, Viewport{X: 10, Y: -20, Zoom: 0.75}, fd.Viewport)
	})

	t.Run("absent viewport stays zero", func(t *testing.T) {
		fd, err := ParseFlowData([]byte(`{"nodes": [], "edges": []}`))
		require.NoError(t, err)
		assert.True(t, fd.Viewport.IsZero())
	})

	t.Run("null position is absent", func(t *testing.T) {
		fd, err := ParseFlowData([]byte(`{
			"nodes": [{"id": "n1", "type": "tool", "position": null}],
			"edges": []
		}`))
		require.NoError(t, err)
		assert.Nil(t, fd.Nodes[0].Position)
	})

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "position missing y",
			raw:     `{"nodes": [{"id": "n1", "type": "tool", "position": {"x": 1}}], "edges": []}`,
			wantErr: ErrBadPosition,
		},
		{
			name:    "position with string coordinate",
			raw:     `{"nodes": [{"id": "n1", "type": "tool", "position": {"x": "1", "y": 2}}], "edges": []}`,
			wantErr: ErrBadPosition,
		},
		{
			name:    "position not an object",
			raw:     `{"nodes": [{"id": "n1", "type": "tool", "position": [1, 2]}], "edges": []}`,
			wantErr: ErrBadPosition,
		},
		{
			name:    "node without id",
			raw:     `{"nodes": [{"type": "tool"}], "edges": []}`,
			wantErr: ErrEmptyNodeID,
		},
		{
			name:    "self loop edge",
			raw:     `{"nodes": [{"id": "n1", "type": "tool"}], "edges": [{"id": "n1-n1", "source": "n1", "target": "n1"}]}`,
			wantErr: ErrSelfLoop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlowData([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var shapeErr *ShapeError
			assert.True(t, errors.As(err, &shapeErr))
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseFlowData([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestFlowData_Clone(t *testing.T) {
	node, err := NewNode("n1", "tool", map[string]any{
		"label": "Tool",
		"inputParams": []any{
			map[string]any{"id": "p1", "name": "apiKey", "type": "password"},
		},
	})
	require.NoError(t, err)
	node.Position = &Position{X: 1, Y: 2}
	edge, err := NewEdge("n1-n2", "n1", "n2")
	require.NoError(t, err)

	fd := &FlowData{
		Nodes:    []*Node{node},
		Edges:    []*Edge{edge},
		Viewport: Viewport{Zoom: 1},
	}
	clone := fd.Clone()

	require.Len(t, clone.Nodes, 1)
	require.Len(t, clone.Edges, 1)
	assert.Equal(t, fd.Viewport, clone.Viewport)

	t.Run("nested data is not shared", func(t *testing.T) {
		params := clone.Nodes[0].Data["inputParams"].([]any)
		params[0].(map[string]any)["name"] = "mutated"
		orig := fd.Nodes[0].Data["inputParams"].([]any)
		assert.Equal(t, "apiKey", orig[0].(map[string]any)["name"])
	})

	t.Run("positions are not shared", func(t *testing.T) {
		clone.Nodes[0].Position.X = 999
		assert.Equal(t, 1.0, fd.Nodes[0].Position.X)
	})

	t.Run("edges are not shared", func(t *testing.T) {
		clone.Edges[0].Target = "n3"
		assert.Equal(t, "n2", fd.Edges[0].Target)
	})

	t.Run("nil flow clones to nil", func(t *testing.T) {
		var nilFlow *FlowData
		assert.Nil(t, nilFlow.Clone())
	})
}

func TestViewport(t *testing.T) {
	assert.Equal(t, Viewport{X: 0, Y: 0, Zoom: 1}, DefaultViewport())
	assert.True(t, Viewport{}.IsZero())
	assert.False(t, DefaultViewport().IsZero())
}
