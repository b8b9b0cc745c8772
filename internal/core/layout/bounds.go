// Package layout provides canvas bounds calculation
package layout

import (
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// Rect is the axis-aligned bounding box of a laid-out flow.
type Rect struct {
	MinX   float64 `json:"min_x"`
	MaxX   float64 `json:"max_x"`
	MinY   float64 `json:"min_y"`
	MaxY   float64 `json:"max_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds computes the box covering every node's position plus its
// dimensions, applying the same width/height defaults as Apply.
// Unpositioned nodes count as sitting at the origin. An empty node
// list yields the zero Rect.
func Bounds(nodes []*flow.Node) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}

	var r Rect
	for i, n := range nodes {
		var pos flow.Position
		if n.Position != nil {
			pos = *n.Position
		}
		w := float64(n.Width)
		if w == 0 {
			w = DefaultNodeWidth
		}
		h := float64(n.Height)
		if h == 0 {
			h = DefaultNodeHeight
		}

		if i == 0 {
			r.MinX, r.MaxX = pos.X, pos.X+w
			r.MinY, r.MaxY = pos.Y, pos.Y+h
			continue
		}
		r.MinX = min(r.MinX, pos.X)
		r.MaxX = max(r.MaxX, pos.X+w)
		r.MinY = min(r.MinY, pos.Y)
		r.MaxY = max(r.MaxY, pos.Y+h)
	}
	r.Width = r.MaxX - r.MinX
	r.Height = r.MaxY - r.MinY
	return r
}
