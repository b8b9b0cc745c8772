// Package sanitize strips presentation-only fields from flows before
// they cross the boundary to the remote execution service. The output
// field names are a wire contract; renaming any of them breaks the
// remote consumer.
package sanitize

import (
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// dataAllowList holds the node data fields that survive sanitization.
// Everything else is silently discarded.
var dataAllowList = []string{
	"id", "label", "name", "category", "baseClasses", "inputs", "outputs",
}

// Per-collection record shapes. Anchor descriptions are dropped;
// optional/required survive only where the remote service reads them.
var (
	inputParamFields   = []string{"id", "name", "type", "optional", "required"}
	inputAnchorFields  = []string{"id", "name", "label", "type", "optional", "required"}
	outputAnchorFields = []string{"id", "name", "label", "type"}
)

// CleanForAPI reduces a node to the minimal shape the remote execution
// service accepts: id, type, position, and allow-listed data. Keys are
// emitted only when present on the source node.
func CleanForAPI(n *flow.Node) *flow.Node {
	if n == nil {
		return nil
	}

	out := &flow.Node{ID: n.ID, Type: n.Type}
	if n.Position != nil {
		pos := *n.Position
		out.Position = &pos
	}

	data := make(map[string]any, len(dataAllowList))
	for _, key := range dataAllowList {
		if v, ok := n.Data[key]; ok {
			data[key] = v
		}
	}
	if v, ok := n.Data[flow.DataKeyInputParams]; ok {
		if cleaned := cleanRecords(v, inputParamFields); cleaned != nil {
			data[flow.DataKeyInputParams] = cleaned
		}
	}
	if v, ok := n.Data[flow.DataKeyInputAnchors]; ok {
		if cleaned := cleanRecords(v, inputAnchorFields); cleaned != nil {
			data[flow.DataKeyInputAnchors] = cleaned
		}
	}
	if v, ok := n.Data[flow.DataKeyOutputAnchors]; ok {
		if cleaned := cleanRecords(v, outputAnchorFields); cleaned != nil {
			data[flow.DataKeyOutputAnchors] = cleaned
		}
	}
	out.Data = data
	return out
}

// CleanFlowData applies CleanForAPI to every node. Edges pass through
// unchanged; an unset viewport gains the default so the envelope is
// always complete on the wire.
func CleanFlowData(fd *flow.FlowData) *flow.FlowData {
	if fd == nil {
		return nil
	}
	out := &flow.FlowData{
		Nodes:    make([]*flow.Node, 0, len(fd.Nodes)),
		Edges:    fd.Edges,
		Viewport: fd.Viewport,
	}
	if out.Viewport.IsZero() {
		out.Viewport = flow.DefaultViewport()
	}
	for _, n := range fd.Nodes {
		out.Nodes = append(out.Nodes, CleanForAPI(n))
	}
	return out
}

// cleanRecords reduces each record of an anchor/parameter collection
// to the given keys. Non-list values and non-record items are
// discarded along with everything else off the allow-list.
func cleanRecords(value any, keep []string) []any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cleaned := make(map[string]any, len(keep))
		for _, key := range keep {
			if v, ok := record[key]; ok {
				cleaned[key] = v
			}
		}
		out = append(out, cleaned)
	}
	return out
}
