// Package template provides placeholder substitution
package template

import (
	"strconv"
	"strings"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

// Placeholder delimiters. A node data value is a placeholder iff it is
// a string of the exact form "{{name}}".
const (
	placeholderPrefix = "{{"
	placeholderSuffix = "}}"
)

// Substitute replaces placeholder tokens in node data with the given
// parameter values. With no parameters the input is returned unchanged
// and callers may rely on reference stability; otherwise the result is
// a deep copy and the input flow is never mutated, so cached templates
// stay pristine across instantiations.
//
// Substitution examines every top-level value of each node's data.
// Placeholders whose name has no matching parameter keep their literal
// token: a pass-through, not a failure.
func Substitute(fd *flow.FlowData, params map[string]any) (*flow.FlowData, error) {
	if fd == nil || len(params) == 0 {
		return fd, nil
	}

	out := fd.Clone()
	for _, node := range out.Nodes {
		for key, value := range node.Data {
			str, ok := value.(string)
			if !ok {
				continue
			}
			name, ok := placeholderName(str)
			if !ok {
				continue
			}
			supplied, ok := params[name]
			if !ok {
				continue
			}
			coerced, err := coerceValue(key, name, supplied)
			if err != nil {
				return nil, err
			}
			node.Data[key] = coerced
		}
	}
	return out, nil
}

// MergeParams overlays caller parameters on template defaults. Caller
// values win. The result is a fresh map; neither input is mutated. Both
// empty yields nil so Substitute keeps its reference-stable fast path.
func MergeParams(defaults, overrides map[string]any) map[string]any {
	if len(defaults) == 0 && len(overrides) == 0 {
		return nil
	}
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// placeholderName extracts the trimmed parameter name from a
// placeholder token, or reports that the string is not one.
func placeholderName(s string) (string, bool) {
	if !strings.HasPrefix(s, placeholderPrefix) || !strings.HasSuffix(s, placeholderSuffix) {
		return "", false
	}
	if len(s) < len(placeholderPrefix)+len(placeholderSuffix) {
		return "", false
	}
	name := strings.TrimSpace(s[len(placeholderPrefix) : len(s)-len(placeholderSuffix)])
	if name == "" {
		return "", false
	}
	return name, true
}

// coerceValue applies field-specific type conversions. Temperature
// values arrive as strings from some clients and must become floats
// before the remote service will accept them.
func coerceValue(field, param string, value any) (any, error) {
	if field != "temperature" {
		return value, nil
	}
	str, ok := value.(string)
	if !ok {
		return value, nil
	}
	parsed, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil, &CoercionError{
			Field:    field,
			Param:    param,
			Expected: "float",
			Value:    str,
		}
	}
	return parsed, nil
}
