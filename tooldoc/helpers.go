package tooldoc

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func stringSliceFromAny(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func annotationsFromTool(ann *mcp.ToolAnnotations) map[string]any {
	if ann == nil {
		return nil
	}
	out := map[string]any{}
	if ann.DestructiveHint != nil {
		out["destructiveHint"] = *ann.DestructiveHint
	}
	if ann.OpenWorldHint != nil {
		out["openWorldHint"] = *ann.OpenWorldHint
	}
	out["idempotentHint"] = ann.IdempotentHint
	out["readOnlyHint"] = ann.ReadOnlyHint
	if ann.Title != "" {
		out["title"] = ann.Title
	}
	return out
}

// argsWithinCaps reports whether args stays within MaxArgsDepth and
// MaxArgsKeys.
func argsWithinCaps(args map[string]any) bool {
	keys := 0
	var walk func(v any, depth int) bool
	walk = func(v any, depth int) bool {
		if depth > MaxArgsDepth {
			return false
		}
		switch t := v.(type) {
		case map[string]any:
			keys += len(t)
			if keys > MaxArgsKeys {
				return false
			}
			for _, item := range t {
				if !walk(item, depth+1) {
					return false
				}
			}
		case []any:
			keys += len(t)
			if keys > MaxArgsKeys {
				return false
			}
			for _, item := range t {
				if !walk(item, depth+1) {
					return false
				}
			}
		}
		return true
	}
	return walk(args, 1)
}

// copyArgs deep-copies maps and slices so callers cannot mutate catalog data.
func copyArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyArgs(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
