package pathtree

import (
	"fmt"
	"math"
)

// Clone returns a deep copy of tree. Maps and []any slices are copied
// recursively; other values are treated as immutable scalars.
func Clone(tree Tree) Tree {
	if tree == nil {
		return nil
	}
	return cloneValue(tree).(Tree)
}

// CloneValue deep-copies a single value taken from a tree.
func CloneValue(v any) any {
	return cloneValue(v)
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, child := range typed {
			out[k] = cloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, child := range typed {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return v
	}
}

// Normalize rewrites a decoded document into the shape encoding/json
// produces: integers become float64 and map[any]any becomes map[string]any.
// YAML decoders emit both, and trees from either source must compare equal.
func Normalize(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, child := range typed {
			out[k] = Normalize(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, child := range typed {
			out[fmt.Sprint(k)] = Normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, child := range typed {
			out[i] = Normalize(child)
		}
		return out
	case int:
		return float64(typed)
	case int8:
		return float64(typed)
	case int16:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint:
		return float64(typed)
	case uint8:
		return float64(typed)
	case uint16:
		return float64(typed)
	case uint32:
		return float64(typed)
	case uint64:
		return float64(typed)
	case float32:
		return float64(typed)
	default:
		return v
	}
}

// NormalizeTree applies Normalize to a whole tree.
func NormalizeTree(tree Tree) Tree {
	if tree == nil {
		return nil
	}
	return Normalize(tree).(map[string]any)
}

// Float reports v as a float64 when it holds a finite number.
func Float(v any) (float64, bool) {
	var f float64
	switch typed := v.(type) {
	case float64:
		f = typed
	case float32:
		f = float64(typed)
	case int:
		f = float64(typed)
	case int8:
		f = float64(typed)
	case int16:
		f = float64(typed)
	case int32:
		f = float64(typed)
	case int64:
		f = float64(typed)
	case uint:
		f = float64(typed)
	case uint8:
		f = float64(typed)
	case uint16:
		f = float64(typed)
	case uint32:
		f = float64(typed)
	case uint64:
		f = float64(typed)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
