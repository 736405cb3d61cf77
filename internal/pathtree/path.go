package pathtree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath reports an empty or malformed parameter path.
var ErrInvalidPath = errors.New("invalid path")

// Tree is a JSON-like nested configuration mapping.
type Tree = map[string]any

// Path is a parsed, non-empty sequence of mapping keys.
type Path []string

// Parse splits a dot-separated path into segments. Empty paths, empty
// segments ("a..b", ".a", "a.") and segments with surrounding whitespace
// ("a. b") are rejected.
func Parse(raw string) (Path, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := strings.Split(raw, ".")
	for i, segment := range segments {
		switch strings.TrimSpace(segment) {
		case "":
			return nil, fmt.Errorf("%w: %q has an empty segment at position %d", ErrInvalidPath, raw, i)
		case segment:
		default:
			return nil, fmt.Errorf("%w: %q has whitespace around segment %d", ErrInvalidPath, raw, i)
		}
	}
	return Path(segments), nil
}

// MustParse is Parse for package-level literals; it panics on bad input.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String joins the segments back into dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Get returns the value stored at path. The boolean is false when any segment
// is missing or an intermediate value is not a mapping.
func (p Path) Get(tree Tree) (any, bool) {
	if len(p) == 0 || tree == nil {
		return nil, false
	}
	var node any = tree
	for _, key := range p {
		m, ok := asMap(node)
		if !ok {
			return nil, false
		}
		node, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// Set returns a copy of tree with value stored at path. Maps along the path
// are copied; everything else is shared with the input.
func (p Path) Set(tree Tree, value any) (Tree, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	out, err := setAt(tree, p, 0, value)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func setAt(node Tree, p Path, depth int, value any) (Tree, error) {
	out := make(Tree, len(node)+1)
	for k, v := range node {
		out[k] = v
	}
	key := p[depth]
	if depth == len(p)-1 {
		out[key] = value
		return out, nil
	}

	var child Tree
	if existing, ok := node[key]; ok && existing != nil {
		m, isMap := asMap(existing)
		if !isMap {
			return nil, fmt.Errorf("%w: %q is not a mapping at %q", ErrInvalidPath, p.String(), strings.Join(p[:depth+1], "."))
		}
		child = m
	}
	updated, err := setAt(child, p, depth+1, value)
	if err != nil {
		return nil, err
	}
	out[key] = updated
	return out, nil
}

// Get parses path and reads the value stored there.
func Get(tree Tree, path string) (any, bool, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, false, err
	}
	v, ok := p.Get(tree)
	return v, ok, nil
}

// Set parses path and returns a new tree with value stored there.
func Set(tree Tree, path string, value any) (Tree, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return p.Set(tree, value)
}

func asMap(v any) (Tree, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}
