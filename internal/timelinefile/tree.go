package timelinefile

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"morpher/internal/pathtree"
)

// EncodeTree renders a bare configuration tree in format.
func EncodeTree(tree pathtree.Tree, format Format) ([]byte, error) {
	if tree == nil {
		tree = pathtree.Tree{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode configuration: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("encode configuration: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DecodeTree parses a bare configuration tree. Numbers come back as float64
// from either format.
func DecodeTree(data []byte, format Format) (pathtree.Tree, error) {
	var tree pathtree.Tree
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("%w: configuration: %v", ErrInvalidProject, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("%w: configuration: %v", ErrInvalidProject, err)
		}
		tree = pathtree.NormalizeTree(tree)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if tree == nil {
		tree = pathtree.Tree{}
	}
	return tree, nil
}

// ReadTree loads a configuration tree, for example the base configuration
// of a new project.
func ReadTree(ctx context.Context, path string) (pathtree.Tree, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := readLocked(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	return DecodeTree(data, format)
}

// WriteTree stores a configuration tree at path.
func WriteTree(ctx context.Context, path string, tree pathtree.Tree) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := EncodeTree(tree, format)
	if err != nil {
		return err
	}
	if err := writeLocked(ctx, path, data); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}
