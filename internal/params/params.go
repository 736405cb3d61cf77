package params

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"morpher/internal/pathtree"
)

// Kind selects the interpolation rule for a parameter.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindColor       Kind = "color"
	KindBoolean     Kind = "boolean"
)

// ParseKind maps a config string onto a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindNumeric:
		return KindNumeric, nil
	case KindCategorical:
		return KindCategorical, nil
	case KindColor:
		return KindColor, nil
	case KindBoolean:
		return KindBoolean, nil
	default:
		return "", fmt.Errorf("unknown parameter kind %q", value)
	}
}

// Range is the inclusive numeric domain of a Numeric parameter.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Descriptor declares one morphable path.
type Descriptor struct {
	Path    string   `json:"path"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Range   *Range   `json:"range,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Validate enforces that exactly the domain matching Kind is populated.
func (d Descriptor) Validate() error {
	if _, err := pathtree.Parse(d.Path); err != nil {
		return fmt.Errorf("parameter path: %w", err)
	}
	switch d.Kind {
	case KindNumeric:
		if d.Range == nil {
			return fmt.Errorf("parameter %s: numeric kind requires a range", d.Path)
		}
		if len(d.Options) > 0 {
			return fmt.Errorf("parameter %s: numeric kind cannot declare options", d.Path)
		}
		if math.IsNaN(d.Range.Min) || math.IsNaN(d.Range.Max) || math.IsInf(d.Range.Min, 0) || math.IsInf(d.Range.Max, 0) {
			return fmt.Errorf("parameter %s: range bounds must be finite", d.Path)
		}
		if d.Range.Min > d.Range.Max {
			return fmt.Errorf("parameter %s: range min %v exceeds max %v", d.Path, d.Range.Min, d.Range.Max)
		}
	case KindCategorical:
		if len(d.Options) == 0 {
			return fmt.Errorf("parameter %s: categorical kind requires options", d.Path)
		}
		if d.Range != nil {
			return fmt.Errorf("parameter %s: categorical kind cannot declare a range", d.Path)
		}
		seen := make(map[string]struct{}, len(d.Options))
		for _, opt := range d.Options {
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("parameter %s: duplicate option %q", d.Path, opt)
			}
			seen[opt] = struct{}{}
		}
	case KindColor, KindBoolean:
		if d.Range != nil || len(d.Options) > 0 {
			return fmt.Errorf("parameter %s: %s kind takes no domain", d.Path, d.Kind)
		}
	default:
		return fmt.Errorf("parameter %s: unknown kind %q", d.Path, d.Kind)
	}
	return nil
}

// Registry is an ordered, immutable set of descriptors keyed by path.
type Registry struct {
	order  []Descriptor
	byPath map[string]int
}

// NewRegistry validates descs and rejects duplicate paths.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{byPath: make(map[string]int, len(descs))}
	if err := r.add(descs); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) add(descs []Descriptor) error {
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := r.byPath[d.Path]; dup {
			return fmt.Errorf("parameter %s registered twice", d.Path)
		}
		if strings.TrimSpace(d.Label) == "" {
			d.Label = DisplayLabel(d.Path)
		}
		if d.Options != nil {
			d.Options = append([]string(nil), d.Options...)
		}
		if d.Range != nil {
			rng := *d.Range
			d.Range = &rng
		}
		r.byPath[d.Path] = len(r.order)
		r.order = append(r.order, d)
	}
	return nil
}

// With returns a new registry holding r's descriptors followed by descs.
func (r *Registry) With(descs ...Descriptor) (*Registry, error) {
	out, err := NewRegistry(r.Descriptors()...)
	if err != nil {
		return nil, err
	}
	if err := out.add(descs); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup returns the descriptor for path; false means "not morphable".
func (r *Registry) Lookup(path string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	idx, ok := r.byPath[path]
	if !ok {
		return Descriptor{}, false
	}
	return r.order[idx], true
}

// Descriptors lists every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	if r == nil {
		return nil
	}
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Paths lists registered paths in registration order.
func (r *Registry) Paths() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.order))
	for _, d := range r.order {
		out = append(out, d.Path)
	}
	return out
}

// Len reports the number of registered parameters.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// ErrUnregistered marks a path with no registry entry.
var ErrUnregistered = errors.New("parameter not morphable")

// Require returns the descriptor for path or an ErrUnregistered error.
func (r *Registry) Require(path string) (Descriptor, error) {
	d, ok := r.Lookup(path)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnregistered, path)
	}
	return d, nil
}

// DisplayLabel derives a human label from the last segment of path,
// e.g. "camera.focal_length" becomes "Focal Length".
func DisplayLabel(path string) string {
	last := path
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		last = path[idx+1:]
	}
	last = strings.NewReplacer("_", " ", "-", " ").Replace(last)
	return cases.Title(language.Und).String(strings.TrimSpace(last))
}
