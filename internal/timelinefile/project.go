package timelinefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"morpher/internal/keyframe"
	"morpher/internal/pathtree"
)

// Version is the project document version written by this package.
const Version = 1

var (
	// ErrInvalidProject rejects documents that decode but break project rules.
	ErrInvalidProject = errors.New("invalid project")
	// ErrUnknownFormat is returned for file extensions other than json, yaml, or yml.
	ErrUnknownFormat = errors.New("unknown project format")
)

// Format selects the encoding of a project document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Project is a complete, savable timeline: playback settings, the selected
// parameters, the host configuration, and the keyframes.
type Project struct {
	Version   int                 `json:"version" yaml:"version"`
	Name      string              `json:"name,omitempty" yaml:"name,omitempty"`
	Duration  float64             `json:"duration" yaml:"duration"`
	Speed     float64             `json:"speed" yaml:"speed"`
	Loop      bool                `json:"loop" yaml:"loop"`
	Selected  []string            `json:"selected" yaml:"selected"`
	Base      pathtree.Tree       `json:"base" yaml:"base"`
	Keyframes []keyframe.Keyframe `json:"keyframes" yaml:"keyframes"`
}

// Validate checks the playback settings and fills defaults for optional
// fields.
func (p *Project) Validate() error {
	switch {
	case p.Version == 0:
		p.Version = Version
	case p.Version < 0 || p.Version > Version:
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidProject, p.Version)
	}
	if !(p.Duration > 0) || math.IsInf(p.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidProject)
	}
	if p.Speed == 0 {
		p.Speed = 1
	}
	if !(p.Speed > 0) || math.IsInf(p.Speed, 0) {
		return fmt.Errorf("%w: speed must be positive", ErrInvalidProject)
	}
	for i, k := range p.Keyframes {
		if k.Timestamp > p.Duration {
			return fmt.Errorf("%w: keyframe %d at %vs is past the %vs duration: %w",
				ErrInvalidProject, i, k.Timestamp, p.Duration, keyframe.ErrInvalidTimestamp)
		}
	}
	if p.Base == nil {
		p.Base = pathtree.Tree{}
	}
	if p.Selected == nil {
		p.Selected = []string{}
	}
	return nil
}

// Encode renders p in format.
func Encode(p *Project, format Format) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil project", ErrInvalidProject)
	}
	out := *p
	if out.Keyframes == nil {
		out.Keyframes = []keyframe.Keyframe{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode project: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("encode project: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode project: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// wireProject defers keyframes to keyframe.Import so JSON and YAML
// documents share one set of field rules.
type wireProject struct {
	Version   int             `json:"version" yaml:"version"`
	Name      string          `json:"name" yaml:"name"`
	Duration  float64         `json:"duration" yaml:"duration"`
	Speed     float64         `json:"speed" yaml:"speed"`
	Loop      bool            `json:"loop" yaml:"loop"`
	Selected  []string        `json:"selected" yaml:"selected"`
	Base      pathtree.Tree   `json:"base" yaml:"base"`
	Keyframes json.RawMessage `json:"keyframes" yaml:"-"`
}

// yamlKeyframes captures the YAML keyframe list as plain data.
type yamlKeyframes struct {
	Keyframes []any `yaml:"keyframes"`
}

// Decode parses a project document. Malformed keyframes reject the whole
// document with keyframe.ErrMalformedImport.
func Decode(data []byte, format Format) (*Project, error) {
	var wire wireProject
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
		}
	case FormatYAML:
		var frames yamlKeyframes
		if err := yaml.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
		}
		if err := yaml.Unmarshal(data, &frames); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
		}
		wire.Base = pathtree.NormalizeTree(wire.Base)
		if frames.Keyframes != nil {
			raw, err := json.Marshal(pathtree.Normalize(frames.Keyframes))
			if err != nil {
				return nil, fmt.Errorf("%w: keyframes: %v", ErrInvalidProject, err)
			}
			wire.Keyframes = raw
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	p := Project{
		Version:  wire.Version,
		Name:     wire.Name,
		Duration: wire.Duration,
		Speed:    wire.Speed,
		Loop:     wire.Loop,
		Selected: wire.Selected,
		Base:     wire.Base,
	}
	if raw := bytes.TrimSpace(wire.Keyframes); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		frames, err := keyframe.Import(raw)
		if err != nil {
			return nil, err
		}
		p.Keyframes = frames
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
