package testsupport

import (
	"testing"

	"morpher/internal/keyframe"
	"morpher/internal/pathtree"
	"morpher/internal/timelinefile"
)

// SampleTree returns a generation configuration touching every kind in the
// built-in parameter catalog.
func SampleTree() pathtree.Tree {
	return pathtree.Tree{
		"subject": map[string]any{"description": "lighthouse on a cliff"},
		"camera": map[string]any{
			"angle":        "eye level",
			"focal_length": 35.0,
			"aperture":     2.8,
		},
		"lighting": map[string]any{
			"conditions": "golden hour",
			"intensity":  60.0,
		},
		"color_palette": map[string]any{"primary": "#f2a65a"},
		"render":        map[string]any{"hdr": false},
	}
}

// SampleProject builds a two-keyframe project over SampleTree.
func SampleProject(t testing.TB) *timelinefile.Project {
	t.Helper()

	start := SampleTree()
	end, err := pathtree.Set(start, "lighting.intensity", 90.0)
	if err != nil {
		t.Fatalf("set intensity: %v", err)
	}
	if end, err = pathtree.Set(end, "lighting.conditions", "blue hour"); err != nil {
		t.Fatalf("set conditions: %v", err)
	}

	first, err := keyframe.New(start, 0, "Start")
	if err != nil {
		t.Fatalf("keyframe.New: %v", err)
	}
	last, err := keyframe.New(end, 10, "End")
	if err != nil {
		t.Fatalf("keyframe.New: %v", err)
	}
	return &timelinefile.Project{
		Version:   timelinefile.Version,
		Duration:  10,
		Speed:     1,
		Selected:  []string{"lighting.intensity", "lighting.conditions"},
		Base:      SampleTree(),
		Keyframes: []keyframe.Keyframe{first, last},
	}
}
