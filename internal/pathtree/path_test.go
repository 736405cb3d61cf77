package pathtree_test

import (
	"errors"
	"reflect"
	"testing"

	"morpher/internal/pathtree"
)

func sampleTree() pathtree.Tree {
	return pathtree.Tree{
		"lighting": map[string]any{
			"conditions": "daylight",
			"intensity":  40.0,
		},
		"tags": []any{"a", "b"},
		"seed": 7.0,
	}
}

func TestParseRejectsMalformedPaths(t *testing.T) {
	for _, raw := range []string{"", "   ", ".", "a..b", ".a", "a.", "a. .b", "a. b", " a.b", "a.b "} {
		if _, err := pathtree.Parse(raw); !errors.Is(err, pathtree.ErrInvalidPath) {
			t.Fatalf("Parse(%q): expected ErrInvalidPath, got %v", raw, err)
		}
	}
	p, err := pathtree.Parse("lighting.conditions")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(p) != 2 || p.String() != "lighting.conditions" {
		t.Fatalf("unexpected path %#v", p)
	}
}

func TestGet(t *testing.T) {
	tree := sampleTree()
	cases := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{"lighting.conditions", "daylight", true},
		{"lighting.intensity", 40.0, true},
		{"seed", 7.0, true},
		{"lighting.missing", nil, false},
		{"camera.focal_length", nil, false},
		{"seed.nested", nil, false},
		{"tags.0", nil, false},
	}
	for _, tc := range cases {
		got, ok, err := pathtree.Get(tree, tc.path)
		if err != nil {
			t.Fatalf("Get(%q) returned error: %v", tc.path, err)
		}
		if ok != tc.wantOK || !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Get(%q) = (%v, %v), want (%v, %v)", tc.path, got, ok, tc.want, tc.wantOK)
		}
	}

	if _, _, err := pathtree.Get(tree, ""); !errors.Is(err, pathtree.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for empty path, got %v", err)
	}
	if _, ok := pathtree.MustParse("a").Get(nil); ok {
		t.Fatal("expected lookup on nil tree to report absence")
	}
}

func TestSetDoesNotMutateInput(t *testing.T) {
	tree := sampleTree()
	before := pathtree.Clone(tree)

	out, err := pathtree.Set(tree, "lighting.conditions", "neon")
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if !reflect.DeepEqual(tree, before) {
		t.Fatalf("input tree mutated: %#v", tree)
	}
	got, _, _ := pathtree.Get(out, "lighting.conditions")
	if got != "neon" {
		t.Fatalf("expected neon, got %v", got)
	}
	intensity, _, _ := pathtree.Get(out, "lighting.intensity")
	if intensity != 40.0 {
		t.Fatalf("sibling value lost: %v", intensity)
	}
}

func TestSetCreatesIntermediateMaps(t *testing.T) {
	out, err := pathtree.Set(nil, "camera.lens.focal_length", 50.0)
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	want := pathtree.Tree{"camera": map[string]any{"lens": map[string]any{"focal_length": 50.0}}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("unexpected tree %#v", out)
	}
}

func TestSetRejectsInvalidTargets(t *testing.T) {
	if _, err := pathtree.Set(sampleTree(), "", 1); !errors.Is(err, pathtree.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for empty path, got %v", err)
	}
	if _, err := pathtree.Set(sampleTree(), "seed.value", 1); !errors.Is(err, pathtree.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath when traversing a scalar, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tree := sampleTree()
	clone := pathtree.Clone(tree)
	clone["lighting"].(map[string]any)["conditions"] = "overcast"
	clone["tags"].([]any)[0] = "z"

	if tree["lighting"].(map[string]any)["conditions"] != "daylight" {
		t.Fatal("clone shares nested map with original")
	}
	if tree["tags"].([]any)[0] != "a" {
		t.Fatal("clone shares slice with original")
	}
	if pathtree.Clone(nil) != nil {
		t.Fatal("expected nil clone of nil tree")
	}
}

func TestNormalizeConvertsYAMLShapes(t *testing.T) {
	in := map[string]any{
		"steps": 30,
		"inner": map[any]any{"k": int64(2), "list": []any{uint8(1), "x"}},
	}
	got := pathtree.Normalize(in)
	want := map[string]any{
		"steps": 30.0,
		"inner": map[string]any{"k": 2.0, "list": []any{1.0, "x"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %#v, want %#v", got, want)
	}
}
