package morph_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"morpher/internal/keyframe"
	"morpher/internal/morph"
	"morpher/internal/params"
	"morpher/internal/pathtree"
)

func testRegistry(t *testing.T) *params.Registry {
	t.Helper()
	reg, err := params.NewRegistry(
		params.Descriptor{Path: "lighting.intensity", Kind: params.KindNumeric, Range: &params.Range{Min: 0, Max: 100}},
		params.Descriptor{Path: "lighting.conditions", Kind: params.KindCategorical, Options: []string{"A", "B"}},
		params.Descriptor{Path: "render.hdr", Kind: params.KindBoolean},
		params.Descriptor{Path: "palette.primary", Kind: params.KindColor},
	)
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	return reg
}

func snapshot(intensity float64, conditions string, hdr bool, color string, untouched string) pathtree.Tree {
	return pathtree.Tree{
		"lighting": map[string]any{"intensity": intensity, "conditions": conditions},
		"render":   map[string]any{"hdr": hdr},
		"palette":  map[string]any{"primary": color},
		"subject":  map[string]any{"description": untouched},
	}
}

var allPaths = []string{"lighting.intensity", "lighting.conditions", "render.hdr", "palette.primary"}

func newFixture(t *testing.T) (*keyframe.Store, *morph.Interpolator) {
	t.Helper()
	store := keyframe.NewStore()
	add(t, store, snapshot(0, "A", false, "#000000", "first"), 0)
	add(t, store, snapshot(10, "B", true, "#ffffff", "second"), 10)
	add(t, store, snapshot(40, "A", false, "#ff0000", "third"), 20)
	return store, morph.New(store, testRegistry(t))
}

func TestInterpolateExactAtKeyframes(t *testing.T) {
	store, interp := newFixture(t)
	for _, k := range store.List() {
		got, ok := interp.Interpolate(k.Timestamp, allPaths)
		if !ok {
			t.Fatalf("Interpolate(%v) returned no result", k.Timestamp)
		}
		for _, path := range allPaths {
			want, _, _ := pathtree.Get(k.Snapshot, path)
			have, _, _ := pathtree.Get(got, path)
			if have != want {
				t.Fatalf("at %v path %s = %#v, want %#v", k.Timestamp, path, have, want)
			}
		}
	}
}

func TestInterpolateNumericIsLinear(t *testing.T) {
	_, interp := newFixture(t)
	cases := map[float64]float64{2.5: 2.5, 5: 5, 7.5: 7.5, 15: 25}
	for time, want := range cases {
		got, ok := interp.Interpolate(time, []string{"lighting.intensity"})
		if !ok {
			t.Fatalf("Interpolate(%v) returned no result", time)
		}
		v, _, _ := pathtree.Get(got, "lighting.intensity")
		if f, _ := v.(float64); math.Abs(f-want) > 1e-12 {
			t.Fatalf("Interpolate(%v) = %v, want %v", time, v, want)
		}
	}
}

func TestInterpolateDiscreteSwitchesAtHalfway(t *testing.T) {
	store := keyframe.NewStore()
	add(t, store, snapshot(0, "A", false, "#000000", ""), 0)
	add(t, store, snapshot(0, "B", true, "#ffffff", ""), 100)
	interp := morph.New(store, testRegistry(t))

	cases := []struct {
		time       float64
		conditions string
		hdr        bool
		color      string
	}{
		{49, "A", false, "#000000"},
		{50, "B", true, "#ffffff"},
		{51, "B", true, "#ffffff"},
	}
	for _, tc := range cases {
		got, _ := interp.Interpolate(tc.time, allPaths)
		if v, _, _ := pathtree.Get(got, "lighting.conditions"); v != tc.conditions {
			t.Fatalf("conditions at %v = %v, want %v", tc.time, v, tc.conditions)
		}
		if v, _, _ := pathtree.Get(got, "render.hdr"); v != tc.hdr {
			t.Fatalf("hdr at %v = %v, want %v", tc.time, v, tc.hdr)
		}
		if v, _, _ := pathtree.Get(got, "palette.primary"); v != tc.color {
			t.Fatalf("color at %v = %v, want %v", tc.time, v, tc.color)
		}
	}
}

func TestInterpolateClampsOutsideRange(t *testing.T) {
	store := keyframe.NewStore()
	first := add(t, store, snapshot(10, "A", false, "#000000", "first"), 5)
	add(t, store, snapshot(20, "B", true, "#ffffff", "mid"), 8)
	last := add(t, store, snapshot(30, "B", true, "#ffffff", "last"), 12)
	interp := morph.New(store, testRegistry(t))

	early, ok := interp.Interpolate(0, allPaths)
	if !ok || !reflect.DeepEqual(early, first.Snapshot) {
		t.Fatalf("before first keyframe got %#v, want %#v", early, first.Snapshot)
	}
	late, ok := interp.Interpolate(1000, allPaths)
	if !ok || !reflect.DeepEqual(late, last.Snapshot) {
		t.Fatalf("after last keyframe got %#v, want %#v", late, last.Snapshot)
	}
}

func TestInterpolateLeavesUnselectedPathsAlone(t *testing.T) {
	_, interp := newFixture(t)
	got, ok := interp.Interpolate(7.5, []string{"lighting.intensity"})
	if !ok {
		t.Fatal("expected result")
	}
	if v, _, _ := pathtree.Get(got, "lighting.conditions"); v != "A" {
		t.Fatalf("unselected categorical changed: %v", v)
	}
	if v, _, _ := pathtree.Get(got, "render.hdr"); v != false {
		t.Fatalf("unselected boolean changed: %v", v)
	}
	if v, _, _ := pathtree.Get(got, "subject.description"); v != "first" {
		t.Fatalf("unregistered path changed: %v", v)
	}
}

func TestInterpolateSkipsUnregisteredAndMissingPaths(t *testing.T) {
	store := keyframe.NewStore()
	add(t, store, pathtree.Tree{"lighting": map[string]any{"intensity": 0.0}, "subject": "x"}, 0)
	add(t, store, pathtree.Tree{"subject": "y"}, 10)
	interp := morph.New(store, testRegistry(t))

	got, ok := interp.Interpolate(9, []string{"lighting.intensity", "subject", "", "a..b"})
	if !ok {
		t.Fatal("expected result")
	}
	if v, _, _ := pathtree.Get(got, "lighting.intensity"); v != 0.0 {
		t.Fatalf("path missing from one keyframe should keep before value, got %v", v)
	}
	if got["subject"] != "x" {
		t.Fatalf("unregistered path should keep before value, got %v", got["subject"])
	}
}

func TestInterpolateInsufficientKeyframes(t *testing.T) {
	store := keyframe.NewStore()
	interp := morph.New(store, testRegistry(t))
	if _, ok := interp.Interpolate(0, allPaths); ok {
		t.Fatal("expected no result without keyframes")
	}
	add(t, store, snapshot(1, "A", false, "#000000", ""), 0)
	if _, ok := interp.Interpolate(0, allPaths); ok {
		t.Fatal("expected no result with one keyframe")
	}
}

func TestInterpolateDoesNotAliasSnapshots(t *testing.T) {
	store, interp := newFixture(t)
	got, _ := interp.Interpolate(0, allPaths)
	got["lighting"].(map[string]any)["intensity"] = 999.0
	got["subject"].(map[string]any)["description"] = "edited"

	first := store.List()[0]
	if v, _, _ := pathtree.Get(first.Snapshot, "lighting.intensity"); v != 0.0 {
		t.Fatalf("interpolation result aliased keyframe snapshot: %v", v)
	}
	if v, _, _ := pathtree.Get(first.Snapshot, "subject.description"); v != "first" {
		t.Fatalf("interpolation result aliased keyframe snapshot: %v", v)
	}
}

func TestWithBlenderOverridesKind(t *testing.T) {
	store := keyframe.NewStore()
	add(t, store, snapshot(0, "A", false, "#000000", ""), 0)
	add(t, store, snapshot(10, "B", true, "#ffffff", ""), 10)
	hold := morph.BlendFunc(func(before, _ any, _ float64) any { return before })
	interp := morph.New(store, testRegistry(t), morph.WithBlender(params.KindNumeric, hold))

	got, _ := interp.Interpolate(5, []string{"lighting.intensity"})
	if v, _, _ := pathtree.Get(got, "lighting.intensity"); v != 0.0 {
		t.Fatalf("expected custom blender result, got %v", v)
	}
}

func TestSampleFrames(t *testing.T) {
	_, interp := newFixture(t)
	times, err := morph.FrameTimes(20, 2)
	if err != nil {
		t.Fatalf("FrameTimes returned error: %v", err)
	}
	if len(times) != 41 || times[0] != 0 || times[40] != 20 {
		t.Fatalf("unexpected times: %v", times)
	}

	frames, err := interp.SampleFrames(context.Background(), times, allPaths, 4)
	if err != nil {
		t.Fatalf("SampleFrames returned error: %v", err)
	}
	for i, f := range frames {
		if f.Index != i || f.Time != times[i] {
			t.Fatalf("frame %d out of order: %#v", i, f)
		}
		want, _ := interp.Interpolate(times[i], allPaths)
		if !reflect.DeepEqual(f.Config, want) {
			t.Fatalf("frame %d mismatch", i)
		}
	}
}

func TestSampleFramesInsufficientKeyframes(t *testing.T) {
	interp := morph.New(keyframe.NewStore(), testRegistry(t))
	_, err := interp.SampleFrames(context.Background(), []float64{0, 1}, allPaths, 2)
	if !errors.Is(err, morph.ErrInsufficientKeyframes) {
		t.Fatalf("expected ErrInsufficientKeyframes, got %v", err)
	}
}

func TestFrameTimesAppendsDuration(t *testing.T) {
	times, err := morph.FrameTimes(1.25, 2)
	if err != nil {
		t.Fatalf("FrameTimes returned error: %v", err)
	}
	want := []float64{0, 0.5, 1, 1.25}
	if !reflect.DeepEqual(times, want) {
		t.Fatalf("FrameTimes = %v, want %v", times, want)
	}
	if _, err := morph.FrameTimes(0, 2); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if _, err := morph.FrameTimes(1, 0); err == nil {
		t.Fatal("expected error for zero fps")
	}
}

func add(t *testing.T, store *keyframe.Store, snap pathtree.Tree, ts float64) keyframe.Keyframe {
	t.Helper()
	k, err := store.Add(snap, ts, "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	return k
}
