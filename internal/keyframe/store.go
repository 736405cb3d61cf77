package keyframe

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"morpher/internal/pathtree"
)

// ErrInvalidTimestamp rejects NaN, infinite, or negative timestamps.
var ErrInvalidTimestamp = errors.New("invalid keyframe timestamp")

// Keyframe is an immutable snapshot of the host configuration at a point on
// the timeline.
type Keyframe struct {
	ID        string        `json:"id" yaml:"id"`
	Timestamp float64       `json:"timestamp" yaml:"timestamp"`
	Snapshot  pathtree.Tree `json:"snapshot" yaml:"snapshot"`
	Name      string        `json:"name" yaml:"name"`
}

// Clone returns k with a deep copy of its snapshot.
func (k Keyframe) Clone() Keyframe {
	k.Snapshot = pathtree.Clone(k.Snapshot)
	return k
}

// New builds a keyframe with a fresh ID and a deep copy of snapshot.
func New(snapshot pathtree.Tree, timestamp float64, name string) (Keyframe, error) {
	if err := checkTimestamp(timestamp); err != nil {
		return Keyframe{}, err
	}
	if snapshot == nil {
		snapshot = pathtree.Tree{}
	}
	return Keyframe{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		Snapshot:  pathtree.Clone(snapshot),
		Name:      name,
	}, nil
}

func checkTimestamp(ts float64) error {
	if math.IsNaN(ts) || math.IsInf(ts, 0) || ts < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimestamp, ts)
	}
	return nil
}

// Store keeps keyframes ordered by timestamp. Ties keep insertion order.
type Store struct {
	mu     sync.RWMutex
	frames []Keyframe
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add captures snapshot at timestamp and inserts it.
func (s *Store) Add(snapshot pathtree.Tree, timestamp float64, name string) (Keyframe, error) {
	k, err := New(snapshot, timestamp, name)
	if err != nil {
		return Keyframe{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, k)
	sortFrames(s.frames)
	return k.Clone(), nil
}

// Remove deletes the keyframe with id. It reports whether anything was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range s.frames {
		if k.ID == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the keyframe with id.
func (s *Store) Get(id string) (Keyframe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.frames {
		if k.ID == id {
			return k.Clone(), true
		}
	}
	return Keyframe{}, false
}

// List returns deep copies of all keyframes in timestamp order.
func (s *Store) List() []Keyframe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Keyframe, len(s.frames))
	for i, k := range s.frames {
		out[i] = k.Clone()
	}
	return out
}

// Len reports the number of keyframes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Clear removes every keyframe.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
}

// Replace swaps the whole collection for frames. Nothing changes when any
// frame is invalid. Missing or duplicate IDs are replaced with fresh ones.
func (s *Store) Replace(frames []Keyframe) error {
	next := make([]Keyframe, 0, len(frames))
	seen := make(map[string]struct{}, len(frames))
	for i, k := range frames {
		if err := checkTimestamp(k.Timestamp); err != nil {
			return fmt.Errorf("keyframe %d: %w", i, err)
		}
		k = k.Clone()
		if k.Snapshot == nil {
			k.Snapshot = pathtree.Tree{}
		}
		if _, dup := seen[k.ID]; dup || strings.TrimSpace(k.ID) == "" {
			k.ID = uuid.NewString()
		}
		seen[k.ID] = struct{}{}
		next = append(next, k)
	}
	sortFrames(next)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = next
	return nil
}

// Bracket returns the nearest keyframes around time. Before the first
// keyframe both results are the first; after the last both are the last.
// ok is false when fewer than two keyframes exist. The returned snapshots
// are shared with the store and must not be modified.
func (s *Store) Bracket(time float64) (before, after Keyframe, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.frames)
	if n < 2 || math.IsNaN(time) {
		return Keyframe{}, Keyframe{}, false
	}
	// idx is the first keyframe strictly after time.
	idx := sort.Search(n, func(i int) bool { return s.frames[i].Timestamp > time })
	switch idx {
	case 0:
		return s.frames[0], s.frames[0], true
	case n:
		return s.frames[n-1], s.frames[n-1], true
	default:
		return s.frames[idx-1], s.frames[idx], true
	}
}

func sortFrames(frames []Keyframe) {
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Timestamp < frames[j].Timestamp
	})
}
