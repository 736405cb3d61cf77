package keyframe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"morpher/internal/pathtree"
)

// ErrMalformedImport rejects a keyframe document as a whole.
var ErrMalformedImport = errors.New("malformed keyframe document")

// wireKeyframe uses pointers so absent fields can be told apart from zero values.
type wireKeyframe struct {
	ID        *string         `json:"id"`
	Timestamp *float64        `json:"timestamp"`
	Snapshot  json.RawMessage `json:"snapshot"`
	Name      *string         `json:"name"`
}

// Export encodes frames as the JSON array [{id, timestamp, snapshot, name}].
func Export(frames []Keyframe) ([]byte, error) {
	if frames == nil {
		frames = []Keyframe{}
	}
	data, err := json.MarshalIndent(frames, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode keyframes: %w", err)
	}
	return data, nil
}

// Import decodes a document produced by Export. Any parse error or missing
// field rejects the whole document. Duplicate IDs are remapped so every
// returned keyframe has a unique ID.
func Import(data []byte) ([]Keyframe, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedImport)
	}

	var wire []wireKeyframe
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if wire == nil {
		return nil, fmt.Errorf("%w: document is not an array", ErrMalformedImport)
	}

	frames := make([]Keyframe, 0, len(wire))
	for i, w := range wire {
		k, err := w.decode()
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedImport, i, err)
		}
		frames = append(frames, k)
	}
	return dedupeIDs(frames), nil
}

func (w wireKeyframe) decode() (Keyframe, error) {
	if w.ID == nil || strings.TrimSpace(*w.ID) == "" {
		return Keyframe{}, errors.New("missing id")
	}
	if w.Timestamp == nil {
		return Keyframe{}, errors.New("missing timestamp")
	}
	if err := checkTimestamp(*w.Timestamp); err != nil {
		return Keyframe{}, err
	}
	if w.Name == nil {
		return Keyframe{}, errors.New("missing name")
	}
	snap := bytes.TrimSpace(w.Snapshot)
	if len(snap) == 0 || bytes.Equal(snap, []byte("null")) {
		return Keyframe{}, errors.New("missing snapshot")
	}
	var tree pathtree.Tree
	if err := json.Unmarshal(snap, &tree); err != nil {
		return Keyframe{}, fmt.Errorf("snapshot is not an object: %v", err)
	}
	return Keyframe{ID: *w.ID, Timestamp: *w.Timestamp, Snapshot: tree, Name: *w.Name}, nil
}

func dedupeIDs(frames []Keyframe) []Keyframe {
	seen := make(map[string]struct{}, len(frames))
	for i := range frames {
		if _, dup := seen[frames[i].ID]; dup {
			frames[i].ID = uuid.NewString()
		}
		seen[frames[i].ID] = struct{}{}
	}
	return frames
}
