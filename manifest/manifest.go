/*
Package manifest describes where every sprite ended up after packing.

One manifest is produced per packed input and is written alongside the
rendered atlas pages. It is the contract consumed by downstream code
generation and upload tooling. The JSON encoding is deterministic;
identical packing runs produce byte-identical manifests.

Sprites are indexed by name. A repeated name overwrites the earlier
entry, so with deterministic input ordering the surviving entry is
fixed too.
*/
package manifest

import (
	"encoding/json"

	"github.com/bodgit/atlaspack/rectpack"
)

// Layout kinds recorded for animated sprites.
const (
	LayoutHorizontalStrip = "horizontal_strip"
	LayoutVerticalStrip   = "vertical_strip"
	LayoutGrid            = "grid"
)

// LayoutInfo is the resolved frame arrangement of an animation strip.
// Columns is only set for grid layouts and records the computed column
// count, even when it was chosen automatically.
type LayoutInfo struct {
	Kind    string `json:"kind"`
	Columns int    `json:"columns,omitempty"`
}

// AnimationInfo carries the playback metadata of an animated sprite.
type AnimationInfo struct {
	FrameCount      int           `json:"frame_count"`
	FrameSize       rectpack.Size `json:"frame_size"`
	Layout          LayoutInfo    `json:"layout"`
	FrameDurationMS int           `json:"frame_duration_ms"`
	Loop            bool          `json:"loop"`
}

// SpriteInfo records a single placement. Rect is the visible sprite rect
// on its page. SourceSize is the sprite's pre-trim size; when the sprite
// was trimmed, SourceRect additionally holds the trim offset in its X/Y
// and the pre-trim dimensions in its Width/Height.
type SpriteInfo struct {
	Name       string         `json:"name"`
	Rect       rectpack.Rect  `json:"rect"`
	SourceSize rectpack.Size  `json:"source_size"`
	Trimmed    bool           `json:"trimmed"`
	SourceRect *rectpack.Rect `json:"source_rect,omitempty"`
	Page       int            `json:"page"`
	Animation  *AnimationInfo `json:"animation,omitempty"`
}

// AtlasManifest is the manifest for one packed input.
type AtlasManifest struct {
	Name    string                `json:"name"`
	Sprites map[string]SpriteInfo `json:"sprites"`
}

// New returns an empty manifest for the named input.
func New(name string) *AtlasManifest {
	return &AtlasManifest{
		Name:    name,
		Sprites: make(map[string]SpriteInfo),
	}
}

// Add stores the placement under its sprite name. A repeated name
// overwrites the earlier entry.
func (m *AtlasManifest) Add(info SpriteInfo) {
	m.Sprites[info.Name] = info
}

// Get returns the placement stored under name.
func (m *AtlasManifest) Get(name string) (SpriteInfo, bool) {
	info, ok := m.Sprites[name]
	return info, ok
}

// Length returns the number of sprites in the manifest.
func (m *AtlasManifest) Length() int {
	return len(m.Sprites)
}

// MarshalIndent encodes the manifest as indented JSON. Map keys encode
// in sorted order so the output is stable.
func (m *AtlasManifest) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
