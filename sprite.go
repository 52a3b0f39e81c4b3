package atlaspack

import (
	"github.com/bodgit/atlaspack/manifest"
	"github.com/bodgit/atlaspack/rectpack"
)

// Sprite is one decodable image together with its packing metadata.
type Sprite struct {
	Name string
	Data []byte
	Size rectpack.Size
	Hash string
}

// Sprite implements PackableItem; a static sprite represents itself.
func (s *Sprite) Sprite() *Sprite { return s }

// AnimationStrip is a multi-frame image synthesized from sequentially
// named frames, plus its playback metadata. Columns records the resolved
// column count for grid layouts.
type AnimationStrip struct {
	Strip           Sprite
	FrameCount      int
	FrameSize       rectpack.Size
	Layout          Layout
	Columns         int
	FrameDurationMS int
	Loop            bool
}

// Sprite implements PackableItem via the composed strip image.
func (a *AnimationStrip) Sprite() *Sprite { return &a.Strip }

// PackableItem is either a static *Sprite or an *AnimationStrip.
// Sorting, validation and placement only ever look at the representative
// sprite, so the distinction is confined to detection and the manifest.
type PackableItem interface {
	Sprite() *Sprite
}

// PackedSprite records where an item ended up on a page.
type PackedSprite struct {
	Item PackableItem
	// Rect is the visible sprite rect on the page, padding excluded.
	Rect    rectpack.Rect
	Trimmed bool
	// SourceRect holds the trim offset (X, Y) and the pre-trim
	// dimensions (Width, Height) when the sprite was trimmed, nil
	// otherwise.
	SourceRect *rectpack.Rect
}

// Atlas is one rendered page.
type Atlas struct {
	PageIndex int
	Image     []byte
	Size      rectpack.Size
	Sprites   []PackedSprite
}

// PackResult is the complete output of one packing run. Either every
// input item appears on exactly one page, or packing failed and there is
// no result at all.
type PackResult struct {
	Atlases  []*Atlas
	Manifest *manifest.AtlasManifest
}
