package atlaspack

import "github.com/bodgit/atlaspack/rectpack"

// Algorithm selects the bin-packing strategy used per page.
type Algorithm int

const (
	// MaxRects tracks maximal free rectangles; better packing, more
	// bookkeeping.
	MaxRects Algorithm = iota
	// Guillotine partitions the free space with straight cuts.
	Guillotine
)

// SortKey selects the primary order applied to sprites before packing.
// Every order falls back to ascending name so packing is deterministic.
type SortKey int

const (
	// SortArea orders by descending pixel area.
	SortArea SortKey = iota
	// SortMaxSide orders by descending longest side.
	SortMaxSide
	// SortName orders by ascending sprite name.
	SortName
)

// Layout describes how animation frames are arranged in a strip.
type Layout int

const (
	// HorizontalStrip lays frames out left to right in a single row.
	HorizontalStrip Layout = iota
	// VerticalStrip lays frames out top to bottom in a single column.
	VerticalStrip
	// Grid lays frames out row by row across a number of columns.
	Grid
)

// DefaultFramePattern matches stems like "walk_001". The named group
// carries the animation name and the second group the frame number.
const DefaultFramePattern = `(?P<name>.+)_(\d+)`

// PackMode is either *StaticOptions or *AnimatedOptions.
type PackMode interface {
	packMode()
}

// StaticOptions configures packing of independent sprites.
type StaticOptions struct {
	MaxWidth   int
	MaxHeight  int
	PowerOfTwo bool
	Padding    int
	Extrude    int
	AllowTrim  bool
	Algorithm  Algorithm
	PageLimit  int // zero means unlimited
	Sort       SortKey
	Dedupe     bool
}

func (*StaticOptions) packMode() {}

// AnimatedOptions configures detection of sequentially named frames and
// the sprite sheets synthesized from them.
type AnimatedOptions struct {
	FramePattern    string
	MinFrames       int
	Layout          Layout
	Columns         int // zero means automatic, grid layout only
	FrameDurationMS int
	Loop            bool
	Padding         int
	Extrude         int
}

func (*AnimatedOptions) packMode() {}

// OutputOptions configure how finished pages are emitted.
type OutputOptions struct {
	Name      string
	Overwrite bool
	// Optimize re-encodes pages as paletted PNG when that is lossless.
	Optimize bool
	// QuantizePages additionally allows lossy median-cut quantization
	// down to 256 colors for pages where Optimize alone cannot apply.
	QuantizePages bool
}

// PackOptions is the full packing configuration for one input.
type PackOptions struct {
	Enabled bool
	Output  OutputOptions
	Mode    PackMode
}

// DefaultStaticOptions returns the static mode defaults.
func DefaultStaticOptions() *StaticOptions {
	return &StaticOptions{
		MaxWidth:   2048,
		MaxHeight:  2048,
		PowerOfTwo: true,
		Padding:    2,
		Extrude:    1,
		Algorithm:  MaxRects,
		Sort:       SortArea,
	}
}

// DefaultAnimatedOptions returns the animated mode defaults.
func DefaultAnimatedOptions() *AnimatedOptions {
	return &AnimatedOptions{
		FramePattern:    DefaultFramePattern,
		MinFrames:       2,
		Layout:          HorizontalStrip,
		FrameDurationMS: 100,
		Loop:            true,
		Padding:         2,
		Extrude:         1,
	}
}

// Mode accessors. Animated mode has no packing-geometry knobs of its
// own, so those fall back to the static defaults.

func (o *PackOptions) padding() int {
	switch m := o.Mode.(type) {
	case *StaticOptions:
		return m.Padding
	case *AnimatedOptions:
		return m.Padding
	}
	return 0
}

func (o *PackOptions) extrude() int {
	switch m := o.Mode.(type) {
	case *StaticOptions:
		return m.Extrude
	case *AnimatedOptions:
		return m.Extrude
	}
	return 0
}

func (o *PackOptions) maxSize() rectpack.Size {
	if m, ok := o.Mode.(*StaticOptions); ok {
		return rectpack.Size{Width: m.MaxWidth, Height: m.MaxHeight}
	}
	return rectpack.Size{Width: 2048, Height: 2048}
}

func (o *PackOptions) powerOfTwo() bool {
	if m, ok := o.Mode.(*StaticOptions); ok {
		return m.PowerOfTwo
	}
	return false
}

func (o *PackOptions) allowTrim() bool {
	if m, ok := o.Mode.(*StaticOptions); ok {
		return m.AllowTrim
	}
	return false
}

func (o *PackOptions) algorithm() Algorithm {
	if m, ok := o.Mode.(*StaticOptions); ok {
		return m.Algorithm
	}
	return MaxRects
}

func (o *PackOptions) pageLimit() int {
	if m, ok := o.Mode.(*StaticOptions); ok {
		return m.PageLimit
	}
	return 0
}

func (o *PackOptions) sortKey() SortKey {
	if m, ok := o.Mode.(*StaticOptions); ok {
		return m.Sort
	}
	return SortArea
}
