package atlaspack

import (
	"image"
	"image/draw"
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/bodgit/atlaspack/rectpack"
	"github.com/pkg/errors"
)

// FrameMatcher extracts an animation name and frame index from a file
// stem. It isolates the concrete pattern engine from the detection
// logic.
type FrameMatcher interface {
	// Match reports the animation name and frame index for stem.
	// indexed is false when the stem matched but no frame number could
	// be parsed; ok is false when the stem did not match at all.
	Match(stem string) (name string, index int, indexed, ok bool)
}

type regexpMatcher struct {
	re *regexp.Regexp
}

// NewFrameMatcher compiles pattern into a FrameMatcher. The pattern
// should contain a capture group named "name" holding the animation name
// and a second capture group holding the frame number; a match without
// the name group falls back to the whole stem.
func NewFrameMatcher(pattern string) (FrameMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid frame pattern %q", pattern)
	}
	return &regexpMatcher{re: re}, nil
}

func (m *regexpMatcher) Match(stem string) (string, int, bool, bool) {
	sub := m.re.FindStringSubmatch(stem)
	if sub == nil {
		return "", 0, false, false
	}

	name := stem
	if i := m.re.SubexpIndex("name"); i > 0 && i < len(sub) && sub[i] != "" {
		name = sub[i]
	}

	if len(sub) > 2 {
		if n, err := strconv.ParseUint(sub[2], 10, 31); err == nil {
			return name, int(n), true, true
		}
	}

	return name, 0, false, true
}

// detectAnimations groups image assets into animation frame sequences
// and synthesizes one strip per sequence. Assets that do not match the
// frame pattern, and frames of sequences shorter than the minimum, stay
// independent static sprites.
func (p *Packer) detectAnimations(assets []Asset, opts *AnimatedOptions) ([]PackableItem, error) {
	matcher, err := NewFrameMatcher(opts.FramePattern)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]map[int]*Sprite)
	var statics []*Sprite

	for _, asset := range assets {
		if asset.Kind != KindImage {
			continue
		}

		size, err := imageSize(asset.Data, asset.Path)
		if err != nil {
			return nil, err
		}

		stem := asset.Stem()
		sprite := &Sprite{Name: stem, Data: asset.Data, Size: size, Hash: asset.Hash}

		name, index, indexed, ok := matcher.Match(stem)
		if !ok {
			statics = append(statics, sprite)
			continue
		}
		if !indexed {
			p.logger.Printf("No frame number in \"%s\", assuming frame 0\n", stem)
		}

		if _, ok := groups[name]; !ok {
			groups[name] = make(map[int]*Sprite)
		}
		// A duplicate frame index overwrites the earlier frame.
		groups[name][index] = sprite
	}

	items := make([]PackableItem, 0, len(statics)+len(groups))
	for _, sprite := range statics {
		items = append(items, sprite)
	}

	// Iterate groups in sorted name order so the item set is fixed
	// before sorting ever runs.
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		frames := orderedFrames(groups[name])

		if len(frames) < opts.MinFrames {
			p.logger.Printf("Animation \"%s\" has only %d frames (minimum %d), keeping frames as static sprites\n",
				name, len(frames), opts.MinFrames)
			for _, sprite := range frames {
				items = append(items, sprite)
			}
			continue
		}

		strip, err := p.combineFrames(name, frames, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, strip)
	}

	return items, nil
}

// orderedFrames flattens a frame group into ascending frame index order.
func orderedFrames(frames map[int]*Sprite) []*Sprite {
	indices := make([]int, 0, len(frames))
	for i := range frames {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]*Sprite, 0, len(indices))
	for _, i := range indices {
		out = append(out, frames[i])
	}
	return out
}

// combineFrames blits every frame onto one strip canvas laid out per the
// configured layout and re-encodes the result as PNG. The first frame
// fixes the frame size; later frames with other dimensions only warn.
func (p *Packer) combineFrames(name string, frames []*Sprite, opts *AnimatedOptions) (*AnimationStrip, error) {
	if len(frames) == 0 {
		return nil, errors.Errorf("animation %q has no frames", name)
	}

	frameSize := frames[0].Size
	for i, frame := range frames[1:] {
		if frame.Size != frameSize {
			p.logger.Printf("Animation \"%s\" frame %d is %dx%d, expected %dx%d\n",
				name, i+1, frame.Size.Width, frame.Size.Height, frameSize.Width, frameSize.Height)
		}
	}

	n := len(frames)
	var width, height, columns int
	switch opts.Layout {
	case VerticalStrip:
		width, height, columns = frameSize.Width, frameSize.Height*n, 1
	case Grid:
		columns = opts.Columns
		if columns <= 0 {
			columns = int(math.Ceil(math.Sqrt(float64(n))))
		}
		rows := (n + columns - 1) / columns
		width, height = frameSize.Width*columns, frameSize.Height*rows
	default:
		width, height, columns = frameSize.Width*n, frameSize.Height, n
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))

	for i, frame := range frames {
		m, err := decodeImage(frame.Data, frame.Name)
		if err != nil {
			return nil, err
		}

		var ox, oy int
		switch opts.Layout {
		case VerticalStrip:
			oy = i * frameSize.Height
		case Grid:
			ox = (i % columns) * frameSize.Width
			oy = (i / columns) * frameSize.Height
		default:
			ox = i * frameSize.Width
		}

		// Intersecting with the canvas bounds drops any pixels an
		// oversized frame would place outside the strip.
		r := image.Rect(ox, oy, ox+m.Bounds().Dx(), oy+m.Bounds().Dy())
		draw.Draw(canvas, r.Intersect(canvas.Bounds()), m, m.Bounds().Min, draw.Src)
	}

	data, err := encodePNG(canvas)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode strip for animation %q", name)
	}

	return &AnimationStrip{
		Strip: Sprite{
			Name: name,
			Data: data,
			Size: rectpack.Size{Width: width, Height: height},
			// The strip hash is approximated by the first frame's
			// hash, not a fingerprint of the composed image.
			Hash: frames[0].Hash,
		},
		FrameCount:      n,
		FrameSize:       frameSize,
		Layout:          opts.Layout,
		Columns:         columns,
		FrameDurationMS: opts.FrameDurationMS,
		Loop:            opts.Loop,
	}, nil
}
