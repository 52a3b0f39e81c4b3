package rectpack

import "math"

// MaxRects packs rectangles by tracking the set of maximal free
// rectangles remaining on the page. Candidates are chosen with the
// best-short-side-fit heuristic: the free rectangle leaving the smallest
// leftover along its more constrained axis wins.
type MaxRects struct {
	free []Rect
}

// NewMaxRects returns a MaxRects packer whose free space is one
// rectangle covering the whole page.
func NewMaxRects(page Size) *MaxRects {
	return &MaxRects{
		free: []Rect{{Width: page.Width, Height: page.Height}},
	}
}

// Insert implements the Packer interface.
func (p *MaxRects) Insert(size Size) (Rect, bool) {
	best := -1
	bestShort, bestLong := math.MaxInt, math.MaxInt

	for i, f := range p.free {
		if size.Width > f.Width || size.Height > f.Height {
			continue
		}
		short := f.Width - size.Width
		long := f.Height - size.Height
		if short > long {
			short, long = long, short
		}
		if short < bestShort || (short == bestShort && long < bestLong) {
			best, bestShort, bestLong = i, short, long
		}
	}

	if best < 0 {
		return Rect{}, false
	}

	placed := Rect{X: p.free[best].X, Y: p.free[best].Y, Width: size.Width, Height: size.Height}
	p.place(placed)

	return placed, true
}

// place removes r from the free space, splitting every free rectangle it
// intersects into up to four maximal pieces.
func (p *MaxRects) place(r Rect) {
	var next []Rect
	for _, f := range p.free {
		if !f.Intersects(r) {
			next = append(next, f)
			continue
		}
		if r.X > f.X {
			next = append(next, Rect{X: f.X, Y: f.Y, Width: r.X - f.X, Height: f.Height})
		}
		if r.Right() < f.Right() {
			next = append(next, Rect{X: r.Right(), Y: f.Y, Width: f.Right() - r.Right(), Height: f.Height})
		}
		if r.Y > f.Y {
			next = append(next, Rect{X: f.X, Y: f.Y, Width: f.Width, Height: r.Y - f.Y})
		}
		if r.Bottom() < f.Bottom() {
			next = append(next, Rect{X: f.X, Y: r.Bottom(), Width: f.Width, Height: f.Bottom() - r.Bottom()})
		}
	}
	p.free = pruneContained(next)
}

// pruneContained drops any rectangle fully contained within another,
// keeping the first of any identical pair.
func pruneContained(rects []Rect) []Rect {
	var out []Rect
outer:
	for i, r := range rects {
		for j, o := range rects {
			if j == i || (r == o && j > i) {
				continue
			}
			if o.Contains(r) {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}
