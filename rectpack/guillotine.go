package rectpack

import "math"

// Guillotine packs rectangles by keeping the free space as a disjoint
// partition of the page. Candidates are chosen with the best-area-fit
// heuristic and the space left over after a placement is cut into exactly
// two rectangles along the shorter leftover axis.
type Guillotine struct {
	free []Rect
}

// NewGuillotine returns a Guillotine packer whose free space is one
// rectangle covering the whole page.
func NewGuillotine(page Size) *Guillotine {
	return &Guillotine{
		free: []Rect{{Width: page.Width, Height: page.Height}},
	}
}

// Insert implements the Packer interface.
func (p *Guillotine) Insert(size Size) (Rect, bool) {
	best := -1
	bestArea := math.MaxInt

	for i, f := range p.free {
		if size.Width > f.Width || size.Height > f.Height {
			continue
		}
		if f.Area() < bestArea {
			best, bestArea = i, f.Area()
		}
	}

	if best < 0 {
		return Rect{}, false
	}

	f := p.free[best]
	p.free = append(p.free[:best], p.free[best+1:]...)

	placed := Rect{X: f.X, Y: f.Y, Width: size.Width, Height: size.Height}

	// Cut the leftover space into two rectangles. Splitting along the
	// shorter leftover axis keeps the larger piece as square as possible.
	leftoverW := f.Width - size.Width
	leftoverH := f.Height - size.Height

	var right, bottom Rect
	if leftoverW < leftoverH {
		right = Rect{X: f.X + size.Width, Y: f.Y, Width: leftoverW, Height: size.Height}
		bottom = Rect{X: f.X, Y: f.Y + size.Height, Width: f.Width, Height: leftoverH}
	} else {
		right = Rect{X: f.X + size.Width, Y: f.Y, Width: leftoverW, Height: f.Height}
		bottom = Rect{X: f.X, Y: f.Y + size.Height, Width: size.Width, Height: leftoverH}
	}

	if right.Width > 0 && right.Height > 0 {
		p.free = append(p.free, right)
	}
	if bottom.Width > 0 && bottom.Height > 0 {
		p.free = append(p.free, bottom)
	}

	return placed, true
}
