/*
Package rectpack places variable-size rectangles into a single fixed-size
page without overlap.

Two strategies are provided. MaxRects maintains the set of maximal free
rectangles remaining on the page and splits every free rectangle a new
placement intersects. Guillotine keeps a disjoint partition of the free
space and cuts the chosen free rectangle into exactly two pieces per
placement. Both consume requests one at a time in the order given and are
fully deterministic; a request fails only when no free rectangle is large
enough to hold it.

Neither packer knows about padding; callers bake any padding into the
requested sizes and shrink the returned rectangles afterwards.
*/
package rectpack

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the number of pixels covered by the size.
func (s Size) Area() int {
	return s.Width * s.Height
}

// MaxSide returns the longer of the two dimensions.
func (s Size) MaxSide() int {
	if s.Width > s.Height {
		return s.Width
	}
	return s.Height
}

// Rect is an axis-aligned rectangle positioned on a page.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o share any pixels.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Packer places rectangles into one fixed-size page.
type Packer interface {
	// Insert tries to place a rectangle of the given size, returning
	// where it was placed. It returns false when no free rectangle is
	// large enough.
	Insert(size Size) (Rect, bool)
}

// NextPowerOfTwo returns the smallest power of two that is not less
// than n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
