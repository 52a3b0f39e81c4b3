/*
Package bleed implements alpha bleeding for non-premultiplied RGBA images.

A fully transparent pixel still carries color channels, and texture
samplers blend those channels with neighbouring visible pixels when
filtering. If the hidden color is black, sprite edges pick up dark
fringes. Bleeding copies the color of visible pixels outward into the
transparent region, leaving every alpha value untouched, so filtered
samples stay consistent with the visible edge.

The propagation is a breadth-first flood from the visible pixels: each
transparent pixel takes the average color of its already-colored
neighbours, then becomes a source for pixels further out. Processing
order is fixed by scanline order so results are deterministic.
*/
package bleed

import "image"

const (
	stateUnknown = iota
	stateQueued
	stateResolved
)

var neighbours = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Apply bleeds visible pixel colors into the fully transparent pixels of
// m, in place. Alpha values are never modified.
func Apply(m *image.NRGBA) {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	state := make([]byte, w*h)
	queue := make([]int, 0, w*h)

	// Visible pixels are color sources; transparent pixels next to one
	// seed the flood.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Pix[m.PixOffset(b.Min.X+x, b.Min.Y+y)+3] != 0 {
				state[y*w+x] = stateResolved
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if state[i] == stateResolved {
				continue
			}
			if hasResolvedNeighbour(state, w, h, x, y) {
				state[i] = stateQueued
				queue = append(queue, i)
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%w, i/w

		var r, g, bl, n int
		for _, d := range neighbours {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h || state[ny*w+nx] != stateResolved {
				continue
			}
			o := m.PixOffset(b.Min.X+nx, b.Min.Y+ny)
			r += int(m.Pix[o])
			g += int(m.Pix[o+1])
			bl += int(m.Pix[o+2])
			n++
		}
		if n > 0 {
			o := m.PixOffset(b.Min.X+x, b.Min.Y+y)
			m.Pix[o] = uint8(r / n)
			m.Pix[o+1] = uint8(g / n)
			m.Pix[o+2] = uint8(bl / n)
		}
		state[i] = stateResolved

		for _, d := range neighbours {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if j := ny*w + nx; state[j] == stateUnknown {
				state[j] = stateQueued
				queue = append(queue, j)
			}
		}
	}
}

func hasResolvedNeighbour(state []byte, w, h, x, y int) bool {
	for _, d := range neighbours {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			continue
		}
		if state[ny*w+nx] == stateResolved {
			return true
		}
	}
	return false
}
