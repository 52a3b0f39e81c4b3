package atlaspack

import (
	"image"

	"github.com/bodgit/atlaspack/rectpack"
)

// trimSprite crops fully transparent borders from s, replacing its data
// and size with the re-encoded crop. It returns a rect holding the trim
// offset and the pre-trim dimensions, or nil when nothing was cropped: a
// fully transparent sprite, an already tight one, or one that failed to
// decode is left alone.
func trimSprite(s *Sprite) *rectpack.Rect {
	m, err := decodeImage(s.Data, s.Name)
	if err != nil {
		return nil
	}
	nrgba := toNRGBA(m)

	b := nrgba.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if nrgba.Pix[nrgba.PixOffset(x, y)+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX {
		return nil
	}

	width, height := maxX-minX+1, maxY-minY+1
	if width == b.Dx() && height == b.Dy() {
		return nil
	}

	cropped := nrgba.SubImage(image.Rect(minX, minY, maxX+1, maxY+1))
	data, err := encodePNG(cropped)
	if err != nil {
		return nil
	}

	original := s.Size
	s.Data = data
	s.Size = rectpack.Size{Width: width, Height: height}

	return &rectpack.Rect{
		X:      minX - b.Min.X,
		Y:      minY - b.Min.Y,
		Width:  original.Width,
		Height: original.Height,
	}
}
