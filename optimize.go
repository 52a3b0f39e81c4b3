package atlaspack

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

const maxPaletteColors = 256

// optimizePNG re-encodes a rendered page as a paletted PNG when that
// shrinks it. Pages with at most 256 distinct colors re-encode
// losslessly; with lossy set, pages with more are first reduced to 256
// colors with a median-cut quantizer. The input bytes are returned
// unchanged whenever the paletted encoding would not be smaller.
func optimizePNG(data []byte, lossy bool) ([]byte, error) {
	m, err := decodeImage(data, "atlas page")
	if err != nil {
		return nil, err
	}

	palette, ok := exactPalette(m)
	if !ok {
		if !lossy {
			return data, nil
		}
		q := quantize.MedianCutQuantizer{}
		palette = q.Quantize(make(color.Palette, 0, maxPaletteColors), m)
	}
	if len(palette) == 0 {
		return data, nil
	}

	b := m.Bounds()
	pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)
	draw.Draw(pm, pm.Bounds(), m, b.Min, draw.Src)

	out, err := encodePNG(pm)
	if err != nil {
		return nil, err
	}
	if len(out) < len(data) {
		return out, nil
	}
	return data, nil
}

// exactPalette collects the distinct colors of m in scanline order so the
// palette, and therefore the encoded bytes, are stable. It reports false
// once more than 256 colors are seen.
func exactPalette(m image.Image) (color.Palette, bool) {
	b := m.Bounds()
	seen := make(map[color.NRGBA]struct{})
	var palette color.Palette

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(palette) == maxPaletteColors {
				return nil, false
			}
			seen[c] = struct{}{}
			palette = append(palette, c)
		}
	}

	return palette, true
}
