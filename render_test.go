package atlaspack

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/atlaspack/rectpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	p := NewPacker(staticOptions(func(m *StaticOptions) {
		m.Extrude = 1
	}), nil)

	placed := []PackedSprite{{
		Item: &Sprite{
			Name: "dot",
			Data: testPNG(t, 2, 2, red),
			Size: rectpack.Size{Width: 2, Height: 2},
		},
		Rect: rectpack.Rect{X: 2, Y: 2, Width: 2, Height: 2},
	}}

	data, err := p.renderPage(placed, rectpack.Size{Width: 8, Height: 8})
	require.NoError(t, err)

	m, err := decodeImage(data, "page")
	require.NoError(t, err)
	nrgba := toNRGBA(m)

	// Sprite pixels.
	assert.Equal(t, red, nrgba.NRGBAAt(2, 2))
	assert.Equal(t, red, nrgba.NRGBAAt(3, 3))

	// Extruded ring, one pixel on each side, still fully opaque.
	assert.Equal(t, red, nrgba.NRGBAAt(1, 2))
	assert.Equal(t, red, nrgba.NRGBAAt(4, 3))
	assert.Equal(t, red, nrgba.NRGBAAt(2, 1))
	assert.Equal(t, red, nrgba.NRGBAAt(3, 4))

	// The bleed fills neighbouring transparent pixels with the sprite
	// color but leaves them transparent.
	corner := nrgba.NRGBAAt(1, 1)
	assert.Equal(t, uint8(0), corner.A)
	assert.Equal(t, uint8(255), corner.R)

	// Even the far corner picks up bled color on a page with a single
	// red sprite.
	far := nrgba.NRGBAAt(7, 7)
	assert.Equal(t, uint8(0), far.A)
	assert.Equal(t, uint8(255), far.R)
}

// A sprite flush against the page origin must not extrude out of bounds.
func TestRenderPageExtrudeClipped(t *testing.T) {
	p := NewPacker(staticOptions(func(m *StaticOptions) {
		m.Extrude = 2
	}), nil)

	placed := []PackedSprite{{
		Item: &Sprite{
			Name: "corner",
			Data: testPNG(t, 2, 2, color.NRGBA{B: 255, A: 255}),
			Size: rectpack.Size{Width: 2, Height: 2},
		},
		Rect: rectpack.Rect{X: 0, Y: 0, Width: 2, Height: 2},
	}}

	data, err := p.renderPage(placed, rectpack.Size{Width: 4, Height: 4})
	require.NoError(t, err)

	m, err := decodeImage(data, "page")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, toNRGBA(m).NRGBAAt(0, 0))
}

func TestExtrude(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	c := color.NRGBA{G: 255, A: 255}
	for y := 3; y < 5; y++ {
		for x := 3; x < 5; x++ {
			m.SetNRGBA(x, y, c)
		}
	}

	extrude(m, rectpack.Rect{X: 3, Y: 3, Width: 2, Height: 2}, 2)

	assert.Equal(t, c, m.NRGBAAt(1, 3))
	assert.Equal(t, c, m.NRGBAAt(6, 4))
	assert.Equal(t, c, m.NRGBAAt(3, 1))
	assert.Equal(t, c, m.NRGBAAt(4, 6))

	// Corners are not extruded.
	assert.Equal(t, color.NRGBA{}, m.NRGBAAt(2, 2))
	assert.Equal(t, color.NRGBA{}, m.NRGBAAt(5, 5))
}

func TestImageSize(t *testing.T) {
	size, err := imageSize(testPNG(t, 7, 3, color.NRGBA{A: 255}), "probe")
	require.NoError(t, err)
	assert.Equal(t, rectpack.Size{Width: 7, Height: 3}, size)

	_, err = imageSize([]byte("not an image"), "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}
