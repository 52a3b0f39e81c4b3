package atlaspack

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: uint8(x + y), A: 255})
		}
	}

	b, err := encodePNG(m)
	require.NoError(t, err)
	return b
}

func TestOptimizePNGLossless(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{B: 255, A: 255}
			}
			m.SetNRGBA(x, y, c)
		}
	}
	data, err := encodePNG(m)
	require.NoError(t, err)

	out, err := optimizePNG(data, false)
	require.NoError(t, err)
	assert.True(t, len(out) <= len(data))

	decoded, err := decodeImage(out, "optimized")
	require.NoError(t, err)
	nrgba := toNRGBA(decoded)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			require.Equal(t, m.NRGBAAt(x, y), nrgba.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

// More than 256 colors without the lossy option leaves the page alone.
func TestOptimizePNGTooManyColors(t *testing.T) {
	data := gradientPNG(t, 32, 32)

	out, err := optimizePNG(data, false)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestOptimizePNGQuantized(t *testing.T) {
	data := gradientPNG(t, 32, 32)

	out, err := optimizePNG(data, true)
	require.NoError(t, err)

	decoded, err := decodeImage(out, "quantized")
	require.NoError(t, err)
	assert.Equal(t, 32, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
}

func TestOptimizePNGDeterministic(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 4 * 60), G: uint8(y % 4 * 60), A: 255})
		}
	}
	data, err := encodePNG(m)
	require.NoError(t, err)

	first, err := optimizePNG(data, false)
	require.NoError(t, err)
	second, err := optimizePNG(data, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
