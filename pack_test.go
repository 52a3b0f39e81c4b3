package atlaspack

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, width, height int, c color.NRGBA) []byte {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetNRGBA(x, y, c)
		}
	}

	b, err := encodePNG(m)
	require.NoError(t, err)
	return b
}

func staticOptions(f func(*StaticOptions)) *PackOptions {
	m := DefaultStaticOptions()
	if f != nil {
		f(m)
	}
	return &PackOptions{Enabled: true, Mode: m}
}

func TestPackDisabled(t *testing.T) {
	p := NewPacker(&PackOptions{Mode: DefaultStaticOptions()}, nil)

	_, err := p.Pack(nil, "sprites")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestPackNoMode(t *testing.T) {
	p := NewPacker(&PackOptions{Enabled: true}, nil)

	_, err := p.Pack(nil, "sprites")
	require.Error(t, err)
}

func TestPackEmptyInput(t *testing.T) {
	p := NewPacker(staticOptions(nil), nil)

	result, err := p.Pack(nil, "sprites")
	require.NoError(t, err)
	assert.Empty(t, result.Atlases)
	assert.Equal(t, 0, result.Manifest.Length())
}

func TestPackIgnoresNonImageAssets(t *testing.T) {
	assets := []Asset{
		NewAsset("logo.png", testPNG(t, 4, 4, color.NRGBA{R: 255, A: 255})),
		NewAsset("readme.txt", []byte("not an image")),
	}

	result, err := NewPacker(staticOptions(nil), nil).Pack(assets, "sprites")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Manifest.Length())
}

// Five 100x100 sprites with padding 2 each need 104x104, so a 128x128
// page holds exactly one and packing spreads them over five pages.
func TestPackSpillsAcrossPages(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.MaxWidth, m.MaxHeight = 128, 128
		m.PowerOfTwo = false
		m.Padding = 2
		m.Extrude = 0
	})

	var assets []Asset
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png"} {
		assets = append(assets, NewAsset(name, testPNG(t, 100, 100, color.NRGBA{R: 128, A: 255})))
	}

	result, err := NewPacker(opts, nil).Pack(assets, "sprites")
	require.NoError(t, err)
	assert.Len(t, result.Atlases, 5)

	total := 0
	for _, atlas := range result.Atlases {
		assert.NotEmpty(t, atlas.Sprites)
		total += len(atlas.Sprites)
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 5, result.Manifest.Length())
}

func TestPackPageLimitExceeded(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.MaxWidth, m.MaxHeight = 128, 128
		m.PowerOfTwo = false
		m.Padding = 2
		m.PageLimit = 1
	})

	assets := []Asset{
		NewAsset("a.png", testPNG(t, 100, 100, color.NRGBA{R: 1, A: 255})),
		NewAsset("b.png", testPNG(t, 100, 100, color.NRGBA{R: 2, A: 255})),
	}

	_, err := NewPacker(opts, nil).Pack(assets, "sprites")
	require.Error(t, err)

	var limitErr *PageLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 2, limitErr.Required)
	assert.Equal(t, 1, limitErr.Limit)
}

func TestPackOversizeSprite(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.MaxWidth, m.MaxHeight = 64, 64
	})

	assets := []Asset{
		NewAsset("huge.png", testPNG(t, 65, 10, color.NRGBA{R: 1, A: 255})),
	}

	_, err := NewPacker(opts, nil).Pack(assets, "sprites")
	require.Error(t, err)

	var oversize *OversizeError
	require.True(t, errors.As(err, &oversize))
	assert.Equal(t, "huge", oversize.Name)
	assert.Equal(t, 65, oversize.Size.Width)
	assert.Contains(t, err.Error(), "huge")
}

// A sprite that passes validation but no longer fits once padding is
// added must fail instead of looping forever.
func TestPackNoProgress(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.MaxWidth, m.MaxHeight = 128, 128
		m.PowerOfTwo = false
		m.Padding = 2
	})

	assets := []Asset{
		NewAsset("edge.png", testPNG(t, 128, 128, color.NRGBA{R: 1, A: 255})),
	}

	_, err := NewPacker(opts, nil).Pack(assets, "sprites")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProgress))
}

func TestPackDedupe(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.Dedupe = true
	})

	data := testPNG(t, 8, 8, color.NRGBA{G: 255, A: 255})
	assets := []Asset{
		NewAsset("first.png", data),
		NewAsset("second.png", data),
		NewAsset("other.png", testPNG(t, 8, 8, color.NRGBA{B: 255, A: 255})),
	}

	result, err := NewPacker(opts, nil).Pack(assets, "sprites")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Manifest.Length())

	_, ok := result.Manifest.Get("first")
	assert.True(t, ok, "first of the duplicates should survive")
	_, ok = result.Manifest.Get("second")
	assert.False(t, ok)
}

func TestPackPowerOfTwoPageSize(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.MaxWidth, m.MaxHeight = 100, 60
		m.PowerOfTwo = true
	})

	assets := []Asset{
		NewAsset("a.png", testPNG(t, 10, 10, color.NRGBA{R: 1, A: 255})),
	}

	result, err := NewPacker(opts, nil).Pack(assets, "sprites")
	require.NoError(t, err)
	require.Len(t, result.Atlases, 1)
	assert.Equal(t, 128, result.Atlases[0].Size.Width)
	assert.Equal(t, 64, result.Atlases[0].Size.Height)
}

func TestPackRectsWithinBoundsAndNonOverlapping(t *testing.T) {
	for name, algorithm := range map[string]Algorithm{
		"maxrects":   MaxRects,
		"guillotine": Guillotine,
	} {
		t.Run(name, func(t *testing.T) {
			opts := staticOptions(func(m *StaticOptions) {
				m.MaxWidth, m.MaxHeight = 64, 64
				m.PowerOfTwo = false
				m.Padding = 1
				m.Algorithm = algorithm
			})

			var assets []Asset
			sizes := [][2]int{{30, 30}, {30, 30}, {30, 30}, {20, 40}, {40, 20}, {10, 10}, {10, 10}, {5, 60}}
			for i, wh := range sizes {
				assets = append(assets, NewAsset(
					string(rune('a'+i))+".png",
					testPNG(t, wh[0], wh[1], color.NRGBA{R: uint8(i * 20), A: 255}),
				))
			}

			result, err := NewPacker(opts, nil).Pack(assets, "sprites")
			require.NoError(t, err)

			total := 0
			for _, atlas := range result.Atlases {
				for i, a := range atlas.Sprites {
					assert.True(t, a.Rect.X >= 0 && a.Rect.Y >= 0)
					assert.True(t, a.Rect.Right() <= atlas.Size.Width)
					assert.True(t, a.Rect.Bottom() <= atlas.Size.Height)
					for _, b := range atlas.Sprites[i+1:] {
						assert.False(t, a.Rect.Intersects(b.Rect), "%v overlaps %v", a.Rect, b.Rect)
					}
				}
				total += len(atlas.Sprites)
			}
			assert.Equal(t, len(sizes), total)
		})
	}
}

func TestPackDeterministic(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.MaxWidth, m.MaxHeight = 64, 64
		m.PowerOfTwo = false
		m.AllowTrim = true
	})

	assets := func() []Asset {
		return []Asset{
			NewAsset("a.png", testPNG(t, 20, 20, color.NRGBA{R: 255, A: 255})),
			NewAsset("b.png", testPNG(t, 20, 20, color.NRGBA{G: 255, A: 255})),
			NewAsset("c.png", testPNG(t, 30, 10, color.NRGBA{B: 255, A: 255})),
			NewAsset("d.png", testPNG(t, 10, 30, color.NRGBA{R: 255, G: 255, A: 255})),
		}
	}

	r1, err := NewPacker(opts, nil).Pack(assets(), "sprites")
	require.NoError(t, err)
	r2, err := NewPacker(opts, nil).Pack(assets(), "sprites")
	require.NoError(t, err)

	require.Equal(t, len(r1.Atlases), len(r2.Atlases))
	for i := range r1.Atlases {
		assert.True(t, bytes.Equal(r1.Atlases[i].Image, r2.Atlases[i].Image), "page %d differs", i)
	}

	m1, err := r1.Manifest.MarshalIndent()
	require.NoError(t, err)
	m2, err := r2.Manifest.MarshalIndent()
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
}

func TestPackManifestRecordsPlacements(t *testing.T) {
	opts := staticOptions(func(m *StaticOptions) {
		m.Padding = 2
	})

	assets := []Asset{
		NewAsset("logo.png", testPNG(t, 16, 8, color.NRGBA{R: 3, A: 255})),
	}

	result, err := NewPacker(opts, nil).Pack(assets, "sprites")
	require.NoError(t, err)

	info, ok := result.Manifest.Get("logo")
	require.True(t, ok)
	assert.Equal(t, "sprites", result.Manifest.Name)
	assert.Equal(t, 16, info.Rect.Width)
	assert.Equal(t, 8, info.Rect.Height)
	assert.Equal(t, 16, info.SourceSize.Width)
	assert.False(t, info.Trimmed)
	assert.Nil(t, info.SourceRect)
	assert.Nil(t, info.Animation)
	assert.Equal(t, 0, info.Page)
}
