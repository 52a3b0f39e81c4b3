package atlaspack

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/bodgit/atlaspack/bleed"
	"github.com/bodgit/atlaspack/rectpack"
	"github.com/pkg/errors"
)

// renderPage composites every placed sprite onto a blank page canvas,
// extrudes sprite edges, bleeds color into the transparent remainder and
// encodes the page as PNG. The canvas is owned exclusively by this call
// for the page's whole lifetime.
func (p *Packer) renderPage(placed []PackedSprite, pageSize rectpack.Size) ([]byte, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, pageSize.Width, pageSize.Height))

	for i := range placed {
		ps := &placed[i]
		s := ps.Item.Sprite()

		m, err := decodeImage(s.Data, s.Name)
		if err != nil {
			return nil, err
		}

		r := image.Rect(ps.Rect.X, ps.Rect.Y, ps.Rect.Right(), ps.Rect.Bottom())
		draw.Draw(canvas, r, m, m.Bounds().Min, draw.Src)

		if e := p.opts.extrude(); e > 0 {
			extrude(canvas, ps.Rect, e)
		}
	}

	bleed.Apply(canvas)

	data, err := encodePNG(canvas)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode atlas page")
	}

	if p.opts.Output.Optimize || p.opts.Output.QuantizePages {
		return optimizePNG(data, p.opts.Output.QuantizePages)
	}

	return data, nil
}

// extrude replicates the outer edge pixels of r outward by n pixels on
// all four sides, clipped to the canvas bounds.
func extrude(m *image.NRGBA, r rectpack.Rect, n int) {
	b := m.Bounds()

	for e := 1; e <= n; e++ {
		for y := r.Y; y < r.Bottom(); y++ {
			if r.X-e >= b.Min.X {
				m.SetNRGBA(r.X-e, y, m.NRGBAAt(r.X, y))
			}
			if r.Right()-1+e < b.Max.X {
				m.SetNRGBA(r.Right()-1+e, y, m.NRGBAAt(r.Right()-1, y))
			}
		}
		for x := r.X; x < r.Right(); x++ {
			if r.Y-e >= b.Min.Y {
				m.SetNRGBA(x, r.Y-e, m.NRGBAAt(x, r.Y))
			}
			if r.Bottom()-1+e < b.Max.Y {
				m.SetNRGBA(x, r.Bottom()-1+e, m.NRGBAAt(x, r.Bottom()-1))
			}
		}
	}
}

// imageSize probes the dimensions of encoded image data without decoding
// the pixels.
func imageSize(data []byte, name string) (rectpack.Size, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return rectpack.Size{}, errors.Wrapf(err, "failed to decode image %q", name)
	}
	return rectpack.Size{Width: cfg.Width, Height: cfg.Height}, nil
}

func decodeImage(data []byte, name string) (image.Image, error) {
	m, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image %q", name)
	}
	return m, nil
}

func encodePNG(m image.Image) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := png.Encode(b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// toNRGBA returns m as a non-premultiplied RGBA image anchored at the
// origin, copying only when necessary.
func toNRGBA(m image.Image) *image.NRGBA {
	if nrgba, ok := m.(*image.NRGBA); ok && nrgba.Bounds().Min == (image.Point{}) {
		return nrgba
	}
	b := m.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), m, b.Min, draw.Src)
	return nrgba
}
