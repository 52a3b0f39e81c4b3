package atlaspack

import (
	"io/ioutil"
	"log"

	"github.com/bodgit/atlaspack/manifest"
	"github.com/bodgit/atlaspack/rectpack"
	"github.com/pkg/errors"
)

// Packer packs image assets into atlas pages according to a single
// PackOptions. A Packer holds no state across Pack calls.
type Packer struct {
	opts   *PackOptions
	logger *log.Logger
}

// NewPacker returns a Packer. A nil logger discards all output.
func NewPacker(opts *PackOptions, logger *log.Logger) *Packer {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Packer{
		opts:   opts,
		logger: logger,
	}
}

// pending is an item waiting for a page, together with its trim record.
type pending struct {
	item   PackableItem
	source *rectpack.Rect
}

// Pack packs every image asset into atlas pages and builds the manifest.
// Either every item is placed exactly once or an error is returned;
// there is never a partial result.
func (p *Packer) Pack(assets []Asset, inputName string) (*PackResult, error) {
	if !p.opts.Enabled {
		return nil, errors.Errorf("packing is not enabled for input %q", inputName)
	}

	items, err := p.buildItems(assets)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return &PackResult{Manifest: manifest.New(inputName)}, nil
	}

	sortItems(items, p.opts.sortKey())

	// Validation happens before trimming, on pre-trim dimensions.
	if err := p.validateSizes(items); err != nil {
		return nil, err
	}

	pendings := p.trimItems(items)

	atlases, err := p.packPages(pendings)
	if err != nil {
		return nil, err
	}

	if limit := p.opts.pageLimit(); limit > 0 && len(atlases) > limit {
		return nil, &PageLimitError{Required: len(atlases), Limit: limit}
	}

	return &PackResult{
		Atlases:  atlases,
		Manifest: p.buildManifest(atlases, inputName),
	}, nil
}

func (p *Packer) buildItems(assets []Asset) ([]PackableItem, error) {
	switch m := p.opts.Mode.(type) {
	case *AnimatedOptions:
		return p.detectAnimations(assets, m)
	case *StaticOptions:
		return p.staticItems(assets, m)
	}
	return nil, errors.New("packing mode is not configured")
}

// staticItems converts image assets straight into static sprites,
// optionally dropping all but the first of identical content hashes.
func (p *Packer) staticItems(assets []Asset, opts *StaticOptions) ([]PackableItem, error) {
	seen := make(map[string]string)
	var items []PackableItem

	for _, asset := range assets {
		if asset.Kind != KindImage {
			continue
		}

		size, err := imageSize(asset.Data, asset.Path)
		if err != nil {
			return nil, err
		}

		name := asset.Stem()

		if opts.Dedupe {
			if prev, ok := seen[asset.Hash]; ok {
				p.logger.Printf("Skipping duplicate sprite \"%s\", same content as \"%s\"\n", name, prev)
				continue
			}
			seen[asset.Hash] = name
		}

		items = append(items, &Sprite{
			Name: name,
			Data: asset.Data,
			Size: size,
			Hash: asset.Hash,
		})
	}

	return items, nil
}

func (p *Packer) validateSizes(items []PackableItem) error {
	max := p.opts.maxSize()
	for _, item := range items {
		s := item.Sprite()
		if s.Size.Width > max.Width || s.Size.Height > max.Height {
			return &OversizeError{Name: s.Name, Size: s.Size, Max: max}
		}
	}
	return nil
}

// trimItems trims each sprite once, up front, so an item deferred to a
// later page keeps its trim record.
func (p *Packer) trimItems(items []PackableItem) []pending {
	pendings := make([]pending, len(items))
	for i, item := range items {
		pendings[i] = pending{item: item}
		if p.opts.allowTrim() {
			pendings[i].source = trimSprite(item.Sprite())
		}
	}
	return pendings
}

// packPages runs the page loop: allocate a page, place what fits, carry
// the remainder over to a fresh page until nothing is left.
func (p *Packer) packPages(pendings []pending) ([]*Atlas, error) {
	pageSize := p.opts.maxSize()
	if p.opts.powerOfTwo() {
		pageSize = rectpack.Size{
			Width:  rectpack.NextPowerOfTwo(pageSize.Width),
			Height: rectpack.NextPowerOfTwo(pageSize.Height),
		}
	}

	var atlases []*Atlas
	remaining := pendings

	for len(remaining) > 0 {
		placed, rest := p.packPage(remaining, pageSize)
		if len(placed) == 0 {
			return nil, errors.Wrapf(ErrNoProgress, "%d sprites remain", len(rest))
		}

		img, err := p.renderPage(placed, pageSize)
		if err != nil {
			return nil, err
		}

		atlases = append(atlases, &Atlas{
			PageIndex: len(atlases),
			Image:     img,
			Size:      pageSize,
			Sprites:   placed,
		})
		remaining = rest
	}

	return atlases, nil
}

// packPage fills one page. Padding is baked into each placement request
// and shaved off the returned rect, so the bin packer itself stays
// padding-agnostic. Items that do not fit are handed back in their
// original relative order.
func (p *Packer) packPage(pendings []pending, pageSize rectpack.Size) (placed []PackedSprite, rest []pending) {
	packer := newPagePacker(p.opts.algorithm(), pageSize)
	padding := p.opts.padding()

	for _, pen := range pendings {
		s := pen.item.Sprite()
		request := rectpack.Size{
			Width:  s.Size.Width + 2*padding,
			Height: s.Size.Height + 2*padding,
		}

		r, ok := packer.Insert(request)
		if !ok {
			rest = append(rest, pen)
			continue
		}

		placed = append(placed, PackedSprite{
			Item: pen.item,
			Rect: rectpack.Rect{
				X:      r.X + padding,
				Y:      r.Y + padding,
				Width:  s.Size.Width,
				Height: s.Size.Height,
			},
			Trimmed:    pen.source != nil,
			SourceRect: pen.source,
		})
	}

	return placed, rest
}

func newPagePacker(a Algorithm, size rectpack.Size) rectpack.Packer {
	if a == Guillotine {
		return rectpack.NewGuillotine(size)
	}
	return rectpack.NewMaxRects(size)
}

func (p *Packer) buildManifest(atlases []*Atlas, inputName string) *manifest.AtlasManifest {
	m := manifest.New(inputName)

	for _, atlas := range atlases {
		for _, ps := range atlas.Sprites {
			s := ps.Item.Sprite()

			sourceSize := s.Size
			if ps.SourceRect != nil {
				sourceSize = rectpack.Size{Width: ps.SourceRect.Width, Height: ps.SourceRect.Height}
			}

			info := manifest.SpriteInfo{
				Name:       s.Name,
				Rect:       ps.Rect,
				SourceSize: sourceSize,
				Trimmed:    ps.Trimmed,
				SourceRect: ps.SourceRect,
				Page:       atlas.PageIndex,
			}

			if anim, ok := ps.Item.(*AnimationStrip); ok {
				info.Animation = &manifest.AnimationInfo{
					FrameCount:      anim.FrameCount,
					FrameSize:       anim.FrameSize,
					Layout:          layoutInfo(anim),
					FrameDurationMS: anim.FrameDurationMS,
					Loop:            anim.Loop,
				}
			}

			m.Add(info)
		}
	}

	return m
}

func layoutInfo(a *AnimationStrip) manifest.LayoutInfo {
	switch a.Layout {
	case VerticalStrip:
		return manifest.LayoutInfo{Kind: manifest.LayoutVerticalStrip}
	case Grid:
		return manifest.LayoutInfo{Kind: manifest.LayoutGrid, Columns: a.Columns}
	default:
		return manifest.LayoutInfo{Kind: manifest.LayoutHorizontalStrip}
	}
}
