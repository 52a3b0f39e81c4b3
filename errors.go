package atlaspack

import (
	"fmt"

	"github.com/bodgit/atlaspack/rectpack"
	"github.com/pkg/errors"
)

// OversizeError reports a sprite that cannot fit on an empty page. The
// dimensions are the sprite's pre-trim size.
type OversizeError struct {
	Name string
	Size rectpack.Size
	Max  rectpack.Size
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("sprite %q (%dx%d) exceeds maximum atlas size (%dx%d)",
		e.Name, e.Size.Width, e.Size.Height, e.Max.Width, e.Max.Height)
}

// PageLimitError reports that packing needed more pages than the
// configured limit allows.
type PageLimitError struct {
	Required int
	Limit    int
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("packing requires %d pages but the limit is %d; increase the page size or the limit",
		e.Required, e.Limit)
}

// ErrNoProgress is returned when a packing pass fails to place a single
// sprite on an empty page. Size validation should make this impossible;
// it guards against padding pushing a validated sprite past the page
// bounds.
var ErrNoProgress = errors.New("no sprite could be placed on an empty page")
