/*
Package atlaspack packs collections of small images into a minimal set of
fixed-size texture atlas pages.

Source images are optionally grouped into sprite sheet animations from
sequentially named frames, placed with a MaxRects or Guillotine bin
packing heuristic, post-processed (border trim, edge extrusion, alpha
bleed) and rendered into PNG pages together with a manifest describing
every placement. Packing is deterministic: identical inputs and options
produce byte-identical pages and manifests. A run either places every
sprite or fails without emitting anything.
*/
package atlaspack

import "log"

// AtlasPack ties together the asset scanner, the packer and the optional
// result database used by the command line tool.
type AtlasPack struct {
	db     *ResultDB
	logger *log.Logger
}

// New returns an AtlasPack. file may be empty, in which case no result
// database is opened and results are only returned to the caller.
func New(file string, logger *log.Logger) (*AtlasPack, error) {
	a := &AtlasPack{
		logger: logger,
	}

	if file != "" {
		db, err := NewResultDB(file)
		if err != nil {
			return nil, err
		}
		a.db = db
	}

	return a, nil
}

// Close releases the result database, if one was opened.
func (a *AtlasPack) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// DB returns the result database, or nil when none was opened.
func (a *AtlasPack) DB() *ResultDB {
	return a.db
}

// Pack scans dir for image assets and packs them according to opts.
// When a result database is open the result is also stored under
// inputName.
func (a *AtlasPack) Pack(dir, inputName string, opts *PackOptions) (*PackResult, error) {
	assets, err := a.Scan(dir)
	if err != nil {
		return nil, err
	}

	result, err := NewPacker(opts, a.logger).Pack(assets, inputName)
	if err != nil {
		return nil, err
	}

	if a.db != nil {
		if err := a.db.Store(inputName, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}
