package atlaspack

import (
	"context"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

const (
	scanWorkers = 10

	// Anything bigger than this is not a sprite.
	maxAssetSize = 16 << 20
)

func (a *AtlasPack) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if info.Size() > maxAssetSize {
				return nil
			}

			if kindOf(file) != KindImage {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (a *AtlasPack) assetWorker(ctx context.Context, wg *sync.WaitGroup, in <-chan string, out chan<- Asset) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer wg.Done()
		for file := range in {
			data, err := ioutil.ReadFile(file)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- NewAsset(file, data):
			case <-ctx.Done():
				errc <- errors.New("scan cancelled")
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the directory tree rooted at path and returns every image
// asset found, read and hashed, sorted by path so later stages see a
// fixed order.
func (a *AtlasPack) Scan(path string) ([]Asset, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := a.findFiles(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	assetc := make(chan Asset)
	var wg sync.WaitGroup
	wg.Add(scanWorkers)

	for i := 0; i < scanWorkers; i++ {
		errc, err := a.assetWorker(ctx, &wg, files, assetc)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	go func() {
		wg.Wait()
		close(assetc)
	}()

	var assets []Asset
	done := make(chan struct{})
	go func() {
		defer close(done)
		for asset := range assetc {
			assets = append(assets, asset)
		}
	}()

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}
	<-done

	sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })

	return assets, nil
}
