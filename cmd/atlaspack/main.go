package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/atlaspack"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func packOptions(c *cli.Context) (*atlaspack.PackOptions, error) {
	opts := &atlaspack.PackOptions{
		Enabled: true,
		Output: atlaspack.OutputOptions{
			Name:          c.String("name"),
			Overwrite:     c.Bool("overwrite"),
			Optimize:      c.Bool("optimize"),
			QuantizePages: c.Bool("quantize"),
		},
	}

	if c.Bool("animated") {
		m := atlaspack.DefaultAnimatedOptions()
		m.FramePattern = c.String("frame-pattern")
		m.MinFrames = c.Int("min-frames")
		m.Columns = c.Int("columns")
		m.FrameDurationMS = c.Int("frame-duration")
		m.Loop = !c.Bool("no-loop")
		m.Padding = c.Int("padding")
		m.Extrude = c.Int("extrude")

		switch layout := c.String("layout"); layout {
		case "horizontal":
			m.Layout = atlaspack.HorizontalStrip
		case "vertical":
			m.Layout = atlaspack.VerticalStrip
		case "grid":
			m.Layout = atlaspack.Grid
		default:
			return nil, fmt.Errorf("unknown layout \"%s\"", layout)
		}

		opts.Mode = m
		return opts, nil
	}

	m := atlaspack.DefaultStaticOptions()
	m.MaxWidth = c.Int("max-width")
	m.MaxHeight = c.Int("max-height")
	m.PowerOfTwo = c.Bool("power-of-two")
	m.Padding = c.Int("padding")
	m.Extrude = c.Int("extrude")
	m.AllowTrim = c.Bool("trim")
	m.PageLimit = c.Int("page-limit")
	m.Dedupe = c.Bool("dedupe")

	switch algorithm := c.String("algorithm"); algorithm {
	case "maxrects":
		m.Algorithm = atlaspack.MaxRects
	case "guillotine":
		m.Algorithm = atlaspack.Guillotine
	default:
		return nil, fmt.Errorf("unknown algorithm \"%s\"", algorithm)
	}

	switch key := c.String("sort"); key {
	case "area":
		m.Sort = atlaspack.SortArea
	case "maxside":
		m.Sort = atlaspack.SortMaxSide
	case "name":
		m.Sort = atlaspack.SortName
	default:
		return nil, fmt.Errorf("unknown sort key \"%s\"", key)
	}

	opts.Mode = m
	return opts, nil
}

func writeFile(file string, data []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(file); err == nil {
			return fmt.Errorf("\"%s\" already exists, use --overwrite to replace it", file)
		}
	}
	return ioutil.WriteFile(file, data, 0644)
}

func writeResult(result *atlaspack.PackResult, dir, name string, overwrite bool) error {
	for _, atlas := range result.Atlases {
		file := filepath.Join(dir, fmt.Sprintf("%s-%d.png", name, atlas.PageIndex))
		if err := writeFile(file, atlas.Image, overwrite); err != nil {
			return err
		}
	}

	b, err := result.Manifest.MarshalIndent()
	if err != nil {
		return err
	}

	return writeFile(filepath.Join(dir, name+".json"), b, overwrite)
}

func main() {
	app := cli.NewApp()

	app.Name = "atlaspack"
	app.Usage = "Sprite atlas packing utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ATLASPACK_DB"},
			Usage:   "path to result database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "pack",
			Usage:       "Pack a directory of sprites into atlas pages",
			Description: "Scans DIRECTORY recursively for images, packs them into one or more atlas pages and writes the pages and a JSON manifest. With a result database configured the result is also stored for later export.",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: ".", Usage: "directory to write pages and manifest to"},
				&cli.StringFlag{Name: "name", Usage: "base name for output files (default: directory name)"},
				&cli.BoolFlag{Name: "overwrite", Usage: "overwrite existing outputs"},
				&cli.IntFlag{Name: "max-width", Value: 2048, Usage: "maximum page width"},
				&cli.IntFlag{Name: "max-height", Value: 2048, Usage: "maximum page height"},
				&cli.BoolFlag{Name: "power-of-two", Value: true, Usage: "round page dimensions up to powers of two"},
				&cli.IntFlag{Name: "padding", Value: 2, Usage: "padding between sprites in pixels"},
				&cli.IntFlag{Name: "extrude", Value: 1, Usage: "pixels to extrude sprite edges"},
				&cli.BoolFlag{Name: "trim", Usage: "trim transparent sprite borders"},
				&cli.BoolFlag{Name: "dedupe", Usage: "drop sprites with identical content"},
				&cli.StringFlag{Name: "algorithm", Value: "maxrects", Usage: "packing algorithm: maxrects or guillotine"},
				&cli.StringFlag{Name: "sort", Value: "area", Usage: "sort key: area, maxside or name"},
				&cli.IntFlag{Name: "page-limit", Usage: "maximum number of pages, 0 for unlimited"},
				&cli.BoolFlag{Name: "optimize", Usage: "re-encode pages as paletted PNG when lossless"},
				&cli.BoolFlag{Name: "quantize", Usage: "allow lossy 256 color quantization of pages"},
				&cli.BoolFlag{Name: "animated", Usage: "detect and combine animation frames"},
				&cli.StringFlag{Name: "frame-pattern", Value: atlaspack.DefaultFramePattern, Usage: "regexp matching animation frame stems"},
				&cli.IntFlag{Name: "min-frames", Value: 2, Usage: "minimum frames per animation"},
				&cli.StringFlag{Name: "layout", Value: "horizontal", Usage: "strip layout: horizontal, vertical or grid"},
				&cli.IntFlag{Name: "columns", Usage: "grid columns, 0 for automatic"},
				&cli.IntFlag{Name: "frame-duration", Value: 100, Usage: "frame duration in milliseconds"},
				&cli.BoolFlag{Name: "no-loop", Usage: "mark animations as not looping"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				dir := c.Args().First()

				opts, err := packOptions(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				name := opts.Output.Name
				if name == "" {
					name = filepath.Base(filepath.Clean(dir))
				}

				a, err := atlaspack.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer a.Close()

				result, err := a.Pack(dir, name, opts)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writeResult(result, c.String("output"), name, opts.Output.Overwrite); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Export a stored pack result to files",
			Description: "Writes the pages and manifest stored under INPUT in the result database to DIRECTORY without repacking.",
			ArgsUsage:   "INPUT DIRECTORY",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "overwrite", Usage: "overwrite existing outputs"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				input, dir := c.Args().Get(0), c.Args().Get(1)

				a, err := atlaspack.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer a.Close()

				if a.DB() == nil {
					return cli.NewExitError("no result database configured, use --db", 1)
				}

				m, err := a.DB().Manifest(input)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if m == nil {
					return cli.NewExitError(fmt.Sprintf("no stored result for \"%s\"", input), 1)
				}

				pages, err := a.DB().Pages(input)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for i, page := range pages {
					file := filepath.Join(dir, fmt.Sprintf("%s-%d.png", input, i))
					if err := writeFile(file, page, c.Bool("overwrite")); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				b, err := m.MarshalIndent()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := writeFile(filepath.Join(dir, input+".json"), b, c.Bool("overwrite")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
