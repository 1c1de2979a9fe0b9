package main

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"text/tabwriter"

	"github.com/bodgit/fontpack"
	"github.com/bodgit/fontpack/format"
	"github.com/bodgit/fontpack/layout"
	"github.com/bodgit/fontpack/rle"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
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

// exitError maps err to an exit status: 2 for bad options, 3 for a failed
// consistency check and 1 for everything else.
func exitError(err error) error {
	var ce *layout.ConfigError
	var ice *fontpack.InternalConsistencyError
	switch {
	case errors.As(err, &ce):
		return cli.NewExitError(err, 2)
	case errors.As(err, &ice):
		return cli.NewExitError(fmt.Sprintf("INTERNAL ERROR, please report this: %v", err), 3)
	default:
		return cli.NewExitError(err, 1)
	}
}

func openCatalog(c *cli.Context) (*fontpack.Catalog, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return fontpack.NewCatalog(c.String("db"))
}

func newConverter(c *cli.Context) (*fontpack.Converter, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := openCatalog(c)
	if err != nil {
		return nil, nil, err
	}
	done := func() {
		if catalog != nil {
			catalog.Close()
		}
	}

	conv, err := fontpack.New(cfg, catalog, newLogger(c))
	if err != nil {
		done()
		return nil, nil, err
	}

	return conv, done, nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	conv, done, err := newConverter(c)
	if err != nil {
		return exitError(err)
	}
	defer done()

	font, err := conv.ConvertFile(c.Args().First())
	if err != nil {
		return exitError(err)
	}

	if c.Bool("stats") {
		printStats(font.Stats())
	}

	if c.Bool("list-fonts") {
		listFonts(font)
	}

	if file := c.String("preview"); file != "" {
		if err := fontpack.SavePreview(file, font, c.Int("preview-scale")); err != nil {
			return exitError(err)
		}
		fmt.Fprintf(os.Stderr, "Preview saved: %s\n", file)
	}

	if c.Bool("verify") {
		fmt.Fprintf(os.Stderr, "Verified %d glyphs\n", len(font.Glyphs))
	}

	if file := c.String("output"); file != "" {
		if err := conv.WriteFile(file, font); err != nil {
			return exitError(err)
		}
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", file)
		return nil
	}

	if err := conv.Write(os.Stdout, font); err != nil {
		return exitError(err)
	}

	return nil
}

func batch(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	conv, done, err := newConverter(c)
	if err != nil {
		return exitError(err)
	}
	defer done()

	report, err := conv.Batch(context.Background(), c.Args().Slice(), fontpack.BatchOptions{
		OutputDir: c.String("output"),
		Match:     c.String("match"),
	})
	if err != nil {
		return exitError(err)
	}

	for _, r := range report.Results {
		if r.Err != nil {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s -> %s\n", r.Path, r.Output)
		if c.Bool("stats") {
			printStats(r.Font.Stats())
		}
		if c.Bool("list-fonts") {
			listFonts(r.Font)
		}
	}

	failed := report.Failed()
	fmt.Fprintf(os.Stderr, "\n%d converted, %d failed\n", report.Succeeded(), len(failed))
	for _, r := range failed {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", r.Path, r.Err)
	}

	return batchError(report)
}

// batchError returns the exit error for a finished batch. A failed
// consistency check in any image takes precedence over input errors.
func batchError(report *fontpack.Report) error {
	failed := report.Failed()
	for _, r := range failed {
		var ice *fontpack.InternalConsistencyError
		if errors.As(r.Err, &ice) {
			return exitError(r.Err)
		}
	}
	if len(failed) > 0 {
		return cli.NewExitError("", 1)
	}
	return nil
}

func catalog(c *cli.Context) error {
	db, err := openCatalog(c)
	if err != nil {
		return exitError(err)
	}
	if db == nil {
		return cli.NewExitError("no catalog, use --db or FONTPACK_DB", 1)
	}
	defer db.Close()

	entries, err := db.Entries()
	if err != nil {
		return exitError(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SHA1\tNAME\tENCODING\tGLYPHS\tCELL\tPACKED\tSIZE\tSOURCE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dx%d\t%d\t%d\t%s\n", e.SHA1, e.Name, e.Encoding, e.Glyphs, e.CellWidth, e.CellHeight, e.PackedSize, len(e.Data), e.Source)
	}
	return w.Flush()
}

func export(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := format.Parse(c.String("format"))
	if err != nil {
		return exitError(&layout.ConfigError{Option: "format", Reason: err.Error()})
	}

	db, err := openCatalog(c)
	if err != nil {
		return exitError(err)
	}
	if db == nil {
		return cli.NewExitError("no catalog, use --db or FONTPACK_DB", 1)
	}
	defer db.Close()

	encoding := c.String("encoding")
	if c.Bool("raw") {
		encoding = ""
	}

	e, err := db.Find(c.Args().First(), encoding)
	if err != nil {
		return exitError(err)
	}
	if e == nil {
		return cli.NewExitError(fmt.Sprintf("no %s font with SHA1 %s in catalog", c.String("encoding"), c.Args().First()), 1)
	}

	out := os.Stdout
	file := c.String("output")
	if file != "" {
		if out, err = os.Create(file); err != nil {
			return exitError(err)
		}
		defer out.Close()
	}

	if err := format.Write(out, f, e.Output()); err != nil {
		return exitError(err)
	}

	if f != format.Binary || file == "" || !e.Output().Compressed() {
		return nil
	}
	idx, err := os.Create(fontpack.OffsetsFile(file))
	if err != nil {
		return exitError(err)
	}
	defer idx.Close()
	if err := format.WriteOffsets(idx, e.Output()); err != nil {
		return exitError(err)
	}
	return idx.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "fontpack"
	app.Usage = "Bitmap font compressor for embedded systems"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"FONTPACK_DB"},
			Usage:   "record conversions in the catalog at `FILE`",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a font spritesheet",
			Description: "Binarize, pack and compress IMAGE, writing the result to stdout or --output.",
			ArgsUsage:   "IMAGE",
			Flags: append(conversionFlags(),
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write to `FILE` instead of stdout",
				},
				&cli.StringFlag{
					Name:  "preview",
					Usage: "save the binarized sheet to `FILE`",
				},
				&cli.IntFlag{
					Name:  "preview-scale",
					Value: 1,
					Usage: "scale the preview up by `N`",
				},
			),
			Action: convert,
		},
		{
			Name:        "batch",
			Usage:       "Convert several font spritesheets",
			Description: "Convert every IMAGE, and every matching image below each DIRECTORY. A failure does not stop the batch.",
			ArgsUsage:   "IMAGE|DIRECTORY...",
			Flags: append(conversionFlags(),
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write every output to `DIRECTORY`, default is next to each image",
				},
				&cli.StringFlag{
					Name:  "match",
					Value: fontpack.DefaultMatch,
					Usage: "only convert files in directories matching `GLOB`",
				},
			),
			Action: batch,
		},
		{
			Name:   "catalog",
			Usage:  "List fonts recorded in the catalog",
			Action: catalog,
		},
		{
			Name:      "export",
			Usage:     "Write a font from the catalog",
			ArgsUsage: "SHA1",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   format.Rust.String(),
					Usage:   "output format, one of rust, c or bin",
				},
				&cli.StringFlag{
					Name:  "encoding",
					Value: rle.Pairs.Name(),
					Usage: "run-length encoding of the stored font",
				},
				&cli.BoolFlag{
					Name:  "raw",
					Usage: "export the uncompressed font",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write to `FILE` instead of stdout",
				},
			},
			Action: export,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
