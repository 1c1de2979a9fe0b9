package main

import (
	"github.com/bodgit/fontpack"
	"github.com/bodgit/fontpack/bitmap"
	"github.com/bodgit/fontpack/format"
	"github.com/bodgit/fontpack/rle"
	"github.com/urfave/cli/v2"
)

func conversionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "read settings from TOML `FILE`, flags take precedence",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   format.Rust.String(),
			Usage:   "output format, one of rust, c or bin",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "constant `NAME` in source output, default is derived from the file name",
		},
		&cli.StringFlag{
			Name:  "grid",
			Usage: "manual grid size in `COLSxROWS`, e.g. 18x7",
		},
		&cli.StringFlag{
			Name:  "char-size",
			Usage: "manual character size in `WxH` pixels, e.g. 7x9",
		},
		&cli.IntFlag{
			Name:  "threshold",
			Value: bitmap.DefaultThreshold,
			Usage: "binarization threshold 0-255, darker pixels are ink",
		},
		&cli.BoolFlag{
			Name:  "auto-threshold",
			Usage: "pick the threshold from the two dominant tones",
		},
		&cli.BoolFlag{
			Name:  "invert",
			Usage: "treat light pixels as ink",
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "skip compression",
		},
		&cli.StringFlag{
			Name:  "encoding",
			Value: rle.Pairs.Name(),
			Usage: "run-length encoding, pairs or zero",
		},
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "verify packing and compression by decoding",
		},
		&cli.BoolFlag{
			Name:  "solid",
			Usage: "replace one glyph with a solid block",
		},
		&cli.IntFlag{
			Name:  "solid-index",
			Value: fontpack.DefaultSolidIndex,
			Usage: "glyph `INDEX` replaced by --solid",
		},
		&cli.IntFlag{
			Name:  "first-char",
			Value: ' ',
			Usage: "character code of the first glyph",
		},
		&cli.IntFlag{
			Name:  "count",
			Usage: "number of characters in the font, default is every cell",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "print compression statistics",
		},
		&cli.BoolFlag{
			Name:  "list-fonts",
			Usage: "list the characters in the font",
		},
	}
}

// loadConfig layers the config file and then any flags given on the command
// line over the defaults.
func loadConfig(c *cli.Context) (fontpack.Config, error) {
	cfg := fontpack.DefaultConfig

	if file := c.String("config"); file != "" {
		if err := fontpack.LoadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}

	text := []struct {
		flag string
		dst  *string
	}{
		{"format", &cfg.Format},
		{"name", &cfg.Name},
		{"grid", &cfg.Grid},
		{"char-size", &cfg.CharSize},
		{"encoding", &cfg.Encoding},
	}
	for _, s := range text {
		if c.IsSet(s.flag) {
			*s.dst = c.String(s.flag)
		}
	}

	ints := []struct {
		flag string
		dst  *int
	}{
		{"threshold", &cfg.Threshold},
		{"solid-index", &cfg.SolidIndex},
		{"first-char", &cfg.Charset.First},
		{"count", &cfg.Charset.Count},
	}
	for _, i := range ints {
		if c.IsSet(i.flag) {
			*i.dst = c.Int(i.flag)
		}
	}

	bools := []struct {
		flag string
		dst  *bool
	}{
		{"auto-threshold", &cfg.AutoThreshold},
		{"invert", &cfg.Invert},
		{"raw", &cfg.Raw},
		{"verify", &cfg.Verify},
		{"solid", &cfg.Solid},
	}
	for _, b := range bools {
		if c.IsSet(b.flag) {
			*b.dst = c.Bool(b.flag)
		}
	}

	return cfg, cfg.Validate()
}
