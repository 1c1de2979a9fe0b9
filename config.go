package fontpack

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/fontpack/bitmap"
	"github.com/bodgit/fontpack/format"
	"github.com/bodgit/fontpack/layout"
	"github.com/bodgit/fontpack/rle"
)

// DefaultSolidIndex is where the solid glyph goes, the position of DEL in a
// sheet that starts at space.
const DefaultSolidIndex = 127 - 32

// Charset maps glyph indices to characters.
type Charset struct {
	// First is the character of glyph zero
	First int `toml:"first"`
	// Count is the number of characters in the font, zero for every cell
	Count int `toml:"count"`
	// Chars lists the characters explicitly, overriding First
	Chars string `toml:"chars"`
}

// Len returns the declared number of characters, or zero if the whole grid
// should be used.
func (c Charset) Len() int {
	if c.Count == 0 && c.Chars != "" {
		return len([]rune(c.Chars))
	}
	return c.Count
}

// Rune returns the character for glyph i.
func (c Charset) Rune(i int) rune {
	if c.Chars != "" {
		if r := []rune(c.Chars); i < len(r) {
			return r[i]
		}
		return unicode.ReplacementChar
	}
	return rune(c.First + i)
}

// Config controls a conversion. The zero value is not useful, start from
// DefaultConfig.
type Config struct {
	Name          string  `toml:"name"`
	Format        string  `toml:"format"`
	Grid          string  `toml:"grid"`
	CharSize      string  `toml:"char_size"`
	Threshold     int     `toml:"threshold"`
	AutoThreshold bool    `toml:"auto_threshold"`
	Invert        bool    `toml:"invert"`
	Raw           bool    `toml:"raw"`
	Encoding      string  `toml:"encoding"`
	Verify        bool    `toml:"verify"`
	Solid         bool    `toml:"solid"`
	SolidIndex    int     `toml:"solid_index"`
	Charset       Charset `toml:"charset"`
}

// DefaultConfig is the configuration used when nothing else is given.
var DefaultConfig = Config{
	Format:     format.Rust.String(),
	Threshold:  bitmap.DefaultThreshold,
	Encoding:   rle.Pairs.Name(),
	SolidIndex: DefaultSolidIndex,
	Charset: Charset{
		First: ' ',
	},
}

func configError(option, format string, a ...interface{}) error {
	return &layout.ConfigError{Option: option, Reason: fmt.Sprintf(format, a...)}
}

// LoadConfig reads a TOML file into cfg. Keys absent from the file keep
// their current value in cfg.
func LoadConfig(file string, cfg *Config) error {
	md, err := toml.DecodeFile(file, cfg)
	if err != nil {
		return configError("config", "%v", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return configError("config", "unknown keys in %s: %s", file, strings.Join(keys, ", "))
	}

	return nil
}

// resolved holds the parsed form of a Config.
type resolved struct {
	layout layout.Options
	format format.Format
	codec  rle.Codec
}

func (cfg Config) resolve() (resolved, error) {
	var r resolved

	if cfg.Threshold < 0 || cfg.Threshold > 0xff {
		return r, configError("threshold", "%d is outside 0-255", cfg.Threshold)
	}

	f, err := format.Parse(cfg.Format)
	if err != nil {
		return r, configError("format", "unknown format %q, want one of %s", cfg.Format, strings.Join(format.Names(), ", "))
	}
	r.format = f

	if !cfg.Raw {
		if r.codec, err = rle.Lookup(cfg.Encoding); err != nil {
			return r, configError("encoding", "unknown encoding %q, want one of %s", cfg.Encoding, strings.Join(rle.Names(), ", "))
		}
	}

	if cfg.Grid != "" {
		if r.layout.Grid, err = layout.ParseSize("grid", cfg.Grid); err != nil {
			return r, err
		}
	}

	if cfg.CharSize != "" {
		if r.layout.Cell, err = layout.ParseSize("char-size", cfg.CharSize); err != nil {
			return r, err
		}
	}

	if cfg.SolidIndex < 0 {
		return r, configError("solid-index", "negative index %d", cfg.SolidIndex)
	}

	cs := cfg.Charset
	if cs.First < 0 || cs.First > unicode.MaxRune {
		return r, configError("charset", "first character %d is not a valid code point", cs.First)
	}
	if cs.Count < 0 {
		return r, configError("charset", "negative count %d", cs.Count)
	}
	if n := len([]rune(cs.Chars)); n > 0 && cs.Count > n {
		return r, configError("charset", "count %d exceeds the %d listed characters", cs.Count, n)
	}
	r.layout.CharCount = cs.Len()

	return r, nil
}

// Validate checks cfg for malformed or contradictory values. Any error is a
// *layout.ConfigError.
func (cfg Config) Validate() error {
	_, err := cfg.resolve()
	return err
}
