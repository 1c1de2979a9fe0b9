package fontpack

import (
	"context"
	"errors"
	"image"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/fontpack/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	fonts := filepath.Join(dir, "fonts")
	require.NoError(t, os.MkdirAll(filepath.Join(fonts, "nested"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(fonts, ".hidden"), 0755))

	writePNG(t, filepath.Join(fonts, "a.png"), darkSheet())
	writePNG(t, filepath.Join(fonts, "b.PNG"), darkSheet())
	writePNG(t, filepath.Join(fonts, "blank.png"), image.NewGray(image.Rect(0, 0, 8, 8)))
	writePNG(t, filepath.Join(fonts, "nested", "c.png"), darkSheet())
	writePNG(t, filepath.Join(fonts, ".hidden", "d.png"), darkSheet())
	writePNG(t, filepath.Join(fonts, ".e.png"), darkSheet())
	require.NoError(t, ioutil.WriteFile(filepath.Join(fonts, "notes.txt"), []byte("not a font"), 0644))

	single := filepath.Join(dir, "single.gfx")
	writePNG(t, single, darkSheet())

	missing := filepath.Join(dir, "missing.png")

	c := newConverter(t, func(cfg *Config) { cfg.Format = "c" })
	report, err := c.Batch(context.Background(), []string{missing, fonts, single}, BatchOptions{})
	require.NoError(t, err)

	var paths []string
	for _, r := range report.Results {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{
		missing,
		filepath.Join(fonts, "a.png"),
		filepath.Join(fonts, "b.PNG"),
		filepath.Join(fonts, "blank.png"),
		filepath.Join(fonts, "nested", "c.png"),
		single,
	}, paths)

	assert.Equal(t, 4, report.Succeeded())
	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, missing, failed[0].Path)
	var le *layout.Error
	assert.True(t, errors.As(failed[1].Err, &le), "got %v", failed[1].Err)

	for _, r := range report.Results {
		if r.Err != nil {
			continue
		}
		assert.Equal(t, filepath.Ext(r.Output), ".h")
		_, err := os.Stat(r.Output)
		assert.NoError(t, err)
		assert.NotNil(t, r.Font)
	}
	assert.Equal(t, filepath.Join(fonts, "nested", "c.h"), report.Results[4].Output)
	assert.Equal(t, filepath.Join(dir, "single.h"), report.Results[5].Output)
}

func TestBatchOutputDir(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0755))
	writePNG(t, filepath.Join(dir, "a.png"), darkSheet())
	writePNG(t, filepath.Join(dir, "b.png"), darkSheet())

	c := newConverter(t, func(cfg *Config) { cfg.Format = "bin" })
	report, err := c.Batch(context.Background(), []string{dir}, BatchOptions{OutputDir: out, Match: "a.*"})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.NoError(t, report.Results[0].Err)

	b, err := ioutil.ReadFile(filepath.Join(out, "a.bin"))
	require.NoError(t, err)
	assert.Equal(t, report.Results[0].Font.Data, b)
}

func TestBatchErrors(t *testing.T) {
	c := newConverter(t, nil)

	_, err := c.Batch(context.Background(), nil, BatchOptions{})
	assert.Equal(t, errNoImages, err)

	_, err = c.Batch(context.Background(), []string{"."}, BatchOptions{Match: "[unclosed"})
	var ce *layout.ConfigError
	assert.True(t, errors.As(err, &ce), "got %v", err)
}

func TestBatchCancelled(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	writePNG(t, filepath.Join(dir, "a.png"), darkSheet())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newConverter(t, nil).Batch(ctx, []string{dir}, BatchOptions{})
	assert.Equal(t, context.Canceled, err)
	assert.NotNil(t, report)
}

func TestBatchOutputClash(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	fonts := filepath.Join(dir, "fonts")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(fonts, "nested"), 0755))
	require.NoError(t, os.Mkdir(out, 0755))
	writePNG(t, filepath.Join(fonts, "a.png"), darkSheet())
	writePNG(t, filepath.Join(fonts, "nested", "a.png"), darkSheet())

	report, err := newConverter(t, nil).Batch(context.Background(), []string{fonts}, BatchOptions{OutputDir: out})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	first, second := report.Results[0], report.Results[1]
	require.NoError(t, first.Err)
	assert.Equal(t, filepath.Join(out, "a.rs"), first.Output)

	assert.Equal(t, filepath.Join(fonts, "nested", "a.png"), second.Path)
	require.Error(t, second.Err)
	assert.Contains(t, second.Err.Error(), filepath.Join(fonts, "a.png"))
	assert.Nil(t, second.Font)
	assert.Equal(t, 1, report.Succeeded())

	// Without an output directory each file lands next to its image
	report, err = newConverter(t, nil).Batch(context.Background(), []string{fonts}, BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded())
}
