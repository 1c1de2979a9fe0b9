package fontpack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultMatch selects the image files picked up from directories.
const DefaultMatch = "*.{png,gif,jpg,jpeg,bmp,tif,tiff}"

// BatchOptions controls where batch output goes.
type BatchOptions struct {
	// OutputDir receives every output file, empty means next to each image
	OutputDir string
	// Match is a glob applied to file names found in directories
	Match string
}

// Result is the outcome of converting a single image in a batch.
type Result struct {
	Path   string
	Output string
	Font   *Font
	Err    error
}

// Report collects the results of a batch in input order.
type Report struct {
	Results []Result
}

// Failed returns the results that have an error.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Succeeded returns the number of images converted without error.
func (r *Report) Succeeded() int {
	return len(r.Results) - len(r.Failed())
}

type candidate struct {
	path string
	err  error
}

func hidden(info os.FileInfo) bool {
	return strings.HasPrefix(info.Name(), ".")
}

func (c *Converter) findImages(ctx context.Context, paths []string, match glob.Glob) <-chan candidate {
	out := make(chan candidate)
	go func() {
		defer close(out)

		send := func(cand candidate) bool {
			select {
			case out <- cand:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for _, base := range paths {
			info, err := os.Stat(base)
			if err != nil {
				if !send(candidate{path: base, err: err}) {
					return
				}
				continue
			}

			// Files named explicitly are always converted
			if !info.IsDir() {
				if !send(candidate{path: base}) {
					return
				}
				continue
			}

			if err := filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
				if err != nil {
					if !send(candidate{path: file, err: err}) {
						return errors.New("walk cancelled")
					}
					return nil
				}

				// Ignore any hidden files or directories
				if file != base && hidden(info) {
					if info.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				if !info.Mode().IsRegular() || !match.Match(strings.ToLower(info.Name())) {
					return nil
				}

				if !send(candidate{path: file}) {
					return errors.New("walk cancelled")
				}
				return nil
			}); err != nil {
				return
			}
		}
	}()
	return out
}

func (c *Converter) outputFile(path string, opts BatchOptions) string {
	dir := opts.OutputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Clean(filepath.Join(dir, stem+c.format.Ext()))
}

func (c *Converter) convertOne(path, output string) Result {
	res := Result{Path: path}

	font, err := c.ConvertFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Font = font

	res.Output = output
	if err := c.WriteFile(res.Output, font); err != nil {
		res.Err = err
	}
	return res
}

// Batch converts every image in paths, which may name files or directories.
// Images are converted one at a time and a failure is recorded in the report
// rather than stopping the batch. The returned error is only set for invalid
// options or when ctx is cancelled, in which case the report covers the
// images converted so far.
func (c *Converter) Batch(ctx context.Context, paths []string, opts BatchOptions) (*Report, error) {
	if len(paths) == 0 {
		return nil, errNoImages
	}

	pattern := opts.Match
	if pattern == "" {
		pattern = DefaultMatch
	}
	match, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, configError("match", "%v", err)
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	// Output file to the image that claimed it
	outputs := make(map[string]string)

	report := new(Report)
	for cand := range c.findImages(ctx, paths, match) {
		if cand.err != nil {
			c.logger.Printf("Skipping %s: %v\n", cand.path, cand.err)
			report.Results = append(report.Results, Result{Path: cand.path, Err: cand.err})
			continue
		}

		output := c.outputFile(cand.path, opts)
		if prev, ok := outputs[output]; ok {
			err := fmt.Errorf("fontpack: output %s is already written from %s", output, prev)
			c.logger.Printf("Skipping %s: %v\n", cand.path, err)
			report.Results = append(report.Results, Result{Path: cand.path, Output: output, Err: err})
			continue
		}
		outputs[output] = cand.path

		res := c.convertOne(cand.path, output)
		if res.Err != nil {
			c.logger.Printf("Failed to convert %s: %v\n", res.Path, res.Err)
		} else {
			c.logger.Printf("Wrote %s\n", res.Output)
		}
		report.Results = append(report.Results, res)
	}

	return report, ctx.Err()
}
