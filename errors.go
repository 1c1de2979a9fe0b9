package fontpack

import (
	"errors"
	"fmt"
)

var errNoImages = errors.New("fontpack: no images to convert")

// InternalConsistencyError is returned when verification finds that packed or
// encoded data does not decode back to its source. Unlike layout and config
// errors it is never caused by the input.
type InternalConsistencyError struct {
	Source string
	Glyph  int
	Err    error
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("fontpack: internal consistency check failed for %s glyph %d: %v", e.Source, e.Glyph, e.Err)
}

func (e *InternalConsistencyError) Unwrap() error {
	return e.Err
}
