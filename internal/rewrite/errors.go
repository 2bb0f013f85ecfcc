package rewrite

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound indicates an anchor (or its closing line) is absent.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrAmbiguousMarker indicates an anchor matches more than one line.
	ErrAmbiguousMarker = errors.New("ambiguous marker")

	// ErrOverlappingSections indicates two edits address overlapping regions.
	ErrOverlappingSections = errors.New("overlapping sections")

	// ErrValidation indicates the spliced content was rejected by a validator.
	ErrValidation = errors.New("rewritten content failed validation")

	// ErrNotWritable indicates the target file cannot be opened for writing.
	ErrNotWritable = errors.New("target file not writable")
)

// AnchorError ties a locate failure to the anchor that caused it.
type AnchorError struct {
	Anchor string // human-readable pattern
	Err    error
}

func (e *AnchorError) Error() string { return fmt.Sprintf("%v: %s", e.Err, e.Anchor) }
func (e *AnchorError) Unwrap() error { return e.Err }
