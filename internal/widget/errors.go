package widget

import (
	"errors"
	"fmt"
)

// ErrEmptyFileList is returned when the configuration names no files.
var ErrEmptyFileList = errors.New("no files configured")

// ValidationError reports a malformed file reference. It is terminal
// and is raised before any network access.
type ValidationError struct {
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid file reference %q: %v", e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CapabilityError reports that the shared highlight engine could not
// be made available. It ends the current render pass; the loader rolls
// back so a later pass may retry.
type CapabilityError struct {
	Err error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("highlight capability unavailable: %v", e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }
