package navgrid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeader is returned when header fields are out of range.
	ErrInvalidHeader = errors.New("navgrid: invalid header")
	// ErrUnsupportedVersion is returned for a major version other than SupportedMajorVersion.
	ErrUnsupportedVersion = errors.New("navgrid: unsupported version")
	// ErrInvalidDimensions is returned for non-positive or oversized grids.
	ErrInvalidDimensions = errors.New("navgrid: invalid dimensions")
	// ErrTruncated is returned when the data ends before a section does.
	ErrTruncated = errors.New("navgrid: truncated data")
)

// DecodeError reports where decoding a grid binary failed.
type DecodeError struct {
	Section string
	Offset  int
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.Section, e.Offset, e.Err)
}

// Unwrap returns the sentinel the failure maps to.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
