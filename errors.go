package dstream

import (
	"errors"
	"fmt"
)

// ErrNotInitialized indicates an operation that requires a first record to
// have fixed the stream's dimensionality was called before one arrived.
var ErrNotInitialized = errors.New("dstream: clusterer has not seen a record yet")

// ErrDimensionMismatch indicates a record's attribute count, or the
// numeric/nominal kind of one of its attributes, differs from the one fixed
// by the first record Ingest ever saw. Per spec.md §7 this
// is surfaced as an error rather than silently truncated or padded.
var ErrDimensionMismatch = errors.New("dstream: record attribute count does not match the stream's fixed dimensionality")

// ErrInvalidRecord indicates a nil Record, a non-positive attribute count,
// or a nominal attribute whose observed value has no valid category index.
var ErrInvalidRecord = errors.New("dstream: malformed record")

// clustererErrorf wraps err with a method-name prefix, matching the
// wrapping convention builder/errors.go documents: sentinels are never
// reworded, only given call-site context via %w.
func clustererErrorf(method string, err error) error {
	return fmt.Errorf("%s: %w", method, err)
}
