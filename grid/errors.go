package grid

import "errors"

// ErrEmptyCoordinate indicates a Coordinate of length zero was supplied
// where a fixed dimensionality d >= 1 is required.
var ErrEmptyCoordinate = errors.New("grid: coordinate must have at least one dimension")
