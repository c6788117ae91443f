package clustering

import "errors"

// ErrSameCluster indicates a Merge was requested between a label and
// itself.
var ErrSameCluster = errors.New("clustering: cannot merge a cluster with itself")
