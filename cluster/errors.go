package cluster

import "errors"

// ErrNotFound indicates a label with no corresponding cluster in a Registry.
var ErrNotFound = errors.New("cluster: label not found")

// ErrAlreadyMember indicates an Add of a coordinate already present in a
// GridCluster.
var ErrAlreadyMember = errors.New("cluster: coordinate already a member")

// ErrNotMember indicates a Remove of a coordinate absent from a GridCluster.
var ErrNotMember = errors.New("cluster: coordinate not a member")
