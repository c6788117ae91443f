package dstream

// Record is the interface a caller's stream element type implements to
// feed the clusterer, per spec.md §6's consumed Record interface. The
// first Record Ingest ever sees fixes the stream's dimensionality and,
// per attribute, whether it is numeric or nominal; every later Record must
// report the same NumAttributes and the same kind for each index.
type Record interface {
	// NumAttributes returns d, the number of attributes.
	NumAttributes() int
	// IsNumeric reports whether attribute i is numeric.
	IsNumeric(i int) bool
	// IsNominal reports whether attribute i is categorical.
	IsNominal(i int) bool
	// NumValues returns the number of distinct categories declared for
	// nominal attribute i. Meaningless for numeric attributes.
	NumValues(i int) int
	// Value returns the real value of numeric attribute i.
	Value(i int) float64
	// StringValue returns the observed category name of nominal
	// attribute i.
	StringValue(i int) string
	// IndexOfValue returns the category index of name within nominal
	// attribute i's declared value set, or a negative number if name is
	// not a recognised category.
	IndexOfValue(i int, name string) int
}

// Cluster is a read-only snapshot of one live grid cluster, per spec.md
// §6's exposed Result interface. MemberKeys holds each member grid's
// Coordinate.Key() rendering rather than a live *cluster.GridCluster, so a
// caller cannot observe or trigger a mutation through it.
type Cluster struct {
	// Label is the cluster's current index in the Cluster Registry.
	Label int
	// MemberKeys lists every member grid's coordinate key, in ascending
	// order.
	MemberKeys []string
}
