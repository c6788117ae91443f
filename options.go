package dstream

// Option customizes a Clusterer's Config before it is built. Range
// validation of the resulting values happens once, in New, which returns a
// wrapped density-package sentinel error rather than entering RUNNING with
// an invalid configuration (spec.md §7) — Option constructors here do not
// themselves validate ranges.
type Option func(*Config)

// WithDecayFactor overrides lambda, the exponential decay factor.
func WithDecayFactor(lambda float64) Option {
	return func(c *Config) { c.decayFactor = lambda }
}

// WithCm overrides Cm, the dense-grid density-threshold coefficient.
func WithCm(cm float64) Option {
	return func(c *Config) { c.cm = cm }
}

// WithCl overrides Cl, the sparse-grid density-threshold coefficient.
func WithCl(cl float64) Option {
	return func(c *Config) { c.cl = cl }
}

// WithBeta overrides beta, the sporadicity hysteresis coefficient.
func WithBeta(beta float64) Option {
	return func(c *Config) { c.beta = beta }
}

// WithTimeGap pins the clustering cycle period to gap ticks, overriding
// the derived value. Use this whenever the stream's early grid-space size
// is small enough that the derived gap is undefined (see
// density.Engine.Gap).
func WithTimeGap(gap int) Option {
	return func(c *Config) {
		g := gap
		c.timeGap = &g
	}
}
