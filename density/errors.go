package density

import "errors"

// ErrDecayFactorRange indicates decayFactor (lambda) was outside (0.001, 0.999).
var ErrDecayFactorRange = errors.New("density: decayFactor out of range (0.001, 0.999)")

// ErrCmRange indicates Cm was not greater than 1.001.
var ErrCmRange = errors.New("density: Cm must be > 1.001")

// ErrClRange indicates Cl was outside (0.001, 0.999).
var ErrClRange = errors.New("density: Cl out of range (0.001, 0.999)")

// ErrBetaRange indicates Beta was not greater than 0.001.
var ErrBetaRange = errors.New("density: Beta must be > 0.001")

// ErrTimeGapRange indicates an overridden timeGap was less than 1.
var ErrTimeGapRange = errors.New("density: timeGap override must be >= 1")

// ErrGapTooSmall indicates the derived gap evaluated to less than 1, which
// would make clustering cycles run every tick or never. Callers should pin
// timeGap explicitly for this combination of Cm/Cl/N/decayFactor.
var ErrGapTooSmall = errors.New("density: derived gap < 1; pin timeGap explicitly")
