package density

import (
	"fmt"
	"math"

	"github.com/richard-moulton/D-Stream/gridstate"
)

// Engine holds the user-defined decay and threshold parameters of spec.md
// §6 and derives dm, dl, gap, and pi from them. An Engine is immutable
// after construction; N-dependent derived values are recomputed by callers
// on demand (via Thresholds/Gap) rather than cached here, since N changes
// whenever the observed coordinate range grows (spec.md §4.1).
type Engine struct {
	decayFactor float64
	cm          float64
	cl          float64
	beta        float64
	timeGap     *int // nil unless pinned by the user
}

// NewEngine validates the four user parameters (and the optional pinned
// timeGap) against the admissible ranges of spec.md §6 and returns a
// ready-to-use Engine, or a wrapped sentinel error if any parameter is out
// of range. No Engine is returned on error, matching spec.md §7's "fail
// fast... do not enter RUNNING" policy for invalid configuration.
func NewEngine(decayFactor, cm, cl, beta float64, timeGap *int) (*Engine, error) {
	if decayFactor <= 0.001 || decayFactor >= 0.999 {
		return nil, fmt.Errorf("NewEngine: decayFactor=%v: %w", decayFactor, ErrDecayFactorRange)
	}
	if cm <= 1.001 {
		return nil, fmt.Errorf("NewEngine: Cm=%v: %w", cm, ErrCmRange)
	}
	if cl <= 0.001 || cl >= 0.999 {
		return nil, fmt.Errorf("NewEngine: Cl=%v: %w", cl, ErrClRange)
	}
	if beta <= 0.001 {
		return nil, fmt.Errorf("NewEngine: Beta=%v: %w", beta, ErrBetaRange)
	}
	if timeGap != nil && *timeGap < 1 {
		return nil, fmt.Errorf("NewEngine: timeGap=%v: %w", *timeGap, ErrTimeGapRange)
	}

	return &Engine{decayFactor: decayFactor, cm: cm, cl: cl, beta: beta, timeGap: timeGap}, nil
}

// DecayFactor returns lambda.
func (e *Engine) DecayFactor() float64 { return e.decayFactor }

// Beta returns the sporadicity hysteresis parameter used by S2 (Definition
// 4.1's second sporadicity condition).
func (e *Engine) Beta() float64 { return e.beta }

// Thresholds derives (dm, dl) from the current grid-space size n, per
// spec.md §4.1:
//
//	dm = Cm / (n * (1 - lambda))
//	dl = Cl / (n * (1 - lambda))
//
// Complexity: O(1).
func (e *Engine) Thresholds(n int) (dm, dl float64) {
	denom := float64(n) * (1 - e.decayFactor)
	dm = e.cm / denom
	dl = e.cl / denom

	return dm, dl
}

// Gap derives the clustering cycle period, per spec.md §4.1:
//
//	gap = floor(min(log_lambda(Cl/Cm), log_lambda((n-Cm)/(n-Cl))))
//
// unless the Engine was constructed with a pinned timeGap, in which case
// that value is returned unconditionally. Returns ErrGapTooSmall if the
// derived value is less than 1, or undefined (spec.md §4.1 requires
// gap >= 1). The source leaves n < Cm producing a NaN-through-(int) cast
// silently coerced to 0; this implementation treats that domain error the
// same as a too-small gap rather than propagating an undefined value.
// Complexity: O(1).
func (e *Engine) Gap(n int) (int, error) {
	if e.timeGap != nil {
		return *e.timeGap, nil
	}

	logLambda := math.Log(e.decayFactor)
	optionA := math.Log(e.cl/e.cm) / logLambda
	optionB := math.Log((float64(n)-e.cm)/(float64(n)-e.cl)) / logLambda
	m := math.Min(optionA, optionB)
	if math.IsNaN(m) {
		return 0, fmt.Errorf("Gap: n=%d: %w", n, ErrGapTooSmall)
	}
	g := int(math.Floor(m))
	if g < 1 {
		return 0, fmt.Errorf("Gap: n=%d: %w", n, ErrGapTooSmall)
	}

	return g, nil
}

// Pi implements the sporadicity threshold function pi of Definition 4.1:
//
//	pi(tg) = Cl * (1 - lambda^(tc-tg+1)) / (n * (1 - lambda))
//
// Complexity: O(1).
func (e *Engine) Pi(tg, tc, n int) float64 {
	return (e.cl * (1 - math.Pow(e.decayFactor, float64(tc-tg+1)))) / (float64(n) * (1 - e.decayFactor))
}

// Decay applies the density-update rule of Proposition 3.1 to cv in place:
//
//   - newRecord == true (a record just landed in this grid):
//     D <- lambda^(tc-tg) * D + 1
//   - newRecord == false (a bulk refresh with no new record):
//     D <- lambda^(tc-tg) * D
//
// In both cases tg is set to tc, Attribute is reclassified against
// (dm, dl), and AttChanged is set iff the reclassification differs from
// cv's attribute immediately before this call.
// Complexity: O(1).
func (e *Engine) Decay(cv *gridstate.CharacteristicVector, tc int, newRecord bool, dm, dl float64) {
	decayed := math.Pow(e.decayFactor, float64(tc-cv.UpdateTick)) * cv.Density
	if newRecord {
		decayed++
	}
	cv.Density = decayed
	cv.UpdateTick = tc

	before := cv.Attribute
	cv.Attribute = Classify(cv.Density, dm, dl)
	cv.AttChanged = cv.Attribute != before
}

// Classify implements eqs. 8-10: Dense iff D >= dm, Sparse iff D <= dl,
// Transitional otherwise. dm > dl is assumed (Cm > 1 > Cl guarantees it).
// Complexity: O(1).
func Classify(d, dm, dl float64) gridstate.Attribute {
	switch {
	case d >= dm:
		return gridstate.Dense
	case d <= dl:
		return gridstate.Sparse
	default:
		return gridstate.Transitional
	}
}
