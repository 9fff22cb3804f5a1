// Package escape implements the escape-time evaluator for the generalized
// Mandelbrot recursion Z(0) = c, Z(N+1) = Z(N)^(a+bi) + c.
//
// The orbit is carried in polar form: the squared modulus rsq (no square
// root per step) and the argument theta. Complex exponentiation is
// multi-valued, so theta is moved onto a fixed branch before every step; the
// branch is selected by a [BranchCut] policy chosen once per render.
//
// Eval returns a normalized escape value in [0, 1) for escaping points and
// the sentinel [Inside] (1.0) for points that stay bounded through the
// iteration depth or whose orbit collapses onto the origin.
package escape

import "math"

// Defaults for the evaluator parameters.
const (
	// DefaultDepth is the maximum number of iterations per point.
	DefaultDepth = 2000

	// DefaultEscape is the squared modulus at which an orbit is declared
	// diverging.
	DefaultEscape = 49.0

	// DefaultMinModulus is the squared modulus at or below which the orbit is
	// considered to have collapsed onto the origin, where ln(rsq) is undefined.
	DefaultMinModulus = 1e-7

	// DefaultShape is the exponent applied to the normalized escape value.
	DefaultShape = 0.2
)

// Inside is returned for points that never escape and for degenerate
// orbits. Both paint as "no escape".
const Inside = 1.0

const twoPi = 2 * math.Pi

// maxEscaped is the largest value returned for an escaping point.
var maxEscaped = math.Nextafter(1, 0)

// BranchCut selects how theta is placed on a branch before each step.
type BranchCut uint8

const (
	// ExponentRelative keeps theta in (-b-π, π-b], where b is the imaginary
	// part of the exponent.
	ExponentRelative BranchCut = iota

	// OriginRelative keeps theta within π of the reference angle derived once
	// from the argument of c.
	OriginRelative
)

// String returns the policy name used in configuration files and flags.
func (c BranchCut) String() string {
	switch c {
	case ExponentRelative:
		return "exponent"
	case OriginRelative:
		return "origin"
	default:
		return "unknown"
	}
}

// IsValid reports whether c is a known policy.
func (c BranchCut) IsValid() bool {
	return c <= OriginRelative
}

// Params configures an Evaluator. Zero numeric fields take their defaults.
type Params struct {
	// Exponent is the complex power a+bi of the recursion.
	Exponent complex128

	// Depth is the maximum number of iterations.
	Depth int

	// Escape is the squared-modulus escape threshold.
	Escape float64

	// MinModulus is the near-zero squared-modulus guard.
	MinModulus float64

	// Cut is the branch-cut policy.
	Cut BranchCut

	// Shape is the exponent applied to the normalized escape value.
	// 1 leaves the value unchanged.
	Shape float64
}

// Evaluator computes escape values for single points. It holds no mutable
// state and is safe for concurrent use.
type Evaluator struct {
	a, b   float64
	depth  int
	escape float64
	minR   float64
	cut    BranchCut
	shape  float64

	// logModulus is ln(a²+b²), the divisor of the smoothing correction.
	logModulus float64

	// lo, hi bound the exponent-relative window (lo, hi].
	lo, hi float64
}

// New returns an Evaluator for p.
func New(p Params) *Evaluator {
	if p.Depth <= 0 {
		p.Depth = DefaultDepth
	}
	if p.Escape <= 0 {
		p.Escape = DefaultEscape
	}
	if p.MinModulus <= 0 {
		p.MinModulus = DefaultMinModulus
	}
	if p.Shape <= 0 {
		p.Shape = DefaultShape
	}

	a, b := real(p.Exponent), imag(p.Exponent)
	return &Evaluator{
		a:          a,
		b:          b,
		depth:      p.Depth,
		escape:     p.Escape,
		minR:       p.MinModulus,
		cut:        p.Cut,
		shape:      p.Shape,
		logModulus: math.Log(a*a + b*b),
		lo:         -b - math.Pi,
		hi:         math.Pi - b,
	}
}

// Depth returns the maximum iteration count.
func (e *Evaluator) Depth() int {
	return e.depth
}

// Eval iterates the recursion for c = cr + ci·i and returns the escape value.
//
// The loop has three exits: the orbit collapses onto the origin (Inside),
// the squared modulus reaches the escape threshold (a value in [0, 1)), or
// the depth is exhausted (Inside).
func (e *Evaluator) Eval(cr, ci float64) float64 {
	rsq := cr*cr + ci*ci
	if rsq <= e.minR {
		return Inside
	}
	theta := math.Atan2(ci, cr)

	// The reference angle for OriginRelative uses the same window as
	// ExponentRelative and is fixed for the whole orbit.
	ref := wrap(theta, e.lo, e.hi)

	for n := 0; n < e.depth; n++ {
		if e.cut == OriginRelative {
			theta = wrap(theta, ref-math.Pi, ref+math.Pi)
		} else {
			theta = wrap(theta, e.lo, e.hi)
		}

		coe := math.Pow(rsq, e.a/2) * math.Exp(-e.b*theta)
		ang := e.a*theta + 0.5*e.b*math.Log(rsq)
		sin, cos := math.Sincos(ang)

		re := coe*cos + cr
		im := coe*sin + ci
		rsq = re*re + im*im
		theta = math.Atan2(im, re)

		if rsq <= e.minR {
			return Inside
		}
		if rsq >= e.escape || math.IsNaN(rsq) {
			return e.smooth(n, rsq)
		}
	}
	return Inside
}

// EvalComplex is Eval for a complex128 argument.
func (e *Evaluator) EvalComplex(c complex128) float64 {
	return e.Eval(real(c), imag(c))
}

// smooth converts the iteration count n at escape into the normalized
// fractional escape value.
func (e *Evaluator) smooth(n int, rsq float64) float64 {
	r := float64(n) + e.correction(rsq)
	r /= float64(e.depth)

	if r < 0 {
		r = 0
	}
	if e.shape != 1 {
		r = math.Pow(r, e.shape)
	}
	if r > maxEscaped {
		r = maxEscaped
	}
	return r
}

// correction is the fractional part 1 - ln(ln|z|²/2)·2/ln(a²+b²). It
// falls back to 1 when the result is not finite: a NaN or infinite modulus,
// or an exponent of modulus 1.
func (e *Evaluator) correction(rsq float64) float64 {
	if e.logModulus == 0 {
		return 1
	}
	c := 1 - 2*math.Log(0.5*math.Log(rsq))/e.logModulus
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 1
	}
	return c
}

// Escaped reports whether v is an escape value rather than Inside.
func Escaped(v float64) bool {
	return v < Inside
}

// wrap moves theta by whole turns into (lo, hi], where hi-lo is 2π.
// NaN passes through unchanged.
func wrap(theta, lo, hi float64) float64 {
	if theta > hi || theta <= lo {
		theta += twoPi * math.Floor((hi-theta)/twoPi)
	}
	// Rounding in the bulk shift can leave theta one turn off.
	if theta > hi {
		theta -= twoPi
	} else if theta <= lo {
		theta += twoPi
	}
	return theta
}
