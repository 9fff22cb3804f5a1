package escape

import (
	"math"
	"testing"
)

func standard() *Evaluator {
	return New(Params{Exponent: 2})
}

// =============================================================================
// Classification
// =============================================================================

func TestEval_OriginIsInside(t *testing.T) {
	for _, depth := range []int{1, 2, 10, 2000} {
		e := New(Params{Exponent: 2, Depth: depth})
		if got := e.Eval(0, 0); got != Inside {
			t.Errorf("depth %d: Eval(0, 0) = %v, want Inside", depth, got)
		}
	}
}

func TestEval_RealAxisEscapes(t *testing.T) {
	e := standard()
	v := e.Eval(2.0, 0.0)
	if !Escaped(v) {
		t.Fatalf("Eval(2, 0) = %v, want escaped", v)
	}
	if v <= 0 || v >= 1 {
		t.Errorf("Eval(2, 0) = %v, want value in (0, 1)", v)
	}
}

func TestEval_KnownInteriorPoints(t *testing.T) {
	e := New(Params{Exponent: 2, Depth: 500})
	points := []complex128{
		complex(-1, 0),     // period-2 cycle through the origin guard
		complex(-0.1, 0.1), // main cardioid
		complex(0.25, 0),   // cusp, converges slowly
		complex(-0.5, 0.5), // main cardioid
	}
	for _, c := range points {
		if got := e.EvalComplex(c); got != Inside {
			t.Errorf("EvalComplex(%v) = %v, want Inside", c, got)
		}
	}
}

func TestEval_FarPointsEscapeFirst(t *testing.T) {
	e := standard()
	near := e.Eval(2.0, 0)
	far := e.Eval(3.0, 0)
	if !Escaped(near) || !Escaped(far) {
		t.Fatalf("both points should escape: near=%v far=%v", near, far)
	}
	if far > near {
		t.Errorf("Eval(3, 0) = %v > Eval(2, 0) = %v, faster escape must not map higher", far, near)
	}
}

func TestEval_SlowerEscapeMapsHigher(t *testing.T) {
	e := New(Params{Exponent: 2, Shape: 1})
	// Points approaching the cusp at 0.25 take ever longer to escape.
	prev := -1.0
	for _, re := range []float64{1.0, 0.5, 0.3, 0.26} {
		v := e.Eval(re, 0)
		if !Escaped(v) {
			t.Fatalf("Eval(%v, 0) = %v, want escaped", re, v)
		}
		if v <= prev {
			t.Errorf("Eval(%v, 0) = %v, want > %v", re, v, prev)
		}
		prev = v
	}
}

// =============================================================================
// Degenerate guard
// =============================================================================

func TestEval_DegenerateAtThreshold(t *testing.T) {
	e := New(Params{Exponent: 2, MinModulus: 0.25})
	// |0.5|² is exactly the threshold.
	if got := e.Eval(0.5, 0); got != Inside {
		t.Errorf("Eval(0.5, 0) = %v, want Inside", got)
	}
	if got := e.Eval(0, -0.5); got != Inside {
		t.Errorf("Eval(0, -0.5) = %v, want Inside", got)
	}
}

func TestEval_OrbitCollapsesOntoOrigin(t *testing.T) {
	// c = -1: Z(1) = (-1)² - 1 = 0, which must trip the guard after the
	// first step instead of taking ln(0).
	e := New(Params{Exponent: 2, Depth: 1})
	got := e.Eval(-1, 0)
	if math.IsNaN(got) {
		t.Fatal("Eval(-1, 0) = NaN")
	}
	if got != Inside {
		t.Errorf("Eval(-1, 0) = %v, want Inside", got)
	}
}

func TestEval_NeverNaN(t *testing.T) {
	exponents := []complex128{2, 3, complex(2, 0.5), complex(-2, 0), complex(0.5, 1), complex(1, 0)}
	for _, p := range exponents {
		for _, cut := range []BranchCut{ExponentRelative, OriginRelative} {
			e := New(Params{Exponent: p, Depth: 200, Cut: cut})
			for re := -3.0; re <= 3.0; re += 0.37 {
				for im := -3.0; im <= 3.0; im += 0.41 {
					v := e.Eval(re, im)
					if math.IsNaN(v) || v < 0 || v > 1 {
						t.Fatalf("exp %v cut %v: Eval(%v, %v) = %v, want value in [0, 1]", p, cut, re, im, v)
					}
				}
			}
		}
	}
}

// =============================================================================
// Smoothing
// =============================================================================

func TestSmooth_ShapeIdentity(t *testing.T) {
	shaped := New(Params{Exponent: 2})
	plain := New(Params{Exponent: 2, Shape: 1})

	vs := shaped.Eval(2, 0)
	vp := plain.Eval(2, 0)
	if want := math.Pow(vp, DefaultShape); math.Abs(vs-want) > 1e-12 {
		t.Errorf("shaped = %v, want plain^%v = %v", vs, DefaultShape, want)
	}
}

func TestSmooth_ExpectedValue(t *testing.T) {
	// c = 2: 2 -> 6 (rsq 36) -> 38 (rsq 1444), escaping at n = 1.
	e := New(Params{Exponent: 2, Shape: 1})
	corr := 1 - 2*math.Log(0.5*math.Log(1444))/math.Log(4)
	want := (1 + corr) / DefaultDepth
	if got := e.Eval(2, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("Eval(2, 0) = %v, want %v", got, want)
	}
}

func TestSmooth_ClampsNegative(t *testing.T) {
	// c = 3 escapes at n = 0 with a negative correction.
	e := New(Params{Exponent: 2})
	if got := e.Eval(3, 0); got != 0 {
		t.Errorf("Eval(3, 0) = %v, want 0", got)
	}
}

func TestSmooth_StaysBelowInside(t *testing.T) {
	// |p| < 1 makes the correction exceed 1, pushing the raw value past 1.
	e := New(Params{Exponent: 0.5, Depth: 1, Shape: 1})
	got := e.smooth(0, 49)
	if !Escaped(got) {
		t.Errorf("smooth(0, 49) = %v, want < Inside", got)
	}
	if got != maxEscaped {
		t.Errorf("smooth(0, 49) = %v, want %v", got, maxEscaped)
	}
}

func TestCorrection_UnitModulus(t *testing.T) {
	e := New(Params{Exponent: 1})
	if got := e.correction(100); got != 1 {
		t.Errorf("correction with |p| = 1 = %v, want 1", got)
	}
}

func TestCorrection_NonFinite(t *testing.T) {
	e := standard()
	for _, rsq := range []float64{math.NaN(), math.Inf(1)} {
		if got := e.correction(rsq); got != 1 {
			t.Errorf("correction(%v) = %v, want 1", rsq, got)
		}
	}
}

// =============================================================================
// Branch cuts
// =============================================================================

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		theta  float64
		lo, hi float64
	}{
		{"inside", 1, -math.Pi, math.Pi},
		{"upper bound kept", math.Pi, -math.Pi, math.Pi},
		{"lower bound moved", -math.Pi, -math.Pi, math.Pi},
		{"one turn above", 3 * math.Pi / 2, -math.Pi, math.Pi},
		{"many turns below", -41, -math.Pi, math.Pi},
		{"shifted window", 0, -0.5 - math.Pi, math.Pi - 0.5},
		{"far shifted window", 2, -1000 - math.Pi, math.Pi - 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap(tt.theta, tt.lo, tt.hi)
			if got <= tt.lo || got > tt.hi {
				t.Errorf("wrap(%v) = %v, want in (%v, %v]", tt.theta, got, tt.lo, tt.hi)
			}
			turns := (got - tt.theta) / twoPi
			if math.Abs(turns-math.Round(turns)) > 1e-9 {
				t.Errorf("wrap(%v) = %v moved by %v turns, want whole turns", tt.theta, got, turns)
			}
		})
	}
}

func TestWrap_NaN(t *testing.T) {
	if got := wrap(math.NaN(), -math.Pi, math.Pi); !math.IsNaN(got) {
		t.Errorf("wrap(NaN) = %v, want NaN", got)
	}
}

func TestBranchCut_IntegerExponentAgree(t *testing.T) {
	// z² is single-valued, so the policy only changes rounding.
	a := New(Params{Exponent: 2, Cut: ExponentRelative, Depth: 300})
	b := New(Params{Exponent: 2, Cut: OriginRelative, Depth: 300})

	points := []complex128{complex(2, 0), complex(-2.1, 0.3), complex(0.4, 0.4), complex(-0.8, -0.9)}
	for _, c := range points {
		va, vb := a.EvalComplex(c), b.EvalComplex(c)
		if math.Abs(va-vb) > 1e-9 {
			t.Errorf("EvalComplex(%v): exponent=%v origin=%v", c, va, vb)
		}
	}
}

func TestBranchCut_ComplexExponentDiffers(t *testing.T) {
	a := New(Params{Exponent: complex(2, 0.7), Cut: ExponentRelative, Depth: 300})
	b := New(Params{Exponent: complex(2, 0.7), Cut: OriginRelative, Depth: 300})

	differ := false
	for re := -2.0; re <= 1.0 && !differ; re += 0.05 {
		for im := -1.5; im <= 1.5; im += 0.05 {
			if a.Eval(re, im) != b.Eval(re, im) {
				differ = true
				break
			}
		}
	}
	if !differ {
		t.Error("branch-cut policies produced identical images for a complex exponent")
	}
}

func TestBranchCut_String(t *testing.T) {
	tests := []struct {
		cut  BranchCut
		want string
	}{
		{ExponentRelative, "exponent"},
		{OriginRelative, "origin"},
		{BranchCut(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cut.String(); got != tt.want {
			t.Errorf("BranchCut(%d).String() = %q, want %q", tt.cut, got, tt.want)
		}
	}
	if BranchCut(2).IsValid() {
		t.Error("BranchCut(2).IsValid() = true, want false")
	}
}

func TestNew_Defaults(t *testing.T) {
	e := New(Params{Exponent: 2})
	if e.Depth() != DefaultDepth {
		t.Errorf("Depth() = %d, want %d", e.Depth(), DefaultDepth)
	}
	if e.escape != DefaultEscape || e.minR != DefaultMinModulus || e.shape != DefaultShape {
		t.Errorf("defaults = (%v, %v, %v)", e.escape, e.minR, e.shape)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkEval_Inside(b *testing.B) {
	e := standard()
	for b.Loop() {
		e.Eval(-0.1, 0.1)
	}
}

func BenchmarkEval_Escaping(b *testing.B) {
	e := New(Params{Exponent: complex(2.5, 0.3)})
	for b.Loop() {
		e.Eval(0.4, 0.4)
	}
}
