package profile

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/integrate/quad"
)

func TestBoundaryValues(t *testing.T) {
	for _, tc := range planCases {
		p := Plan(tc.dist, tc.lim)
		total := p.Duration()

		start := p.At(0)
		if !scalar.EqualWithinAbs(start.Pos, 0, 1e-9) {
			t.Errorf("dist=%g %+v: s(0) = %g, want 0", tc.dist, tc.lim, start.Pos)
		}
		if start.Vel != 0 || start.Accel != 0 || start.Jerk != 0 {
			t.Errorf("dist=%g %+v: nonzero derivatives at start: %+v", tc.dist, tc.lim, start)
		}

		end := p.At(total)
		if !scalar.EqualWithinAbs(end.Pos, tc.dist, 1e-9*math.Max(1, tc.dist)) {
			t.Errorf("dist=%g %+v: s(T) = %g, want %g", tc.dist, tc.lim, end.Pos, tc.dist)
		}
		if math.Abs(end.Vel) > 1e-9*math.Max(1, tc.lim.Velocity) ||
			math.Abs(end.Accel) > 1e-9*math.Max(1, tc.lim.Accel) ||
			math.Abs(end.Jerk) > 1e-9*math.Max(1, tc.lim.Jerk) {
			t.Errorf("dist=%g %+v: nonzero derivatives at end: %+v", tc.dist, tc.lim, end)
		}
	}
}

func TestActiveDoneFlags(t *testing.T) {
	p := Plan(1, Limits{1, 2, 10})
	total := p.Duration()

	if s := p.At(-0.5); s.Active || s.Done {
		t.Errorf("before start: active=%v done=%v, want false/false", s.Active, s.Done)
	}
	if s := p.At(0); !s.Active || s.Done {
		t.Errorf("at start: active=%v done=%v, want true/false", s.Active, s.Done)
	}
	if s := p.At(total / 2); !s.Active || s.Done {
		t.Errorf("mid move: active=%v done=%v, want true/false", s.Active, s.Done)
	}
	if s := p.At(total); !s.Active || s.Done {
		t.Errorf("at end: active=%v done=%v, want true/false", s.Active, s.Done)
	}
	if s := p.At(total + 1e-9); s.Active || !s.Done {
		t.Errorf("past end: active=%v done=%v, want false/true", s.Active, s.Done)
	}
	if s := p.At(total + 100); !scalar.EqualWithinAbs(s.Pos, 1, 1e-9) {
		t.Errorf("past end: position %g does not hold at 1", s.Pos)
	}
}

func TestContinuity(t *testing.T) {
	for _, tc := range planCases {
		p := Plan(tc.dist, tc.lim)
		total := p.Duration()
		if p.Alpha == 0 {
			continue
		}
		h := (total + 2) / 20000
		// Maximum slope of each output bounds its change over one step.
		jerkSlope := math.Pi * p.JerkPeak / p.Alpha
		prev := p.At(-1)
		for tt := -1 + h; tt <= total+1; tt += h {
			cur := p.At(tt)
			if d := math.Abs(cur.Pos - prev.Pos); d > tc.lim.Velocity*h+1e-9 {
				t.Fatalf("dist=%g %+v: position jump %g at t=%g", tc.dist, tc.lim, d, tt)
			}
			if d := math.Abs(cur.Vel - prev.Vel); d > tc.lim.Accel*h+1e-9 {
				t.Fatalf("dist=%g %+v: velocity jump %g at t=%g", tc.dist, tc.lim, d, tt)
			}
			if d := math.Abs(cur.Accel - prev.Accel); d > tc.lim.Jerk*h+1e-9 {
				t.Fatalf("dist=%g %+v: acceleration jump %g at t=%g", tc.dist, tc.lim, d, tt)
			}
			if d := math.Abs(cur.Jerk - prev.Jerk); d > jerkSlope*h+1e-9 {
				t.Fatalf("dist=%g %+v: jerk jump %g at t=%g", tc.dist, tc.lim, d, tt)
			}
			prev = cur
		}
	}
}

func TestLimitRespect(t *testing.T) {
	const eps = 1e-9
	for _, tc := range planCases {
		p := Plan(tc.dist, tc.lim)
		total := p.Duration()
		for i := 0; i <= 2000; i++ {
			tt := total * float64(i) / 2000
			s := p.At(tt)
			if math.Abs(s.Vel) > tc.lim.Velocity+eps {
				t.Fatalf("dist=%g %+v: |v|=%g exceeds %g at t=%g",
					tc.dist, tc.lim, s.Vel, tc.lim.Velocity, tt)
			}
			if math.Abs(s.Accel) > tc.lim.Accel+eps {
				t.Fatalf("dist=%g %+v: |a|=%g exceeds %g at t=%g",
					tc.dist, tc.lim, s.Accel, tc.lim.Accel, tt)
			}
			if math.Abs(s.Jerk) > tc.lim.Jerk+eps {
				t.Fatalf("dist=%g %+v: |j|=%g exceeds %g at t=%g",
					tc.dist, tc.lim, s.Jerk, tc.lim.Jerk, tt)
			}
		}
	}
}

// The region closed forms must be exact antiderivatives of one another.
// Gauss-Legendre quadrature of each derivative is compared against the
// closed-form value of its integral at region boundaries and interior
// points.
func TestClosedFormsAreAntiderivatives(t *testing.T) {
	for _, tc := range planCases {
		p := Plan(tc.dist, tc.lim)
		total := p.Duration()
		if total == 0 {
			continue
		}
		jerk := func(x float64) float64 { return p.At(x).Jerk }
		accel := func(x float64) float64 { return p.At(x).Accel }
		vel := func(x float64) float64 { return p.At(x).Vel }

		checkpoints := []float64{
			p.Alpha / 2,
			p.Alpha,
			p.Alpha + p.AccelTime,
			2*p.Alpha + p.AccelTime + p.CruiseTime,
			total * 0.9,
			total,
		}
		for _, x := range checkpoints {
			// Integrate region by region so the quadrature never
			// straddles a boundary kink.
			wantA := quadPiecewise(jerk, p, x)
			wantV := quadPiecewise(accel, p, x)
			wantS := quadPiecewise(vel, p, x)
			got := p.At(x)
			tol := 1e-6 * math.Max(1, tc.dist)
			if !scalar.EqualWithinAbs(got.Accel, wantA, tol) {
				t.Errorf("dist=%g %+v: accel(%g)=%g, quadrature of jerk gives %g",
					tc.dist, tc.lim, x, got.Accel, wantA)
			}
			if !scalar.EqualWithinAbs(got.Vel, wantV, tol) {
				t.Errorf("dist=%g %+v: vel(%g)=%g, quadrature of accel gives %g",
					tc.dist, tc.lim, x, got.Vel, wantV)
			}
			if !scalar.EqualWithinAbs(got.Pos, wantS, tol) {
				t.Errorf("dist=%g %+v: pos(%g)=%g, quadrature of vel gives %g",
					tc.dist, tc.lim, x, got.Pos, wantS)
			}
		}
	}
}

// quadPiecewise integrates f from 0 to x, splitting at the profile's
// region boundaries so each quadrature interval is smooth.
func quadPiecewise(f func(float64) float64, p Params, x float64) float64 {
	al, ta, tv := p.Alpha, p.AccelTime, p.CruiseTime
	edges := []float64{
		al, al + ta, 2*al + ta, 2*al + ta + tv,
		3*al + ta + tv, 3*al + 2*ta + tv, 4*al + 2*ta + tv,
	}
	sum := 0.0
	lo := 0.0
	for _, hi := range edges {
		if hi > x {
			hi = x
		}
		if hi > lo {
			sum += quad.Fixed(f, lo, hi, 80, nil, 0)
			lo = hi
		}
		if lo >= x {
			break
		}
	}
	return sum
}

func TestEvaluateSignSymmetry(t *testing.T) {
	lim := Limits{1, 2, 10}
	for _, tt := range []float64{-0.5, 0, 0.3, 0.95, 1.9, 3} {
		fwd := Evaluate(tt, 0, 0, 1, lim)
		rev := Evaluate(tt, 0, 0, -1, lim)
		if fwd.Pos != -rev.Pos || fwd.Vel != -rev.Vel ||
			fwd.Accel != -rev.Accel || fwd.Jerk != -rev.Jerk {
			t.Errorf("t=%g: mirrored move is not an exact negation: %+v vs %+v", tt, fwd, rev)
		}
		if fwd.Active != rev.Active || fwd.Done != rev.Done {
			t.Errorf("t=%g: flags differ between mirrored moves", tt)
		}
	}
}

func TestEvaluateOffsetCompensation(t *testing.T) {
	lim := Limits{1, 2, 10}
	for _, tt := range []float64{2, 2.5, 3, 4, 10} {
		base := Evaluate(tt-2, 0, 0, 1, lim)
		shifted := Evaluate(tt, 2, 5, 6, lim)
		if shifted.Pos != base.Pos+5 || shifted.Vel != base.Vel {
			t.Errorf("t=%g: time/offset shift not transparent: %+v vs %+v", tt, shifted, base)
		}
	}
}

func TestEvaluatePurity(t *testing.T) {
	lim := Limits{3, 7, 21}
	a := Evaluate(1.234, 0.5, -2, 9, lim)
	b := Evaluate(1.234, 0.5, -2, 9, lim)
	if a != b {
		t.Errorf("identical inputs gave different outputs: %+v vs %+v", a, b)
	}
}

// One fully worked move: 1 unit at vLim=1, aLim=2, jLim=10. Both limits
// are sustainable here, so the planner picks the full shape with
// alpha=0.4, accel plateau 0.1, cruise 0.1, T=1.9.
func TestReferenceMove(t *testing.T) {
	lim := Limits{1, 2, 10}
	p := Plan(1, lim)
	if p.Shape != ShapeFull {
		t.Fatalf("shape = %v, want %v", p.Shape, ShapeFull)
	}
	if !scalar.EqualWithinAbs(p.Alpha, 0.4, 1e-12) ||
		!scalar.EqualWithinAbs(p.AccelTime, 0.1, 1e-12) ||
		!scalar.EqualWithinAbs(p.CruiseTime, 0.1, 1e-12) {
		t.Fatalf("unexpected scalars: %+v", p)
	}
	total := p.Duration()
	if !scalar.EqualWithinAbs(total, 1.9, 1e-12) {
		t.Fatalf("duration = %g, want 1.9", total)
	}

	mid := Evaluate(total/2, 0, 0, 1, lim)
	if !mid.Active || mid.Done {
		t.Errorf("mid move: active=%v done=%v", mid.Active, mid.Done)
	}
	end := Evaluate(total, 0, 0, 1, lim)
	if !scalar.EqualWithinAbs(end.Pos, 1, 1e-9) {
		t.Errorf("s(T) = %g, want 1", end.Pos)
	}
	after := Evaluate(total+0.01, 0, 0, 1, lim)
	if !after.Done || after.Active {
		t.Errorf("after end: active=%v done=%v", after.Active, after.Done)
	}
}

func TestZeroDisplacement(t *testing.T) {
	lim := Limits{1, 2, 10}
	for _, tt := range []float64{0, 0.5, 100} {
		s := Evaluate(tt, 0, 3, 3, lim)
		if s.Active || !s.Done {
			t.Errorf("t=%g: active=%v done=%v, want false/true", tt, s.Active, s.Done)
		}
		if s.Pos != 3 || s.Vel != 0 || s.Accel != 0 || s.Jerk != 0 {
			t.Errorf("t=%g: unexpected sample %+v", tt, s)
		}
	}
	before := Evaluate(-1, 0, 3, 3, lim)
	if before.Active || before.Done {
		t.Errorf("before start: active=%v done=%v, want false/false", before.Active, before.Done)
	}
}
