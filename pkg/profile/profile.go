// Package profile computes C4-smooth point-to-point motion profiles.
//
// A profile moves one degree of freedom from a start position to an end
// position while honoring magnitude limits on velocity, acceleration and
// jerk. Jerk is built from squared-sine lobes rather than trapezoids, so
// position is four times continuously differentiable and the reference is
// safe to feed to resonance-sensitive mechanics.
//
// The package is a pure computational primitive: no state is kept between
// calls, nothing is allocated on the hot path, and concurrent callers need
// no synchronization. It is intended to be evaluated at control-loop rate
// from a real-time thread.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package profile

import "math"

// Limits holds the magnitude limits of one degree of freedom.
//
// All three limits must be strictly positive. This is a caller contract:
// the planner does not validate it, and a zero or negative limit yields
// NaN/Inf through ordinary floating-point semantics. Validate limits at
// the configuration layer (see pkg/axis), not here.
type Limits struct {
	Velocity float64 // max |v|, units/s
	Accel    float64 // max |a|, units/s^2
	Jerk     float64 // max |j|, units/s^3
}

// Shape identifies which of the four trajectory topologies a profile uses.
// The topologies differ in which limits are reached and sustained.
type Shape int

const (
	// ShapeRampOnly has no plateau at all: the displacement is too short
	// for either the velocity or the acceleration limit to be sustained.
	ShapeRampOnly Shape = iota

	// ShapeCruise sustains the velocity limit but never holds the
	// acceleration limit.
	ShapeCruise

	// ShapeAccelPlateau sustains the acceleration limit but never reaches
	// the velocity limit.
	ShapeAccelPlateau

	// ShapeFull sustains both the acceleration and the velocity limit.
	ShapeFull
)

// String returns the shape name used in status reports.
func (s Shape) String() string {
	switch s {
	case ShapeRampOnly:
		return "ramp_only"
	case ShapeCruise:
		return "cruise"
	case ShapeAccelPlateau:
		return "accel_plateau"
	case ShapeFull:
		return "full"
	default:
		return "unknown"
	}
}

// Params holds the derived scalars of a selected topology. A Params value
// fully determines the normalized profile (nonnegative displacement,
// trajectory starting at time zero); see At for evaluation.
type Params struct {
	Shape      Shape
	JerkPeak   float64 // effective peak jerk, <= Limits.Jerk
	Alpha      float64 // duration of one squared-sine jerk lobe
	AccelTime  float64 // constant-acceleration plateau duration (0 if absent)
	CruiseTime float64 // constant-velocity plateau duration (0 if absent)
}

// Duration returns the total trajectory time. Every topology is composed
// of four jerk lobes, two optional acceleration plateaus and one optional
// cruise plateau.
func (p Params) Duration() float64 {
	return 4*p.Alpha + 2*p.AccelTime + p.CruiseTime
}

// AccelPeak returns the peak acceleration reached by the profile.
func (p Params) AccelPeak() float64 {
	return p.Alpha * p.JerkPeak / 2
}

// VelPeak returns the peak velocity reached by the profile.
func (p Params) VelPeak() float64 {
	return p.AccelPeak() * (p.Alpha + p.AccelTime)
}

// Distance returns the total displacement covered by the profile.
func (p Params) Distance() float64 {
	return p.VelPeak() * (2*p.Alpha + p.AccelTime + p.CruiseTime)
}

// Plan selects the minimum-time topology for a nonnegative displacement
// under the given limits and computes its derived scalars.
//
// The three plateau topologies each have a closed-form feasibility
// predicate and duration; their feasibility regions are disjoint by
// construction, but if more than one were ever feasible with equal
// duration the lowest-numbered shape wins. When no plateau topology is
// feasible the ramp-only shape applies; it is always defined for a
// positive displacement. A zero displacement short-circuits to a
// zero-duration profile since the ramp-only closed forms divide by the
// displacement.
func Plan(dist float64, lim Limits) Params {
	if dist == 0 {
		return Params{Shape: ShapeRampOnly}
	}
	vLim, aLim, jLim := lim.Velocity, lim.Accel, lim.Jerk

	// Effective jerk when chasing the velocity limit without an
	// acceleration plateau: the acceleration limit may force a lobe
	// gentler than jLim.
	jCruise := math.Min(jLim, 2*aLim*aLim/vLim)

	// Peak velocity reachable with a sustained acceleration plateau.
	vPlateau := math.Min(vLim,
		(math.Sqrt(aLim*aLim*aLim*aLim+dist*aLim*jLim*jLim)-aLim*aLim)/jLim)

	bestT := math.Inf(1)
	best := ShapeRampOnly

	if dist > math.Sqrt(8*vLim*vLim*vLim/jCruise) {
		if t := dist/vLim + math.Sqrt(8*vLim/jCruise); t < bestT {
			bestT, best = t, ShapeCruise
		}
	}
	if dist < 2*vPlateau*vPlateau/aLim {
		if t := 2 * dist / vPlateau; t < bestT {
			bestT, best = t, ShapeAccelPlateau
		}
	}
	if dist > vLim*vLim/aLim+2*aLim*vLim/jLim && vLim > 2*aLim*aLim/jLim {
		if t := dist/vLim + vLim/aLim + 2*aLim/jLim; t < bestT {
			bestT, best = t, ShapeFull
		}
	}

	switch best {
	case ShapeCruise:
		return Params{
			Shape:      ShapeCruise,
			JerkPeak:   jCruise,
			Alpha:      math.Sqrt(2 * vLim / jCruise),
			CruiseTime: dist/vLim - math.Sqrt(8*vLim/jCruise),
		}
	case ShapeAccelPlateau:
		return Params{
			Shape:     ShapeAccelPlateau,
			JerkPeak:  2 * aLim * aLim * vPlateau / (aLim*dist - vPlateau*vPlateau),
			Alpha:     dist/vPlateau - vPlateau/aLim,
			AccelTime: (2*vPlateau*vPlateau - aLim*dist) / (aLim * vPlateau),
		}
	case ShapeFull:
		return Params{
			Shape:      ShapeFull,
			JerkPeak:   jLim,
			Alpha:      2 * aLim / jLim,
			AccelTime:  vLim/aLim - 2*aLim/jLim,
			CruiseTime: dist/vLim - vLim/aLim - 2*aLim/jLim,
		}
	}

	// Ramp-only: neither limit can be sustained. The peak velocity is
	// whichever of the three limits binds first for this displacement.
	vPeak := math.Min(vLim, math.Min(
		math.Sqrt(aLim*dist/2),
		math.Cbrt(jLim*dist*dist/8)))
	return Params{
		Shape:    ShapeRampOnly,
		JerkPeak: 8 * vPeak * vPeak * vPeak / (dist * dist),
		Alpha:    dist / (2 * vPeak),
	}
}
