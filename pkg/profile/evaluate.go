// Closed-form evaluation of squared-sine jerk profiles
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package profile

import "math"

// Sample is the state of a profile at one query time.
type Sample struct {
	Pos   float64
	Vel   float64
	Accel float64
	Jerk  float64

	// Active reports whether the query time lies inside the trajectory.
	// It is false both before the start and after completion.
	Active bool

	// Done reports whether the trajectory has completed. Active and Done
	// are independent flags, not a three-way state.
	Done bool
}

// Jerk lobe antiderivatives. A lobe is jm*sin^2(pi*tau/alpha) for
// tau in [0, alpha]; lobeAccel, lobeVel and lobePos are its first,
// second and third exact time integrals from zero initial conditions.
// Using the exact antiderivatives keeps every region boundary C4.

func lobeJerk(jm, alpha, tau float64) float64 {
	s := math.Sin(math.Pi * tau / alpha)
	return jm * s * s
}

func lobeAccel(jm, alpha, tau float64) float64 {
	return jm / 2 * (tau - alpha/(2*math.Pi)*math.Sin(2*math.Pi*tau/alpha))
}

func lobeVel(jm, alpha, tau float64) float64 {
	k := alpha * alpha / (4 * math.Pi * math.Pi)
	return jm / 2 * (tau*tau/2 + k*(math.Cos(2*math.Pi*tau/alpha)-1))
}

func lobePos(jm, alpha, tau float64) float64 {
	k := alpha * alpha / (4 * math.Pi * math.Pi)
	return jm / 2 * (tau*tau*tau/6 + k*(alpha/(2*math.Pi)*math.Sin(2*math.Pi*tau/alpha)-tau))
}

// At evaluates the normalized profile at time t (seconds since the
// trajectory start). The timeline splits into four jerk lobes, an
// optional acceleration plateau on each side and an optional cruise
// plateau in the middle; each region's closed form is the exact
// antiderivative of its jerk with boundary conditions carried over from
// the previous region.
func (p Params) At(t float64) Sample {
	if t < 0 {
		return Sample{}
	}
	if p.Alpha == 0 {
		// Zero-displacement profile: complete immediately, never active.
		return Sample{Done: true}
	}
	total := p.Duration()
	if t > total {
		return Sample{Pos: p.Distance(), Done: true}
	}

	jm, al, ta, tv := p.JerkPeak, p.Alpha, p.AccelTime, p.CruiseTime
	aPk := p.AccelPeak()
	vMax := p.VelPeak()

	// End-of-lobe gains and running boundary state.
	v1 := lobeVel(jm, al, al)
	s1 := lobePos(jm, al, al)
	v2 := v1 + aPk*ta
	s2 := s1 + v1*ta + aPk*ta*ta/2
	s3 := s2 + v2*al + aPk*al*al/2 - s1
	s4 := s3 + vMax*tv
	v5 := vMax - v1
	s5 := s4 + vMax*al - s1
	v6 := v5 - aPk*ta
	s6 := s5 + v5*ta - aPk*ta*ta/2

	smp := Sample{Active: true}
	switch {
	case t <= al: // ramp acceleration up
		smp.Jerk = lobeJerk(jm, al, t)
		smp.Accel = lobeAccel(jm, al, t)
		smp.Vel = lobeVel(jm, al, t)
		smp.Pos = lobePos(jm, al, t)
	case t <= al+ta: // hold peak acceleration
		tau := t - al
		smp.Accel = aPk
		smp.Vel = v1 + aPk*tau
		smp.Pos = s1 + v1*tau + aPk*tau*tau/2
	case t <= 2*al+ta: // ramp acceleration back to zero
		tau := t - al - ta
		smp.Jerk = -lobeJerk(jm, al, tau)
		smp.Accel = aPk - lobeAccel(jm, al, tau)
		smp.Vel = v2 + aPk*tau - lobeVel(jm, al, tau)
		smp.Pos = s2 + v2*tau + aPk*tau*tau/2 - lobePos(jm, al, tau)
	case t <= 2*al+ta+tv: // cruise
		tau := t - 2*al - ta
		smp.Vel = vMax
		smp.Pos = s3 + vMax*tau
	case t <= 3*al+ta+tv: // ramp into deceleration
		tau := t - 2*al - ta - tv
		smp.Jerk = -lobeJerk(jm, al, tau)
		smp.Accel = -lobeAccel(jm, al, tau)
		smp.Vel = vMax - lobeVel(jm, al, tau)
		smp.Pos = s4 + vMax*tau - lobePos(jm, al, tau)
	case t <= 3*al+2*ta+tv: // hold peak deceleration
		tau := t - 3*al - ta - tv
		smp.Accel = -aPk
		smp.Vel = v5 - aPk*tau
		smp.Pos = s5 + v5*tau - aPk*tau*tau/2
	default: // ramp deceleration back to zero
		tau := t - 3*al - 2*ta - tv
		smp.Jerk = lobeJerk(jm, al, tau)
		smp.Accel = -aPk + lobeAccel(jm, al, tau)
		smp.Vel = v6 - aPk*tau + lobeVel(jm, al, tau)
		smp.Pos = s6 + v6*tau - aPk*tau*tau/2 + lobePos(jm, al, tau)
	}
	return smp
}

// Evaluate computes the profile state for a move from s0 to sEnd that
// starts at time t0, queried at time t. It is the sign- and
// offset-compensating wrapper around Plan and At: the core closed forms
// assume a nonnegative displacement and a trajectory starting at time
// zero, so the displacement sign is folded out before planning and
// re-applied to all derivatives afterwards, with the position shifted
// back by s0.
//
// Limits must be strictly positive (see Limits); Evaluate performs no
// validation. Identical inputs always produce identical outputs.
func Evaluate(t, t0, s0, sEnd float64, lim Limits) Sample {
	dist := sEnd - s0
	sign := 1.0
	if dist < 0 {
		sign = -1.0
		dist = -dist
	}
	smp := Plan(dist, lim).At(t - t0)
	smp.Jerk *= sign
	smp.Accel *= sign
	smp.Vel *= sign
	smp.Pos = s0 + sign*smp.Pos
	return smp
}
