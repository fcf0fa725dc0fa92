// Axis registry for smoothmotion
//
// Builds per-axis motion limits from [axis <name>] config sections and
// validates them before they ever reach the profile planner. The planner
// itself assumes positive limits and does not validate (see pkg/profile),
// so this is the layer that enforces that contract.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package axis

import (
	"math"
	"strings"

	"smoothmotion/pkg/config"
	"smoothmotion/pkg/errors"
	"smoothmotion/pkg/profile"
)

// Axis is one configured degree of freedom.
type Axis struct {
	Name   string
	Limits profile.Limits

	// Travel bounds; unbounded axes use +-Inf.
	PositionMin float64
	PositionMax float64
}

// Registry holds all configured axes.
type Registry struct {
	axes  map[string]*Axis
	order []string
}

// LoadRegistry reads every [axis <name>] section from the config.
// At least one axis must be configured.
func LoadRegistry(cfg *config.Config) (*Registry, error) {
	r := &Registry{axes: make(map[string]*Axis)}
	for _, sec := range cfg.SectionsWithPrefix("axis") {
		name := strings.TrimSpace(strings.TrimPrefix(sec.Name(), "axis"))
		if name == "" {
			return nil, errors.ConfigValidationError(sec.Name(), "",
				"axis sections need a name, e.g. [axis x]")
		}
		if _, ok := r.axes[name]; ok {
			return nil, errors.ConfigValidationError(sec.Name(), "",
				"duplicate axis name")
		}
		a, err := loadAxis(name, sec)
		if err != nil {
			return nil, err
		}
		r.axes[name] = a
		r.order = append(r.order, name)
	}
	if len(r.order) == 0 {
		return nil, errors.New(errors.ErrConfigSection, "no [axis ...] sections configured")
	}
	return r, nil
}

func loadAxis(name string, sec *config.Section) (*Axis, error) {
	vLim, err := sec.GetPositiveFloat("max_velocity")
	if err != nil {
		return nil, err
	}
	aLim, err := sec.GetPositiveFloat("max_accel")
	if err != nil {
		return nil, err
	}
	jLim, err := sec.GetPositiveFloat("max_jerk")
	if err != nil {
		return nil, err
	}
	posMin, err := sec.GetFloat("position_min", math.Inf(-1))
	if err != nil {
		return nil, err
	}
	posMax, err := sec.GetFloat("position_max", math.Inf(1))
	if err != nil {
		return nil, err
	}
	if posMin >= posMax {
		return nil, errors.ConfigValidationError(sec.Name(), "position_min",
			"position_min must be below position_max")
	}
	return &Axis{
		Name:        name,
		Limits:      profile.Limits{Velocity: vLim, Accel: aLim, Jerk: jLim},
		PositionMin: posMin,
		PositionMax: posMax,
	}, nil
}

// Lookup returns an axis by name.
func (r *Registry) Lookup(name string) (*Axis, error) {
	a, ok := r.axes[name]
	if !ok {
		return nil, errors.AxisUnknownError(name)
	}
	return a, nil
}

// Names returns the configured axis names in config order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// CheckMove validates that both endpoints of a move lie within the axis
// travel. The profile itself never overshoots its endpoints, so checking
// the endpoints covers the whole trajectory.
func (a *Axis) CheckMove(start, end float64) error {
	for _, pos := range [2]float64{start, end} {
		if pos < a.PositionMin || pos > a.PositionMax {
			return errors.AxisBoundsError(a.Name, pos, a.PositionMin, a.PositionMax)
		}
	}
	return nil
}

// Plan selects the minimum-time profile for a move between two positions
// on this axis. The returned params describe the sign-normalized problem.
func (a *Axis) Plan(start, end float64) profile.Params {
	return profile.Plan(math.Abs(end-start), a.Limits)
}

// Evaluate computes the axis state at time t for a move from start to
// end beginning at t0.
func (a *Axis) Evaluate(t, t0, start, end float64) profile.Sample {
	return profile.Evaluate(t, t0, start, end, a.Limits)
}
