// Fixed-rate trajectory sampling for smoothmotion
//
// Evaluates a planned move at a constant sample rate and hands each
// sample to a callback. The profile itself is a pure function of time,
// so the sampler owns all pacing concerns: tick scheduling, optional
// real-time scheduling for the loop goroutine, and cancellation.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sampler

import (
	"context"
	"time"

	"smoothmotion/pkg/errors"
	"smoothmotion/pkg/log"
	"smoothmotion/pkg/profile"
	"smoothmotion/pkg/rt"
)

// Move is one point-to-point move to be streamed.
type Move struct {
	Start  float64
	End    float64
	Limits profile.Limits
}

// Config controls sampling behavior.
type Config struct {
	// Rate is the sample rate in Hz. Must be positive.
	Rate float64

	// Realtime requests SCHED_FIFO for the sampling goroutine. Failure
	// to acquire it is logged and ignored.
	Realtime bool

	// RTPriority is the SCHED_FIFO priority used when Realtime is set.
	RTPriority int
}

// SampleFunc receives each sample along with its time offset from the
// move start. Returning false stops the stream early.
type SampleFunc func(t float64, s profile.Sample) bool

// Times returns the sample offsets for a move at the given rate: one
// sample per period from zero through the first sample past the move
// duration (which carries Done=true). Pure; used by Run and directly by
// tests and the dump tool.
func Times(p profile.Params, rate float64) []float64 {
	period := 1 / rate
	total := p.Duration()
	n := int(total/period) + 2
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * period
	}
	return times
}

// Run streams the move at cfg.Rate until it completes, fn returns false
// or ctx is canceled. It blocks for the duration of the move and returns
// the number of samples delivered.
func Run(ctx context.Context, cfg Config, mv Move, fn SampleFunc, logger *log.Logger) (int, error) {
	if cfg.Rate <= 0 {
		return 0, errors.MoveParamError("rate", "must be positive")
	}
	if cfg.Realtime {
		if err := rt.LockSchedFIFO(cfg.RTPriority); err != nil {
			logger.WithError(err).Warn("real-time scheduling unavailable, using normal priority")
		}
	}

	period := time.Duration(float64(time.Second) / cfg.Rate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	count := 0
	for {
		// Sample at the wall-clock offset rather than counting ticks, so
		// a delayed tick does not shift the rest of the trajectory. The
		// evaluator is stateless, so each tick is an independent call.
		t := time.Since(start).Seconds()
		s := profile.Evaluate(t, 0, mv.Start, mv.End, mv.Limits)
		count++
		if !fn(t, s) {
			return count, nil
		}
		if s.Done {
			return count, nil
		}
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Plan returns the selected profile for the move, for duration and shape
// reporting before streaming starts.
func (mv Move) Plan() profile.Params {
	dist := mv.End - mv.Start
	if dist < 0 {
		dist = -dist
	}
	return profile.Plan(dist, mv.Limits)
}
