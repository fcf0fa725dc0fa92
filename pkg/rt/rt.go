// Package rt requests real-time scheduling for sampling goroutines.
//
// Fixed-rate trajectory sampling suffers from scheduler jitter under
// load; pinning the sampling goroutine to its OS thread and moving that
// thread to the SCHED_FIFO class keeps the sample cadence tight. This is
// an optional hint: callers treat failure (unsupported platform, missing
// privileges) as a soft degradation, not an error.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package rt

import "errors"

// ErrUnsupported is returned on platforms without SCHED_FIFO support.
var ErrUnsupported = errors.New("rt: real-time scheduling not supported on this platform")

// LockSchedFIFO pins the calling goroutine to its OS thread and places
// that thread in the SCHED_FIFO class at the given priority (1..99,
// higher preempts lower). Requires CAP_SYS_NICE or an appropriate
// RLIMIT_RTPRIO on Linux.
//
// The goroutine stays locked to its thread afterwards; call this from
// the goroutine that runs the sampling loop, not from the one that
// starts it.
func LockSchedFIFO(priority int) error {
	return lockSchedFIFO(priority)
}
