// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

//go:build linux

package rt

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func lockSchedFIFO(priority int) error {
	runtime.LockOSThread()
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: uint32(priority),
	}
	// pid 0 targets the calling thread.
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}
