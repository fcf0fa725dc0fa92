// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

//go:build !linux

package rt

func lockSchedFIFO(priority int) error {
	return ErrUnsupported
}
