// Unified error handling for smoothmotion
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"
	ErrConfigType       ErrorCode = "CONFIG_TYPE"

	// Axis errors
	ErrAxisUnknown ErrorCode = "AXIS_UNKNOWN"
	ErrAxisBounds  ErrorCode = "AXIS_BOUNDS"

	// Move request errors
	ErrMoveParam ErrorCode = "MOVE_PARAM"
)

// MotionError is the unified error type for the service
type MotionError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Section is the config section or other context
	Section string

	// Option is the config option name (if applicable)
	Option string

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface
func (e *MotionError) Error() string {
	switch {
	case e.Option != "":
		return fmt.Sprintf("[%s:%s.%s] %s", e.Code, e.Section, e.Option, e.Message)
	case e.Section != "":
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *MotionError) Unwrap() error {
	return e.Err
}

// SetSection sets the context section
func (e *MotionError) SetSection(section string) *MotionError {
	e.Section = section
	return e
}

// SetOption sets the config option
func (e *MotionError) SetOption(option string) *MotionError {
	e.Option = option
	return e
}

// New creates a MotionError with a code and message
func New(code ErrorCode, message string) *MotionError {
	return &MotionError{Code: code, Message: message}
}

// Newf creates a MotionError with a code and formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MotionError {
	return &MotionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message
func Wrap(err error, code ErrorCode, message string) *MotionError {
	return &MotionError{Code: code, Message: message, Err: err}
}

// ConfigOptionError reports a missing config option
func ConfigOptionError(section, option string) *MotionError {
	return New(ErrConfigOption, "option not found").SetSection(section).SetOption(option)
}

// ConfigValidationError reports an option value that fails validation
func ConfigValidationError(section, option, reason string) *MotionError {
	return New(ErrConfigValidation, reason).SetSection(section).SetOption(option)
}

// ConfigTypeError reports an option value that cannot be converted
func ConfigTypeError(section, option, value, targetType string, err error) *MotionError {
	e := Wrap(err, ErrConfigType,
		fmt.Sprintf("value %q is not a valid %s", value, targetType))
	return e.SetSection(section).SetOption(option)
}

// AxisUnknownError reports a request for an unconfigured axis
func AxisUnknownError(axis string) *MotionError {
	return Newf(ErrAxisUnknown, "unknown axis %q", axis)
}

// AxisBoundsError reports a move target outside the axis travel
func AxisBoundsError(axis string, target, min, max float64) *MotionError {
	return Newf(ErrAxisBounds, "axis %q: target %g outside travel [%g, %g]",
		axis, target, min, max)
}

// MoveParamError reports an invalid move request parameter
func MoveParamError(param, reason string) *MotionError {
	return Newf(ErrMoveParam, "parameter %q: %s", param, reason)
}

// Is reports whether err carries the given code
func Is(err error, code ErrorCode) bool {
	var me *MotionError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
