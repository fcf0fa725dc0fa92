// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"smoothmotion/pkg/errors"
)

// Section provides typed access to the options of one config section.
// Every successful access is recorded for UnusedOptions reporting.
type Section struct {
	name    string
	options map[string]string

	mu       sync.Mutex
	accessed map[string]struct{}
}

func newSection(name string, options map[string]string) *Section {
	opts := make(map[string]string, len(options))
	for k, v := range options {
		opts[strings.ToLower(k)] = v
	}
	return &Section{
		name:     name,
		options:  opts,
		accessed: make(map[string]struct{}),
	}
}

// Name returns the section name, e.g. "axis x".
func (s *Section) Name() string {
	return s.name
}

// HasOption checks whether an option exists.
func (s *Section) HasOption(option string) bool {
	_, ok := s.options[strings.ToLower(option)]
	return ok
}

func (s *Section) lookup(option string) (string, bool) {
	key := strings.ToLower(option)
	v, ok := s.options[key]
	if ok {
		s.mu.Lock()
		s.accessed[key] = struct{}{}
		s.mu.Unlock()
	}
	return v, ok
}

func (s *Section) unusedOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []string
	for opt := range s.options {
		if _, ok := s.accessed[opt]; !ok {
			result = append(result, opt)
		}
	}
	sort.Strings(result)
	return result
}

// Get returns a string option. A fallback makes the option optional.
func (s *Section) Get(option string, fallback ...string) (string, error) {
	if v, ok := s.lookup(option); ok {
		return v, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return "", errors.ConfigOptionError(s.name, option)
}

// GetInt returns an integer option.
func (s *Section) GetInt(option string, fallback ...int) (int, error) {
	if v, ok := s.lookup(option); ok {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.ConfigTypeError(s.name, option, v, "integer", err)
		}
		return i, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return 0, errors.ConfigOptionError(s.name, option)
}

// GetFloat returns a float option.
func (s *Section) GetFloat(option string, fallback ...float64) (float64, error) {
	if v, ok := s.lookup(option); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errors.ConfigTypeError(s.name, option, v, "float", err)
		}
		return f, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return 0, errors.ConfigOptionError(s.name, option)
}

// GetPositiveFloat returns a float option that must be strictly positive.
// Motion limits go through this getter so that the profile planner never
// sees a zero or negative limit.
func (s *Section) GetPositiveFloat(option string, fallback ...float64) (float64, error) {
	v, err := s.GetFloat(option, fallback...)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.ConfigValidationError(s.name, option,
			"must be above 0, got "+strconv.FormatFloat(v, 'g', -1, 64))
	}
	return v, nil
}

// GetBool returns a boolean option. Accepts 1/true/yes/on and
// 0/false/no/off.
func (s *Section) GetBool(option string, fallback ...bool) (bool, error) {
	if v, ok := s.lookup(option); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		default:
			return false, errors.ConfigTypeError(s.name, option, v, "boolean", nil)
		}
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return false, errors.ConfigOptionError(s.name, option)
}
