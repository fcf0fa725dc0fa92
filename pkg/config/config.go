// INI-style configuration files for smoothmotion
//
// The format follows the usual controller convention: [section] headers,
// "key: value" or "key = value" options, "#" comments and
// [include path] directives with glob support.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds a parsed configuration file. Option access is tracked per
// section so callers can warn about unused options after startup.
type Config struct {
	sections map[string]*Section
	order    []string
}

// New creates an empty Config.
func New() *Config {
	return &Config{sections: make(map[string]*Section)}
}

// Load reads a configuration file, following [include ...] directives.
func Load(path string) (*Config, error) {
	c := New()
	if err := c.parseFile(path, make(map[string]bool)); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadString parses configuration text, mainly for tests. Include
// directives are rejected since there is no base directory.
func LoadString(data string) (*Config, error) {
	c := New()
	if err := c.parse(strings.NewReader(data), "<string>", "", nil); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) parseFile(path string, visited map[string]bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: invalid path %s: %w", path, err)
	}
	if visited[abs] {
		return fmt.Errorf("config: recursive include: %s", path)
	}
	visited[abs] = true
	defer func() { visited[abs] = false }()

	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("config: unable to open %s: %w", path, err)
	}
	defer f.Close()

	return c.parse(f, path, filepath.Dir(abs), visited)
}

// parse reads sections and options from r. dir is the base directory for
// includes; an empty dir disables them.
func (c *Config) parse(r io.Reader, name, dir string, visited map[string]bool) error {
	var section string
	var options map[string]string
	flush := func() {
		if section != "" {
			c.addSection(section, options)
		}
		section = ""
		options = nil
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			header := strings.TrimSpace(line[1 : len(line)-1])
			if header == "" {
				return fmt.Errorf("config: empty section header at %s:%d", name, lineNum)
			}
			if spec, ok := strings.CutPrefix(header, "include "); ok {
				if dir == "" {
					return fmt.Errorf("config: include not allowed at %s:%d", name, lineNum)
				}
				if err := c.include(strings.TrimSpace(spec), dir, visited); err != nil {
					return err
				}
				continue
			}
			section = header
			options = make(map[string]string)
			continue
		}

		if section == "" {
			// Options before the first section header are ignored.
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			key, value, ok = strings.Cut(line, "=")
		}
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		options[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("config: error reading %s: %w", name, err)
	}
	return nil
}

func (c *Config) include(spec, dir string, visited map[string]bool) error {
	if spec == "" {
		return fmt.Errorf("config: empty include directive")
	}
	pattern := filepath.Join(dir, spec)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("config: invalid include pattern %q: %w", spec, err)
	}
	if len(matches) == 0 && !strings.ContainsAny(pattern, "*?[") {
		return fmt.Errorf("config: include file does not exist: %s", pattern)
	}
	sort.Strings(matches)
	for _, m := range matches {
		if err := c.parseFile(m, visited); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) addSection(name string, options map[string]string) {
	if existing, ok := c.sections[name]; ok {
		// Later definitions override earlier options.
		for k, v := range options {
			existing.options[strings.ToLower(k)] = v
		}
		return
	}
	c.sections[name] = newSection(name, options)
	c.order = append(c.order, name)
}

// HasSection checks whether a section exists.
func (c *Config) HasSection(name string) bool {
	_, ok := c.sections[name]
	return ok
}

// Section returns a section by exact name, or nil if absent.
func (c *Config) Section(name string) *Section {
	return c.sections[name]
}

// SectionNames returns all section names in file order.
func (c *Config) SectionNames() []string {
	return append([]string(nil), c.order...)
}

// SectionsWithPrefix returns sections whose name is prefix or starts
// with "prefix " (the "[axis x]" convention), in file order.
func (c *Config) SectionsWithPrefix(prefix string) []*Section {
	var result []*Section
	for _, name := range c.order {
		if name == prefix || strings.HasPrefix(name, prefix+" ") {
			result = append(result, c.sections[name])
		}
	}
	return result
}

// UnusedOptions returns "section.option" strings for options that were
// never accessed through a typed getter.
func (c *Config) UnusedOptions() []string {
	var result []string
	for _, name := range c.order {
		for _, opt := range c.sections[name].unusedOptions() {
			result = append(result, name+"."+opt)
		}
	}
	return result
}
