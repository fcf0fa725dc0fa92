// Structured logging for smoothmotion
//
// Provides leveled logging with structured fields, text and JSON output,
// ANSI colors for terminals and per-component prefix loggers.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug for detailed debugging information
	LevelDebug Level = iota

	// LevelInfo for general informational messages
	LevelInfo

	// LevelWarn for warning messages
	LevelWarn

	// LevelError for error messages
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level, defaulting to LevelInfo
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format specifies the output format for log messages
type Format int

const (
	// FormatText outputs human-readable text
	FormatText Format = iota
	// FormatJSON outputs one JSON object per line
	FormatJSON
)

// Fields is a set of structured logging fields
type Fields map[string]interface{}

var ansiColors = map[Level]string{
	LevelDebug: "\x1b[36m",
	LevelInfo:  "\x1b[32m",
	LevelWarn:  "\x1b[33m",
	LevelError: "\x1b[31m",
}

const ansiReset = "\x1b[0m"

// Logger writes leveled, optionally structured log messages. Derived
// loggers created via Component or With share the parent's writer and
// settings at creation time.
type Logger struct {
	mu       sync.Mutex
	prefix   string
	writer   io.Writer
	level    Level
	colorize bool
	format   Format
	fields   Fields
}

// New creates a logger writing text to stderr at LevelInfo.
func New(prefix string) *Logger {
	return &Logger{
		prefix:   prefix,
		writer:   os.Stderr,
		level:    LevelInfo,
		colorize: os.Getenv("NO_COLOR") == "",
	}
}

// SetLevel sets the minimum level emitted.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetWriter redirects output, e.g. to a log file or a test buffer.
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// SetFormat selects text or JSON output.
func (l *Logger) SetFormat(f Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = f
}

// SetColorize enables or disables ANSI colors in text output.
func (l *Logger) SetColorize(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colorize = enable
}

// Component returns a derived logger with a sub-component prefix.
func (l *Logger) Component(name string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{
		prefix:   prefix,
		writer:   l.writer,
		level:    l.level,
		colorize: l.colorize,
		format:   l.format,
		fields:   l.fields,
	}
}

// With returns a derived logger that attaches the given fields to every
// message.
func (l *Logger) With(fields Fields) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		prefix:   l.prefix,
		writer:   l.writer,
		level:    l.level,
		colorize: l.colorize,
		format:   l.format,
		fields:   merged,
	}
}

// WithError is shorthand for With(Fields{"error": err}).
func (l *Logger) WithError(err error) *Logger {
	return l.With(Fields{"error": err.Error()})
}

type jsonEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) formatText(level Level, msg string) string {
	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" [")
	fmt.Fprintf(&sb, "%-5s", level.String())
	sb.WriteString("] ")
	if l.prefix != "" {
		if l.colorize {
			sb.WriteString(ansiColors[level])
		}
		sb.WriteString(l.prefix)
		if l.colorize {
			sb.WriteString(ansiReset)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(msg)
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, l.fields[k])
		}
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (l *Logger) formatJSON(level Level, msg string) string {
	entry := jsonEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Logger:    l.prefix,
		Message:   msg,
	}
	if len(l.fields) > 0 {
		entry.Fields = l.fields
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"error":"marshal log entry: %v"}`+"\n", err)
	}
	return string(data) + "\n"
}

func (l *Logger) log(level Level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	if l.format == FormatJSON {
		fmt.Fprint(l.writer, l.formatJSON(level, msg))
	} else {
		fmt.Fprint(l.writer, l.formatText(level, msg))
	}
}

// Debug logs a message at DEBUG level
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(LevelDebug, msg, args)
}

// Info logs a message at INFO level
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(LevelInfo, msg, args)
}

// Warn logs a message at WARN level
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(LevelWarn, msg, args)
}

// Error logs a message at ERROR level
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(LevelError, msg, args)
}

// ConfigureFromEnv applies environment-based configuration.
// Environment variables:
//   - SMOOTHMOTION_LOG_LEVEL: DEBUG, INFO, WARN, ERROR
//   - SMOOTHMOTION_LOG_FORMAT: text, json
//   - NO_COLOR: any non-empty value disables colors
func ConfigureFromEnv(l *Logger) {
	if s := os.Getenv("SMOOTHMOTION_LOG_LEVEL"); s != "" {
		l.SetLevel(ParseLevel(s))
	}
	switch strings.ToLower(os.Getenv("SMOOTHMOTION_LOG_FORMAT")) {
	case "json":
		l.SetFormat(FormatJSON)
	case "text":
		l.SetFormat(FormatText)
	}
	if os.Getenv("NO_COLOR") != "" {
		l.SetColorize(false)
	}
}
