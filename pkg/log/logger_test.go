package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := New("test")
	l.SetWriter(buf)
	l.SetColorize(false)
	return l
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("dropped debug")
	l.Info("dropped info")
	l.Warn("kept warn")
	l.Error("kept error")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("messages below WARN were emitted:\n%s", out)
	}
	if !strings.Contains(out, "kept warn") || !strings.Contains(out, "kept error") {
		t.Errorf("messages at or above WARN missing:\n%s", out)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Info("move planned dist=%g", 1.5)

	out := buf.String()
	if !strings.Contains(out, "[INFO ]") {
		t.Errorf("missing level tag: %q", out)
	}
	if !strings.Contains(out, "test: move planned dist=1.5") {
		t.Errorf("missing prefix or message: %q", out)
	}
}

func TestFieldsSortedInText(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.With(Fields{"b": 2, "a": 1}).Info("sampled")

	out := buf.String()
	if !strings.Contains(out, "{a=1, b=2}") {
		t.Errorf("fields not sorted: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetFormat(FormatJSON)

	l.With(Fields{"axis": "x"}).Error("bad limit")

	var entry jsonEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry.Level != "ERROR" || entry.Message != "bad limit" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["axis"] != "x" {
		t.Errorf("field lost: %+v", entry.Fields)
	}
}

func TestComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Component("server").Info("started")

	if !strings.Contains(buf.String(), "test.server: started") {
		t.Errorf("component prefix missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
