package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWritesComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("engine", Options{Level: "warn", Out: &buf})
	l.Infof("dropped %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warnf("malformed row %s", "P009")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["component"] != "engine" || entry["level"] != "warn" || entry["message"] != "malformed row P009" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := With(New("server", Options{Out: &buf}), "request_id", "abc")
	l.Infof("ok")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["request_id"] != "abc" {
		t.Fatalf("missing request_id: %#v", entry)
	}
	if With(Nop{}, "k", "v") != (Nop{}) {
		t.Fatalf("nop logger should pass through")
	}
}
