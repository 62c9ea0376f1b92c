package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"verbose": log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: "warn"})

	l.Info("hidden")
	l.Warn("shown", "op", "getTodos")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "op=getTodos") {
		t.Errorf("warn line missing: %q", out)
	}
	if !strings.Contains(out, "checklist") {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Format: "json"})
	l.Error("write failed", "op", "addTodo")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not json: %q: %v", buf.String(), err)
	}
	if rec["msg"] != "write failed" || rec["op"] != "addTodo" {
		t.Errorf("record: %v", rec)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "checklist.log")
	l, closer, err := Open(Options{File: path}, io.Discard)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "hello") {
		t.Errorf("log file: %q", b)
	}
}

func TestOpenFallback(t *testing.T) {
	var buf bytes.Buffer
	l, closer, err := Open(Options{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	l.Info("to fallback")
	if !strings.Contains(buf.String(), "to fallback") {
		t.Errorf("fallback: %q", buf.String())
	}
}
