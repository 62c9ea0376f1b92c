package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHECKLIST_CONFIG", "")
	t.Setenv("CHECKLIST_HOME", dir)
	for _, k := range []string{
		"CHECKLIST_ENDPOINT", "CHECKLIST_SECRET_HEADER", "CHECKLIST_TIMEOUT",
		"CHECKLIST_LOG_LEVEL", "CHECKLIST_LOG_FORMAT", "CHECKLIST_LOG_FILE", "CHECKLIST_THEME",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SecretHeader != DefaultSecretHeader {
		t.Errorf("SecretHeader: got %q", cfg.SecretHeader)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout: got %s", cfg.Timeout)
	}
	if cfg.Theme != DefaultTheme || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("Theme/LogLevel: got %q/%q", cfg.Theme, cfg.LogLevel)
	}
	if cfg.Home != home {
		t.Errorf("Home: got %q, want %q", cfg.Home, home)
	}
	if !errors.Is(cfg.Validate(), ErrNoEndpoint) {
		t.Errorf("Validate: got %v", cfg.Validate())
	}
}

func TestLoadPriority(t *testing.T) {
	home := isolate(t)
	content := []byte(`endpoint = "https://file.example/v1/graphql"
timeout = "3s"
theme = "neon"
log_level = "debug"
`)
	if err := os.WriteFile(filepath.Join(home, ConfigFileName), content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHECKLIST_THEME", "mono")
	t.Setenv("CHECKLIST_TIMEOUT", "4s")

	fs := newFlagSet()
	cfg, err := Load(fs, []string{"-timeout", "5s", "ls", "--group"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Endpoint != "https://file.example/v1/graphql" {
		t.Errorf("Endpoint (file): got %q", cfg.Endpoint)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel (file): got %q", cfg.LogLevel)
	}
	if cfg.Theme != "mono" {
		t.Errorf("Theme (env): got %q", cfg.Theme)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout (flag): got %s", cfg.Timeout)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "ls" {
		t.Errorf("remaining args: got %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	isolate(t)
	p := filepath.Join(t.TempDir(), "other.toml")
	if err := os.WriteFile(p, []byte(`secret_header = "authorization"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHECKLIST_CONFIG", p)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SecretHeader != "authorization" {
		t.Errorf("SecretHeader: got %q", cfg.SecretHeader)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		file string
		args []string
	}{
		{name: "bad toml", file: "endpoint = ", args: nil},
		{name: "bad timeout", args: []string{"-timeout", "soon"}},
		{name: "negative timeout", args: []string{"-timeout", "-1s"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			if tt.file != "" {
				if err := os.WriteFile(filepath.Join(home, ConfigFileName), []byte(tt.file), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := Load(newFlagSet(), tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	t.Setenv("CHECKLIST_TEST_DIR", "/tmp/x")

	tests := []struct{ in, want string }{
		{"", ""},
		{"~", home},
		{"~/.checklist", filepath.Join(home, ".checklist")},
		{"$CHECKLIST_TEST_DIR/log", "/tmp/x/log"},
		{"/abs", "/abs"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
