package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestResolveLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")

	tests := map[string]log.Level{
		"":      log.InfoLevel,
		"warn":  log.WarnLevel,
		"debug": log.DebugLevel,
		"ERROR": log.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ResolveLevel(in)
		if err != nil {
			t.Fatalf("ResolveLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ResolveLevel(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ResolveLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDebugEnvWins(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	got, err := ResolveLevel("error")
	if err != nil || got != log.DebugLevel {
		t.Fatalf("ResolveLevel = %s, %v; want debug", got, err)
	}
}

func TestNewWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, log.InfoLevel)

	logger.WithField("user", "1").Info("signed in")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "msg=\"signed in\"") || !strings.Contains(out, "user=1") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestOpenFileAppends(t *testing.T) {
	t.Setenv(DebugEnv, "")
	dir := filepath.Join(t.TempDir(), "nested")

	for i := 0; i < 2; i++ {
		logger, closer, err := OpenFile(dir, "info")
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		logger.Info("started")
		closer.Close()
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "started"); n != 2 {
		t.Errorf("found %d entries, want 2", n)
	}
}
