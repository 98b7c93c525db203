package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := Init(Options{File: path, Level: "info"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Log.Debugw("hidden", "k", 1)
	Log.Infow("game over", "score", 40)
	Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "game over") || !strings.Contains(out, "score") {
		t.Errorf("log missing entry: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %q", out)
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	if err := Init(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
