package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPruneLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"server-2024-01-01T00-00-00.log",
		"server-2024-01-02T00-00-00.log",
		"server-2024-01-03T00-00-00.log",
		"cli-2024-01-01T00-00-00.log",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}

	if err := pruneLogs(dir, "server", 2); err != nil {
		t.Fatalf("pruneLogs failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Errorf("expected oldest server log to be removed")
	}
	for _, n := range names[1:] {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("expected %s to remain: %v", n, err)
		}
	}
}

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(&Config{Environment: "prod"}, &buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	out := buf.String()
	if bytes.Contains([]byte(out), []byte("hidden")) {
		t.Error("debug record should be filtered outside dev")
	}
	if !bytes.Contains([]byte(out), []byte(`"key":"value"`)) {
		t.Errorf("expected JSON attribute in output, got %s", out)
	}
}
