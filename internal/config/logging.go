package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// NewLogger builds the process logger: JSON to stdout, debug level in dev,
// and a copy to a rotated file when LOG_DIR is set.
// The returned close func must be called on shutdown.
func NewLogger(cfg *Config, stdout io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Environment == "dev" {
		level = slog.LevelDebug
	}

	out := stdout
	closeFn := func() {}
	if cfg.LogDir != "" {
		f, err := openLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(stdout, f)
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

// openLogFile creates a new timestamped log file named <prefix>-<ts>.log and
// removes the oldest ones so at most maxFiles remain.
func openLogFile(dir, prefix string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.log", prefix, time.Now().Format("2006-01-02T15-04-05")))
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, prefix, maxFiles); err != nil {
		// logging still works, only the cleanup failed
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}
	return f, nil
}

// OpenCLILogFile is openLogFile for the terminal client.
func OpenCLILogFile(dir string, maxFiles int) (*os.File, error) {
	return openLogFile(dir, "cli", maxFiles)
}

func pruneLogs(dir, prefix string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(dir, prefix+"-*.log"))
	if err != nil {
		return err
	}
	if len(files) <= maxFiles {
		return nil
	}

	// timestamped names sort chronologically
	sort.Strings(files)
	for _, name := range files[:len(files)-maxFiles] {
		if err := os.Remove(name); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
