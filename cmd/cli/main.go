// Command cli is a terminal client for the SYNAPSE assistant. It drives the same
// chat services as the server, without HTTP.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"synapse/internal/config"
	"synapse/internal/domain/models/chat"
	"synapse/internal/repository"
	serviceLLM "synapse/internal/service/llm"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("%sFailed to load config: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Printf("%sFailed to setup logger: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer closeLog()

	ctx := context.Background()
	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("%sFailed to open stores: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer stores.Close()

	llmServices, err := serviceLLM.SetupServices(ctx, stores.Sessions, cfg, logger)
	if err != nil {
		fmt.Printf("%sFailed to setup services: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	cli := &CLI{
		ctx:      ctx,
		chatSvc:  llmServices.Chat,
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
		userID:   cfg.DevUserID,
		mode:     chat.DefaultMode,
		language: chat.DefaultLanguage,
		logger:   logger,
	}
	cli.in.Buffer(make([]byte, 64*1024), config.MaxMessageLength*4)
	cli.run()
}

// setupLogger writes debug logs to a rotated file when LOG_DIR is set, and
// only warnings to stderr otherwise, so the transcript stays readable.
func setupLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogDir == "" {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
		return slog.New(h), func() {}, nil
	}

	f, err := config.OpenCLILogFile(cfg.LogDir, cfg.LogMaxFiles)
	if err != nil {
		return nil, nil, err
	}
	h := slog.NewTextHandler(io.Writer(f), &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format("2006-01-02 15:04:05"))
				}
			}
			return a
		},
	})
	return slog.New(h), func() { _ = f.Close() }, nil
}
