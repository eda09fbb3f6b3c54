package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/planhub/planhub-cli/internal/config"
)

// Init configures the global slog logger. Output goes to a log file under
// the config directory so it never interleaves with command or TUI output.
// With verbose=true the level drops to debug and logs are mirrored to stderr.
func Init(verbose bool) error {
	logDir := filepath.Join(config.GetConfigDir(), "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "planhub.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	out := io.Writer(f)
	if verbose {
		level = slog.LevelDebug
		out = io.MultiWriter(f, os.Stderr)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
