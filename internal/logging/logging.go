// Package logging sets up the file logger shared by all commands. Console
// output stays on the ui package; the file carries the run lifecycle for
// later inspection.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Init opens path for appending and returns a logger writing to it plus a
// close function. An empty path disables file logging.
func Init(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return log, f.Close, nil
}
