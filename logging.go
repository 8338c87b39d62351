package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
)

type Logger interface {
	Log(format string, args ...any)
}

type stdLogger struct {
	logger *log.Logger
}

func (s *stdLogger) Log(format string, args ...any) {
	s.logger.Printf(format, args...)
}

// runLogger wraps a logger with the run ID prefix.
type runLogger struct {
	id   string
	base Logger
}

func (r *runLogger) Log(format string, args ...any) {
	r.base.Log("[%s] "+format, append([]any{r.id}, args...)...)
}

func generateRunID() string {
	return uuid.New().String()[:8]
}

// setupLogging logs to stdout and, when path is set, appends to that file.
// The returned closer is never nil.
func setupLogging(path string) (Logger, io.Closer, error) {
	if path == "" {
		return &stdLogger{logger: log.New(os.Stdout, "", log.LstdFlags)}, io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &stdLogger{logger: log.New(io.MultiWriter(os.Stdout, f), "", log.LstdFlags)}, f, nil
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Log(string, ...any) {}
