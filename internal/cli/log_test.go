package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")
	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v (output: %q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext() did not return the attached logger")
	}
}

func TestLoggerContextDefault(t *testing.T) {
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext() on empty context returned nil")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	p := newProgress(logger)
	p.done("Generated 8 nodes")

	out := buf.String()
	if !strings.Contains(out, "Generated 8 nodes") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("output %q missing elapsed duration", out)
	}
}
