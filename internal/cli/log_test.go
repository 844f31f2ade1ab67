package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("loaded frames", "frames", 8) }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("playback started") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("playback started") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("phase not in vocabulary", "phase", "closure") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v (%q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestNewLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("loaded frames", "file", "windowed.json")

	out := buf.String()
	if !strings.Contains(out, appName) {
		t.Errorf("log line lacks %q prefix: %q", appName, out)
	}
	if !strings.Contains(out, "file=windowed.json") {
		t.Errorf("log line lacks key/value: %q", out)
	}
}

func TestStopwatch(t *testing.T) {
	var buf bytes.Buffer
	sw := startStopwatch(newLogger(&buf, log.InfoLevel))
	sw.done("frame rendered", "index", 3, "format", "svg")

	out := buf.String()
	for _, want := range []string{"frame rendered", "index=3", "format=svg", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("bare context should yield log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
