package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Lines carry the app name and a
// timestamp to the hundredth of a second, e.g.
//
//	14:32:01.45 INFO rankplay: frame rendered index=3 elapsed=120ms
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// stopwatch times one CLI step, such as rendering a frame, and logs it with
// an elapsed key when the step finishes.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time in
// milliseconds.
func (s stopwatch) done(msg string, keyvals ...any) {
	elapsed := time.Since(s.start).Round(time.Millisecond)
	s.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type loggerKey struct{}

// withLogger attaches l to ctx for the command run.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() for commands run without the root command's setup.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
