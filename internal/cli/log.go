package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// newLogger creates the CLI logger. Timestamps read "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel picks the level for a run: debug under --verbose, otherwise the
// level named in the config's [log] section.
func logLevel(verbose bool, configured string) (log.Level, error) {
	if verbose {
		return log.DebugLevel, nil
	}
	level, err := log.ParseLevel(configured)
	if err != nil {
		return log.InfoLevel, errs.Wrap(errs.ErrCodeInvalidConfig, err, "log level %q", configured)
	}
	return level, nil
}

// commandLogger prefixes l with the subcommand path, e.g. "cache clear",
// so lines from the server or the pipeline say which command emitted them.
func commandLogger(l *log.Logger, cmd *cobra.Command) *log.Logger {
	if !cmd.HasParent() {
		return l
	}
	return l.WithPrefix(strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "))
}

// progress logs the completion of one command step with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time rounded to
// the millisecond, e.g. "rendered format=svg edges=3 elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() for contexts that never went through the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
