// Package logging builds the go-kit loggers shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger writing to w, stamped with a UTC timestamp and
// filtered at minLevel (debug, info, warn or error).
func New(w io.Writer, minLevel string) (log.Logger, error) {
	opt, err := levelOption(minLevel)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

// Stderr is New on os.Stderr, falling back to info on an unknown level.
func Stderr(minLevel string) log.Logger {
	logger, err := New(os.Stderr, minLevel)
	if err != nil {
		logger, _ = New(os.Stderr, "info")
		_ = level.Warn(logger).Log("msg", "unknown log level, using info", "level", minLevel)
	}
	return logger
}

// Component tags every line of logger with the component name.
func Component(logger log.Logger, name string) log.Logger {
	if logger == nil {
		return log.NewNopLogger()
	}
	return log.With(logger, "component", name)
}

func levelOption(name string) (level.Option, error) {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unknown log level %q", name)
	}
}
