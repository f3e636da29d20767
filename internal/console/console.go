// Package console owns the debug logger used to trace external commands.
//
// User-facing output goes through the printer package; this logger only
// speaks up under --verbose.
package console

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	logger = newLogger(os.Stderr)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}

// Logger returns the shared debug logger.
func Logger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetVerbose raises the log level to debug.
func SetVerbose(verbose bool) {
	level := logrus.WarnLevel
	if verbose {
		level = logrus.DebugLevel
	}
	Logger().SetLevel(level)
}

// SetNoColor disables colored log levels.
func SetNoColor(noColor bool) {
	Logger().SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    noColor,
	})
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}
