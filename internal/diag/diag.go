// Package diag provides the package-level diagnostic logger every other
// package reaches for on recoverable invalid input (isolated surrogates,
// oversized cluster indices, unknown script/joining, uncovered
// codepoints): log and substitute a neutral value, never fail the call,
// per spec.md §7.
package diag

import (
	"io"

	"github.com/sirupsen/logrus"
)

var logger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger installs l as the process-wide diagnostic logger. Passing nil
// restores the default discard-output logger, so library consumers pay
// nothing unless they opt in.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		logger = newDiscardLogger()
		return
	}
	logger = l
}

// Logger returns the current diagnostic logger.
func Logger() *logrus.Logger { return logger }
