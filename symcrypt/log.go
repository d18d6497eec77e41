package symcrypt

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NopLogger returns a logger that discards everything. Outer layers use it
// when the caller does not supply a logger.
func NopLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
