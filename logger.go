package ambient

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var loggerPtr atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.Nop()
	loggerPtr.Store(&l)
}

// SetLogger configures the logger used by this package and its
// sub-packages. By default nothing is logged. Pass nil to restore the
// silent default.
//
// Levels used:
//   - debug: curve rebuilds, table compilation, decode decisions
//   - warn: non-sRGB input and other recoverable oddities
func SetLogger(l *zerolog.Logger) {
	if l == nil {
		n := zerolog.Nop()
		l = &n
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *zerolog.Logger {
	return loggerPtr.Load()
}
