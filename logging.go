package syncx

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger is where swallowed target failures (panics in threads, tasks
// and pool workers) are reported. Components accept their own logger via
// options; this is only the fallback.
var defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetDefaultLogger replaces the package-wide fallback logger. Call it once
// during process start-up, before any threads or pools are created; it is not
// synchronized against running components.
func SetDefaultLogger(l zerolog.Logger) {
	defaultLogger = l
}
