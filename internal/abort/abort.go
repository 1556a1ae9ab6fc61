// Package abort reports unrecoverable misuse of the primitives and
// terminates the process.
//
// Counter overflow and similar defects must not unwind: a deferred recover
// could keep running on a wrapped count and free live memory.
package abort

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Handler receives a fatal report. It must not return normally in
// production; test handlers typically panic.
type Handler func(msg string, keyvals ...any)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "rawsync",
	ReportTimestamp: true,
	ReportCaller:    true,
	CallerOffset:    2,
})

var handler atomic.Pointer[Handler]

func init() {
	h := Handler(exit)
	handler.Store(&h)
}

// exit logs at fatal level, which exits with status 1.
func exit(msg string, keyvals ...any) {
	logger.Fatal(msg, keyvals...)
}

// Fatal reports msg with structured key/value pairs and terminates.
func Fatal(msg string, keyvals ...any) {
	(*handler.Load())(msg, keyvals...)
	// A handler that returns must not let the caller continue.
	os.Exit(2)
}

// Swap installs h and returns a function restoring the previous handler.
// Intended for tests.
func Swap(h Handler) (restore func()) {
	prev := handler.Swap(&h)
	return func() { handler.Store(prev) }
}
