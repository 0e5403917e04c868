package nav

import "sync/atomic"

// debugLoggingEnabled guards the per-plan logs of Planner.Navigate and the
// per-tick logs of Runner.Tick.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging toggles per-plan and per-tick logging. navsim sets it
// when the log level is debug.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether per-plan logging is on. Plans carry
// visited-cell slices that can be large, so callers check it before
// building log attributes.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
