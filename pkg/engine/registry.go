package engine

import "sync"

var (
	defaultMu     sync.RWMutex
	defaultEngine Engine
)

// SetDefault installs the process-wide engine used when a widget does
// not name one explicitly. Called once during startup wiring; tests
// swap in fakes and restore the previous value on cleanup.
func SetDefault(e Engine) {
	defaultMu.Lock()
	defaultEngine = e
	defaultMu.Unlock()
}

// Default returns the engine installed by SetDefault, or nil when none
// has been wired.
func Default() Engine {
	defaultMu.RLock()
	e := defaultEngine
	defaultMu.RUnlock()
	return e
}
