package core

// DebugMode controls whether the framework surfaces developer diagnostics:
// detailed build error output and configuration warnings that are suppressed
// in production builds.
var DebugMode = true

// SetDebugMode enables or disables debug mode for the framework.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
