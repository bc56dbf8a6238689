//go:build !tfc

package osal

// DebugStats is a no-op outside a tfc build: there is no virtual clock to
// report on when threads run against the host's real scheduler.
func DebugStats() string { return "tfc build tag not enabled: no virtual clock state to report" }

// DebugStatsSupported reports whether DebugStats returns live TFC state.
func DebugStatsSupported() bool { return false }
