//go:build tfc

package osal

import "github.com/gpcc-go/gpcc/osal/internal/tfc"

// DebugStats returns a snapshot of the virtual clock and thread bookkeeping,
// for diagnostic tools (spec E1/E6). It is only meaningful under the tfc
// build; see DebugStatsSupported.
func DebugStats() string { return tfc.Get().Stats().String() }

// DebugStatsSupported reports whether DebugStats returns live TFC state.
func DebugStatsSupported() bool { return true }
