//go:build tfc

// Package tfctest exposes the independently-armable reproducibility traps
// described in spec §4.8 so tests can assert that time-flow-controlled code
// under test never relies on real wall-clock behaviour. It is a no-op under
// the default (non-tfc) build.
package tfctest

import "github.com/gpcc-go/gpcc/osal/internal/tfc"

// ArmBlockWithExpiredTimeout arms (or disarms) the trap that fires when a
// blocking call is entered with a deadline that has already elapsed in
// vTime. Firing calls the installed TrapHandler; it never aborts the
// process, unlike a genuine dead-lock Panic.
func ArmBlockWithExpiredTimeout(armed bool) {
	tfc.Get().Traps.ArmBlockWithExpiredTimeout(armed)
}

// ArmPotentialUnreproducibleBehaviour arms (or disarms) the trap that fires
// when two or more waiters are registered with the exact same absolute
// deadline: their relative wake order is host-scheduler dependent, so a
// test relying on it would not reproduce.
func ArmPotentialUnreproducibleBehaviour(armed bool) {
	tfc.Get().Traps.ArmPotentialUnreproducibleBehaviour(armed)
}

// ArmUnreproducibleBehaviour arms (or disarms) the trap that fires when a
// single clock advance releases more than one waiter simultaneously.
func ArmUnreproducibleBehaviour(armed bool) {
	tfc.Get().Traps.ArmUnreproducibleBehaviour(armed)
}

// ResetAll disarms every trap. Call it from test teardown so traps armed by
// one test never leak into the next.
func ResetAll() {
	tfc.Get().Traps.ResetAll()
}
