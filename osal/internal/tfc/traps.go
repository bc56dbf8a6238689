package tfc

import (
	"fmt"
	"os"
	"sync/atomic"
)

// TrapHandler records a reproducibility-trap firing. Traps are a test-only
// facility (spec §4.8.6, §9): firing one does not abort the process, unlike
// a dead-lock Panic, so that test harnesses can collect every violation in a
// run instead of stopping at the first one. The default handler writes to
// stderr; tests typically install one that fails the current *testing.T.
type TrapHandler func(trap string, msg string)

var trapHandler atomic.Value // TrapHandler

func init() {
	trapHandler.Store(TrapHandler(defaultTrapHandler))
}

func defaultTrapHandler(trap, msg string) {
	fmt.Fprintf(os.Stderr, "TFC TRAP [%s]: %s\n", trap, msg)
}

// SetTrapHandler installs h as the trap handler, returning the previous one.
// A nil h restores the default.
func SetTrapHandler(h TrapHandler) TrapHandler {
	prev := trapHandler.Load().(TrapHandler)
	if h == nil {
		h = defaultTrapHandler
	}
	trapHandler.Store(h)
	return prev
}

func fireTrap(trap, msg string) {
	trapHandler.Load().(TrapHandler)(trap, msg)
}

// Traps holds the three independently-armable reproducibility traps from
// gpcc_test/osal/tfc_traps.hpp. All default to disarmed.
type Traps struct {
	blockWithExpiredTimeout      int32
	potentialUnreproducible      int32
	unreproducible               int32
}

const (
	TrapBlockWithExpiredTimeout     = "BlockWithExpiredTimeout"
	TrapPotentialUnreproducible     = "PotentialUnreproducibleBehaviour"
	TrapUnreproducible              = "UnreproducibleBehaviour"
)

func armFlag(f *int32, armed bool) {
	v := int32(0)
	if armed {
		v = 1
	}
	atomic.StoreInt32(f, v)
}

// ArmBlockWithExpiredTimeout arms/disarms the trap fired when a blocking call
// registers a deadline that has already passed.
func (t *Traps) ArmBlockWithExpiredTimeout(armed bool) { armFlag(&t.blockWithExpiredTimeout, armed) }

// ArmPotentialUnreproducibleBehaviour arms/disarms the trap fired when two
// waiters register the exact same absolute deadline.
func (t *Traps) ArmPotentialUnreproducibleBehaviour(armed bool) {
	armFlag(&t.potentialUnreproducible, armed)
}

// ArmUnreproducibleBehaviour arms/disarms the trap fired when a single clock
// advance releases more than one waiter.
func (t *Traps) ArmUnreproducibleBehaviour(armed bool) { armFlag(&t.unreproducible, armed) }

// ResetAll disarms every trap. Intended for test teardown.
func (t *Traps) ResetAll() {
	t.ArmBlockWithExpiredTimeout(false)
	t.ArmPotentialUnreproducibleBehaviour(false)
	t.ArmUnreproducibleBehaviour(false)
}

func (t *Traps) checkExpired(deadline, vTime int64, waiter string) {
	if atomic.LoadInt32(&t.blockWithExpiredTimeout) != 0 && deadline <= vTime {
		fireTrap(TrapBlockWithExpiredTimeout, fmt.Sprintf("waiter %s registered deadline %d <= vTime %d", waiter, deadline, vTime))
	}
}

func (t *Traps) checkDuplicateDeadline(deadline int64, waiter string, dup bool) {
	if atomic.LoadInt32(&t.potentialUnreproducible) != 0 && dup {
		fireTrap(TrapPotentialUnreproducible, fmt.Sprintf("waiter %s shares deadline %d with an existing waiter", waiter, deadline))
	}
}

func (t *Traps) checkSimultaneousRelease(newVTime int64, released int) {
	if atomic.LoadInt32(&t.unreproducible) != 0 && released > 1 {
		fireTrap(TrapUnreproducible, fmt.Sprintf("%d waiters released at vTime %d in a single advance", released, newVTime))
	}
}
