//go:build tfc

package osal

import (
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/gpcc-go/gpcc/osal/internal/tfc"
	"github.com/gpcc-go/gpcc/osal/tfctest"
)

// These tests only build and run with -tags tfc: they drive real osal.Thread
// goroutines through the virtual clock and check the scenarios spec §8
// names directly (E2, E3, E4, E5), rather than only the internal/tfc unit
// tests covering the same logic in isolation.
//
// Every scenario below starts exactly as many osal.Thread workers as it
// needs and then has the test goroutine itself Join exactly one of them.
// That Join is not incidental: liveThreads counts the process's initial
// goroutine (registered once, at package init, since it is never passed
// through Thread.Start) plus every started Thread, but that initial
// goroutine spends the whole test parked inside the testing package's own
// bookkeeping and never calls an OSAL primitive -- so it can never
// contribute to blockedThreads. The test goroutine's own Join call is what
// stands in for it, making "every live thread blocked" actually reachable.
// A second Join on an already-finished thread would not be safe (TFC has no
// way to tell "this will return immediately" from "this thread is the last
// one left and will never come back"), so any second worker in a scenario
// reports its own completion over a plain channel instead of via Join.

func TestConditionVariableTimeoutAdvancesClockExactly(t *testing.T) {
	tfctest.ResetAll()
	defer tfctest.ResetAll()

	var m Mutex
	var cv ConditionVariable
	before := GetTime(Monotonic)
	deadline := before.Add(100 * time.Millisecond)

	w := NewThread("cv-waiter")
	if err := w.Start(func() interface{} {
		m.Lock()
		timedOut := cv.TimeLimitedWait(&m, deadline)
		m.Unlock()
		return timedOut
	}, SchedOther, 0, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	exitVal, err := w.Join()
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if timedOut, ok := exitVal.(bool); !ok || !timedOut {
		t.Fatalf("TimeLimitedWait returned %v, want timedOut=true", exitVal)
	}

	after := GetTime(Monotonic)
	if got := after.Sub(before); got != 100*time.Millisecond {
		t.Fatalf("vTime advanced by %v, want exactly 100ms", got)
	}
}

func TestConditionVariableBlockWithExpiredTimeoutFiresTrap(t *testing.T) {
	tfctest.ResetAll()
	defer tfctest.ResetAll()

	var gotTrap string
	prevHandler := tfc.SetTrapHandler(func(trap, msg string) { gotTrap = trap })
	defer tfc.SetTrapHandler(prevHandler)
	tfctest.ArmBlockWithExpiredTimeout(true)

	var m Mutex
	var cv ConditionVariable
	before := GetTime(Monotonic)
	alreadyPast := before.Add(-1 * time.Millisecond)

	w := NewThread("expired-waiter")
	if err := w.Start(func() interface{} {
		m.Lock()
		timedOut := cv.TimeLimitedWait(&m, alreadyPast)
		m.Unlock()
		return timedOut
	}, SchedOther, 0, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	exitVal, err := w.Join()
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if timedOut, ok := exitVal.(bool); !ok || !timedOut {
		t.Fatalf("TimeLimitedWait returned %v, want timedOut=true", exitVal)
	}
	if gotTrap != tfc.TrapBlockWithExpiredTimeout {
		t.Fatalf("trap fired = %q, want %q", gotTrap, tfc.TrapBlockWithExpiredTimeout)
	}
	if after := GetTime(Monotonic); after.Before(before) {
		t.Fatalf("vTime retreated: before=%v after=%v", before, after)
	}
}

func TestSimultaneousSameDeadlineSleepsFireBothReproducibilityTraps(t *testing.T) {
	tfctest.ResetAll()
	defer tfctest.ResetAll()

	var traps []string
	prevHandler := tfc.SetTrapHandler(func(trap, msg string) { traps = append(traps, trap) })
	defer tfc.SetTrapHandler(prevHandler)
	tfctest.ArmPotentialUnreproducibleBehaviour(true)
	tfctest.ArmUnreproducibleBehaviour(true)

	const sleepMs = 10
	w1Ready := make(chan struct{})
	w2Done := make(chan struct{})

	w1 := NewThread("sleeper-one")
	if err := w1.Start(func() interface{} {
		close(w1Ready)
		Sleep_ms(sleepMs)
		return nil
	}, SchedOther, 0, 0); err != nil {
		t.Fatalf("Start w1: %v", err)
	}

	w2 := NewThread("sleeper-two")
	if err := w2.Start(func() interface{} {
		<-w1Ready // both threads must register the same deadline: nothing may advance vTime between their two Sleep_ms calls
		Sleep_ms(sleepMs)
		close(w2Done)
		return nil
	}, SchedOther, 0, 0); err != nil {
		t.Fatalf("Start w2: %v", err)
	}

	if _, err := w1.Join(); err != nil {
		t.Fatalf("Join w1: %v", err)
	}
	<-w2Done

	foundPotential, foundActual := false, false
	for _, trap := range traps {
		switch trap {
		case tfc.TrapPotentialUnreproducible:
			foundPotential = true
		case tfc.TrapUnreproducible:
			foundActual = true
		}
	}
	if !foundPotential {
		t.Fatalf("traps fired = %v, want %q among them", traps, tfc.TrapPotentialUnreproducible)
	}
	if !foundActual {
		t.Fatalf("traps fired = %v, want %q among them", traps, tfc.TrapUnreproducible)
	}
}

// TestDeadlockHelperProcess is not a real test on its own: it is invoked as
// a subprocess by TestDeadlockPanicsWithCanonicalMessage, because a genuine
// dead-lock always terminates the process via the default (non-overridable)
// panic handler (spec §4.8 "Failure mode") -- running it in-process would
// kill the whole test binary instead of letting the test observe the
// outcome.
func TestDeadlockHelperProcess(t *testing.T) {
	if os.Getenv("OSAL_TFC_DEADLOCK_HELPER") != "1" {
		t.Skip("only runs as a subprocess of TestDeadlockPanicsWithCanonicalMessage")
	}

	var mA, mB Mutex
	aHasMA := make(chan struct{})
	bHasMB := make(chan struct{})

	thA := NewThread("deadlock-a")
	if err := thA.Start(func() interface{} {
		mA.Lock()
		close(aHasMA)
		<-bHasMB
		mB.Lock() // never returns: B holds mB and is itself stuck waiting on A
		return nil
	}, SchedOther, 0, 0); err != nil {
		t.Fatalf("Start A: %v", err)
	}

	thB := NewThread("deadlock-b")
	if err := thB.Start(func() interface{} {
		mB.Lock()
		close(bHasMB)
		<-aHasMA
		mA.Lock() // never returns: A holds mA and is itself stuck waiting on B
		return nil
	}, SchedOther, 0, 0); err != nil {
		t.Fatalf("Start B: %v", err)
	}

	thA.Join() // the third blocked participant that completes "every live thread blocked"
	t.Fatal("unreachable: TFC should have aborted the process before Join returned")
}

func TestDeadlockPanicsWithCanonicalMessage(t *testing.T) {
	if os.Getenv("OSAL_TFC_DEADLOCK_HELPER") == "1" {
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestDeadlockHelperProcess$")
	cmd.Env = append(os.Environ(), "OSAL_TFC_DEADLOCK_HELPER=1")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected the dead-lock scenario to abort the subprocess; it exited cleanly:\n%s", out)
	}
	const want = "PANIC: Dead-Lock detected. All threads permanently blocked."
	if !strings.Contains(string(out), want) {
		t.Fatalf("subprocess output = %q, want it to contain %q", out, want)
	}
}
