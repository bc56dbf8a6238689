package osal

import (
	"fmt"
	"os"
	"testing"
)

// TestMain installs a panic handler that unwinds via Go's panic/recover
// instead of aborting the process, so individual tests can assert on a
// programming-error Panic with a plain recover() rather than needing to run
// in a subprocess. This only ever shadows the *default* osal.PanicHandler;
// it has no effect on the TFC core's dead-lock panic path, which always
// bypasses whatever is installed here (see internal/tfc's PanicFunc).
func TestMain(m *testing.M) {
	SetPanicHandler(func(msg string) { panic(fmt.Sprintf("osal panic: %s", msg)) })
	os.Exit(m.Run())
}
