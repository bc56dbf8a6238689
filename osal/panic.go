package osal

import (
	"fmt"
	"os"
	"sync/atomic"
)

// PanicHandler is invoked by Panic and its overloads. A handler must never
// return; Panic() calls os.Exit/abort-equivalent behaviour itself as a
// backstop if a misbehaving handler returns anyway.
type PanicHandler func(msg string)

var defaultPanicHandler PanicHandler = func(msg string) {
	if msg == "" {
		fmt.Fprint(os.Stderr, "PANIC: No message")
	} else {
		fmt.Fprintf(os.Stderr, "PANIC: %s", msg)
	}
	os.Exit(134) // SIGABRT-equivalent exit status; matches abort()'s convention.
}

var panicHandler atomic.Value // holds PanicHandler

func init() {
	panicHandler.Store(defaultPanicHandler)
}

// GetPanicHandler returns the currently installed panic handler.
func GetPanicHandler() PanicHandler {
	return panicHandler.Load().(PanicHandler)
}

// SetPanicHandler installs a new panic handler, returning the previous one.
// A nil handler restores the default.
func SetPanicHandler(h PanicHandler) PanicHandler {
	prev := GetPanicHandler()
	if h == nil {
		h = defaultPanicHandler
	}
	panicHandler.Store(h)
	return prev
}

// Panic aborts the process via the installed panic handler. This overload
// carries no message and is safe to call from low-memory situations since it
// performs no allocation itself.
func Panic() {
	GetPanicHandler()("")
	defaultPanicHandler("")
}

// PanicMsg aborts the process, passing msg to the installed panic handler.
// Like Panic(), this overload performs no allocation beyond the string
// already supplied by the caller.
func PanicMsg(msg string) {
	GetPanicHandler()(msg)
	defaultPanicHandler(msg)
}

// PanicMsgErr aborts the process with msg and the textual representation of
// err appended. May allocate.
func PanicMsgErr(msg string, err error) {
	full := msg
	if err != nil {
		full = fmt.Sprintf("%s: %v", msg, err)
	}
	GetPanicHandler()(full)
	defaultPanicHandler(full)
}

// PanicLoc aborts the process reporting the file and line of the caller. May
// allocate.
func PanicLoc(file string, line int) {
	msg := fmt.Sprintf("%s:%d", file, line)
	GetPanicHandler()(msg)
	defaultPanicHandler(msg)
}

// PanicLocErr aborts the process reporting the file, line, and an underlying
// error. May allocate.
func PanicLocErr(file string, line int, err error) {
	msg := fmt.Sprintf("%s:%d: %v", file, line, err)
	GetPanicHandler()(msg)
	defaultPanicHandler(msg)
}
