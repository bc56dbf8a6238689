package osal

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID extracts the numeric id of the calling goroutine from its
// stack trace header ("goroutine 123 [running]:"). The Go runtime exposes no
// public API for this; OSAL needs it only to let a running entry function
// look up the *Thread object that represents it (CurrentThread), mirroring
// pthread_self() on hosts that have real thread-local storage.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if i := bytes.Index(b, []byte(prefix)); i >= 0 {
		b = b[i+len(prefix):]
	}
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
