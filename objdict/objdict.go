// Package objdict is an in-memory CANopen-style object dictionary with a
// remote-access request/response path: callers compose a ReadRequest or
// WriteRequest, hand it to a Dictionary, and get back a Response carrying
// either data or an error code. Every WriteRequest that is actually applied
// is appended to a SQL-backed audit log (see AuditLog) when one is
// configured.
package objdict

import (
	"fmt"
	"sync"
)

// AccessAttr is a bitmask of permitted access types for an Object, mirroring
// CANopen's attr_ACCESS_xxx flags.
type AccessAttr uint8

const (
	AttrAccessRD AccessAttr = 1 << iota
	AttrAccessWR
)

// Object is one addressable entry of the dictionary, identified by
// (Index, Subindex).
type Object struct {
	Index      uint16
	Subindex   uint8
	Attributes AccessAttr
	Data       []byte
}

type objKey struct {
	index    uint16
	subindex uint8
}

// ErrorCode mirrors a subset of CANopen SDO abort codes relevant to this
// dictionary's own validation (permission, size, existence); a real CANopen
// stack would map these to the wire-level abort codes itself.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrObjectDoesNotExist
	ErrSubindexDoesNotExist
	ErrAccessDenied
	ErrDataTypeLengthMismatch
)

func (e ErrorCode) Error() string {
	switch e {
	case ErrNone:
		return "no error"
	case ErrObjectDoesNotExist:
		return "object does not exist"
	case ErrSubindexDoesNotExist:
		return "subindex does not exist"
	case ErrAccessDenied:
		return "access denied"
	case ErrDataTypeLengthMismatch:
		return "data type length mismatch"
	default:
		return "unknown error"
	}
}

// ReadRequest asks for the current value of one object.
type ReadRequest struct {
	Index    uint16
	Subindex uint8
}

// WriteRequest asks to overwrite the value of one object; Permissions is
// the set of access rights the originator of the request is asserting it
// holds, checked against the object's own Attributes.
type WriteRequest struct {
	Index       uint16
	Subindex    uint8
	Permissions AccessAttr
	Data        []byte
}

// Response is the result of a ReadRequest or WriteRequest.
type Response struct {
	Err  ErrorCode
	Data []byte // only set for a successful read
}

// Dictionary is an in-memory collection of Objects, safe for concurrent use
// (multiple remote-access requests arrive from distinct threads).
type Dictionary struct {
	mu      sync.RWMutex
	objects map[objKey]*Object
	audit   *AuditLog // nil disables auditing
}

// NewDictionary returns an empty Dictionary. audit may be nil.
func NewDictionary(audit *AuditLog) *Dictionary {
	return &Dictionary{objects: make(map[objKey]*Object), audit: audit}
}

// Add registers obj, overwriting any previous object at the same
// (Index, Subindex).
func (d *Dictionary) Add(obj Object) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := obj
	d.objects[objKey{obj.Index, obj.Subindex}] = &cp
}

// Read executes r against the dictionary.
func (d *Dictionary) Read(r ReadRequest) Response {
	d.mu.RLock()
	defer d.mu.RUnlock()
	obj, ok := d.objects[objKey{r.Index, r.Subindex}]
	if !ok {
		return Response{Err: ErrObjectDoesNotExist}
	}
	if obj.Attributes&AttrAccessRD == 0 {
		return Response{Err: ErrAccessDenied}
	}
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	return Response{Data: data}
}

// Write executes r against the dictionary. A successful write is appended
// to the dictionary's audit log, if one was configured.
func (d *Dictionary) Write(r WriteRequest) Response {
	d.mu.Lock()
	obj, ok := d.objects[objKey{r.Index, r.Subindex}]
	if !ok {
		d.mu.Unlock()
		return Response{Err: ErrObjectDoesNotExist}
	}
	if obj.Attributes&AttrAccessWR == 0 || r.Permissions&AttrAccessWR == 0 {
		d.mu.Unlock()
		return Response{Err: ErrAccessDenied}
	}
	if len(r.Data) != len(obj.Data) {
		d.mu.Unlock()
		return Response{Err: ErrDataTypeLengthMismatch}
	}
	obj.Data = append([]byte(nil), r.Data...)
	d.mu.Unlock()

	if d.audit != nil {
		d.audit.Record(r)
	}
	return Response{}
}

func (k objKey) String() string { return fmt.Sprintf("%04X:%02X", k.index, k.subindex) }
