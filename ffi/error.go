package ffi

import (
	"unsafe"

	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/internal/cmem"
)

// ErrorKind is the failure class reported through the error slot.
type ErrorKind int32

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindException
	ErrorKindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "none"
	case ErrorKindException:
		return "exception"
	case ErrorKindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error mirrors the editor's out-parameter error record: a failure class and
// a NUL-terminated message allocated by the editor. The zero value means
// success. A slot is written at most once per call and never reused.
type Error struct {
	kind ErrorKind
	msg  *byte
}

// IsSet reports whether the slot carries a failure.
func (e *Error) IsSet() bool {
	return e.kind != ErrorKindNone
}

// Set writes a failure into the slot. Called by the editor side of the
// boundary (the embedding glue or a test stub), never by plugin code.
func (e *Error) Set(kind ErrorKind, msg string) {
	e.kind = kind
	e.msg = cmem.Dup(append([]byte(msg), 0))
}

// take converts a failed slot into a structured error, releasing the message
// allocation and zeroing the slot.
func (e *Error) take() error {
	msg := cstring(e.msg)
	if e.msg != nil {
		cmem.Free(unsafe.Pointer(e.msg))
	}
	err := errors.Boundary(int(e.kind), msg)
	*e = Error{}
	return err
}

// cstring reads a NUL-terminated byte sequence.
func cstring(p *byte) string {
	if p == nil {
		return ""
	}
	var b []byte
	for i := 0; ; i++ {
		c := *(*byte)(unsafe.Add(unsafe.Pointer(p), i))
		if c == 0 {
			return string(b)
		}
		b = append(b, c)
	}
}
