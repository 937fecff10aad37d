package object

import (
	"unsafe"
)

// String is the editor's owning byte buffer: a data pointer and a length,
// matching the C struct word for word. The bytes are expected to be UTF-8
// but that is only enforced when converting to a Go string.
type String struct {
	data *byte
	size uintptr
}

// NewString allocates an owning String holding a copy of s.
func NewString(s string) String {
	if len(s) == 0 {
		return String{}
	}
	return String{
		data: dup(unsafe.Slice(unsafe.StringData(s), len(s))),
		size: uintptr(len(s)),
	}
}

// NewStringFromBytes allocates an owning String holding a copy of b.
func NewStringFromBytes(b []byte) String {
	if len(b) == 0 {
		return String{}
	}
	return String{data: dup(b), size: uintptr(len(b))}
}

// Len returns the length in bytes.
func (s String) Len() int {
	return int(s.size)
}

// Bytes returns a view of the backing memory. The slice aliases the
// container and is invalidated by Free.
func (s String) Bytes() []byte {
	if s.data == nil {
		return nil
	}
	return unsafe.Slice(s.data, s.size)
}

// String copies the contents into a Go string.
func (s String) String() string {
	return string(s.Bytes())
}

// Free releases the backing memory exactly once. The empty String owns
// nothing and Free is a no-op.
func (s String) Free() {
	free(unsafe.Pointer(s.data))
}

// NonOwning returns a call-scoped view sharing s's memory.
func (s String) NonOwning() NonOwning[String] {
	return NonOwning[String]{inner: s}
}

// Clone returns an independent owning copy.
func (s String) Clone() String {
	return NewStringFromBytes(s.Bytes())
}

func (s *String) equal(other *String) bool {
	return string(s.Bytes()) == string(other.Bytes())
}
