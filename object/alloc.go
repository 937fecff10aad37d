package object

import (
	"unsafe"

	"github.com/nvigo/nvigo/internal/cmem"
)

// All owning containers allocate through cmem, which mirrors the editor's
// allocator and catches double releases.

func dup(b []byte) *byte {
	return cmem.Dup(b)
}

func allocObjects(n int) *Object {
	return cmem.Alloc[Object](n)
}

func allocPairs(n int) *KeyValuePair {
	return cmem.Alloc[KeyValuePair](n)
}

func free(p unsafe.Pointer) {
	cmem.Free(p)
}
