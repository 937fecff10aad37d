// Package cmem models the editor's allocator for memory that backs owning
// containers. Every allocation is registered; releasing one twice, or
// releasing a pointer that was never handed out, panics immediately instead
// of corrupting the registry. Release counters are exposed so tests can
// prove that each allocation is released exactly once.
package cmem

import (
	"sync"
	"unsafe"
)

type registry struct {
	blocks map[uintptr]any // pointer -> backing slice, kept alive until Free
	mu     sync.Mutex
	allocs uint64
	frees  uint64
}

var reg = registry{blocks: make(map[uintptr]any)}

// Alloc returns zeroed storage for n values of type T. For n == 0 it
// returns nil, which Free treats as a no-op.
func Alloc[T any](n int) *T {
	if n <= 0 {
		return nil
	}
	s := make([]T, n)
	p := unsafe.Pointer(unsafe.SliceData(s))

	reg.mu.Lock()
	reg.blocks[uintptr(p)] = s
	reg.allocs++
	reg.mu.Unlock()

	return (*T)(p)
}

// Dup allocates a copy of b. Empty input returns nil.
func Dup(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	p := Alloc[byte](len(b))
	copy(unsafe.Slice(p, len(b)), b)
	return p
}

// Free releases an allocation previously returned by Alloc or Dup.
// Freeing nil is a no-op. Freeing twice, or freeing a pointer cmem never
// handed out, is the double-release bug this registry exists to catch.
func Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.blocks[uintptr(p)]; !ok {
		panic("cmem: release of unknown or already-released allocation")
	}
	delete(reg.blocks, uintptr(p))
	reg.frees++
}

// Owned reports whether p is a live cmem allocation.
func Owned(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	_, ok := reg.blocks[uintptr(p)]
	return ok
}

// Live returns the number of outstanding allocations.
func Live() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.blocks)
}

// Counters returns the total allocation and release counts.
func Counters() (allocs, frees uint64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return reg.allocs, reg.frees
}
