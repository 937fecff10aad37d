package cmem

import (
	"testing"
	"unsafe"
)

func TestAllocFree(t *testing.T) {
	before := Live()

	p := Alloc[byte](16)
	if p == nil {
		t.Fatal("Alloc returned nil for non-zero size")
	}
	if !Owned(unsafe.Pointer(p)) {
		t.Error("allocation not registered")
	}
	if Live() != before+1 {
		t.Errorf("Live = %d, want %d", Live(), before+1)
	}

	Free(unsafe.Pointer(p))
	if Owned(unsafe.Pointer(p)) {
		t.Error("allocation still registered after Free")
	}
	if Live() != before {
		t.Errorf("Live = %d, want %d", Live(), before)
	}
}

func TestAllocZero(t *testing.T) {
	if p := Alloc[byte](0); p != nil {
		t.Error("Alloc(0) should return nil")
	}
	Free(nil) // no-op
}

func TestDup(t *testing.T) {
	src := []byte("hello")
	p := Dup(src)
	if p == nil {
		t.Fatal("Dup returned nil")
	}
	got := unsafe.Slice(p, len(src))
	if string(got) != "hello" {
		t.Errorf("Dup contents = %q, want %q", got, "hello")
	}

	// The copy must be independent of the source.
	src[0] = 'X'
	if got[0] != 'h' {
		t.Error("Dup shares memory with source")
	}

	Free(unsafe.Pointer(p))

	if Dup(nil) != nil {
		t.Error("Dup(nil) should return nil")
	}
}

func TestDoubleFreePanics(t *testing.T) {
	p := Alloc[byte](8)
	Free(unsafe.Pointer(p))

	defer func() {
		if recover() == nil {
			t.Error("second Free did not panic")
		}
	}()
	Free(unsafe.Pointer(p))
}

func TestForeignFreePanics(t *testing.T) {
	var local byte

	defer func() {
		if recover() == nil {
			t.Error("Free of foreign pointer did not panic")
		}
	}()
	Free(unsafe.Pointer(&local))
}

func TestCounters(t *testing.T) {
	a0, f0 := Counters()

	p1 := Alloc[uint64](4)
	p2 := Alloc[uint64](4)
	Free(unsafe.Pointer(p1))
	Free(unsafe.Pointer(p2))

	a1, f1 := Counters()
	if a1-a0 != 2 {
		t.Errorf("allocs delta = %d, want 2", a1-a0)
	}
	if f1-f0 != 2 {
		t.Errorf("frees delta = %d, want 2", f1-f0)
	}
}
