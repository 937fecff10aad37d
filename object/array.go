package object

import (
	"unsafe"
)

// Array is the editor's owning ordered list of Objects: length, capacity
// and an items pointer, matching the C struct word for word.
type Array struct {
	size     uintptr
	capacity uintptr
	items    *Object
}

// NewArray allocates an owning Array taking ownership of items. The passed
// Objects must not be freed separately afterwards.
func NewArray(items ...Object) Array {
	if len(items) == 0 {
		return Array{}
	}
	p := allocObjects(len(items))
	copy(unsafe.Slice(p, len(items)), items)
	return Array{
		size:     uintptr(len(items)),
		capacity: uintptr(len(items)),
		items:    p,
	}
}

// Len returns the number of elements.
func (a Array) Len() int {
	return int(a.size)
}

// Items returns a view of the backing elements. The slice aliases the
// container: elements are borrowed, not transferred, and the slice is
// invalidated by Free.
func (a Array) Items() []Object {
	if a.items == nil {
		return nil
	}
	return unsafe.Slice(a.items, a.size)
}

// Get returns a borrowed view of the i-th element.
func (a Array) Get(i int) Object {
	return a.Items()[i]
}

// Free releases the elements depth first, then the backing memory, each
// exactly once.
func (a Array) Free() {
	for i, items := 0, a.Items(); i < len(items); i++ {
		items[i].Free()
	}
	free(unsafe.Pointer(a.items))
}

// NonOwning returns a call-scoped view sharing a's memory.
func (a Array) NonOwning() NonOwning[Array] {
	return NonOwning[Array]{inner: a}
}

// Clone returns an independent owning deep copy.
func (a Array) Clone() Array {
	items := a.Items()
	if len(items) == 0 {
		return Array{}
	}
	p := allocObjects(len(items))
	out := unsafe.Slice(p, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return Array{size: a.size, capacity: a.size, items: p}
}

func (a *Array) equal(other *Array) bool {
	if a.size != other.size {
		return false
	}
	bs := other.Items()
	for i, item := range a.Items() {
		if !item.Equal(bs[i]) {
			return false
		}
	}
	return true
}
