package object

import (
	"unsafe"
)

// KeyValuePair is one dictionary entry: an owning String key and an Object
// value, matching the C struct word for word.
type KeyValuePair struct {
	key   String
	value Object
}

// Pair builds an entry owning a fresh copy of key and taking ownership of
// value.
func Pair(key string, value Object) KeyValuePair {
	return KeyValuePair{key: NewString(key), value: value}
}

// Key copies the entry's key into a Go string.
func (kv KeyValuePair) Key() string {
	return kv.key.String()
}

// Value returns a borrowed view of the entry's value.
func (kv KeyValuePair) Value() Object {
	return kv.value
}

// Free releases the entry's key and value. Only entries that have not been
// handed to a Dictionary are freed directly; NewDictionary takes ownership.
func (kv KeyValuePair) Free() {
	kv.key.Free()
	kv.value.Free()
}

// Dictionary is the editor's owning ordered list of key/value pairs.
// Insertion order is preserved and duplicate keys are structurally
// permitted; lookup returns the first match.
type Dictionary struct {
	size     uintptr
	capacity uintptr
	items    *KeyValuePair
}

// NewDictionary allocates an owning Dictionary taking ownership of pairs.
func NewDictionary(pairs ...KeyValuePair) Dictionary {
	if len(pairs) == 0 {
		return Dictionary{}
	}
	p := allocPairs(len(pairs))
	copy(unsafe.Slice(p, len(pairs)), pairs)
	return Dictionary{
		size:     uintptr(len(pairs)),
		capacity: uintptr(len(pairs)),
		items:    p,
	}
}

// Len returns the number of entries.
func (d Dictionary) Len() int {
	return int(d.size)
}

// Pairs returns a view of the backing entries. The slice aliases the
// container and is invalidated by Free.
func (d Dictionary) Pairs() []KeyValuePair {
	if d.items == nil {
		return nil
	}
	return unsafe.Slice(d.items, d.size)
}

// Get returns a borrowed view of the first value stored under key.
func (d Dictionary) Get(key string) (Object, bool) {
	for _, kv := range d.Pairs() {
		if string(kv.key.Bytes()) == key {
			return kv.value, true
		}
	}
	return Object{}, false
}

// Free releases the keys and values depth first, then the backing memory,
// each exactly once.
func (d Dictionary) Free() {
	for i, pairs := 0, d.Pairs(); i < len(pairs); i++ {
		pairs[i].key.Free()
		pairs[i].value.Free()
	}
	free(unsafe.Pointer(d.items))
}

// NonOwning returns a call-scoped view sharing d's memory.
func (d Dictionary) NonOwning() NonOwning[Dictionary] {
	return NonOwning[Dictionary]{inner: d}
}

// Clone returns an independent owning deep copy.
func (d Dictionary) Clone() Dictionary {
	pairs := d.Pairs()
	if len(pairs) == 0 {
		return Dictionary{}
	}
	p := allocPairs(len(pairs))
	out := unsafe.Slice(p, len(pairs))
	for i, kv := range pairs {
		out[i] = KeyValuePair{key: kv.key.Clone(), value: kv.value.Clone()}
	}
	return Dictionary{size: d.size, capacity: d.size, items: p}
}

func (d *Dictionary) equal(other *Dictionary) bool {
	if d.size != other.size {
		return false
	}
	bs := other.Pairs()
	for i, kv := range d.Pairs() {
		if !kv.key.equal(&bs[i].key) || !kv.value.Equal(bs[i].value) {
			return false
		}
	}
	return true
}
