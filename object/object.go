package object

import (
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// CallbackRef is an opaque reference to a host-side invocable registered
// with the editor. It is valid only for the lifetime of the registration
// that produced it.
type CallbackRef int32

// Object is the tagged value exchanged with the editor. Its layout mirrors
// the editor's C struct: a 4-byte tag, 4 bytes of padding, and a 24-byte
// union payload sized by the Array and Dictionary headers.
//
// The zero value is the Nil object.
type Object struct {
	kind Kind
	_    int32
	data [3]uint64
}

// Kind returns the active discriminant. It is total and side-effect free.
func (o Object) Kind() Kind {
	return o.kind
}

// Unchecked payload accessors. Calling one whose variant does not match the
// tag is a contract violation, not a recoverable error: they are unexported
// and every public path matches on Kind first.

func (o *Object) asBooleanUnchecked() bool {
	return o.data[0] != 0
}

func (o *Object) asIntegerUnchecked() int64 {
	return int64(o.data[0])
}

func (o *Object) asFloatUnchecked() float64 {
	return math.Float64frombits(o.data[0])
}

func (o *Object) asCallbackUnchecked() CallbackRef {
	return CallbackRef(int64(o.data[0]))
}

func (o *Object) asStringUnchecked() *String {
	return (*String)(unsafe.Pointer(&o.data))
}

func (o *Object) asArrayUnchecked() *Array {
	return (*Array)(unsafe.Pointer(&o.data))
}

func (o *Object) asDictionaryUnchecked() *Dictionary {
	return (*Dictionary)(unsafe.Pointer(&o.data))
}

// Constructors. Each selects the matching discriminant and always succeeds.
// Container constructors take ownership of their argument: the container
// must not be freed separately afterwards.

// Nil returns the nil Object.
func Nil() Object {
	return Object{}
}

// FromBool returns a Boolean object.
func FromBool(b bool) Object {
	o := Object{kind: KindBoolean}
	if b {
		o.data[0] = 1
	}
	return o
}

// FromInteger returns an Integer object.
func FromInteger(n int64) Object {
	o := Object{kind: KindInteger}
	o.data[0] = uint64(n)
	return o
}

// FromFloat returns a Float object.
func FromFloat(f float64) Object {
	o := Object{kind: KindFloat}
	o.data[0] = math.Float64bits(f)
	return o
}

// FromGoString returns a String object owning a fresh copy of s.
func FromGoString(s string) Object {
	return FromString(NewString(s))
}

// FromString returns a String object taking ownership of s.
func FromString(s String) Object {
	o := Object{kind: KindString}
	*o.asStringUnchecked() = s
	return o
}

// FromArray returns an Array object taking ownership of a.
func FromArray(a Array) Object {
	o := Object{kind: KindArray}
	*o.asArrayUnchecked() = a
	return o
}

// FromDictionary returns a Dictionary object taking ownership of d.
func FromDictionary(d Dictionary) Object {
	o := Object{kind: KindDictionary}
	*o.asDictionaryUnchecked() = d
	return o
}

// FromCallback returns a Callback object referencing ref.
func FromCallback(ref CallbackRef) Object {
	o := Object{kind: KindCallback}
	o.data[0] = uint64(int64(ref))
	return o
}

// FromHandle returns an object of one of the handle kinds backed by id.
// Passing a non-handle kind panics: the caller selects the kind statically.
func FromHandle(kind Kind, id int32) Object {
	if !kind.isHandle() {
		panic("object: FromHandle with non-handle kind " + kind.String())
	}
	o := Object{kind: kind}
	o.data[0] = uint64(int64(id))
	return o
}

// Free releases the object's owned memory exactly once, depth first.
// Scalar kinds own nothing. The object is reset to Nil so that a later
// accidental Free is a no-op rather than a double release.
func (o *Object) Free() {
	switch o.kind {
	case KindString:
		o.asStringUnchecked().Free()
	case KindArray:
		o.asArrayUnchecked().Free()
	case KindDictionary:
		o.asDictionaryUnchecked().Free()
	}
	*o = Object{}
}

// NonOwning returns a call-scoped view of o. The view shares o's memory,
// exposes no Free, and must not outlive the foreign call it is passed to.
func (o Object) NonOwning() NonOwning[Object] {
	return NonOwning[Object]{inner: o}
}

// Clone returns an independent owning deep copy of o.
func (o Object) Clone() Object {
	switch o.kind {
	case KindString:
		return FromString(o.asStringUnchecked().Clone())
	case KindArray:
		return FromArray(o.asArrayUnchecked().Clone())
	case KindDictionary:
		return FromDictionary(o.asDictionaryUnchecked().Clone())
	default:
		return o
	}
}

// Equal reports deep structural equality. Dictionaries compare by pair
// order, matching the wire representation.
func (o Object) Equal(other Object) bool {
	if o.kind != other.kind {
		return false
	}
	switch o.kind {
	case KindNil:
		return true
	case KindString:
		return o.asStringUnchecked().equal(other.asStringUnchecked())
	case KindArray:
		return o.asArrayUnchecked().equal(other.asArrayUnchecked())
	case KindDictionary:
		return o.asDictionaryUnchecked().equal(other.asDictionaryUnchecked())
	default:
		return o.data[0] == other.data[0]
	}
}

// String renders the object for diagnostics.
func (o Object) String() string {
	switch o.kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return fmt.Sprintf("%v", o.asBooleanUnchecked())
	case KindInteger:
		return fmt.Sprintf("%d", o.asIntegerUnchecked())
	case KindFloat:
		return fmt.Sprintf("%g", o.asFloatUnchecked())
	case KindString:
		return fmt.Sprintf("%q", o.asStringUnchecked().String())
	case KindCallback:
		return fmt.Sprintf("callback(%d)", o.asCallbackUnchecked())
	case KindBuffer, KindWindow, KindTabPage:
		return fmt.Sprintf("%s(%d)", o.kind, o.asIntegerUnchecked())
	case KindArray:
		a := o.asArrayUnchecked()
		parts := make([]string, a.Len())
		for i, item := range a.Items() {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDictionary:
		d := o.asDictionaryUnchecked()
		parts := make([]string, d.Len())
		for i, kv := range d.Pairs() {
			parts[i] = fmt.Sprintf("%q: %s", kv.Key(), kv.Value().String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "unknown"
	}
}
