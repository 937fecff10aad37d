package bridge

import (
	"github.com/nvigo/nvigo/object"
)

// ObjectEncoder is implemented by types that encode themselves. The
// returned Object is owning and the caller releases it.
type ObjectEncoder interface {
	EncodeObject() (object.Object, error)
}

// ObjectDecoder is implemented by types that decode themselves from a
// borrowed Object. Implementations must not free or retain the argument.
type ObjectDecoder interface {
	DecodeObject(object.Object) error
}

// Enum is implemented by integer-backed types whose values serialize to
// the declared variant name as a String object. The value's underlying
// integer indexes Variants.
type Enum interface {
	Variants() []string
}

// Union marks a struct as a tagged union: exactly one of its case fields
// (all pointers) is set at a time. Embed it as the first field.
type Union struct{}

// Encode converts v into an owning Object. The caller releases the result.
func Encode(v any) (object.Object, error) {
	return encodeValue(valueOf(v), nil)
}

// Decode converts a borrowed Object into *target. On error target keeps its
// prior value and the error's path locates the offending field; the source
// Object is never freed or retained.
func Decode(o object.Object, target any) error {
	return decodeInto(o, targetOf(target), nil)
}
