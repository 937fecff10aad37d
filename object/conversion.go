package object

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/nvigo/nvigo/errors"
)

// Checked conversions between Objects and Go values. Decoders borrow their
// argument and never free it; a failed decode never populates a partial
// result.

// SignedInt is the set of signed integer types decodable from the Integer
// payload.
type SignedInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInt is the set of unsigned integer types decodable from the
// Integer payload with a non-negative range check.
type UnsignedInt interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ToNil succeeds iff o is Nil.
func ToNil(o Object) error {
	if o.Kind() != KindNil {
		return errors.WrongKind(errors.PhaseDecode, nil, KindNil.String(), o.Kind().String())
	}
	return nil
}

// ToBool decodes a Boolean object.
func ToBool(o Object) (bool, error) {
	if o.Kind() != KindBoolean {
		return false, errors.WrongKind(errors.PhaseDecode, nil, KindBoolean.String(), o.Kind().String())
	}
	return o.asBooleanUnchecked(), nil
}

// ToInteger decodes the full 64-bit integer payload. The handle kinds are
// integer-backed and decode as well.
func ToInteger(o Object) (int64, error) {
	switch o.Kind() {
	case KindInteger, KindBuffer, KindWindow, KindTabPage:
		return o.asIntegerUnchecked(), nil
	default:
		return 0, errors.WrongKind(errors.PhaseDecode, nil, KindInteger.String(), o.Kind().String())
	}
}

// ToInt decodes an Integer object into any signed integer type, failing
// with a range error when the value does not fit.
func ToInt[T SignedInt](o Object) (T, error) {
	n, err := ToInteger(o)
	if err != nil {
		var zero T
		return zero, err
	}
	t := T(n)
	if int64(t) != n {
		var zero T
		return zero, errors.Overflow(errors.PhaseDecode, nil, n, typeName(zero))
	}
	return t, nil
}

// ToUint decodes an Integer object into any unsigned integer type, failing
// with a range error on negative values or overflow.
func ToUint[T UnsignedInt](o Object) (T, error) {
	n, err := ToInteger(o)
	if err != nil {
		var zero T
		return zero, err
	}
	if n < 0 {
		var zero T
		return zero, errors.Overflow(errors.PhaseDecode, nil, n, typeName(zero))
	}
	t := T(uint64(n))
	if uint64(t) != uint64(n) {
		var zero T
		return zero, errors.Overflow(errors.PhaseDecode, nil, n, typeName(zero))
	}
	return t, nil
}

// ToFloat decodes a Float object.
func ToFloat(o Object) (float64, error) {
	if o.Kind() != KindFloat {
		return 0, errors.WrongKind(errors.PhaseDecode, nil, KindFloat.String(), o.Kind().String())
	}
	return o.asFloatUnchecked(), nil
}

// ToGoString decodes a String object into a Go string, validating the
// text encoding.
func ToGoString(o Object) (string, error) {
	if o.Kind() != KindString {
		return "", errors.WrongKind(errors.PhaseDecode, nil, KindString.String(), o.Kind().String())
	}
	b := o.asStringUnchecked().Bytes()
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, nil, b)
	}
	return string(b), nil
}

// ToBytes decodes a String object into an independent byte slice. Unlike
// ToGoString it accepts arbitrary binary content.
func ToBytes(o Object) ([]byte, error) {
	if o.Kind() != KindString {
		return nil, errors.WrongKind(errors.PhaseDecode, nil, KindString.String(), o.Kind().String())
	}
	b := o.asStringUnchecked().Bytes()
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ToArrayView decodes an Array object into a borrowed view of its
// elements. The view aliases o and is invalidated when o is freed.
func ToArrayView(o Object) ([]Object, error) {
	if o.Kind() != KindArray {
		return nil, errors.WrongKind(errors.PhaseDecode, nil, KindArray.String(), o.Kind().String())
	}
	return o.asArrayUnchecked().Items(), nil
}

// ToDictionaryView decodes a Dictionary object into a borrowed view of its
// entries. The view aliases o and is invalidated when o is freed.
func ToDictionaryView(o Object) ([]KeyValuePair, error) {
	if o.Kind() != KindDictionary {
		return nil, errors.WrongKind(errors.PhaseDecode, nil, KindDictionary.String(), o.Kind().String())
	}
	return o.asDictionaryUnchecked().Pairs(), nil
}

// ToCallback decodes a Callback object.
func ToCallback(o Object) (CallbackRef, error) {
	if o.Kind() != KindCallback {
		return 0, errors.WrongKind(errors.PhaseDecode, nil, KindCallback.String(), o.Kind().String())
	}
	return o.asCallbackUnchecked(), nil
}

// ToHandle decodes an object of a specific handle kind into its identifier.
func ToHandle(o Object, kind Kind) (int32, error) {
	if o.Kind() != kind {
		return 0, errors.WrongKind(errors.PhaseDecode, nil, kind.String(), o.Kind().String())
	}
	return int32(o.asIntegerUnchecked()), nil
}

// ToOption decodes Nil into absent (nil pointer); anything else goes
// through decode. A present value of the wrong kind is still a hard error,
// never silently treated as absent.
func ToOption[T any](o Object, decode func(Object) (T, error)) (*T, error) {
	if o.Kind() == KindNil {
		return nil, nil
	}
	v, err := decode(o)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ToSlice decodes an Array object element-wise, aborting on the first
// element error with no partial result.
func ToSlice[T any](o Object, decode func(Object) (T, error)) ([]T, error) {
	items, err := ToArrayView(o)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, item := range items {
		v, err := decode(item)
		if err != nil {
			return nil, errors.At(err, indexSegment(i))
		}
		out[i] = v
	}
	return out, nil
}

// ToStringMap decodes a Dictionary object into a Go map. Go maps do not
// preserve the dictionary's order; use ToDictionaryView when order matters.
// Duplicate keys resolve to the last occurrence.
func ToStringMap[T any](o Object, decode func(Object) (T, error)) (map[string]T, error) {
	pairs, err := ToDictionaryView(o)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(pairs))
	for _, kv := range pairs {
		v, err := decode(kv.Value())
		if err != nil {
			return nil, errors.At(err, kv.Key())
		}
		out[kv.Key()] = v
	}
	return out, nil
}

// FromUint64 encodes u into the signed 64-bit Integer slot, failing when it
// does not fit.
func FromUint64(u uint64) (Object, error) {
	if u > math.MaxInt64 {
		return Object{}, errors.Overflow(errors.PhaseEncode, nil, u, "integer")
	}
	return FromInteger(int64(u)), nil
}

// FromSlice encodes values element-wise into an owning Array object. On an
// element error the elements already built are released and no Object is
// returned.
func FromSlice[T any](values []T, encode func(T) (Object, error)) (Object, error) {
	items := make([]Object, 0, len(values))
	for i, v := range values {
		o, err := encode(v)
		if err != nil {
			for j := range items {
				items[j].Free()
			}
			return Object{}, errors.At(err, indexSegment(i))
		}
		items = append(items, o)
	}
	return FromArray(NewArray(items...)), nil
}

// FromStringMap encodes a Go map into an owning Dictionary object. Go maps
// carry no order of their own, so entries are emitted in sorted key order.
func FromStringMap[T any](m map[string]T, encode func(T) (Object, error)) (Object, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]KeyValuePair, 0, len(keys))
	for _, k := range keys {
		o, err := encode(m[k])
		if err != nil {
			for j := range pairs {
				pairs[j].key.Free()
				pairs[j].value.Free()
			}
			return Object{}, errors.At(err, k)
		}
		pairs = append(pairs, Pair(k, o))
	}
	return FromDictionary(NewDictionary(pairs...)), nil
}
