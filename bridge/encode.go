package bridge

import (
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/object"
)

func encodeValue(rv reflect.Value, path []string) (object.Object, error) {
	if !rv.IsValid() {
		return object.Nil(), nil
	}

	t := rv.Type()

	// Self-encoding types bypass the generic driver. A nil pointer still
	// means absent, even when the pointer type carries the hook.
	if t.Kind() == reflect.Pointer && rv.IsNil() {
		return object.Nil(), nil
	}
	if t.Implements(objectEncoderType) {
		o, err := rv.Interface().(ObjectEncoder).EncodeObject()
		return o, errors.At(err, path...)
	}
	if rv.CanAddr() && reflect.PointerTo(t).Implements(objectEncoderType) {
		o, err := rv.Addr().Interface().(ObjectEncoder).EncodeObject()
		return o, errors.At(err, path...)
	}

	if t.Kind() != reflect.Pointer && t.Implements(enumType) {
		return encodeEnum(rv, path)
	}

	if t == objectType {
		return rv.Interface().(object.Object).Clone(), nil
	}
	if t == callbackRefType {
		return object.FromCallback(rv.Interface().(object.CallbackRef)), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return object.FromBool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return object.FromInteger(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return object.Nil(), errors.Overflow(errors.PhaseEncode, path, u, "integer")
		}
		return object.FromInteger(int64(u)), nil

	case reflect.Float32, reflect.Float64:
		return object.FromFloat(rv.Float()), nil

	case reflect.String:
		return object.FromGoString(rv.String()), nil

	case reflect.Pointer:
		if rv.IsNil() {
			return object.Nil(), nil
		}
		return encodeValue(rv.Elem(), path)

	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return object.FromString(object.NewStringFromBytes(rv.Bytes())), nil
		}
		return encodeSequence(rv, path)

	case reflect.Map:
		return encodeMap(rv, path)

	case reflect.Struct:
		plan, err := planFor(t)
		if err != nil {
			return object.Nil(), errors.At(err, path...)
		}
		if plan.isUnion {
			return encodeUnion(rv, plan, path)
		}
		return encodeStruct(rv, plan, path)

	case reflect.Interface:
		if rv.IsNil() {
			return object.Nil(), nil
		}
		return encodeValue(rv.Elem(), path)

	default:
		return object.Nil(), errors.At(errors.Unsupported(errors.PhaseEncode, t.String()), path...)
	}
}

func encodeEnum(rv reflect.Value, path []string) (object.Object, error) {
	variants := rv.Interface().(Enum).Variants()
	idx := int(rv.Int())
	if idx < 0 || idx >= len(variants) {
		return object.Nil(), errors.InvalidVariant(errors.PhaseEncode, path, idx, rv.Type().String())
	}
	return object.FromGoString(variants[idx]), nil
}

func encodeSequence(rv reflect.Value, path []string) (object.Object, error) {
	items := make([]object.Object, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		o, err := encodeValue(rv.Index(i), append(path, "["+strconv.Itoa(i)+"]"))
		if err != nil {
			freeAll(items, nil)
			return object.Nil(), err
		}
		items = append(items, o)
	}
	return object.FromArray(object.NewArray(items...)), nil
}

// encodeMap emits entries in sorted key order: Go maps carry no order of
// their own, so a stable normalization is picked instead.
func encodeMap(rv reflect.Value, path []string) (object.Object, error) {
	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return object.Nil(), errors.At(
			errors.Unsupported(errors.PhaseEncode, "map key type "+t.Key().String()), path...)
	}

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	pairs := make([]object.KeyValuePair, 0, len(keys))
	for _, k := range keys {
		o, err := encodeValue(rv.MapIndex(reflect.ValueOf(k).Convert(t.Key())), append(path, k))
		if err != nil {
			freeAll(nil, pairs)
			return object.Nil(), err
		}
		pairs = append(pairs, object.Pair(k, o))
	}
	return object.FromDictionary(object.NewDictionary(pairs...)), nil
}

func encodeStruct(rv reflect.Value, plan *structPlan, path []string) (object.Object, error) {
	pairs := make([]object.KeyValuePair, 0, len(plan.fields))
	for _, fp := range plan.fields {
		fv := rv.Field(fp.index)
		if fp.omitEmpty && fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		o, err := encodeValue(fv, append(path, fp.name))
		if err != nil {
			freeAll(nil, pairs)
			return object.Nil(), err
		}
		pairs = append(pairs, object.Pair(fp.name, o))
	}
	return object.FromDictionary(object.NewDictionary(pairs...)), nil
}

// encodeUnion emits the single active case: payload-less cases as a bare
// String, payload cases as a single-entry Dictionary keyed by case name.
func encodeUnion(rv reflect.Value, plan *structPlan, path []string) (object.Object, error) {
	var active *fieldPlan
	for i := range plan.fields {
		fv := rv.Field(plan.fields[i].index)
		if !fv.IsNil() {
			if active != nil {
				return object.Nil(), errors.At(errors.InvalidData(errors.PhaseEncode, nil,
					"union has multiple active cases"), path...)
			}
			active = &plan.fields[i]
		}
	}
	if active == nil {
		return object.Nil(), errors.At(errors.InvalidData(errors.PhaseEncode, nil,
			"union has no active case"), path...)
	}

	fv := rv.Field(active.index)
	if isUnitPayload(fv.Type().Elem()) {
		return object.FromGoString(active.name), nil
	}

	payload, err := encodeValue(fv.Elem(), append(path, active.name))
	if err != nil {
		return object.Nil(), err
	}
	return object.FromDictionary(object.NewDictionary(object.Pair(active.name, payload))), nil
}

func isUnitPayload(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

func freeAll(items []object.Object, pairs []object.KeyValuePair) {
	for i := range items {
		items[i].Free()
	}
	for i := range pairs {
		pairs[i].Free()
	}
}
