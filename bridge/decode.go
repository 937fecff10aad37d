package bridge

import (
	"reflect"
	"strconv"

	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/object"
)

func decodeInto(o object.Object, rv reflect.Value, path []string) error {
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NilPointer(errors.PhaseDecode, path, "decode target")
	}
	return decodeValue(o, rv.Elem(), path)
}

// decodeValue decodes a borrowed Object into the settable value rv.
func decodeValue(o object.Object, rv reflect.Value, path []string) error {
	t := rv.Type()

	// Self-decoding types bypass the generic driver.
	if rv.CanAddr() && reflect.PointerTo(t).Implements(objectDecoderType) {
		return errors.At(rv.Addr().Interface().(ObjectDecoder).DecodeObject(o), path...)
	}

	// Pointer-to-enum picks up Variants by promotion; let the Pointer case
	// below allocate first so decodeEnum always sees the integer value.
	if t.Kind() != reflect.Pointer && t.Implements(enumType) {
		return decodeEnum(o, rv, path)
	}

	if t == objectType {
		rv.Set(reflect.ValueOf(o.Clone()))
		return nil
	}
	if t == callbackRefType {
		ref, err := object.ToCallback(o)
		if err != nil {
			return errors.At(err, path...)
		}
		rv.Set(reflect.ValueOf(ref))
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		v, err := object.ToBool(o)
		if err != nil {
			return errors.At(err, path...)
		}
		rv.SetBool(v)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := object.ToInteger(o)
		if err != nil {
			return errors.At(err, path...)
		}
		if rv.OverflowInt(n) {
			return errors.Overflow(errors.PhaseDecode, path, n, t.String())
		}
		rv.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := object.ToInteger(o)
		if err != nil {
			return errors.At(err, path...)
		}
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return errors.Overflow(errors.PhaseDecode, path, n, t.String())
		}
		rv.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := object.ToFloat(o)
		if err != nil {
			return errors.At(err, path...)
		}
		rv.SetFloat(f)
		return nil

	case reflect.String:
		s, err := object.ToGoString(o)
		if err != nil {
			return errors.At(err, path...)
		}
		rv.SetString(s)
		return nil

	case reflect.Pointer:
		// Nil means absent. A present value of the wrong kind must fail
		// below, never silently collapse to absent.
		if o.Kind() == object.KindNil {
			rv.SetZero()
			return nil
		}
		elem := reflect.New(t.Elem())
		if err := decodeValue(o, elem.Elem(), path); err != nil {
			return err
		}
		rv.Set(elem)
		return nil

	case reflect.Slice:
		return decodeSlice(o, rv, path)

	case reflect.Map:
		return decodeMap(o, rv, path)

	case reflect.Struct:
		plan, err := planFor(t)
		if err != nil {
			return errors.At(err, path...)
		}
		if plan.isUnion {
			return decodeUnion(o, rv, plan, path)
		}
		return decodeStruct(o, rv, plan, path)

	case reflect.Interface:
		if t.NumMethod() != 0 {
			return errors.At(errors.Unsupported(errors.PhaseDecode, t.String()), path...)
		}
		return decodeAny(o, rv, path)

	default:
		return errors.At(errors.Unsupported(errors.PhaseDecode, t.String()), path...)
	}
}

func decodeEnum(o object.Object, rv reflect.Value, path []string) error {
	name, err := object.ToGoString(o)
	if err != nil {
		return errors.At(err, path...)
	}
	variants := rv.Interface().(Enum).Variants()
	for i, v := range variants {
		if v == name {
			rv.SetInt(int64(i))
			return nil
		}
	}
	return errors.InvalidVariant(errors.PhaseDecode, path, name, rv.Type().String())
}

func decodeSlice(o object.Object, rv reflect.Value, path []string) error {
	t := rv.Type()

	if t.Elem().Kind() == reflect.Uint8 && o.Kind() == object.KindString {
		b, err := object.ToBytes(o)
		if err != nil {
			return errors.At(err, path...)
		}
		rv.SetBytes(b)
		return nil
	}

	// The editor's empty-collection value is ambiguous between an empty
	// array and an empty dictionary; accept the sibling kind when empty.
	if o.Kind() == object.KindDictionary {
		if pairs, _ := object.ToDictionaryView(o); len(pairs) == 0 {
			rv.Set(reflect.MakeSlice(t, 0, 0))
			return nil
		}
	}

	items, err := object.ToArrayView(o)
	if err != nil {
		return errors.At(err, path...)
	}
	out := reflect.MakeSlice(t, len(items), len(items))
	for i, item := range items {
		if err := decodeValue(item, out.Index(i), append(path, "["+strconv.Itoa(i)+"]")); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func decodeMap(o object.Object, rv reflect.Value, path []string) error {
	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return errors.At(errors.Unsupported(errors.PhaseDecode, "map key type "+t.Key().String()), path...)
	}

	// Empty-collection leniency, mirrored from decodeSlice.
	if o.Kind() == object.KindArray {
		if items, _ := object.ToArrayView(o); len(items) == 0 {
			rv.Set(reflect.MakeMap(t))
			return nil
		}
	}

	pairs, err := object.ToDictionaryView(o)
	if err != nil {
		return errors.At(err, path...)
	}
	out := reflect.MakeMapWithSize(t, len(pairs))
	for _, kv := range pairs {
		ev := reflect.New(t.Elem())
		if err := decodeValue(kv.Value(), ev.Elem(), append(path, kv.Key())); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(kv.Key()).Convert(t.Key()), ev.Elem())
	}
	rv.Set(out)
	return nil
}

func decodeStruct(o object.Object, rv reflect.Value, plan *structPlan, path []string) error {
	// Empty-collection leniency for struct targets as well.
	if o.Kind() == object.KindArray {
		if items, _ := object.ToArrayView(o); len(items) == 0 {
			if err := requireAllOptional(plan, path); err != nil {
				return err
			}
			rv.SetZero()
			return nil
		}
	}

	pairs, err := object.ToDictionaryView(o)
	if err != nil {
		return errors.At(err, path...)
	}

	// Decode into a scratch value so a failure on a later field never
	// leaves the caller's target half-written.
	out := reflect.New(rv.Type()).Elem()
	seen := make(map[string]bool, len(plan.fields))
	for _, kv := range pairs {
		idx, ok := plan.byName[kv.Key()]
		if !ok {
			// Unknown keys are ignored: the editor may add fields.
			continue
		}
		fp := plan.fields[idx]
		if err := decodeValue(kv.Value(), out.Field(fp.index), append(path, fp.name)); err != nil {
			return err
		}
		seen[fp.name] = true
	}

	for _, fp := range plan.fields {
		if !seen[fp.name] && !fp.optional {
			return errors.FieldMissing(errors.PhaseDecode, path, fp.name)
		}
	}
	rv.Set(out)
	return nil
}

func requireAllOptional(plan *structPlan, path []string) error {
	for _, fp := range plan.fields {
		if !fp.optional {
			return errors.FieldMissing(errors.PhaseDecode, path, fp.name)
		}
	}
	return nil
}

// decodeUnion accepts a bare String naming a payload-less case, or a
// single-entry Dictionary keyed by case name.
func decodeUnion(o object.Object, rv reflect.Value, plan *structPlan, path []string) error {
	// Build the replacement in a scratch value; the prior case is cleared
	// only once the incoming value has fully decoded.
	out := reflect.New(rv.Type()).Elem()

	if o.Kind() == object.KindString {
		name, err := object.ToGoString(o)
		if err != nil {
			return errors.At(err, path...)
		}
		idx, ok := plan.byName[name]
		if !ok {
			return errors.InvalidVariant(errors.PhaseDecode, path, name, rv.Type().String())
		}
		fp := plan.fields[idx]
		ft := rv.Type().Field(fp.index).Type
		if !isUnitPayload(ft.Elem()) {
			return errors.At(errors.InvalidData(errors.PhaseDecode, nil,
				"case "+name+" requires a payload"), path...)
		}
		out.Field(fp.index).Set(reflect.New(ft.Elem()))
		rv.Set(out)
		return nil
	}

	pairs, err := object.ToDictionaryView(o)
	if err != nil {
		return errors.At(err, path...)
	}
	if len(pairs) != 1 {
		return errors.At(errors.InvalidData(errors.PhaseDecode, nil,
			"union dictionary must have exactly one entry"), path...)
	}

	kv := pairs[0]
	idx, ok := plan.byName[kv.Key()]
	if !ok {
		return errors.InvalidVariant(errors.PhaseDecode, path, kv.Key(), rv.Type().String())
	}
	fp := plan.fields[idx]
	ft := rv.Type().Field(fp.index).Type
	elem := reflect.New(ft.Elem())
	if err := decodeValue(kv.Value(), elem.Elem(), append(path, fp.name)); err != nil {
		return err
	}
	out.Field(fp.index).Set(elem)
	rv.Set(out)
	return nil
}

// decodeAny decodes into an untyped interface, picking the natural Go type
// for each kind. Containers decode recursively; dictionaries become
// map[string]any and lose their order.
func decodeAny(o object.Object, rv reflect.Value, path []string) error {
	switch o.Kind() {
	case object.KindNil:
		rv.SetZero()
		return nil
	case object.KindBoolean:
		v, _ := object.ToBool(o)
		rv.Set(reflect.ValueOf(v))
		return nil
	case object.KindInteger, object.KindBuffer, object.KindWindow, object.KindTabPage:
		v, _ := object.ToInteger(o)
		rv.Set(reflect.ValueOf(v))
		return nil
	case object.KindFloat:
		v, _ := object.ToFloat(o)
		rv.Set(reflect.ValueOf(v))
		return nil
	case object.KindString:
		v, err := object.ToGoString(o)
		if err != nil {
			return errors.At(err, path...)
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	case object.KindCallback:
		ref, _ := object.ToCallback(o)
		rv.Set(reflect.ValueOf(ref))
		return nil
	case object.KindArray:
		items, _ := object.ToArrayView(o)
		out := make([]any, len(items))
		for i, item := range items {
			if err := decodeValue(item, reflect.ValueOf(&out[i]).Elem(), append(path, "["+strconv.Itoa(i)+"]")); err != nil {
				return err
			}
		}
		rv.Set(reflect.ValueOf(out))
		return nil
	case object.KindDictionary:
		pairs, _ := object.ToDictionaryView(o)
		out := make(map[string]any, len(pairs))
		for _, kv := range pairs {
			var v any
			if err := decodeValue(kv.Value(), reflect.ValueOf(&v).Elem(), append(path, kv.Key())); err != nil {
				return err
			}
			out[kv.Key()] = v
		}
		rv.Set(reflect.ValueOf(out))
		return nil
	default:
		return errors.At(errors.Unsupported(errors.PhaseDecode, o.Kind().String()), path...)
	}
}
