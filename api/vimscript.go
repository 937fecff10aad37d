package api

import (
	"github.com/nvigo/nvigo/bridge"
	"github.com/nvigo/nvigo/ffi"
	"github.com/nvigo/nvigo/object"
)

// Command executes a single Ex command.
func Command(cmd string) error {
	s := object.NewString(cmd)
	defer s.Free()
	return ffi.CallNone(func(slot *ffi.Error) {
		ffi.CommandFn(s.NonOwning(), slot)
	})
}

// Eval evaluates a vimscript expression and decodes the result into T.
func Eval[T any](expr string) (T, error) {
	s := object.NewString(expr)
	defer s.Free()
	return ffi.Call(func(slot *ffi.Error) object.Object {
		return ffi.EvalFn(s.NonOwning(), slot)
	}, decodeOwned[T])
}

// Exec executes a multiline block of Ex commands. When output is true the
// captured output is returned, empty when there was none.
func Exec(src string, output bool) (string, error) {
	s := object.NewString(src)
	defer s.Free()
	return ffi.Call(func(slot *ffi.Error) object.String {
		return ffi.ExecFn(s.NonOwning(), output, slot)
	}, func(out object.String) (string, error) {
		defer out.Free()
		return out.String(), nil
	})
}

// CallFunction calls a vimscript function, encoding each argument through
// the bridge and decoding the result into T.
func CallFunction[T any](fn string, args ...any) (T, error) {
	var zero T
	name := object.NewString(fn)
	defer name.Free()

	arr, err := encodeArgs(args)
	if err != nil {
		return zero, err
	}
	defer arr.Free()

	return ffi.Call(func(slot *ffi.Error) object.Object {
		return ffi.CallFunctionFn(name.NonOwning(), arr.NonOwning(), slot)
	}, decodeOwned[T])
}

// CallDictFunction calls a function stored in a vimscript dictionary. dict
// is encoded through the bridge, usually from a map or a struct.
func CallDictFunction[T any](dict any, fn string, args ...any) (T, error) {
	var zero T
	d, err := bridge.Encode(dict)
	if err != nil {
		return zero, err
	}
	defer d.Free()

	name := object.NewString(fn)
	defer name.Free()

	arr, err := encodeArgs(args)
	if err != nil {
		return zero, err
	}
	defer arr.Free()

	return ffi.Call(func(slot *ffi.Error) object.Object {
		return ffi.CallDictFnFn(d.NonOwning(), name.NonOwning(), arr.NonOwning(), slot)
	}, decodeOwned[T])
}

// encodeArgs builds an owning Array from Go values, releasing the already
// encoded prefix when one of them fails.
func encodeArgs(args []any) (object.Array, error) {
	items := make([]object.Object, 0, len(args))
	for _, a := range args {
		o, err := bridge.Encode(a)
		if err != nil {
			for i := range items {
				items[i].Free()
			}
			return object.Array{}, err
		}
		items = append(items, o)
	}
	return object.NewArray(items...), nil
}

// decodeOwned decodes an owned return payload into T and releases it.
func decodeOwned[T any](o object.Object) (T, error) {
	defer o.Free()
	var out T
	err := bridge.Decode(o, &out)
	return out, err
}
