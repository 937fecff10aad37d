package object

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/internal/cmem"
)

func wrongKind(t *testing.T, err error, expected, actual string) {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if e.Kind != errors.KindWrongKind {
		t.Fatalf("kind = %s, want wrong_kind", e.Kind)
	}
	if e.Expected != expected || e.Actual != actual {
		t.Errorf("expected/actual = %s/%s, want %s/%s", e.Expected, e.Actual, expected, actual)
	}
}

func overflow(t *testing.T, err error) {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error is %T, want *errors.Error", err)
	}
	if e.Kind != errors.KindOverflow {
		t.Errorf("kind = %s, want overflow", e.Kind)
	}
}

func TestPrimitiveRoundTrips(t *testing.T) {
	if v, err := ToBool(FromBool(true)); err != nil || !v {
		t.Errorf("bool round trip: %v, %v", v, err)
	}
	if v, err := ToInteger(FromInteger(-9)); err != nil || v != -9 {
		t.Errorf("integer round trip: %v, %v", v, err)
	}
	if v, err := ToFloat(FromFloat(2.5)); err != nil || v != 2.5 {
		t.Errorf("float round trip: %v, %v", v, err)
	}
	s := FromGoString("héllo")
	if v, err := ToGoString(s); err != nil || v != "héllo" {
		t.Errorf("string round trip: %q, %v", v, err)
	}
	s.Free()
	if v, err := ToCallback(FromCallback(12)); err != nil || v != 12 {
		t.Errorf("callback round trip: %v, %v", v, err)
	}
	if err := ToNil(Nil()); err != nil {
		t.Errorf("nil round trip: %v", err)
	}
}

// Decoding a Boolean-tagged object as Integer fails with wrong-kind for all
// non-integer-compatible discriminants.
func TestToIntegerKindMatrix(t *testing.T) {
	str := FromGoString("7")
	defer str.Free()

	rejected := []struct {
		name string
		obj  Object
	}{
		{"nil", Nil()},
		{"boolean", FromBool(true)},
		{"float", FromFloat(7)},
		{"string", str},
		{"callback", FromCallback(1)},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToInteger(tt.obj)
			wrongKind(t, err, "integer", tt.obj.Kind().String())
		})
	}

	// The handle kinds are integer-backed and must decode.
	accepted := []Object{
		FromInteger(7),
		FromHandle(KindBuffer, 7),
		FromHandle(KindWindow, 7),
		FromHandle(KindTabPage, 7),
	}
	for _, obj := range accepted {
		if v, err := ToInteger(obj); err != nil || v != 7 {
			t.Errorf("ToInteger(%s) = %v, %v", obj.Kind(), v, err)
		}
	}
}

func TestNarrowingRange(t *testing.T) {
	if _, err := ToInt[int32](FromInteger(math.MaxInt32 + 1)); err == nil {
		t.Error("expected overflow decoding MaxInt32+1 into int32")
	} else {
		overflow(t, err)
	}
	if v, err := ToInt[int32](FromInteger(math.MaxInt32)); err != nil || v != math.MaxInt32 {
		t.Errorf("int32 in range: %v, %v", v, err)
	}
	if _, err := ToInt[int8](FromInteger(-129)); err == nil {
		t.Error("expected overflow decoding -129 into int8")
	}
	if v, err := ToInt[int8](FromInteger(-128)); err != nil || v != -128 {
		t.Errorf("int8 in range: %v, %v", v, err)
	}

	if _, err := ToUint[uint32](FromInteger(-1)); err == nil {
		t.Error("expected overflow decoding -1 into uint32")
	} else {
		overflow(t, err)
	}
	if _, err := ToUint[uint8](FromInteger(256)); err == nil {
		t.Error("expected overflow decoding 256 into uint8")
	}
	if v, err := ToUint[uint64](FromInteger(math.MaxInt64)); err != nil || v != math.MaxInt64 {
		t.Errorf("uint64 in range: %v, %v", v, err)
	}
}

func TestFromUint64(t *testing.T) {
	if _, err := FromUint64(math.MaxInt64 + 1); err == nil {
		t.Error("expected overflow encoding MaxInt64+1")
	} else {
		overflow(t, err)
	}
	obj, err := FromUint64(math.MaxInt64)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := ToInteger(obj); v != math.MaxInt64 {
		t.Errorf("round trip = %d", v)
	}
}

func TestToGoStringInvalidUTF8(t *testing.T) {
	s := FromString(NewStringFromBytes([]byte{0xff, 0xfe}))
	defer s.Free()

	_, err := ToGoString(s)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidUTF8 {
		t.Errorf("err = %v, want invalid_utf8", err)
	}
}

// Nil decodes into an option as absent for any element type; a present
// value of the wrong kind is still a hard error.
func TestOptionSemantics(t *testing.T) {
	v, err := ToOption(Nil(), ToInteger)
	if err != nil || v != nil {
		t.Errorf("ToOption(nil) = %v, %v, want absent", v, err)
	}

	v, err = ToOption(FromInteger(7), ToInteger)
	if err != nil || v == nil || *v != 7 {
		t.Errorf("ToOption(7) = %v, %v", v, err)
	}

	if _, err := ToOption(FromBool(true), ToInteger); err == nil {
		t.Error("wrong-kind present value decoded as absent")
	} else {
		wrongKind(t, err, "integer", "boolean")
	}

	s, err := ToOption(Nil(), ToGoString)
	if err != nil || s != nil {
		t.Errorf("ToOption(nil) for string = %v, %v, want absent", s, err)
	}
}

func TestToSlice(t *testing.T) {
	arr := FromArray(NewArray(FromInteger(1), FromInteger(2), FromInteger(3)))
	defer arr.Free()

	got, err := ToSlice(arr, ToInt[int])
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("ToSlice = %v", got)
	}

	// First element error aborts with no partial result and names the index.
	bad := FromArray(NewArray(FromInteger(1), FromBool(true)))
	defer bad.Free()

	_, err = ToSlice(bad, ToInt[int])
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if len(e.Path) != 1 || e.Path[0] != "[1]" {
		t.Errorf("path = %v, want [1]", e.Path)
	}

	if _, err := ToSlice(Nil(), ToInteger); err == nil {
		t.Error("ToSlice of nil should fail")
	}
}

func TestToStringMap(t *testing.T) {
	d := FromDictionary(NewDictionary(
		Pair("a", FromInteger(1)),
		Pair("b", FromInteger(2)),
	))
	defer d.Free()

	got, err := ToStringMap(d, ToInteger)
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("ToStringMap = %v", got)
	}

	if _, err := ToStringMap(FromInteger(1), ToInteger); err == nil {
		t.Error("ToStringMap of integer should fail")
	}
}

func TestFromSliceReleasesOnError(t *testing.T) {
	a0, f0 := cmem.Counters()

	enc := func(s string) (Object, error) {
		if s == "bad" {
			return Object{}, errors.InvalidData(errors.PhaseEncode, nil, "bad input")
		}
		return FromGoString(s), nil
	}

	_, err := FromSlice([]string{"a", "b", "bad"}, enc)
	if err == nil {
		t.Fatal("expected encode error")
	}

	// The two elements built before the failure must have been released.
	a1, f1 := cmem.Counters()
	if a1-a0 != f1-f0 {
		t.Errorf("partial construction leaked: allocs %d, frees %d", a1-a0, f1-f0)
	}
}

func TestToHandle(t *testing.T) {
	if id, err := ToHandle(FromHandle(KindWindow, 5), KindWindow); err != nil || id != 5 {
		t.Errorf("ToHandle = %v, %v", id, err)
	}
	// A bare integer is not a typed handle.
	if _, err := ToHandle(FromInteger(5), KindWindow); err == nil {
		t.Error("integer decoded as window handle")
	}
	// Handle kinds are distinct variants, not interchangeable.
	if _, err := ToHandle(FromHandle(KindBuffer, 5), KindWindow); err == nil {
		t.Error("buffer handle decoded as window handle")
	}
}

func TestToBytesAcceptsBinaryContent(t *testing.T) {
	raw := []byte{0x00, 0xff, 0xfe, 'x'}
	o := FromString(NewStringFromBytes(raw))
	defer o.Free()

	// Invalid UTF-8 is a text error, not a bytes error.
	if _, err := ToGoString(o); err == nil {
		t.Error("invalid UTF-8 decoded as string")
	}

	b, err := ToBytes(o)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != string(raw) {
		t.Errorf("b = %x", b)
	}
}

func TestFromStringMapSortsKeys(t *testing.T) {
	m := map[string]int64{"zeta": 3, "alpha": 1, "mid": 2}
	o, err := FromStringMap(m, func(n int64) (Object, error) {
		return FromInteger(n), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer o.Free()

	pairs, err := ToDictionaryView(o)
	if err != nil {
		t.Fatal(err)
	}
	keys := make([]string, len(pairs))
	for i, kv := range pairs {
		keys[i] = kv.Key()
	}
	if len(keys) != 3 || keys[0] != "alpha" || keys[1] != "mid" || keys[2] != "zeta" {
		t.Errorf("keys = %v", keys)
	}
}
