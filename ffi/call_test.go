package ffi

import (
	stderrors "errors"
	"testing"

	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/object"
	"github.com/nvigo/nvigo/internal/cmem"
)

func TestCallSuccessDecodesPayload(t *testing.T) {
	invoked := false
	got, err := Call(
		func(slot *Error) object.Object {
			invoked = true
			if slot.IsSet() {
				t.Error("slot not zeroed on entry")
			}
			return object.FromInteger(42)
		},
		object.ToInteger,
	)
	if err != nil {
		t.Fatal(err)
	}
	if !invoked || got != 42 {
		t.Errorf("got %d", got)
	}
}

func TestCallFailureSkipsDecode(t *testing.T) {
	_, err := Call(
		func(slot *Error) object.Object {
			slot.Set(ErrorKindException, "E5108: no such thing")
			// A failed call may return garbage; the wrapper must not look.
			return object.FromInteger(-1)
		},
		func(object.Object) (int64, error) {
			t.Fatal("decode ran after a failed call")
			return 0, nil
		},
	)

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if e.Kind != errors.KindBoundary || e.Phase != errors.PhaseCall {
		t.Errorf("err = %v, want boundary/call", e)
	}
	if e.Detail != "E5108: no such thing" {
		t.Errorf("message = %q", e.Detail)
	}
	if e.Value != int(ErrorKindException) {
		t.Errorf("code = %v", e.Value)
	}
}

func TestCallNone(t *testing.T) {
	if err := CallNone(func(*Error) {}); err != nil {
		t.Errorf("void success: %v", err)
	}

	err := CallNone(func(slot *Error) {
		slot.Set(ErrorKindValidation, "bad argument")
	})
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindBoundary {
		t.Errorf("err = %v", err)
	}
}

func TestErrorMessageIsReleased(t *testing.T) {
	a0, f0 := cmem.Counters()

	for i := 0; i < 4; i++ {
		_ = CallNone(func(slot *Error) {
			slot.Set(ErrorKindException, "transient")
		})
	}

	a1, f1 := cmem.Counters()
	if a1-a0 != f1-f0 {
		t.Errorf("error messages leaked: %d allocs, %d frees", a1-a0, f1-f0)
	}
}

func TestErrorSlotZeroValueMeansSuccess(t *testing.T) {
	var slot Error
	if slot.IsSet() {
		t.Error("zero slot reads as failure")
	}
	slot.Set(ErrorKindValidation, "")
	if !slot.IsSet() {
		t.Error("set slot reads as success")
	}
	if err := slot.take(); err == nil {
		t.Error("take on a set slot returned nil")
	}
	if slot.IsSet() {
		t.Error("slot not rezeroed after take")
	}
}
