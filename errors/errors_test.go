package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseDecode,
				Kind:     KindWrongKind,
				Path:     []string{"opts", "virt_text", "[0]"},
				Expected: "string",
				Actual:   "integer",
				Detail:   "cannot convert",
			},
			contains: []string{"[decode]", "wrong_kind", "opts.virt_text.[0]", "expected string", "got integer", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEncode,
				Kind:  KindOverflow,
			},
			contains: []string{"[encode]", "overflow"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindBoundary,
				Detail: "E121: Undefined variable",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[call]", "boundary", "E121", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not match wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	a := WrongKind(PhaseDecode, nil, "integer", "boolean")
	b := &Error{Phase: PhaseDecode, Kind: KindWrongKind}
	c := &Error{Phase: PhaseEncode, Kind: KindWrongKind}

	if !errors.Is(a, b) {
		t.Error("expected match on same phase and kind")
	}
	if errors.Is(a, c) {
		t.Error("did not expect match across phases")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseDecode, KindOverflow).
		Path("pid").
		Expected("uint32").
		Value(int64(-1)).
		Detail("value %d out of range", -1).
		Build()

	if err.Phase != PhaseDecode || err.Kind != KindOverflow {
		t.Fatalf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if len(err.Path) != 1 || err.Path[0] != "pid" {
		t.Errorf("unexpected path: %v", err.Path)
	}
	if !strings.Contains(err.Error(), "value -1 out of range") {
		t.Errorf("detail not formatted: %q", err.Error())
	}
}

func TestAt(t *testing.T) {
	inner := WrongKind(PhaseDecode, []string{"count"}, "integer", "string")
	wrapped := At(inner, "opts")

	e, ok := wrapped.(*Error)
	if !ok {
		t.Fatalf("At returned %T, want *Error", wrapped)
	}
	if got := strings.Join(e.Path, "."); got != "opts.count" {
		t.Errorf("path = %q, want opts.count", got)
	}
	// The original must not be mutated.
	if len(inner.Path) != 1 {
		t.Errorf("original path mutated: %v", inner.Path)
	}

	plain := errors.New("plain")
	if At(plain, "x") != plain {
		t.Error("non-structured error should pass through unchanged")
	}
	if At(nil, "x") != nil {
		t.Error("nil should pass through")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"wrong kind", WrongKind(PhaseDecode, nil, "a", "b"), KindWrongKind},
		{"overflow", Overflow(PhaseDecode, nil, int64(1), "int8"), KindOverflow},
		{"utf8", InvalidUTF8(PhaseDecode, nil, []byte{0xff}), KindInvalidUTF8},
		{"field missing", FieldMissing(PhaseDecode, nil, "name"), KindFieldMissing},
		{"variant", InvalidVariant(PhaseDecode, nil, "x", "CommandNArgs"), KindInvalidVariant},
		{"unsupported", Unsupported(PhaseBridge, "chan"), KindUnsupported},
		{"nil pointer", NilPointer(PhaseEncode, nil, "*T"), KindNilPointer},
		{"boundary", Boundary(1, "E5108"), KindBoundary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestInvalidUTF8_TruncatesPreview(t *testing.T) {
	data := make([]byte, 100)
	err := InvalidUTF8(PhaseDecode, nil, data)
	if len(err.Detail) > 120 {
		t.Errorf("preview not truncated: %d bytes", len(err.Detail))
	}
}
