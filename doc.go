// Package nvigo is a Go binding to a text editor's C-ABI extension API.
//
// Plugin authors write Go; the editor communicates exclusively through a
// self-describing tagged value type ([object.Object]) and a small set of
// owning/non-owning container types passed across the foreign-call boundary.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	nvigo/           Root package with logger plumbing
//	├── object/      Tagged Object union, owning containers, checked conversions
//	├── bridge/      Generic reflection bridge between Go types and Objects
//	├── ffi/         Foreign-call convention: error slot, symbol slots, Call
//	├── callback/    Process-wide table of callback references
//	├── errors/      Structured error types for conversion and boundary failures
//	└── api/         Buffer/Window/TabPage handles and the editor API surface
//
// # Crossing the boundary
//
// Every value returned by the editor is owning: the caller releases its
// memory exactly once with Free. Every value passed to the editor crosses as
// a non-owning view valid only for the duration of that call; the editor
// never frees an argument.
//
// Every foreign call follows the same shape: arguments are borrowed as
// non-owning views, a zero-initialized error slot is passed by pointer, and
// the slot is inspected before the return payload is touched:
//
//	got, err := ffi.Call(func(e *ffi.Error) object.Object {
//	    return ffi.EvalFn(expr.NonOwning(), e)
//	}, object.ToGoString)
//
// # Converting values
//
// The object package converts primitives with checked, range-verified
// operations. Arbitrary structs and enum-like types go through the bridge
// package, which maps them to and from Dictionary and String Objects by
// reflection, with no per-type glue.
package nvigo
