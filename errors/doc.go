// Package errors provides structured error types for the nvigo binding.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The taxonomy is closed: boundary errors surface the editor's
// own message from the foreign call's error slot, conversion errors report
// wrong-kind, range-overflow and invalid-text failures when decoding an
// Object into a host type, and structural errors are conversion errors with
// a field path attached by the bridge package.
//
// Build errors fluently:
//
//	err := errors.New(errors.PhaseDecode, errors.KindWrongKind).
//	    Path("opts", "count").
//	    Expected("integer").
//	    Actual("string").
//	    Build()
//
// Or use the convenience constructors:
//
//	err := errors.WrongKind(errors.PhaseDecode, nil, "integer", "boolean")
//
// Errors support errors.Is matching by Phase and Kind, and Unwrap for cause
// chains.
package errors
