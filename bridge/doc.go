// Package bridge maps arbitrary Go types to and from editor Objects
// without per-type conversion code.
//
// Structs encode to Dictionary objects, one entry per exported field in
// declaration order. Field names come from the `nvim` struct tag, falling
// back to the lowercase_snake form of the Go name:
//
//	type HighlightOpts struct {
//	    Group    string  `nvim:"hl_group"`
//	    Priority *uint32 `nvim:"priority,omitempty"`
//	    Internal bool    `nvim:"-"`
//	}
//
// Decoding is forward-compatible: unknown dictionary keys are ignored.
// A missing key is an error unless the field is a pointer or its tag
// carries the "default" option, in which case the field keeps its zero
// value. Pointer fields decode Nil as absent; a present value of the wrong
// kind is still an error.
//
// Enum-like integer types implement [Enum] to serialize unit variants as
// their declared name in a String object. Tagged unions embed [Union] and
// declare one pointer field per case; the active case serializes to a
// single-entry Dictionary keyed by the case name, and payload-less cases
// round-trip as a bare String.
//
// Types implementing [ObjectEncoder] or [ObjectDecoder] bypass the generic
// driver entirely, which is how fields holding formatted values (a count
// carried as decimal text, an empty string standing for absent) hook custom
// parsing into a generic decode.
//
// All failures are structural errors carrying the full field path from the
// root value.
package bridge
