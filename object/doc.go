// Package object implements the tagged value type exchanged with the editor
// across the foreign-call boundary, together with its owning container types
// and the checked conversions between Objects and Go values.
//
// # Layout
//
// Object and the container types mirror the editor's published C structs
// byte for byte: a 4-byte discriminant tag followed by a union payload whose
// widest members are the three-word Array and Dictionary headers. The tag is
// the single source of truth for which payload accessor is safe; the
// unchecked accessors are unexported and every public entry point matches on
// Kind first.
//
// # Ownership
//
// String, Array and Dictionary exist in two modes. An owning container
// exclusively owns its backing memory, allocated through the internal cmem
// registry, and releasing it with Free returns that memory exactly once.
// A non-owning view, produced by NonOwning, shares the owner's memory for
// the duration of a single foreign call: it has no Free, must never be
// persisted past the call that received it, and its construction does not
// touch any reference count.
//
// Objects returned by the editor are always owning. Objects passed to the
// editor always cross as non-owning views and are never freed by the call.
//
// # Conversions
//
// The To* functions decode an Object into a Go value, failing with a
// wrong-kind error when the discriminant does not match and a range error
// when a numeric narrowing does not fit. They borrow their argument: the
// caller keeps ownership of the source Object. Integer decoding also
// accepts the Buffer, Window and TabPage kinds, which are integer-backed.
package object
