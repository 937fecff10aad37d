// Package ffi implements the call convention shared by every crossing into
// the editor: arguments travel as non-owning views, each invocation gets a
// freshly zeroed error slot, and the slot is inspected before the return
// payload is ever looked at.
//
// The editor's entry points are package-level function slots (CommandFn,
// EvalFn, ...) that the embedding glue assigns at plugin load. Calling an
// unassigned slot panics, mirroring an unresolved symbol. Tests and the REPL
// install the in-process stubs from the ffitest subpackage instead.
package ffi
