package ffi

import (
	"github.com/nvigo/nvigo/object"
)

// Foreign entry points into the editor. The embedding glue assigns these at
// plugin load; ffitest.Install assigns in-process stubs. String, Array and
// Object arguments are passed as non-owning views and remain owned by the
// caller across the call.
var (
	// Vimscript.
	CommandFn      func(cmd object.NonOwning[object.String], err *Error)
	EvalFn         func(expr object.NonOwning[object.String], err *Error) object.Object
	ExecFn         func(src object.NonOwning[object.String], output bool, err *Error) object.String
	CallFunctionFn func(fn object.NonOwning[object.String], args object.NonOwning[object.Array], err *Error) object.Object
	CallDictFnFn   func(dict object.NonOwning[object.Object], fn object.NonOwning[object.String], args object.NonOwning[object.Array], err *Error) object.Object

	// Global state.
	GetModeFn func() object.Dictionary

	// Namespaces, highlights and extended marks.
	CreateNamespaceFn       func(name object.NonOwning[object.String]) int64
	GetNamespacesFn         func() object.Dictionary
	SetDecorationProviderFn func(nsID int64, opts object.NonOwning[object.Object], err *Error)
	BufAddHighlightFn       func(buf int32, nsID int64, hlGroup object.NonOwning[object.String], line, colStart, colEnd int64, err *Error) int64
	BufClearNamespaceFn     func(buf int32, nsID, lineStart, lineEnd int64, err *Error)
	BufDelExtmarkFn         func(buf int32, nsID, extmarkID int64, err *Error) bool
	BufGetExtmarkByIDFn     func(buf int32, nsID, extmarkID int64, opts object.NonOwning[object.Object], err *Error) object.Array
	BufGetExtmarksFn        func(buf int32, nsID int64, start, end object.NonOwning[object.Object], opts object.NonOwning[object.Object], err *Error) object.Array
	BufSetExtmarkFn         func(buf int32, nsID, line, col int64, opts object.NonOwning[object.Object], err *Error) int64

	// Tabpages. Handles are passed by value; the editor resolves them.
	GetCurrentTabpageFn func() int32
	TabpageDelVarFn     func(tab int32, name object.NonOwning[object.String], err *Error)
	TabpageGetNumberFn  func(tab int32, err *Error) int64
	TabpageGetVarFn     func(tab int32, name object.NonOwning[object.String], err *Error) object.Object
	TabpageGetWinFn     func(tab int32, err *Error) int32
	TabpageIsValidFn    func(tab int32) bool
	TabpageListWinsFn   func(tab int32, err *Error) object.Array
	TabpageSetVarFn     func(tab int32, name object.NonOwning[object.String], value object.NonOwning[object.Object], err *Error)
)
