package object

// Kind is the discriminant selecting which payload of an Object is active.
// The numeric values mirror the editor's C enum and must not be reordered.
type Kind int32

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindArray
	KindDictionary
	KindBuffer
	KindWindow
	KindTabPage
	KindCallback
)

var kindNames = [...]string{
	KindNil:        "nil",
	KindBoolean:    "boolean",
	KindInteger:    "integer",
	KindFloat:      "float",
	KindString:     "string",
	KindArray:      "array",
	KindDictionary: "dictionary",
	KindBuffer:     "buffer",
	KindWindow:     "window",
	KindTabPage:    "tabpage",
	KindCallback:   "callback",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// isHandle reports whether k is one of the integer-backed handle kinds.
func (k Kind) isHandle() bool {
	return k == KindBuffer || k == KindWindow || k == KindTabPage
}
