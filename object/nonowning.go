package object

// NonOwning is a read-only, call-scoped projection of an owning value. It
// has the same memory layout as T, shares the owner's backing memory, and
// exposes no way to release it. A view is created for the duration of a
// single foreign call and must never be persisted past that call; the
// source remains the sole owner throughout.
type NonOwning[T any] struct {
	inner T
}

// View returns the underlying value for read-only use. Callers on the
// receiving side of the boundary must not free it or store it.
func (n NonOwning[T]) View() T {
	return n.inner
}

// Cloner is satisfied by values that can produce an independent owning deep
// copy of themselves.
type Cloner[T any] interface {
	Clone() T
}

// IntoOwned transfers a view received from a foreign call into host
// ownership by deep-copying it. This is the only sanctioned way to keep
// data from a borrowed argument past the call that delivered it.
func IntoOwned[T Cloner[T]](n NonOwning[T]) T {
	return n.inner.Clone()
}
