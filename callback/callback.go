// Package callback keeps the process-wide table of Go closures reachable
// from the editor. An Object of kind Callback carries a Ref into this table;
// the closure stays callable until its registration is removed.
package callback

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nvigo/nvigo"
	"github.com/nvigo/nvigo/errors"
	"github.com/nvigo/nvigo/object"
)

// Ref identifies a registered callback. The zero Ref is never issued.
type Ref = object.CallbackRef

// Func is the shape of a registered callback. It borrows args for the
// duration of the call and returns an owning result.
type Func func(args object.Array) (object.Object, error)

type entry struct {
	fn         Func
	finalizers []func() error
	valid      bool
}

// Registry is a slot table with free-list reuse. Refs are dense small
// integers starting at 1, matching what the editor stores on its side.
type Registry struct {
	mu       sync.RWMutex
	entries  []entry
	freeList []Ref
	closed   bool
}

func NewRegistry() *Registry {
	return &Registry{
		entries:  make([]entry, 0, 16),
		freeList: make([]Ref, 0, 4),
	}
}

// Register stores fn and returns its Ref. Finalizers run when the
// registration is removed, in registration order.
func (r *Registry) Register(fn Func, finalizers ...func() error) Ref {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0
	}

	e := entry{fn: fn, finalizers: finalizers, valid: true}
	if len(r.freeList) > 0 {
		ref := r.freeList[len(r.freeList)-1]
		r.freeList = r.freeList[:len(r.freeList)-1]
		r.entries[ref-1] = e
		return ref
	}
	r.entries = append(r.entries, e)
	return Ref(len(r.entries))
}

// Get returns the closure for ref.
func (r *Registry) Get(ref Ref) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := int(ref) - 1
	if idx < 0 || idx >= len(r.entries) || !r.entries[idx].valid {
		return nil, false
	}
	return r.entries[idx].fn, true
}

// Unregister removes ref and runs its finalizers. Removing an unknown or
// already-removed ref is an error, the same class of bug as a double free.
func (r *Registry) Unregister(ref Ref) error {
	r.mu.Lock()
	idx := int(ref) - 1
	if idx < 0 || idx >= len(r.entries) || !r.entries[idx].valid {
		r.mu.Unlock()
		return errors.New(errors.PhaseCall, errors.KindInvalidData).
			Detail("callback ref %d is not registered", ref).
			Build()
	}
	finalizers := r.entries[idx].finalizers
	r.entries[idx] = entry{}
	r.freeList = append(r.freeList, ref)
	r.mu.Unlock()

	var err error
	for _, fn := range finalizers {
		err = multierr.Append(err, fn())
	}
	return err
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for i := range r.entries {
		if r.entries[i].valid {
			n++
		}
	}
	return n
}

// Clear removes every registration, aggregating finalizer failures.
func (r *Registry) Clear() error {
	r.mu.Lock()
	var finalizers []func() error
	for i := range r.entries {
		if r.entries[i].valid {
			finalizers = append(finalizers, r.entries[i].finalizers...)
			r.entries[i] = entry{}
			r.freeList = append(r.freeList, Ref(i+1))
		}
	}
	r.mu.Unlock()

	var err error
	for _, fn := range finalizers {
		err = multierr.Append(err, fn())
	}
	return err
}

// Close clears the table and refuses further registrations. Used on plugin
// teardown.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	return r.Clear()
}

// Dispatch invokes the callback behind o, which must have kind Callback.
func (r *Registry) Dispatch(o object.Object, args object.Array) (object.Object, error) {
	ref, err := object.ToCallback(o)
	if err != nil {
		return object.Nil(), err
	}
	fn, ok := r.Get(ref)
	if !ok {
		return object.Nil(), errors.New(errors.PhaseCall, errors.KindInvalidData).
			Detail("callback ref %d is not registered", ref).
			Build()
	}
	nvigo.Logger().Debug("dispatching callback", zap.Int32("ref", int32(ref)))
	return fn(args)
}

var std = NewRegistry()

// Default returns the process-wide registry, the one Objects of kind
// Callback refer to.
func Default() *Registry {
	return std
}

// Register registers fn in the process-wide registry and returns an Object
// carrying its Ref.
func Register(fn Func, finalizers ...func() error) object.Object {
	return object.FromCallback(std.Register(fn, finalizers...))
}

// Unregister removes a callback from the process-wide registry.
func Unregister(ref Ref) error {
	return std.Unregister(ref)
}
