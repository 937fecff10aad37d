package object

import (
	"math/rand"
	"testing"

	"github.com/nvigo/nvigo/internal/cmem"
)

// Constructing views must not touch the allocation registry: the source
// stays the sole owner and no reference count exists to bump.
func TestNonOwningViewDoesNotAllocate(t *testing.T) {
	s := NewString("shared")
	a0, f0 := cmem.Counters()

	for i := 0; i < 100; i++ {
		view := s.NonOwning()
		if got := view.View().String(); got != "shared" {
			t.Fatalf("view contents = %q", got)
		}
	}

	a1, f1 := cmem.Counters()
	if a1 != a0 || f1 != f0 {
		t.Errorf("views touched the registry: allocs %d->%d, frees %d->%d", a0, a1, f0, f1)
	}

	s.Free()
}

func TestIntoOwnedSurvivesSourceRelease(t *testing.T) {
	arr := NewArray(FromGoString("keep"), FromInteger(1))
	view := arr.NonOwning()

	owned := IntoOwned(view)
	arr.Free()

	if owned.Len() != 2 {
		t.Fatalf("owned len = %d", owned.Len())
	}
	if s, err := ToGoString(owned.Get(0)); err != nil || s != "keep" {
		t.Errorf("owned element = %q, %v", s, err)
	}
	owned.Free()
}

// randomObject builds a random owning object tree with bounded depth.
func randomObject(rng *rand.Rand, depth int) Object {
	kind := rng.Intn(7)
	if depth <= 0 && kind >= 5 {
		kind = rng.Intn(5)
	}
	switch kind {
	case 0:
		return Nil()
	case 1:
		return FromBool(rng.Intn(2) == 0)
	case 2:
		return FromInteger(rng.Int63() - rng.Int63())
	case 3:
		return FromFloat(rng.NormFloat64())
	case 4:
		buf := make([]byte, rng.Intn(24))
		for i := range buf {
			buf[i] = byte('a' + rng.Intn(26))
		}
		return FromString(NewStringFromBytes(buf))
	case 5:
		n := rng.Intn(4)
		items := make([]Object, n)
		for i := range items {
			items[i] = randomObject(rng, depth-1)
		}
		return FromArray(NewArray(items...))
	default:
		n := rng.Intn(4)
		pairs := make([]KeyValuePair, n)
		for i := range pairs {
			pairs[i] = Pair(string(rune('a'+i)), randomObject(rng, depth-1))
		}
		return FromDictionary(NewDictionary(pairs...))
	}
}

// Randomized construct/view/destroy sequences: after every object is freed
// the registry must balance exactly, proving no allocation is released
// twice and none leaks. cmem panics on a double release, failing the test.
func TestOwnershipStress(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	a0, f0 := cmem.Counters()

	live := make([]Object, 0, 64)
	for i := 0; i < 10000; i++ {
		switch {
		case len(live) == 0 || rng.Intn(3) > 0:
			obj := randomObject(rng, 3)

			// Exercise views while the owner is alive.
			for v := 0; v < rng.Intn(3); v++ {
				view := obj.NonOwning()
				_ = view.View().Kind()
			}
			live = append(live, obj)
		default:
			idx := rng.Intn(len(live))
			live[idx].Free()
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}
	for i := range live {
		live[i].Free()
	}

	a1, f1 := cmem.Counters()
	if a1-a0 != f1-f0 {
		t.Fatalf("registry unbalanced after stress: %d allocs, %d frees", a1-a0, f1-f0)
	}
}

// A round-trip through clone-and-free at every step keeps the registry
// balanced under fuzzed string input.
func FuzzStringOwnership(f *testing.F) {
	f.Add("hello")
	f.Add("")
	f.Add("héllo wörld")
	f.Fuzz(func(t *testing.T, s string) {
		a0, f0 := cmem.Counters()

		obj := FromGoString(s)
		clone := obj.Clone()
		if !obj.Equal(clone) {
			t.Fatal("clone differs")
		}
		obj.Free()
		clone.Free()

		a1, f1 := cmem.Counters()
		if a1-a0 != f1-f0 {
			t.Fatalf("unbalanced: %d allocs, %d frees", a1-a0, f1-f0)
		}
	})
}
