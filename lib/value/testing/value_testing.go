package testing

import (
	"testing"

	"github.com/ValentinKolb/palcube/lib/value"
)

// ValueFactory returns the i-th distinct sample value. Calling it twice with
// the same i must return equal values, different i must return unequal values.
type ValueFactory[E any] func(i int) E

// Mutator modifies a value in place (through a pointer). It is used to check
// that clones are independent. May be nil for immutable types.
type Mutator[E any] func(v *E)

// RunValueTests runs the conformance suite for a value.Value implementation.
func RunValueTests[E value.Value[E]](t *testing.T, name string, factory ValueFactory[E], mutate Mutator[E]) {
	t.Run(name, func(t *testing.T) {
		t.Run("EqualReflexive", func(t *testing.T) {
			testEqualReflexive(t, factory)
		})

		t.Run("EqualDistinct", func(t *testing.T) {
			testEqualDistinct(t, factory)
		})

		t.Run("HashConsistent", func(t *testing.T) {
			testHashConsistent(t, factory)
		})

		t.Run("CloneEqual", func(t *testing.T) {
			testCloneEqual(t, factory)
		})

		t.Run("CloneIndependent", func(t *testing.T) {
			if mutate == nil {
				t.Skip()
			}
			testCloneIndependent(t, factory, mutate)
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testEqualReflexive[E value.Value[E]](t *testing.T, factory ValueFactory[E]) {
	for i := 0; i < 8; i++ {
		v := factory(i)
		if !v.Equal(v) {
			t.Errorf("Expected value %d to equal itself", i)
		}
		if !v.Equal(factory(i)) || !factory(i).Equal(v) {
			t.Errorf("Expected two values created for %d to be equal", i)
		}
	}
}

func testEqualDistinct[E value.Value[E]](t *testing.T, factory ValueFactory[E]) {
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if i == j {
				continue
			}
			if factory(i).Equal(factory(j)) {
				t.Errorf("Expected values %d and %d to differ", i, j)
			}
		}
	}
}

func testHashConsistent[E value.Value[E]](t *testing.T, factory ValueFactory[E]) {
	seen := make(map[uint64]int)
	for i := 0; i < 64; i++ {
		v := factory(i)
		if v.Hash() != v.Hash() {
			t.Errorf("Expected hash of value %d to be stable", i)
		}
		if v.Hash() != factory(i).Hash() {
			t.Errorf("Expected equal values to have equal hashes (value %d)", i)
		}
		seen[v.Hash()]++
	}
	// collisions are legal but 64 small samples should not collide much
	if len(seen) < 60 {
		t.Errorf("Expected mostly distinct hashes, got %d distinct of 64", len(seen))
	}
}

func testCloneEqual[E value.Value[E]](t *testing.T, factory ValueFactory[E]) {
	for i := 0; i < 8; i++ {
		v := factory(i)
		c := v.Clone()
		if !c.Equal(v) || !v.Equal(c) {
			t.Errorf("Expected clone of value %d to be equal", i)
		}
		if c.Hash() != v.Hash() {
			t.Errorf("Expected clone of value %d to have the same hash", i)
		}
	}
}

func testCloneIndependent[E value.Value[E]](t *testing.T, factory ValueFactory[E], mutate Mutator[E]) {
	original := factory(0)
	clone := original.Clone()
	mutate(&clone)

	if clone.Equal(original) {
		t.Fatalf("Mutator did not change the value")
	}
	if !original.Equal(factory(0)) {
		t.Errorf("Expected mutating a clone to leave the original untouched")
	}
}
