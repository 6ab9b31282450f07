// Package anyval provides Any, a value that can hold a value of any type without
// boxing the small ones.
//
// Assigning a value to an interface (a.k.a. boxing) allocates unless the value
// is pointer-shaped or one of the few values the runtime keeps preallocated. An
// Any is two words larger than an interface value but stores booleans, numbers,
// durations, enums and other small pointer-free values directly in its own
// memory. Strings, slices, pointers and larger values are held the same way an
// interface value would hold them.
//
// The representation is an implementation detail; an Any behaves exactly as if
// every value had been boxed:
//
//	a := anyval.Create(42)                    // inline; no allocation
//	b := anyval.Create[any](42)               // boxed
//	a.Equal(b)                                // true
//	a.Hash() == b.Hash()                      // true
//	n, err := anyval.Cast[int](a)             // 42, nil
//	_, err = anyval.Cast[string](a)           // *CastError
//	s, ok := anyval.As[fmt.Stringer](a)       // nil, false
//
// Create never nests containers: creating an Any from an Any (even through an
// interface) returns it unchanged. Likewise, nil pointers, maps, channels,
// functions, interfaces and absent Nullable values all produce the empty Any.
//
// # Types
//
// Every type is classified the first time it is passed to Create or a query,
// and the result is kept for the lifetime of the process. Inlinable types get a
// witness: a small object that knows how to compare, hash, format and box the
// bits of the type. Witnesses are unique per type, which is what lets a query
// confirm the type of an inlined payload with a single comparison.
//
// # Equality
//
// Equal delegates to the Equal(T) bool method of the contained type when it has
// one (time.Time for instance), to the == operator when values are comparable,
// and to reflect.DeepEqual otherwise. Hash is consistent with Equal; types with
// their own Equal method should implement Hasher as well.
package anyval
