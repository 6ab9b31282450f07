package anyval

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// Nullable is a value of type T that may be absent. It is the optional value
// type Create understands: an invalid Nullable becomes an empty Any, and a
// valid one is stored exactly like its Value would be.
//
// The zero value is absent.
type Nullable[T any] struct {
	Value T
	Valid bool // Valid is true if Value is present.
}

// Some returns a present Nullable holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Valid: true}
}

// None returns an absent Nullable.
func None[T any]() Nullable[T] {
	return Nullable[T]{}
}

// Get returns the value and whether it is present.
func (n Nullable[T]) Get() (T, bool) {
	return n.Value, n.Valid
}

// Or returns the value if present, and fallback otherwise.
func (n Nullable[T]) Or(fallback T) T {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// String formats the value, or returns the empty string if it is absent.
func (n Nullable[T]) String() string {
	if !n.Valid {
		return ""
	}
	return fmt.Sprint(n.Value)
}

func (n Nullable[T]) toAny() Any {
	if !n.Valid {
		return Any{}
	}
	return Create(n.Value)
}

func (Nullable[T]) adapter() nullableAdapter { return nullableOf[T]{} }

// nullable is implemented by every Nullable[T]. Pointers to Nullable, and types
// embedding one, implement it too. Calling its methods through a nil pointer
// panics, so callers check isNullableType before trusting it.
type nullable interface {
	toAny() Any
	adapter() nullableAdapter
}

var nullablePrefix = reflect.TypeFor[Nullable[int]]().PkgPath() + ".Nullable["

// isNullableType reports whether t is an instantiation of Nullable. It only
// looks at t, never at a value of t.
func isNullableType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		strings.HasPrefix(t.PkgPath()+"."+t.Name(), nullablePrefix)
}

// A nullableAdapter resolves a Nullable[T] to the classification of its T. The
// registry obtains it once per Nullable type through the generic instantiation
// rather than by inspecting the type with reflection.
type nullableAdapter interface {
	// create returns the Any for the Nullable at p. It does not retain p.
	create(p unsafe.Pointer) Any
}

type nullableOf[T any] struct{}

func (nullableOf[T]) create(p unsafe.Pointer) Any {
	return (*Nullable[T])(p).toAny()
}
