package anyval

import (
	"fmt"
	"reflect"
)

// Is reports whether a holds a value of type T.
//
// For a concrete T, the value must be of type T exactly; Is never allocates.
// For an interface type T, the value must implement T.
// Is[Any] and Is[Nullable[U]] are always false: Create unwraps both.
func Is[T any](a Any) bool {
	switch tag := a.tag.(type) {
	case nil:
		return false
	case *inlineType[T]:
		return true
	case witness:
		t := reflect.TypeFor[T]()
		return t.Kind() == reflect.Interface && tag.implements(t)
	default:
		_, ok := tag.(T)
		return ok
	}
}

// As returns the value held by a as a T, and whether that succeeded. It
// follows the same rules as Is.
//
// For an interface type T and an inlined value, the value is boxed to be
// returned, which allocates on every call.
func As[T any](a Any) (T, bool) {
	switch tag := a.tag.(type) {
	case nil:
	case *inlineType[T]:
		return unpack[T](a.data), true
	case witness:
		t := reflect.TypeFor[T]()
		if t.Kind() == reflect.Interface && tag.implements(t) {
			measureBoxOnDemand()
			return tag.box(a.data).(T), true
		}
	default:
		v, ok := tag.(T)
		return v, ok
	}
	var zero T
	return zero, false
}

// TryGetValue is As, for callers that want to rule out double optionality: it
// panics with ErrInvalidOperation if T is a Nullable, since an empty Any
// already represents an absent value. Use CastNullable instead.
func TryGetValue[T any](a Any) (T, bool) {
	if infoFor[T]().shape == shapeNullable {
		panic(fmt.Errorf("anyval.TryGetValue: %w: %v is a Nullable; use CastNullable",
			ErrInvalidOperation, reflect.TypeFor[T]()))
	}
	return As[T](a)
}

// Cast returns the value held by a as a T. It returns ErrNil if a is empty, and
// a *CastError if the value is not a T (see Is).
func Cast[T any](a Any) (T, error) {
	if v, ok := As[T](a); ok {
		return v, nil
	}
	var zero T
	if a.tag == nil {
		return zero, ErrNil
	}
	return zero, &CastError{From: a.Type(), To: reflect.TypeFor[T]()}
}

// MustCast is like Cast but panics if the cast fails.
func MustCast[T any](a Any) T {
	v, err := Cast[T](a)
	if err != nil {
		panic(err)
	}
	return v
}

// CastNullable is like Cast, except that an empty Any results in an absent
// Nullable rather than an error.
func CastNullable[T any](a Any) (Nullable[T], error) {
	if a.tag == nil {
		return Nullable[T]{}, nil
	}
	v, err := Cast[T](a)
	if err != nil {
		return Nullable[T]{}, err
	}
	return Some(v), nil
}
