package anytest

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/go-anyval/go-anyval"
)

// A check is any function that returns unexpected problems with the given
// [anyval.Any].
type check func(anyval.Any) (problem string)

// exportAll lets cmp look into unexported fields; the values under test are
// arbitrary caller types.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Checks that the Any holds a value of type T.
func holds[T any]() check {
	return func(a anyval.Any) string {
		if !a.HasValue() {
			return "HasValue() = false, want true"
		}
		if got, want := a.Type(), reflect.TypeFor[T](); got != want {
			return fmt.Sprintf("Type() = %v, want %v", got, want)
		}
		if !anyval.Is[T](a) {
			return fmt.Sprintf("Is[%v]() = false, want true", reflect.TypeFor[T]())
		}
		return ""
	}
}

// Checks the storage of the Any.
func boxed(want bool) check {
	return func(a anyval.Any) string {
		if got := a.IsBoxed(); got != want {
			return fmt.Sprintf("IsBoxed() = %v, want %v", got, want)
		}
		return ""
	}
}

// Checks that the value survives a round trip through the Any, using every
// query that should succeed.
func roundTrip[T any](want T) check {
	return func(a anyval.Any) string {
		got, err := anyval.Cast[T](a)
		if err != nil {
			return fmt.Sprintf("Cast() failed: %v", err)
		}
		if diff := cmp.Diff(want, got, exportAll); diff != "" {
			return fmt.Sprintf("Cast() mismatch (-want +got):\n%v", diff)
		}
		got, ok := anyval.As[T](a)
		if !ok {
			return "As() = _, false, want true"
		}
		if diff := cmp.Diff(want, got, exportAll); diff != "" {
			return fmt.Sprintf("As() mismatch (-want +got):\n%v", diff)
		}
		n, err := anyval.CastNullable[T](a)
		if err != nil || !n.Valid {
			return fmt.Sprintf("CastNullable() = %v, %v, want a present value", n, err)
		}
		if diff := cmp.Diff(want, a.Interface(), exportAll); diff != "" {
			return fmt.Sprintf("Interface() mismatch (-want +got):\n%v", diff)
		}
		return ""
	}
}

// Checks that queries for unrelated types fail the way they are documented to.
func strict[T any]() check {
	return func(a anyval.Any) string {
		if anyval.Is[anyval.Any](a) {
			return "Is[Any]() = true, want false"
		}
		if anyval.Is[anyval.Nullable[T]](a) {
			return "Is[Nullable]() = true, want false"
		}
		_, err := anyval.Cast[mismatch](a)
		var castErr *anyval.CastError
		if !errors.As(err, &castErr) || !errors.Is(err, anyval.ErrInvalidCast) {
			return fmt.Sprintf("Cast[mismatch]() error = %v, want a *CastError", err)
		}
		if castErr.From != a.Type() {
			return fmt.Sprintf("CastError.From = %v, want %v", castErr.From, a.Type())
		}
		return ""
	}
}

// mismatch is a type no Any under test can hold.
type mismatch struct{ _ byte }

// Checks that the Any is equal to other, with equal hashes, in both directions.
func equivalentTo(other anyval.Any) check {
	return func(a anyval.Any) string {
		if !a.Equal(other) {
			return fmt.Sprintf("Equal(%v) = false, want true", other)
		}
		if !other.Equal(a) {
			return fmt.Sprintf("%v.Equal(self) = false, want true", other)
		}
		if a.Hash() != other.Hash() {
			return fmt.Sprintf("Hash() = %x, want %x (the hash of %v)", a.Hash(), other.Hash(), other)
		}
		return ""
	}
}

// Checks that two Anys created from the same value share their witness and
// payload.
func identicalTo(other anyval.Any) check {
	return func(a anyval.Any) string {
		if !anyval.AreIdentical(a, other) {
			return "AreIdentical(a, Create(v)) = false, want true"
		}
		return ""
	}
}

// Checks the formatting of the Any against the formatting of its value.
func formats(v any) check {
	return func(a anyval.Any) string {
		if got, want := a.String(), fmt.Sprint(v); got != want {
			return fmt.Sprintf("String() = %q, want %q", got, want)
		}
		if got, want := fmt.Sprintf("%+v", a), fmt.Sprintf("%+v", v); got != want {
			return fmt.Sprintf("Sprintf(%%+v) = %q, want %q", got, want)
		}
		return ""
	}
}

// Checks every property of the empty Any.
func empty() check {
	return func(a anyval.Any) string {
		if a.HasValue() {
			return fmt.Sprintf("HasValue() = true (holding %v), want false", a.Type())
		}
		if a.Type() != nil || a.IsBoxed() || a.Interface() != nil {
			return fmt.Sprintf("Type(), IsBoxed(), Interface() = %v, %v, %v, want nil, false, nil",
				a.Type(), a.IsBoxed(), a.Interface())
		}
		if a.String() != "" || a.Hash() != 0 {
			return fmt.Sprintf("String(), Hash() = %q, %v, want \"\", 0", a.String(), a.Hash())
		}
		if !a.Equal(anyval.Any{}) || !anyval.AreIdentical(a, anyval.Any{}) {
			return "the Any is not equal and identical to Any{}"
		}
		if _, err := anyval.Cast[int](a); !errors.Is(err, anyval.ErrNil) {
			return fmt.Sprintf("Cast() error = %v, want ErrNil", err)
		}
		if n, err := anyval.CastNullable[int](a); err != nil || n.Valid {
			return fmt.Sprintf("CastNullable() = %v, %v, want an absent value", n, err)
		}
		return ""
	}
}
