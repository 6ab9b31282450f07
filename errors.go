package anyval

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNil is returned when a non-nullable cast is attempted on an empty Any.
	ErrNil = errors.New("anyval: value is nil")
	// ErrInvalidCast is wrapped by every *CastError.
	ErrInvalidCast = errors.New("anyval: invalid cast")
	// ErrInvalidOperation is panicked by TryGetValue when its type parameter is a
	// Nullable; an empty Any already represents the absent value.
	ErrInvalidOperation = errors.New("anyval: invalid operation")
)

// A CastError describes a cast whose requested type does not match the
// contained value.
type CastError struct {
	From reflect.Type // the type of the contained value
	To   reflect.Type // the requested type
}

func (e *CastError) Error() string {
	return fmt.Sprintf("anyval: cannot cast %v to %v", e.From, e.To)
}

func (e *CastError) Unwrap() error { return ErrInvalidCast }
