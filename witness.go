package anyval

import (
	"fmt"
	"reflect"
	"unsafe"
)

// InlineSize is the largest size, in bytes, of a value that an Any stores
// without allocating. The value must also be free of pointers.
const InlineSize = 8

// witness is the capability object of an inlined type. It lets an Any operate
// on its payload bits without naming the payload's type.
//
// It is unexported (and so are its methods) to close the set of
// implementations; the only one is *inlineType[T]. A boxed value can never
// satisfy witness, so a type assertion on the tag tells the two states apart.
type witness interface {
	// typ returns the reflect.Type of the inlined values.
	typ() reflect.Type
	// implements reports whether the inlined type implements iface.
	implements(iface reflect.Type) bool
	// box returns the payload as an interface value; it allocates.
	box(bits uint64) any
	hash(bits uint64) uint64
	format(bits uint64) string
	// equal compares two payloads of this witness' type.
	equal(x, y uint64) bool
	// equalBoxed compares a payload with a boxed value of any type.
	equalBoxed(bits uint64, other any) bool
}

// inlineType is the witness of T. The registry creates exactly one per T, so
// comparing tags compares types, and a successful assertion of a tag to
// *inlineType[T] proves that the payload holds the bits of a T.
type inlineType[T any] struct {
	t   reflect.Type
	ops *valueOps
}

// equaler is satisfied by types that define their own equality, such as
// time.Duration wrappers or fixed-point numbers.
type equaler[T any] interface {
	Equal(T) bool
}

func newInlineType[T any](t reflect.Type) *inlineType[T] {
	if t.Size() > InlineSize {
		panic("anyval: inline witness for oversized type " + t.String())
	}
	return &inlineType[T]{t: t, ops: opsFor(t)}
}

func (w *inlineType[T]) typ() reflect.Type { return w.t }

func (w *inlineType[T]) implements(iface reflect.Type) bool {
	return w.t.Implements(iface)
}

func (w *inlineType[T]) box(bits uint64) any {
	return unpack[T](bits)
}

func (w *inlineType[T]) hash(bits uint64) uint64 {
	return w.ops.hash(unpack[T](bits))
}

func (w *inlineType[T]) format(bits uint64) string {
	return fmt.Sprint(unpack[T](bits))
}

func (w *inlineType[T]) equal(x, y uint64) bool {
	return w.equalValues(unpack[T](x), unpack[T](y))
}

func (w *inlineType[T]) equalBoxed(bits uint64, other any) bool {
	y, ok := other.(T)
	if !ok {
		return false
	}
	return w.equalValues(unpack[T](bits), y)
}

// equalValues is the default equality of T: its Equal method when it has one,
// the == operator otherwise. Inlined types never contain pointers, so they are
// always comparable.
func (w *inlineType[T]) equalValues(x, y T) bool {
	if w.ops.equalFunc.IsValid() {
		// Only converted here: the method call lets x escape.
		return any(x).(equaler[T]).Equal(y)
	}
	return any(x) == any(y)
}

// pack copies the bits of v into the low-addressed bytes of a zeroed word.
//
// Callers must have established that T is inlinable: a T larger than
// InlineSize would overwrite the stack.
func pack[T any](v T) (bits uint64) {
	*(*T)(unsafe.Pointer(&bits)) = v
	return bits
}

// unpack is the inverse of pack. Call it only after the tag of the payload has
// been asserted to be *inlineType[T].
func unpack[T any](bits uint64) T {
	return *(*T)(unsafe.Pointer(&bits))
}

// noescape hides a pointer from escape analysis.
// It is the identity function, but escape analysis does not think the
// output depends on the input.
// noescape is inlined and currently compiles down to zero instructions.
// USE CAREFULLY!
// This was copied from the runtime; see issues 23382 and 7921 (github.com/golang/go).
//
//go:nosplit
//go:nocheckptr
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0) //nolint:govet,staticcheck,gosec // copied from the standard library
}
