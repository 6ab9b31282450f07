package anyval

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Any holds a value of any type, or nothing at all.
//
// It is similar to assigning a value to a variable of type any. The difference
// is that small values are not boxed: a value whose type is at most InlineSize
// bytes large and contains no pointers is stored in the Any itself. That covers
// booleans, integers, floats, complex64, time.Duration, most enums and small
// structs or arrays of those.
//
// The zero value is empty. An Any is immutable and safe to copy and to use
// from multiple goroutines.
//
// Any values cannot be compared with ==; use Equal for value equality and
// AreIdentical for identity.
type Any struct {
	_ [0]func()

	// tag contains one of the following:
	//   - nil: the Any is empty and data is 0.
	//   - a witness: the value is inlined into data.
	//   - anything else: the boxed value itself; data is 0.
	tag  any
	data uint64
}

// Create wraps value in an Any, avoiding a heap allocation whenever the type
// of value allows it.
//
// The representation is chosen once per type parameter:
//   - an Any is returned unchanged; Anys are never nested.
//   - an absent Nullable results in an empty Any; a present one is stored
//     like its Value.
//   - inlinable values are stored in the Any without allocating.
//   - nil pointers, maps, channels, functions and interfaces result in an
//     empty Any.
//   - an interface holding an Any or a Nullable is unwrapped first.
//   - everything else is boxed.
func Create[T any](value T) Any {
	info := infoFor[T]()
	switch info.shape {
	case shapeInline:
		return Any{tag: info.witness, data: pack(value)}
	case shapeAny:
		return *(*Any)(unsafe.Pointer(&value))
	case shapeNullable:
		return info.nullable.create(noescape(unsafe.Pointer(&value)))
	case shapeInterface:
		return fromInterface(any(value))
	case shapePointer:
		return fromPointer(any(value))
	default:
		return Any{tag: any(value)}
	}
}

// fromInterface stores the dynamic value of an interface. Values that are
// already boxed stay boxed, even if their type is inlinable.
func fromInterface(v any) Any {
	switch x := v.(type) {
	case nil:
		return Any{}
	case Any:
		return x
	}
	t := reflect.TypeOf(v)
	if isNullableType(t) {
		return v.(nullable).toAny()
	}
	// A nil pointer held by a non-nil interface is still a nil reference. The
	// data word is also nil for structs and arrays made of a single nil
	// pointer, which are values, hence the kind check.
	if isNilData(v) && isPointerShaped(t.Kind()) {
		return Any{}
	}
	return Any{tag: v}
}

// fromPointer stores a value whose static type is pointer-shaped.
func fromPointer(v any) Any {
	if isNilData(v) {
		return Any{}
	}
	return Any{tag: v}
}

func isNilData(v any) bool {
	return (*eface)(unsafe.Pointer(&v)).data == nil
}

// eface is the layout of an interface value with no methods.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// HasValue reports whether a holds a value.
func (a Any) HasValue() bool { return a.tag != nil }

// Type returns the type of the contained value, or nil if a is empty. It never
// returns the type of Any itself.
func (a Any) Type() reflect.Type {
	switch tag := a.tag.(type) {
	case nil:
		return nil
	case witness:
		return tag.typ()
	default:
		return reflect.TypeOf(tag)
	}
}

// IsBoxed reports whether the value is stored on the heap rather than inside
// a. An empty Any is not boxed.
func (a Any) IsBoxed() bool {
	if a.tag == nil {
		return false
	}
	_, inline := a.tag.(witness)
	return !inline
}

// Interface returns the value as an interface value, boxing it if it was
// inlined. It returns nil if a is empty.
func (a Any) Interface() any {
	if w, ok := a.tag.(witness); ok {
		measureBoxOnDemand()
		return w.box(a.data)
	}
	return a.tag
}

// String formats the value like fmt.Sprint would. An empty Any formats as the
// empty string.
func (a Any) String() string {
	switch tag := a.tag.(type) {
	case nil:
		return ""
	case witness:
		return tag.format(a.data)
	default:
		return fmt.Sprint(tag)
	}
}

// Format implements fmt.Formatter by formatting the value with the same verb
// and flags. An empty Any writes nothing.
func (a Any) Format(f fmt.State, verb rune) {
	var v any
	switch tag := a.tag.(type) {
	case nil:
		return
	case witness:
		measureBoxOnDemand()
		v = tag.box(a.data)
	default:
		v = tag
	}
	fmt.Fprintf(f, fmt.FormatString(f, verb), v)
}
