package anyval

import (
	"reflect"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// A shape is the representation Create picks for a static type.
type shape uint8

const (
	// shapeBoxed stores the value as an interface value; it allocates.
	shapeBoxed shape = iota
	// shapeInline stores the bits of the value next to its witness.
	shapeInline
	// shapeAny is the Any type itself, which is never wrapped twice.
	shapeAny
	// shapeNullable is a Nullable[T]; it is unwrapped before classification.
	shapeNullable
	// shapeInterface is an interface type whose dynamic value decides.
	shapeInterface
	// shapePointer is a pointer, map, chan, func or unsafe.Pointer type.
	shapePointer
)

func (s shape) String() string {
	switch s {
	case shapeBoxed:
		return "boxed"
	case shapeInline:
		return "inline"
	case shapeAny:
		return "any"
	case shapeNullable:
		return "nullable"
	case shapeInterface:
		return "interface"
	case shapePointer:
		return "pointer"
	default:
		return "shape(" + strconv.Itoa(int(s)) + ")"
	}
}

// typeInfo is the registry's immutable record about a static type.
type typeInfo struct {
	typ   reflect.Type
	shape shape
	// witness is set for shapeInline only.
	witness witness
	// nullable is set for shapeNullable only.
	nullable nullableAdapter
}

var anyType = reflect.TypeFor[Any]()

// registry maps a reflect.Type to its *typeInfo. Records are computed at most
// once per type (singleflight) and published with LoadOrStore, so callers
// racing on the first use of a type converge on a single record, and therefore
// on a single witness.
var registry struct {
	types sync.Map // reflect.Type -> *typeInfo
	group singleflight.Group
}

// infoFor returns the record of T, classifying T on first use.
func infoFor[T any]() *typeInfo {
	t := reflect.TypeFor[T]()
	if v, ok := registry.types.Load(t); ok {
		return v.(*typeInfo)
	}
	return register[T](t)
}

func register[T any](t reflect.Type) *typeInfo {
	v, _, _ := registry.group.Do(typeKey(t), func() (any, error) {
		return publish(classify[T](t)), nil
	})
	info := v.(*typeInfo)
	if info.typ != t {
		// Distinct types may share a key (e.g. two local types with the same name
		// in one package); the flight we joined was for the other one.
		info = publish(classify[T](t))
	}
	return info
}

// publish stores info unless a record for its type already exists, and returns
// the record that won.
func publish(info *typeInfo) *typeInfo {
	v, loaded := registry.types.LoadOrStore(info.typ, info)
	if !loaded {
		zap.S().Debugw("anyval: registered type",
			"type", info.typ.String(),
			"shape", info.shape.String(),
			"size", info.typ.Size(),
		)
		measureRegistration(info.shape)
	}
	return v.(*typeInfo)
}

func typeKey(t reflect.Type) string {
	return t.PkgPath() + " " + t.String()
}

// classify decides how values of the static type T are stored.
func classify[T any](t reflect.Type) *typeInfo {
	info := &typeInfo{typ: t}
	switch {
	case t == anyType:
		info.shape = shapeAny
	case t.Kind() == reflect.Interface:
		info.shape = shapeInterface
	case isPointerShaped(t.Kind()):
		info.shape = shapePointer
	default:
		if isNullableType(t) {
			var zero T
			info.shape = shapeNullable
			info.nullable = any(zero).(nullable).adapter()
		} else if inlinable(t) {
			info.shape = shapeInline
			info.witness = newInlineType[T](t)
		} else {
			info.shape = shapeBoxed
		}
	}
	return info
}

// inlinable reports whether the bits of a t can live inside an Any: it must
// fit in InlineSize bytes and hold no pointers the garbage collector would
// need to see.
func inlinable(t reflect.Type) bool {
	return t.Size() <= InlineSize && !hasPointers(t)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// pointers, strings, slices, maps, channels, functions, interfaces and
		// unsafe pointers
		return true
	}
}

// isPointerShaped reports whether values of kind k are a single machine
// pointer, which converts to an interface value without allocating and whose
// zero value is nil.
func isPointerShaped(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
