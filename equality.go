package anyval

import (
	"hash/maphash"
	"reflect"
	"strconv"
	"sync"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Hasher is implemented by types that provide their own hash. Types that
// define an Equal method should implement Hasher too; without it their values
// hash by type only, which is consistent with any Equal but collides a lot.
type Hasher interface {
	Hash() uint64
}

// seed is shared by every hash of the process. Hashes are not stable across
// processes.
var seed = maphash.MakeSeed()

// AreIdentical reports whether a and b hold the same tag and the same payload
// bits. It does not call into the values: two separately boxed copies of equal
// values are not identical, while two inlined equal values usually are.
//
// It is the equivalent of comparing references, generalised to inlined values.
func AreIdentical(a, b Any) bool {
	x := (*eface)(unsafe.Pointer(&a.tag))
	y := (*eface)(unsafe.Pointer(&b.tag))
	return x.typ == y.typ && x.data == y.data && a.data == b.data
}

// Equal reports whether a and b hold equal values, as if both had been boxed:
//   - two empty Anys are equal; an empty Any equals no other.
//   - two inlined values of the same type use that type's equality.
//   - two inlined values of different types are never equal.
//   - otherwise the values are equal if they have the same dynamic type and
//     the type's equality holds, whichever side is inlined.
//
// A type's equality is its Equal(T) bool method if it has one, the ==
// operator if its values are comparable, and reflect.DeepEqual otherwise.
// Floating point NaNs are therefore never equal, exactly like interface
// values.
func (a Any) Equal(b Any) bool {
	if a.tag == nil {
		return b.tag == nil
	}
	if b.tag == nil {
		return false
	}
	if wa, ok := a.tag.(witness); ok {
		if wb, ok := b.tag.(witness); ok {
			if wa != wb {
				return false
			}
			return wa.equal(a.data, b.data)
		}
		return wa.equalBoxed(a.data, b.tag)
	}
	if wb, ok := b.tag.(witness); ok {
		return wb.equalBoxed(b.data, a.tag)
	}
	return equalBoxed(a.tag, b.tag)
}

// Hash returns a hash of the value consistent with Equal, regardless of how
// either side is stored. An empty Any hashes to 0.
func (a Any) Hash() uint64 {
	switch tag := a.tag.(type) {
	case nil:
		return 0
	case witness:
		return tag.hash(a.data)
	default:
		return opsFor(reflect.TypeOf(tag)).hash(tag)
	}
}

func equalBoxed(x, y any) bool {
	t := reflect.TypeOf(x)
	if t != reflect.TypeOf(y) {
		return false
	}
	return opsFor(t).equal(x, y)
}

// valueOps is how equality and hashing are delegated for one dynamic type.
type valueOps struct {
	typ reflect.Type
	// equalFunc is the type's Equal(T) bool method, if any.
	equalFunc reflect.Value
	hasher    bool
	// comparable is reflect.Type.Comparable; dynamic is set when some values of
	// a comparable type may still panic on == because an interface inside holds
	// an incomparable value.
	comparable bool
	dynamic    bool
	// typeHash is the hash of values that can only be hashed by their type. It
	// digests the type's name, kind and size, so distinct types sharing all
	// three (local types of one package) share a typeHash.
	typeHash uint64
}

var ops sync.Map // reflect.Type -> *valueOps

var (
	hasherType = reflect.TypeFor[Hasher]()
	boolType   = reflect.TypeFor[bool]()
)

func opsFor(t reflect.Type) *valueOps {
	if v, ok := ops.Load(t); ok {
		return v.(*valueOps)
	}
	o := &valueOps{
		typ:        t,
		hasher:     t.Implements(hasherType),
		comparable: t.Comparable(),
		dynamic:    holdsInterface(t),
		typeHash:   typeHash(t),
	}
	if m, ok := t.MethodByName("Equal"); ok && isEqualMethod(m, t) {
		o.equalFunc = m.Func
	}
	v, _ := ops.LoadOrStore(t, o)
	return v.(*valueOps)
}

func typeHash(t reflect.Type) uint64 {
	return xxhash.Sum64String(typeKey(t) + " " + t.Kind().String() + " " + strconv.FormatUint(uint64(t.Size()), 10))
}

// isEqualMethod reports whether m has the signature func(T) bool, receiver
// included.
func isEqualMethod(m reflect.Method, t reflect.Type) bool {
	mt := m.Type
	return mt.NumIn() == 2 && mt.In(1) == t &&
		mt.NumOut() == 1 && mt.Out(0) == boolType
}

func (o *valueOps) equal(x, y any) bool {
	if o.equalFunc.IsValid() {
		out := o.equalFunc.Call([]reflect.Value{reflect.ValueOf(x), reflect.ValueOf(y)})
		return out[0].Bool()
	}
	if o.canCompare(x) && o.canCompare(y) {
		return x == y
	}
	return reflect.DeepEqual(x, y)
}

func (o *valueOps) hash(v any) uint64 {
	switch {
	case o.hasher:
		return v.(Hasher).Hash()
	case o.equalFunc.IsValid(), !o.canCompare(v):
		return o.typeHash
	default:
		return maphash.Comparable(seed, v)
	}
}

// canCompare reports whether v, of the ops' type, can be compared with ==
// without panicking.
func (o *valueOps) canCompare(v any) bool {
	if !o.comparable {
		return false
	}
	return !o.dynamic || reflect.ValueOf(v).Comparable()
}

// holdsInterface reports whether a value of type t may contain an interface
// value, and not through a pointer.
func holdsInterface(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && holdsInterface(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if holdsInterface(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
