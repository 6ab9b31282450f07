/*
Package anytest provides checks designed to assess that values stored in an
[anyval.Any] behave exactly as if they had been boxed in an interface value.

Types are classified on first use, so the checks are most useful when run on
the types a program actually stores. Call the Check functions in a test of
your own, one per type:

	func TestAnyval(t *testing.T) {
		anytest.CheckInline(t, Celsius(21.5))    // 8 bytes, no pointers
		anytest.CheckBoxed(t, Reading{"a", 1})   // holds a string
		anytest.CheckEmpty(t, anyval.Create[*Reading](nil))
	}

Run executes the same checks against a fixed set of cases covering the
built-in types and the edges of the inline representation.

The checks focus on behaviour that is observable through the public API:

  - Storage: whether the value is inlined or boxed.
  - Round trips: every query returns the value that was stored.
  - Equivalence: an inlined value is equal to, and hashes like, its boxed twin.
  - Registration: racing first uses of a type agree on a single witness.
*/
package anytest

import (
	"fmt"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/go-anyval/go-anyval"
)

// CheckInline checks that v is stored without boxing and that the resulting
// Any is indistinguishable from one holding a boxed copy of v.
func CheckInline[T any](t testing.TB, v T) {
	t.Helper()
	a := anyval.Create(v)
	report(t, fmt.Sprintf("Create(%#v)", v), a,
		holds[T](),
		boxed(false),
		roundTrip(v),
		strict[T](),
		equivalentTo(anyval.Create[any](v)),
		identicalTo(anyval.Create(v)),
		formats(v),
	)
}

// CheckBoxed checks that v is boxed and that every query treats it as a T.
func CheckBoxed[T any](t testing.TB, v T) {
	t.Helper()
	a := anyval.Create(v)
	report(t, fmt.Sprintf("Create(%#v)", v), a,
		holds[T](),
		boxed(true),
		roundTrip(v),
		strict[T](),
		equivalentTo(anyval.Create[any](v)),
		formats(v),
	)
}

// CheckEmpty checks that a is the empty Any.
func CheckEmpty(t testing.TB, a anyval.Any) {
	t.Helper()
	report(t, "Any", a, empty())
}

// CheckEquivalent checks that a and b are equal and hash alike, whatever their
// storage.
func CheckEquivalent(t testing.TB, a, b anyval.Any) {
	t.Helper()
	report(t, fmt.Sprintf("Any(%v)", a), a, equivalentTo(b))
}

// CheckRegistration races Goroutines goroutines on the first use of T, each
// creating Iterations Anys from v. Every goroutine must observe the same
// witness (or, for boxed types, an equal value) and cast back to v.
//
// T must not have been used before for the race to be meaningful; declare a
// type local to the test.
func CheckRegistration[T any](t testing.TB, v T) {
	t.Helper()

	var (
		g       errgroup.Group
		start   = make(chan struct{})
		results = make([]anyval.Any, *Goroutines)
	)
	for i := range results {
		g.Go(func() error {
			<-start
			for n := 0; n < *Iterations; n++ {
				a := anyval.Create(v)
				if _, err := anyval.Cast[T](a); err != nil {
					return fmt.Errorf("goroutine %d: Cast() failed: %w", i, err)
				}
				if n == 0 {
					results[i] = a
				}
			}
			return nil
		})
	}
	close(start)
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	first := results[0]
	for i, a := range results[1:] {
		if first.IsBoxed() {
			if !first.Equal(a) {
				t.Errorf("goroutine %d created %v, goroutine 0 created %v", i+1, a, first)
			}
			continue
		}
		if !anyval.AreIdentical(first, a) {
			t.Errorf("goroutine %d and goroutine 0 disagree on the witness of %T", i+1, v)
		}
	}
}

// A testCase stores a single value and runs the checks matching its expected
// storage.
type testCase struct {
	// Subtest name.
	name string
	// A path leading to the test-case's file and line in the source code.
	location string
	run      func(testing.TB)
}

type (
	pair32     struct{ A, B int32 }
	pair64     struct{ A, B int64 }
	withString struct {
		ID   int32
		Name string
	}
	celsius float64
)

func (c celsius) String() string { return fmt.Sprintf("%.1f°C", float64(c)) }

var cases = []testCase{
	{name: "bool", location: locateSource(), run: func(t testing.TB) { CheckInline(t, true) }},
	{name: "int", location: locateSource(), run: func(t testing.TB) { CheckInline(t, -42) }},
	{name: "uint8", location: locateSource(), run: func(t testing.TB) { CheckInline(t, uint8(200)) }},
	{name: "uintptr", location: locateSource(), run: func(t testing.TB) { CheckInline(t, uintptr(0xdead)) }},
	{name: "float32", location: locateSource(), run: func(t testing.TB) { CheckInline(t, float32(1.5)) }},
	{name: "float64", location: locateSource(), run: func(t testing.TB) { CheckInline(t, 3.25) }},
	{name: "complex64", location: locateSource(), run: func(t testing.TB) { CheckInline(t, complex64(1+2i)) }},
	{name: "stringer", location: locateSource(), run: func(t testing.TB) { CheckInline(t, celsius(21.5)) }},
	{name: "pair32", location: locateSource(), run: func(t testing.TB) { CheckInline(t, pair32{1, 2}) }},
	{name: "array", location: locateSource(), run: func(t testing.TB) { CheckInline(t, [4]uint16{1, 2, 3, 4}) }},
	{name: "empty-struct", location: locateSource(), run: func(t testing.TB) { CheckInline(t, struct{}{}) }},
	{name: "complex128", location: locateSource(), run: func(t testing.TB) { CheckBoxed(t, complex128(1+2i)) }},
	{name: "pair64", location: locateSource(), run: func(t testing.TB) { CheckBoxed(t, pair64{1, 2}) }},
	{name: "string", location: locateSource(), run: func(t testing.TB) { CheckBoxed(t, "hi") }},
	{name: "with-string", location: locateSource(), run: func(t testing.TB) { CheckBoxed(t, withString{7, "seven"}) }},
	{name: "slice", location: locateSource(), run: func(t testing.TB) { CheckBoxed(t, []int{1, 2, 3}) }},
	{name: "nil-slice", location: locateSource(), run: func(t testing.TB) { CheckBoxed(t, []int(nil)) }},
	{name: "pointer", location: locateSource(), run: func(t testing.TB) { CheckBoxed(t, new(int)) }},
	{name: "zero", location: locateSource(), run: func(t testing.TB) { CheckEmpty(t, anyval.Any{}) }},
	{name: "nil-pointer", location: locateSource(), run: func(t testing.TB) { CheckEmpty(t, anyval.Create[*int](nil)) }},
	{name: "nil-map", location: locateSource(), run: func(t testing.TB) { CheckEmpty(t, anyval.Create[map[string]int](nil)) }},
	{name: "nil-interface", location: locateSource(), run: func(t testing.TB) { CheckEmpty(t, anyval.Create[error](nil)) }},
	{name: "none", location: locateSource(), run: func(t testing.TB) { CheckEmpty(t, anyval.Create(anyval.None[int32]())) }},
	{
		name:     "some",
		location: locateSource(),
		run: func(t testing.TB) {
			CheckEquivalent(t, anyval.Create(anyval.Some[int32](5)), anyval.Create[int32](5))
		},
	},
	{
		name:     "boxed-int",
		location: locateSource(),
		run: func(t testing.TB) {
			CheckEquivalent(t, anyval.Create[any](123), anyval.Create(123))
		},
	},
}

// Run executes every built-in case as a subtest.
func Run(t *testing.T) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Logf("Read the source for test-case %v at %v", c.name, c.location)
			c.run(t)
		})
	}
}

// report runs the checks on a, stopping at the first problem since later checks
// tend to fail for the same reason.
func report(t testing.TB, desc string, a anyval.Any, checks ...check) {
	t.Helper()
	for _, check := range checks {
		if problem := check(a); problem != "" {
			t.Errorf("%v: %v", desc, problem)
			return
		}
	}
}

// Call this function to set the location of every test-case in the source file.
func locateSource() (path string) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		panic("runtime.Caller failed")
	}
	return fmt.Sprintf("%v:%v", file, line)
}
