package anyval_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-anyval/go-anyval"
)

// angle has its own equality and hash: turns are ignored.
type angle int16

func (a angle) norm() int16 { return int16((int(a)%360 + 360) % 360) }
func (a angle) Equal(b angle) bool { return a.norm() == b.norm() }
func (a angle) Hash() uint64 { return uint64(a.norm()) }

// digit has its own equality but no hash.
type digit int32

func (d digit) Equal(o digit) bool { return d%10 == o%10 }

// holder is comparable, unless V holds a value that is not.
type holder struct{ V any }

func TestEqual(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("time zone database unavailable: %v", err)
	}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b anyval.Any
		want bool
	}{
		{"empty/empty", anyval.Any{}, anyval.Any{}, true},
		{"empty/inline", anyval.Any{}, anyval.Create(0), false},
		{"inline/empty", anyval.Create(0), anyval.Any{}, false},
		{"empty/boxed", anyval.Any{}, anyval.Create(""), false},
		{"inline/inline", anyval.Create(123), anyval.Create(123), true},
		{"inline/inline-other-value", anyval.Create(123), anyval.Create(124), false},
		{"inline/boxed", anyval.Create(123), anyval.Create[any](123), true},
		{"boxed/inline", anyval.Create[any](123), anyval.Create(123), true},
		{"boxed/boxed", anyval.Create[any](123), anyval.Create[any](123), true},
		{"int/float", anyval.Create(0), anyval.Create(0.0), false},
		{"int32/float32", anyval.Create(int32(0)), anyval.Create(float32(0)), false},
		{"int32/int64", anyval.Create(int32(1)), anyval.Create(int64(1)), false},
		{"inline/boxed-other-type", anyval.Create(int64(1)), anyval.Create[any](int32(1)), false},
		{"inline/string", anyval.Create(1), anyval.Create("1"), false},
		{"string/string", anyval.Create("hi"), anyval.Create(strings.Repeat("h", 1) + "i"), true},
		{"nan", anyval.Create(math.NaN()), anyval.Create(math.NaN()), false},
		{"signed-zero", anyval.Create(0.0), anyval.Create(math.Copysign(0, -1)), true},
		{"equal-method/inline", anyval.Create(angle(10)), anyval.Create(angle(370)), true},
		{"equal-method/mixed", anyval.Create(angle(-350)), anyval.Create[any](angle(10)), true},
		{"equal-method/unequal", anyval.Create(angle(10)), anyval.Create(angle(11)), false},
		{"equal-method/boxed", anyval.Create(now), anyval.Create(now.In(berlin)), true},
		{"slices", anyval.Create([]int{1, 2}), anyval.Create([]int{1, 2}), true},
		{"slices-unequal", anyval.Create([]int{1, 2}), anyval.Create([]int{2, 1}), false},
		{"maps", anyval.Create(map[string]int{"a": 1}), anyval.Create(map[string]int{"a": 1}), true},
		{"holder", anyval.Create(holder{1}), anyval.Create(holder{1}), true},
		{"holder-incomparable", anyval.Create(holder{[]int{1}}), anyval.Create(holder{[]int{1}}), true},
		{"holder-mixed", anyval.Create(holder{1}), anyval.Create(holder{[]int{1}}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
			if tt.want && tt.a.Hash() != tt.b.Hash() {
				t.Errorf("Hash() = %x and %x for equal values", tt.a.Hash(), tt.b.Hash())
			}
		})
	}
}

func TestHash(t *testing.T) {
	if h := (anyval.Any{}).Hash(); h != 0 {
		t.Errorf("Any{}.Hash() = %v, want 0", h)
	}
	if got, want := anyval.Create(angle(370)).Hash(), uint64(10); got != want {
		t.Errorf("Hash() = %v, want %v from angle.Hash", got, want)
	}
	if a, b := anyval.Create(digit(3)), anyval.Create(digit(13)); !a.Equal(b) || a.Hash() != b.Hash() {
		t.Errorf("digit(3) and digit(13): Equal = %v, hashes %x and %x", a.Equal(b), a.Hash(), b.Hash())
	}

	// Distinct values hash apart, at least most of the time.
	seen := make(map[uint64]int)
	for i := range 1000 {
		seen[anyval.Create(i).Hash()]++
	}
	if len(seen) < 990 {
		t.Errorf("1000 integers produced %d distinct hashes", len(seen))
	}
}

func TestAreIdentical(t *testing.T) {
	p, q := new(int), new(int)
	big := anyval.Create(struct{ A, B, C int64 }{1, 2, 3})
	copied := big
	tests := []struct {
		name string
		a, b anyval.Any
		want bool
	}{
		{"empty", anyval.Any{}, anyval.Any{}, true},
		{"inline", anyval.Create(int16(5)), anyval.Create(int16(5)), true},
		{"inline-other-value", anyval.Create(int16(5)), anyval.Create(int16(6)), false},
		{"inline-other-type", anyval.Create(int16(5)), anyval.Create(uint16(5)), false},
		{"inline/boxed", anyval.Create(int16(5)), anyval.Create[any](int16(5)), false},
		{"same-pointer", anyval.Create(p), anyval.Create(p), true},
		{"other-pointer", anyval.Create(p), anyval.Create(q), false},
		{"copy", big, copied, true},
		{"separately-boxed", big, anyval.Create(struct{ A, B, C int64 }{1, 2, 3}), false},
	}
	for _, tt := range tests {
		if got := anyval.AreIdentical(tt.a, tt.b); got != tt.want {
			t.Errorf("%v: AreIdentical() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
