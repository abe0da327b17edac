// Package rational implements exact rational-number arithmetic for pattern
// time. Pattern arithmetic must never touch float64 — conversion to audio
// frames happens once, at the scheduler boundary (spec.md §9).
package rational

import "fmt"

// Rational is a fraction num/den of two int64 values, always normalized to
// lowest terms with the sign carried on Num and Den > 0. The zero value
// has Den == 0 and is therefore NaN; use Zero for the rational 0/1.
//
// Division by zero produces a distinguished NaN value (Den == 0). NaN
// propagates through every operation and never compares equal to any
// value, including another NaN, matching spec.md §3.
type Rational struct {
	Num int64
	Den int64
}

// Zero is the rational 0/1.
var Zero = Rational{Num: 0, Den: 1}

// One is the rational 1/1.
var One = Rational{Num: 1, Den: 1}

// NaN is the distinguished not-a-number rational. It is represented with
// Den == 0 so that accidental arithmetic on it stays recognizably NaN
// rather than silently producing a bogus finite value.
var NaN = Rational{Num: 0, Den: 0}

// New builds a normalized Rational from an integer numerator and a
// (possibly negative or zero) denominator. A zero denominator yields NaN.
func New(num, den int64) Rational {
	if den == 0 {
		return NaN
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g == 0 {
		return Rational{Num: 0, Den: 1}
	}
	return Rational{Num: num / g, Den: den / g}
}

// FromInt builds the rational n/1.
func FromInt(n int64) Rational {
	return Rational{Num: n, Den: 1}
}

// IsNaN reports whether r is the distinguished NaN value.
func (r Rational) IsNaN() bool {
	return r.Den == 0
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Add returns a + b.
func Add(a, b Rational) Rational {
	if a.IsNaN() || b.IsNaN() {
		return NaN
	}
	return New(a.Num*b.Den+b.Num*a.Den, a.Den*b.Den)
}

// Sub returns a - b.
func Sub(a, b Rational) Rational {
	if a.IsNaN() || b.IsNaN() {
		return NaN
	}
	return New(a.Num*b.Den-b.Num*a.Den, a.Den*b.Den)
}

// Mul returns a * b.
func Mul(a, b Rational) Rational {
	if a.IsNaN() || b.IsNaN() {
		return NaN
	}
	return New(a.Num*b.Num, a.Den*b.Den)
}

// Div returns a / b. Dividing by zero yields NaN.
func Div(a, b Rational) Rational {
	if a.IsNaN() || b.IsNaN() || b.Num == 0 {
		return NaN
	}
	return New(a.Num*b.Den, a.Den*b.Num)
}

// Neg returns -a.
func Neg(a Rational) Rational {
	if a.IsNaN() {
		return NaN
	}
	return Rational{Num: -a.Num, Den: a.Den}
}

// Inv returns 1/a. Inverting zero yields NaN.
func Inv(a Rational) Rational {
	if a.IsNaN() || a.Num == 0 {
		return NaN
	}
	return New(a.Den, a.Num)
}

// Cmp returns -1, 0 or 1 as a < b, a == b or a > b. NaN never compares
// equal: Cmp on a NaN operand returns 2, a value distinct from -1/0/1 so
// callers that blindly branch on sign never mistake it for equality.
func Cmp(a, b Rational) int {
	if a.IsNaN() || b.IsNaN() {
		return 2
	}
	lhs := a.Num * b.Den
	rhs := b.Num * a.Den
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b denote the same value. Two equal
// rationals compare equal regardless of reduction path since both sides
// are always stored normalized. NaN never equals anything.
func Equal(a, b Rational) bool {
	if a.IsNaN() || b.IsNaN() {
		return false
	}
	return a.Num == b.Num && a.Den == b.Den
}

// Less reports whether a < b. False for any NaN operand.
func Less(a, b Rational) bool {
	return Cmp(a, b) == -1
}

// LessEqual reports whether a <= b. False for any NaN operand.
func LessEqual(a, b Rational) bool {
	c := Cmp(a, b)
	return c == -1 || c == 0
}

// Max returns the larger of a and b.
func Max(a, b Rational) Rational {
	if a.IsNaN() || b.IsNaN() {
		return NaN
	}
	if Less(a, b) {
		return b
	}
	return a
}

// Min returns the smaller of a and b.
func Min(a, b Rational) Rational {
	if a.IsNaN() || b.IsNaN() {
		return NaN
	}
	if Less(a, b) {
		return a
	}
	return b
}

// Floor returns the greatest integer <= r, as a Rational with Den 1.
func Floor(r Rational) Rational {
	if r.IsNaN() {
		return NaN
	}
	q := r.Num / r.Den
	if r.Num%r.Den != 0 && (r.Num < 0) != (r.Den < 0) {
		q--
	}
	return Rational{Num: q, Den: 1}
}

// FloorInt returns Floor(r) as a plain int64.
func FloorInt(r Rational) int64 {
	return Floor(r).Num
}

// Float64 converts r to a float64. Only ever called at the scheduler
// boundary, never inside pattern arithmetic (spec.md §9).
func (r Rational) Float64() float64 {
	if r.IsNaN() {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Sign returns -1, 0 or 1 for the sign of r. NaN reports 0.
func (r Rational) Sign() int {
	if r.IsNaN() || r.Num == 0 {
		return 0
	}
	if r.Num < 0 {
		return -1
	}
	return 1
}

func (r Rational) String() string {
	if r.IsNaN() {
		return "NaN"
	}
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
