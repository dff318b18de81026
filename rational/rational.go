// Package rational implements the exact rational numbers the machine
// computes with.
//
// Every value is either an exact fraction in lowest terms with a positive
// denominator, or the poison state (NaN). Poison propagates through all
// arithmetic and is excluded from every comparison: NaN is never equal to,
// less than, or greater than anything, including another NaN.
package rational

import (
	"math/big"
)

// tooBig is rendered for poison values and for values whose floor falls
// outside the Unicode scalar range.
const tooBig = "너무 커엇..."

// unicodeBound is the first integer past the Unicode scalar range.
var unicodeBound = big.NewInt(0x110000)

// Rational is an exact rational number or the poison state.
//
// The zero value is poison. Numeric values are produced by the constructors
// and are always normalized: lowest terms, denominator > 0.
type Rational struct {
	ok  bool // false means poison
	num *big.Int
	den *big.Int
}

// NaN returns the poison value.
func NaN() Rational {
	return Rational{}
}

// FromInt returns n as an exact rational.
func FromInt(n int64) Rational {
	return Rational{ok: true, num: big.NewInt(n), den: big.NewInt(1)}
}

// New returns num/den in lowest terms.
// Panics if den is zero; a zero denominator is a caller bug, not a
// representable value (division by zero is expressed via Recip).
func New(num, den int64) Rational {
	return fromBig(big.NewInt(num), big.NewInt(den))
}

func fromBig(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("rational: zero denominator")
	}
	if den.Sign() < 0 {
		num = new(big.Int).Neg(num)
		den = new(big.Int).Neg(den)
	}
	if num.Sign() == 0 {
		return Rational{ok: true, num: big.NewInt(0), den: big.NewInt(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if g.Cmp(big.NewInt(1)) > 0 {
		num = new(big.Int).Quo(num, g)
		den = new(big.Int).Quo(den, g)
	}
	return Rational{ok: true, num: num, den: den}
}

// IsNaN reports whether r is the poison value.
func (r Rational) IsNaN() bool {
	return !r.ok
}

// IsZero reports whether r is exactly zero. Poison is not zero.
func (r Rational) IsZero() bool {
	return r.ok && r.num.Sign() == 0
}

// Add returns r + o, or poison if either operand is poison.
func (r Rational) Add(o Rational) Rational {
	if !r.ok || !o.ok {
		return NaN()
	}
	// a/b + c/d = (ad + cb) / bd
	num := new(big.Int).Mul(r.num, o.den)
	num.Add(num, new(big.Int).Mul(o.num, r.den))
	den := new(big.Int).Mul(r.den, o.den)
	return fromBig(num, den)
}

// Mul returns r × o, or poison if either operand is poison.
func (r Rational) Mul(o Rational) Rational {
	if !r.ok || !o.ok {
		return NaN()
	}
	num := new(big.Int).Mul(r.num, o.num)
	den := new(big.Int).Mul(r.den, o.den)
	return fromBig(num, den)
}

// Neg returns -r, or poison if r is poison.
func (r Rational) Neg() Rational {
	if !r.ok {
		return NaN()
	}
	return Rational{ok: true, num: new(big.Int).Neg(r.num), den: r.den}
}

// Recip returns 1/r. Reciprocating zero or poison yields poison.
func (r Rational) Recip() Rational {
	if !r.ok || r.num.Sign() == 0 {
		return NaN()
	}
	return fromBig(new(big.Int).Set(r.den), new(big.Int).Set(r.num))
}

// Equal reports whether r and o are the same numeric value.
// Always false when either side is poison.
func (r Rational) Equal(o Rational) bool {
	if !r.ok || !o.ok {
		return false
	}
	return r.num.Cmp(o.num) == 0 && r.den.Cmp(o.den) == 0
}

// Less reports whether r is strictly less than o.
// Always false when either side is poison (unordered).
func (r Rational) Less(o Rational) bool {
	if !r.ok || !o.ok {
		return false
	}
	// a/b < c/d  ⇔  ad < cb  (b, d > 0)
	lhs := new(big.Int).Mul(r.num, o.den)
	rhs := new(big.Int).Mul(o.num, r.den)
	return lhs.Cmp(rhs) < 0
}

// String renders r the way the output streams print it: the floor of the
// value as a character when it is a valid Unicode scalar, the decimal
// digits of its absolute value when the floor is negative, and the
// "too big" placeholder for poison or out-of-range values.
func (r Rational) String() string {
	if !r.ok {
		return tooBig
	}
	// den > 0, so Div floors toward negative infinity.
	floor := new(big.Int).Div(r.num, r.den)
	if floor.Sign() >= 0 {
		if floor.Cmp(unicodeBound) >= 0 {
			return tooBig
		}
		return string(rune(floor.Int64()))
	}
	return new(big.Int).Neg(floor).String()
}
