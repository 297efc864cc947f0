// Package rational provides an immutable exact fraction value built on math/big.
//
// Num values are never mutated after construction, so they can be shared
// freely between goroutines. The zero Num is 0.
package rational

import (
	"fmt"
	"math/big"
)

// Num is an exact rational number.
type Num struct {
	r *big.Rat
}

// Zero is the rational 0.
var Zero = Num{}

// New returns a/b. It panics if b is zero.
func New(a, b int64) Num {
	return Num{r: big.NewRat(a, b)}
}

// FromInt returns the integer a as a rational.
func FromInt(a int64) Num {
	return Num{r: new(big.Rat).SetInt64(a)}
}

// Parse reads "a/b", an integer, or a decimal such as "0.23".
func Parse(s string) (Num, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Num{}, fmt.Errorf("parse rational %q", s)
	}
	return Num{r: r}, nil
}

func (n Num) rat() *big.Rat {
	if n.r == nil {
		return new(big.Rat)
	}
	return n.r
}

// Add returns n+m.
func (n Num) Add(m Num) Num { return Num{r: new(big.Rat).Add(n.rat(), m.rat())} }

// Sub returns n-m.
func (n Num) Sub(m Num) Num { return Num{r: new(big.Rat).Sub(n.rat(), m.rat())} }

// Mul returns n*m.
func (n Num) Mul(m Num) Num { return Num{r: new(big.Rat).Mul(n.rat(), m.rat())} }

// Div returns n/m. It panics if m is zero.
func (n Num) Div(m Num) Num { return Num{r: new(big.Rat).Quo(n.rat(), m.rat())} }

// MulInt returns n*a.
func (n Num) MulInt(a int64) Num { return n.Mul(FromInt(a)) }

// DivInt returns n/a. It panics if a is zero.
func (n Num) DivInt(a int64) Num { return n.Div(FromInt(a)) }

// Neg returns -n.
func (n Num) Neg() Num { return Num{r: new(big.Rat).Neg(n.rat())} }

// IsInt reports whether n has denominator 1.
func (n Num) IsInt() bool { return n.rat().IsInt() }

// Floor returns the largest integer not greater than n.
func (n Num) Floor() int64 {
	r := n.rat()
	// Euclidean division equals floor division for the always-positive denominator.
	return new(big.Int).Div(r.Num(), r.Denom()).Int64()
}

// Ceil returns the smallest integer not less than n.
func (n Num) Ceil() int64 {
	return -n.Neg().Floor()
}

// Round returns the nearest integer to n, rounding half-way cases away from zero.
func (n Num) Round() Num {
	half := New(1, 2)
	if n.Sign() >= 0 {
		return FromInt(n.Add(half).Floor())
	}
	return FromInt(-n.Neg().Add(half).Floor())
}

// Int64 returns the integer part of n, truncated toward zero.
// It is exact when IsInt reports true.
func (n Num) Int64() int64 {
	r := n.rat()
	return new(big.Int).Quo(r.Num(), r.Denom()).Int64()
}

// Int64Parts returns the reduced numerator and denominator of n. ok is false
// when either does not fit in an int64.
func (n Num) Int64Parts() (num, den int64, ok bool) {
	r := n.rat()
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return 0, 0, false
	}
	return r.Num().Int64(), r.Denom().Int64(), true
}

// Float64 returns the float64 nearest to n.
func (n Num) Float64() float64 {
	f, _ := n.rat().Float64()
	return f
}

// Sign returns -1, 0 or +1.
func (n Num) Sign() int { return n.rat().Sign() }

// Cmp compares n and m and returns -1, 0 or +1.
func (n Num) Cmp(m Num) int { return n.rat().Cmp(m.rat()) }

// Less reports whether n < m.
func (n Num) Less(m Num) bool { return n.Cmp(m) < 0 }

// Equal reports whether n == m.
func (n Num) Equal(m Num) bool { return n.Cmp(m) == 0 }

// String formats n as "a/b", or "a" for integers.
func (n Num) String() string { return n.rat().RatString() }

// Min returns the smaller of a and b.
func Min(a, b Num) Num {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Num) Num {
	if a.Less(b) {
		return b
	}
	return a
}

// Sum adds all values.
func Sum(vals []Num) Num {
	acc := new(big.Rat)
	for _, v := range vals {
		acc.Add(acc, v.rat())
	}
	return Num{r: acc}
}
