package extrema

import (
	"cmp"
	"slices"

	"posbound/internal/rational"
)

// CriticalFractions returns l, every reduced fraction j/i with 1 <= i <= n
// lying strictly between l and r, and r, in ascending order.
//
// floor(m*k) for any integer 1 <= m <= n can only change value at one of
// these points as k moves from l to r.
func CriticalFractions(n int64, l, r rational.Num) []rational.Num {
	if points, ok := criticalFractionsInt(n, l, r); ok {
		return points
	}
	return criticalFractionsExact(n, l, r)
}

func criticalFractionsExact(n int64, l, r rational.Num) []rational.Num {
	points := []rational.Num{l}
	for i := int64(1); i <= n; i++ {
		lo, hi := l.MulInt(i), r.MulInt(i)

		var from, to int64
		if lo.IsInt() {
			from = lo.Int64() + 1
		} else {
			from = lo.Ceil()
		}
		if hi.IsInt() {
			to = hi.Int64() - 1
		} else {
			to = hi.Floor()
		}

		for j := from; j <= to; j++ {
			if gcd(i, j) == 1 {
				points = append(points, rational.New(j, i))
			}
		}
	}
	points = append(points, r)
	slices.SortFunc(points, rational.Num.Cmp)
	return points
}

type fraction struct{ num, den int64 }

// criticalFractionsInt is CriticalFractions over int64 numerators and
// denominators. ok is false when l > r or a cross product could overflow.
func criticalFractionsInt(n int64, l, r rational.Num) ([]rational.Num, bool) {
	ln, ld, okL := l.Int64Parts()
	rn, rd, okR := r.Int64Parts()
	if !okL || !okR || l.Cmp(r) > 0 || n < 0 {
		return nil, false
	}
	nl, ok1 := mulInt64(n, ln)
	nr, ok2 := mulInt64(n, rn)
	if !ok1 || !ok2 || !safeInt(nl) || !safeInt(nr) {
		return nil, false
	}
	maxNum := max(abs(floorDiv(nl, ld)), abs(ceilDiv(nr, rd))) + 1
	if cross, ok := mulInt64(maxNum, n); !ok || !safeInt(cross) {
		return nil, false
	}

	var inner []fraction
	for i := int64(1); i <= n; i++ {
		// strictly between i*l and i*r
		from := floorDiv(i*ln, ld) + 1
		to := ceilDiv(i*rn, rd) - 1
		for j := from; j <= to; j++ {
			if gcd(i, j) == 1 {
				inner = append(inner, fraction{num: j, den: i})
			}
		}
	}
	slices.SortFunc(inner, func(a, b fraction) int {
		return cmp.Compare(a.num*b.den, b.num*a.den)
	})

	points := make([]rational.Num, 0, len(inner)+2)
	points = append(points, l)
	for _, f := range inner {
		points = append(points, rational.New(f.num, f.den))
	}
	return append(points, r), true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
