package extrema

import (
	"math"

	"posbound/internal/rational"
)

// ShiftSum returns arr[x0] + arr[x0+k] + ... + arr[x0+(n-1)k], where every
// index is floored and taken modulo len(arr).
//
// It walks the distinct integer indices rather than the n terms, so the cost
// is proportional to (n-1)*k. k must be positive when n > 1 and the indices
// move.
func ShiftSum(arr []rational.Num, n int64, k, x0 rational.Num) rational.Num {
	if n <= 0 {
		return rational.Zero
	}
	if start, step, den, ok := commonRate(n, k, x0); ok {
		sum := rational.Zero
		shiftCounts(n, start, step, den, func(idx, count int64) {
			if count != 0 {
				sum = sum.Add(at(arr, idx).MulInt(count))
			}
		})
		return sum
	}

	first := x0.Floor()
	last := x0.Add(k.MulInt(n - 1)).Floor()
	sum := rational.Zero
	var covered int64
	for idx := first; idx < last; idx++ {
		// number of terms whose index is below idx+1
		next := rational.FromInt(idx + 1).Sub(x0).Div(k).Ceil()
		sum = sum.Add(at(arr, idx).MulInt(next - covered))
		covered = next
	}
	return sum.Add(at(arr, last).MulInt(n - covered))
}

// commonRate writes x0 and k over one int64 denominator. ok is false when
// k is negative or any intermediate of shiftCounts could overflow.
func commonRate(n int64, k, x0 rational.Num) (start, step, den int64, ok bool) {
	kn, kd, ok1 := k.Int64Parts()
	xn, xd, ok2 := x0.Int64Parts()
	if !ok1 || !ok2 || kn < 0 {
		return 0, 0, 0, false
	}
	var ok3, ok4, ok5 bool
	den, ok3 = mulInt64(kd, xd)
	start, ok4 = mulInt64(xn, kd)
	step, ok5 = mulInt64(kn, xd)
	if !ok3 || !ok4 || !ok5 {
		return 0, 0, 0, false
	}
	span, ok := mulInt64(step, n)
	if !ok || !safeInt(start) || !safeInt(span) || !safeInt(den) {
		return 0, 0, 0, false
	}
	return start, step, den, true
}

// shiftCounts reports, for every index floor((start + j*step)/den) with
// 0 <= j < n, how many terms land on it. Indices arrive in ascending order
// and are not reduced modulo any length. den must be positive, step
// non-negative, and |start|, n*step and den below 2^60.
func shiftCounts(n, start, step, den int64, fn func(idx, count int64)) {
	first := floorDiv(start, den)
	last := floorDiv(start+(n-1)*step, den)
	var covered int64
	for idx := first; idx < last; idx++ {
		next := ceilDiv((idx+1)*den-start, step)
		fn(idx, next-covered)
		covered = next
	}
	fn(last, n-covered)
}

func at(arr []rational.Num, idx int64) rational.Num {
	size := int64(len(arr))
	return arr[((idx%size)+size)%size]
}

func atInt(arr []int64, idx int64) int64 {
	size := int64(len(arr))
	return arr[((idx%size)+size)%size]
}

// floorDiv is floor(p/q) for q > 0.
func floorDiv(p, q int64) int64 {
	d := p / q
	if p%q != 0 && p < 0 {
		d--
	}
	return d
}

// ceilDiv is ceil(p/q) for q > 0.
func ceilDiv(p, q int64) int64 {
	return -floorDiv(-p, q)
}

// roundDiv is p/q rounded half away from zero, for 0 < q < 2^60 and |p| < 2^60.
func roundDiv(p, q int64) int64 {
	if p >= 0 {
		return (2*p + q) / (2 * q)
	}
	return -((-2*p + q) / (2 * q))
}

// mulInt64 returns a*b and whether it did not overflow.
func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

// safeRange bounds the operands of the integer paths so that sums of a few
// of them cannot overflow.
const safeRange = 1 << 60

func safeInt(v int64) bool {
	return v > -safeRange && v < safeRange
}
