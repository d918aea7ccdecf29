package runtime

import (
	"math"
	"math/bits"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// mul returns a*b for non-negative values. ok is false on int64 overflow.
func mul(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// add returns a+b for non-negative values. ok is false on int64 overflow.
func add(a, b int64) (int64, bool) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 || sum > math.MaxInt64 {
		return 0, false
	}
	return int64(sum), true
}

// scaleAdd returns total + step*n. ok is false if either count overflows.
func scaleAdd(total, step domain.Counts, n int64) (domain.Counts, bool) {
	low, ok1 := mul(step.Low, n)
	high, ok2 := mul(step.High, n)
	if !ok1 || !ok2 {
		return domain.Counts{}, false
	}
	low, ok1 = add(total.Low, low)
	high, ok2 = add(total.High, high)
	if !ok1 || !ok2 {
		return domain.Counts{}, false
	}
	return domain.Counts{Low: low, High: high}, true
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm returns the least common multiple of positive values. ok is false if
// the result does not fit in an int64.
func lcm(values ...int64) (n int64, ok bool) {
	n = 1
	for _, v := range values {
		if n, ok = mul(n/gcd(n, v), v); !ok {
			return 0, false
		}
	}
	return n, true
}
