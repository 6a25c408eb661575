package core

import "math"

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Sign returns -1, 0 or +1 following the sign of x. Sign(NaN) is NaN.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case x == 0:
		return 0
	default:
		return x
	}
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FloorLog10 returns log10(max(x, amin)).
// amin keeps silent inputs finite; it must be > 0.
func FloorLog10(x, amin float64) float64 {
	if x < amin {
		x = amin
	}

	return math.Log10(x)
}
