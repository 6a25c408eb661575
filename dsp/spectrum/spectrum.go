package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

func unpack(re, im []float64, in []complex128) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	unpack(re, im, in)
	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	unpack(re, im, in)
	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// MagnitudePow writes |X[k]/norm|^exponent into dst.
//
// The bins are divided by norm before the exponent is applied, which is the
// order energy normalization requires; the two steps do not commute for
// exponent != 1. Exponents 1 and 2 take the SIMD magnitude and power paths,
// any other positive exponent goes through math.Pow on the magnitude.
// dst and in must have the same length.
func MagnitudePow(dst []float64, in []complex128, exponent, norm float64) error {
	if len(dst) != len(in) {
		return fmt.Errorf("spectrum: dst length %d does not match %d bins", len(dst), len(in))
	}
	if !(exponent > 0) || math.IsInf(exponent, 0) {
		return fmt.Errorf("spectrum: exponent must be positive and finite: %v", exponent)
	}
	if !(norm > 0) || math.IsInf(norm, 0) {
		return fmt.Errorf("spectrum: norm must be positive and finite: %v", norm)
	}
	if len(in) == 0 {
		return nil
	}

	re, im, buf := getScratch(len(in))
	defer putScratch(buf)
	unpack(re, im, in)

	if norm != 1 {
		inv := 1 / norm
		floats.Scale(inv, re)
		floats.Scale(inv, im)
	}

	switch exponent {
	case 2:
		vecmath.Power(dst, re, im)
	case 1:
		vecmath.Magnitude(dst, re, im)
	default:
		vecmath.Magnitude(dst, re, im)
		for i, v := range dst {
			dst[i] = math.Pow(v, exponent)
		}
	}
	return nil
}
