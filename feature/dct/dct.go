// Package dct builds DCT-II bases that turn log mel energies into cepstral
// coefficients.
package dct

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-features/dsp/core"
)

// Norm selects the scaling of the basis.
type Norm int

const (
	// NormNone scales every entry by 2, the unnormalized DCT-II.
	NormNone Norm = iota
	// NormOrtho makes the basis orthonormal: column 0 is scaled by 1/√2 and
	// every entry by √(2/nMels).
	NormOrtho
)

// String returns "ortho" or "none".
func (n Norm) String() string {
	switch n {
	case NormNone:
		return "none"
	case NormOrtho:
		return "ortho"
	default:
		return fmt.Sprintf("Norm(%d)", int(n))
	}
}

// ParseNorm maps "ortho" to NormOrtho and "" or "none" to NormNone.
func ParseNorm(s string) (Norm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ortho":
		return NormOrtho, nil
	case "", "none":
		return NormNone, nil
	default:
		return NormNone, core.InvalidArgumentf("unknown DCT norm %q", s)
	}
}

// Build returns the (nMels, nMFCC) DCT-II matrix with
// basis[n][k] = cos(π/nMels · (n + 0.5) · k), scaled according to norm.
// It is meant to be right-multiplied onto (..., nMels) mel vectors.
func Build(nMFCC, nMels int, norm Norm) (*mat.Dense, error) {
	if err := core.RequirePositive("n_mfcc", nMFCC); err != nil {
		return nil, err
	}
	if err := core.RequirePositive("n_mels", nMels); err != nil {
		return nil, err
	}

	var scale, scale0 float64
	switch norm {
	case NormOrtho:
		scale = math.Sqrt(2 / float64(nMels))
		scale0 = scale / math.Sqrt2
	case NormNone:
		scale, scale0 = 2, 2
	default:
		return nil, core.InvalidArgumentf("unknown DCT norm %d", int(norm))
	}

	step := math.Pi / float64(nMels)
	basis := mat.NewDense(nMels, nMFCC, nil)
	for n := 0; n < nMels; n++ {
		basis.Set(n, 0, scale0)
		for k := 1; k < nMFCC; k++ {
			basis.Set(n, k, scale*math.Cos(step*(float64(n)+0.5)*float64(k)))
		}
	}
	return basis, nil
}
