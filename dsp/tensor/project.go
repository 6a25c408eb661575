package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-features/dsp/core"
)

// Project right-multiplies the last axis of x by m:
// (..., k) · (k, n) -> (..., n).
//
// Every leading index is treated as one row of a (rows, k) gonum matrix view
// over x's backing slice, so no intermediate copy is made.
func Project(x *Dense, m mat.Matrix) (*Dense, error) {
	if x.Rank() == 0 {
		return nil, core.InvalidShapef("cannot project a scalar")
	}
	k, n := m.Dims()
	last := x.shape[len(x.shape)-1]
	if last != k {
		return nil, core.InvalidShapef("last axis %d does not match matrix rows %d", last, k)
	}

	outShape := append(x.Shape()[:len(x.shape)-1], n)
	out := New(outShape...)
	if len(x.data) == 0 || n == 0 {
		return out, nil
	}

	rows := len(x.data) / k
	src := mat.NewDense(rows, k, x.data)
	dst := mat.NewDense(rows, n, out.data)
	dst.Mul(src, m)

	return out, nil
}
