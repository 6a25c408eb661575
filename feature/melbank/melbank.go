// Package melbank builds triangular mel filterbanks that project linear
// frequency bins onto mel bands.
//
// The mel scale is the HTK form, mel(f) = 2595·log10(1 + f/700). The
// filterbank places NMels+2 edges evenly on the mel scale between fMin and
// fMax and spans the linear bins evenly over the same [fMin, fMax] range,
// so bin i sits at fMin + i·(fMax−fMin)/(nFreqBins−1). That is a linear
// approximation of the true STFT bin centres when fMin > 0 or fMax is not
// the Nyquist frequency.
package melbank

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-features/dsp/core"
)

const (
	melScale     = 2595.0
	melBreakFreq = 700.0
)

// HzToMel converts a frequency in Hz to the HTK mel scale.
func HzToMel(f float64) float64 {
	return melScale * math.Log10(1+f/melBreakFreq)
}

// MelToHz is the inverse of [HzToMel].
func MelToHz(m float64) float64 {
	return melBreakFreq * (math.Pow(10, m/melScale) - 1)
}

// Edges returns the nMels+2 band edges in Hz, evenly spaced on the mel scale
// between fMin and fMax. Band j rises from Edges[j], peaks at Edges[j+1] and
// falls back to zero at Edges[j+2].
func Edges(fMin, fMax float64, nMels int) ([]float64, error) {
	if err := validateRange(fMin, fMax); err != nil {
		return nil, err
	}
	if err := core.RequirePositive("n_mels", nMels); err != nil {
		return nil, err
	}

	// fMin == 0 is pinned to mel 0 rather than evaluated.
	mMin := 0.0
	if fMin != 0 {
		mMin = HzToMel(fMin)
	}
	mMax := HzToMel(fMax)

	pts := floats.Span(make([]float64, nMels+2), mMin, mMax)
	for i, m := range pts {
		pts[i] = MelToHz(m)
	}
	return pts, nil
}

// Build returns the (nFreqBins, nMels) filterbank matrix.
//
// Column j is a triangle over the linear bins that is zero up to Edges[j],
// rises linearly to its peak at Edges[j+1] and falls to zero at Edges[j+2].
// Peaks are not normalized, so a column's maximum depends on how close a
// bin lands to the band centre. Every entry lies in [0, 1].
func Build(nFreqBins int, fMin, fMax float64, nMels int) (*mat.Dense, error) {
	if err := core.RequirePositive("n_freq_bins", nFreqBins); err != nil {
		return nil, err
	}
	fPts, err := Edges(fMin, fMax, nMels)
	if err != nil {
		return nil, err
	}

	freqs := make([]float64, nFreqBins)
	if nFreqBins == 1 {
		freqs[0] = fMin
	} else {
		floats.Span(freqs, fMin, fMax)
	}

	fDiff := make([]float64, nMels+1)
	for j := range fDiff {
		fDiff[j] = fPts[j+1] - fPts[j]
	}

	fb := mat.NewDense(nFreqBins, nMels, nil)
	for i, f := range freqs {
		for j := 0; j < nMels; j++ {
			down := (f - fPts[j]) / fDiff[j]
			up := (fPts[j+2] - f) / fDiff[j+1]
			fb.Set(i, j, math.Max(0, math.Min(down, up)))
		}
	}
	return fb, nil
}

func validateRange(fMin, fMax float64) error {
	if err := core.RequireFinite("f_min", fMin); err != nil {
		return err
	}
	if err := core.RequireFinite("f_max", fMax); err != nil {
		return err
	}
	if fMin < 0 {
		return core.InvalidArgumentf("f_min must be >= 0: %v", fMin)
	}
	if fMax <= fMin {
		return core.InvalidArgumentf("f_max (%v) must be > f_min (%v)", fMax, fMin)
	}
	return nil
}
