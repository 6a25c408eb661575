// Package spectral computes frame-wise shape descriptors of one-sided
// magnitude or power spectra.
//
// Bin i of an n-bin spectrum sits at f_i = i·sampleRate / (2·(n−1)), the
// centre frequency of an FFT of size 2·(n−1).
package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
)

// Descriptor indexes the last axis of the array returned by [Frames].
type Descriptor int

const (
	Centroid Descriptor = iota
	Spread
	Flatness
	Rolloff
	Bandwidth

	// NumDescriptors is the length of the descriptor axis.
	NumDescriptors
)

var descriptorNames = [NumDescriptors]string{"centroid", "spread", "flatness", "rolloff", "bandwidth"}

// String returns the lower-case descriptor name.
func (d Descriptor) String() string {
	if d >= 0 && d < NumDescriptors {
		return descriptorNames[d]
	}
	return "descriptor(?)"
}

// DefaultRolloff is the conventional energy fraction for [RolloffFreq].
const DefaultRolloff = 0.85

// Frames computes every descriptor for each frame of a (..., bin) spectrum
// and returns a (..., NumDescriptors) array. Frequencies are in Hz.
func Frames(spec *tensor.Dense, sampleRate, rolloff float64) (*tensor.Dense, error) {
	if spec.Rank() == 0 {
		return nil, core.InvalidShapef("spectral descriptors need at least one axis")
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, core.InvalidArgumentf("sample rate must be positive and finite: %v", sampleRate)
	}
	if !(rolloff > 0 && rolloff <= 1) {
		return nil, core.InvalidArgumentf("rolloff fraction must be in (0, 1]: %v", rolloff)
	}
	bins := spec.Dim(spec.Rank() - 1)
	if bins < 2 {
		return nil, core.InvalidShapef("spectral descriptors need at least 2 bins, got %d", bins)
	}

	shape := spec.Shape()
	shape[len(shape)-1] = int(NumDescriptors)
	out := tensor.New(shape...)

	freqs := binFrequencies(bins, sampleRate)
	data, dst := spec.Data(), out.Data()
	for f := 0; f*bins < len(data); f++ {
		frame := data[f*bins : (f+1)*bins]
		row := dst[f*int(NumDescriptors) : (f+1)*int(NumDescriptors)]

		c := centroid(frame, freqs)
		row[Centroid] = c
		row[Spread] = spread(frame, freqs, c)
		row[Flatness] = FlatnessOf(frame)
		row[Rolloff] = rolloffFreq(frame, freqs, rolloff)
		row[Bandwidth] = bandwidth(frame, freqs)
	}
	return out, nil
}

// CentroidFreq returns sum(f_i·|X_i|) / sum(|X_i|), or 0 for a silent frame.
func CentroidFreq(frame []float64, sampleRate float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	return centroid(frame, binFrequencies(len(frame), sampleRate))
}

// FlatnessOf returns the spectral flatness (Wiener entropy) in [0, 1]:
// the geometric over the arithmetic mean of bins 1..n−1. DC is excluded and
// any zero bin makes the frame perfectly tonal (0).
func FlatnessOf(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	bins := frame[1:]
	mean := floats.Sum(bins) / float64(len(bins))
	if mean == 0 {
		return 0
	}

	logSum := 0.0
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		logSum += math.Log(v)
	}
	return math.Exp(logSum/float64(len(bins))) / mean
}

// RolloffFreq returns the lowest bin frequency below which fraction of the
// frame's energy (sum of squares) lies.
func RolloffFreq(frame []float64, sampleRate, fraction float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	return rolloffFreq(frame, binFrequencies(len(frame), sampleRate), fraction)
}

func binFrequencies(bins int, sampleRate float64) []float64 {
	freqs := make([]float64, bins)
	floats.Span(freqs, 0, sampleRate/2)
	return freqs
}

func centroid(frame, freqs []float64) float64 {
	sum := floats.Sum(frame)
	if sum == 0 {
		return 0
	}
	return floats.Dot(freqs, frame) / sum
}

func spread(frame, freqs []float64, c float64) float64 {
	sum := floats.Sum(frame)
	if sum == 0 {
		return 0
	}
	acc := 0.0
	for i, v := range frame {
		d := freqs[i] - c
		acc += d * d * v
	}
	return math.Sqrt(acc / sum)
}

func rolloffFreq(frame, freqs []float64, fraction float64) float64 {
	energy := floats.Dot(frame, frame)
	if energy == 0 {
		return 0
	}
	threshold := fraction * energy
	cum := 0.0
	for i, v := range frame {
		cum += v * v
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// bandwidth is the width between the −3 dB points around the peak bin,
// linearly interpolated between bins.
func bandwidth(frame, freqs []float64) float64 {
	peak := floats.MaxIdx(frame)
	peakVal := frame[peak]
	if peakVal <= 0 {
		return 0
	}
	threshold := peakVal / math.Sqrt2
	n := len(frame)

	lower := freqs[0]
	for i := peak; i >= 1; i-- {
		if frame[i-1] <= threshold && frame[i] > threshold {
			lower = crossing(freqs[i-1], freqs[i], frame[i-1], frame[i], threshold)
			break
		}
	}

	upper := freqs[n-1]
	for i := peak; i < n-1; i++ {
		if frame[i+1] <= threshold && frame[i] > threshold {
			upper = crossing(freqs[i], freqs[i+1], frame[i], frame[i+1], threshold)
			break
		}
	}

	return math.Max(upper-lower, 0)
}

func crossing(fLow, fHigh, magLow, magHigh, threshold float64) float64 {
	if magHigh == magLow {
		return (fLow + fHigh) / 2
	}
	t := (threshold - magLow) / (magHigh - magLow)
	return fLow + t*(fHigh-fLow)
}
