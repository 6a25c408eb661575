package feature

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/spectrum"
	"github.com/cwbudde/algo-features/dsp/stft"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/dsp/window"
	"github.com/cwbudde/algo-features/feature/melbank"
)

// LogOffset is added to mel energies before the natural log in
// [CepstralProjection] so silent bands stay finite.
const LogOffset = 1e-6

// SpectrogramParams configures [PowerSpectrum].
type SpectrogramParams struct {
	// Window holds WinLength precomputed coefficients; nil is rectangular.
	Window []float64
	// NFFT is the FFT size.
	NFFT int
	// Hop is the frame advance in samples; zero means WinLength/2.
	// Negative values are rejected.
	Hop int
	// WinLength is the window length; zero means NFFT.
	WinLength int
	// Power is the exponent applied to the magnitude: 1 for magnitude,
	// 2 for power.
	Power float64
	// Normalize divides the complex bins by sqrt(sum(window²)) before the
	// exponent is applied.
	Normalize bool
	// Pad extends both ends of the time axis by Pad samples before the STFT.
	Pad int
	// PadMode is the boundary mode for Pad. The STFT's own centring always
	// reflects.
	PadMode stft.PadMode
	// Backend selects the FFT implementation.
	Backend stft.Backend
}

// PowerSpectrum returns |STFT(wave)|^Power as a (channel, frame, bin) array.
//
// wave must be exactly (channel, time). The STFT is centred and one-sided,
// so a signal of n samples (after Pad) yields 1 + n/Hop frames of NFFT/2+1
// bins. Every output value is non-negative.
func PowerSpectrum(wave *tensor.Dense, p SpectrogramParams) (*tensor.Dense, error) {
	if wave.Rank() != 2 {
		return nil, core.InvalidShapef("power spectrum needs a (channel, time) waveform, got rank %d", wave.Rank())
	}
	if err := tensor.CheckChannels(wave, 0); err != nil {
		return nil, err
	}
	if !(p.Power > 0) || math.IsInf(p.Power, 0) {
		return nil, core.InvalidArgumentf("power must be positive and finite: %v", p.Power)
	}
	if p.Pad < 0 {
		return nil, core.InvalidArgumentf("pad must be >= 0: %d", p.Pad)
	}

	if p.Pad > 0 {
		padded, err := padTime(wave, p.Pad, p.PadMode)
		if err != nil {
			return nil, err
		}
		wave = padded
	}

	hop := p.Hop
	if hop == 0 {
		winLength := p.WinLength
		if winLength == 0 {
			winLength = p.NFFT
		}
		hop = max(winLength/2, 1)
	}

	tr, err := stft.New(stft.Config{
		NFFT:      p.NFFT,
		Hop:       hop,
		WinLength: p.WinLength,
		Window:    p.Window,
		Center:    true,
		PadMode:   stft.PadReflect,
		Backend:   p.Backend,
	})
	if err != nil {
		return nil, err
	}
	spec, err := tr.Transform(wave)
	if err != nil {
		return nil, err
	}

	norm := 1.0
	if p.Normalize {
		norm, err = window.Energy(tr.Config().Window)
		if err != nil {
			return nil, core.InvalidArgumentf("%v", err)
		}
		if norm == 0 {
			return nil, core.InvalidArgumentf("cannot energy-normalize with an all-zero window")
		}
	}

	out := tensor.New(spec.Channels, spec.Frames, spec.Bins)
	data := out.Data()
	for c := 0; c < spec.Channels; c++ {
		for t := 0; t < spec.Frames; t++ {
			off := (c*spec.Frames + t) * spec.Bins
			if err := spectrum.MagnitudePow(data[off:off+spec.Bins], spec.Frame(c, t), p.Power, norm); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// MelProjection projects a (..., bin) spectrum onto mel bands.
//
// When fb is nil the filterbank is built for spec's bin count, f_min, f_max
// and n_mels; otherwise fb is used as given and must have one row per bin.
// The matrix is returned alongside the projection so callers can reuse it.
func MelProjection(spec *tensor.Dense, fMin, fMax float64, nMels int, fb *mat.Dense) (*mat.Dense, *tensor.Dense, error) {
	if spec.Rank() == 0 {
		return nil, nil, core.InvalidShapef("mel projection needs at least one axis")
	}
	bins := spec.Dim(spec.Rank() - 1)

	if fb == nil {
		var err error
		fb, err = melbank.Build(bins, fMin, fMax, nMels)
		if err != nil {
			return nil, nil, err
		}
	} else if r, _ := fb.Dims(); r != bins {
		return nil, nil, core.InvalidShapef("filterbank has %d rows, spectrum has %d bins", r, bins)
	}

	mel, err := tensor.Project(spec, fb)
	if err != nil {
		return nil, nil, err
	}
	return fb, mel, nil
}

// CepstralProjection compresses a mel spectrogram and projects it onto the
// DCT basis: (..., n_mels) · (n_mels, n_mfcc).
//
// With useLog the compression is ln(mel + [LogOffset]); otherwise toDB is
// applied and must not be nil.
func CepstralProjection(mel *tensor.Dense, useLog bool, toDB DecibelFunc, dctMat *mat.Dense) (*tensor.Dense, error) {
	if dctMat == nil {
		return nil, core.InvalidArgumentf("dct matrix is required")
	}

	var compressed *tensor.Dense
	if useLog {
		compressed = mel.Map(func(v float64) float64 { return math.Log(v + LogOffset) })
	} else {
		if toDB == nil {
			return nil, core.InvalidArgumentf("decibel transform is required when useLog is false")
		}
		var err error
		compressed, err = toDB(mel)
		if err != nil {
			return nil, err
		}
	}

	return tensor.Project(compressed, dctMat)
}

func padTime(wave *tensor.Dense, pad int, mode stft.PadMode) (*tensor.Dense, error) {
	channels, n := wave.Dim(0), wave.Dim(1)
	out := tensor.New(channels, n+2*pad)
	for c := 0; c < channels; c++ {
		padded, err := stft.Pad(wave.Lead(c), pad, pad, mode, 0)
		if err != nil {
			return nil, err
		}
		copy(out.Lead(c), padded)
	}
	return out, nil
}
