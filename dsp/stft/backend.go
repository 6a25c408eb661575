package stft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-features/dsp/core"
)

// Backend names the FFT implementation used for each frame.
type Backend int

const (
	// BackendAuto uses algo-fft for power-of-two sizes and gonum otherwise.
	BackendAuto Backend = iota
	// BackendAlgoFFT forces algo-fft complex plans. NFFT must be a power of two.
	BackendAlgoFFT
	// BackendGonum forces gonum's real FFT, which accepts any size.
	BackendGonum
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendAlgoFFT:
		return "algo-fft"
	case BackendGonum:
		return "gonum"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend resolves "auto", "algo-fft" or "gonum".
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "auto", "":
		return BackendAuto, nil
	case "algo-fft", "algofft":
		return BackendAlgoFFT, nil
	case "gonum":
		return BackendGonum, nil
	default:
		return BackendAuto, core.InvalidArgumentf("unknown FFT backend %q", s)
	}
}

// realFFT computes the one-sided spectrum (n/2+1 bins) of a real frame.
type realFFT interface {
	forward(dst []complex128, frame []float64) error
}

func newRealFFT(b Backend, n int) (realFFT, error) {
	switch b {
	case BackendAuto:
		if core.IsPowerOf2(n) {
			return newAlgoFFT(n)
		}
		return newGonumFFT(n), nil
	case BackendAlgoFFT:
		if !core.IsPowerOf2(n) {
			return nil, core.InvalidArgumentf("algo-fft backend needs a power-of-two n_fft: %d", n)
		}
		return newAlgoFFT(n)
	case BackendGonum:
		return newGonumFFT(n), nil
	default:
		return nil, core.InvalidArgumentf("unknown FFT backend %d", int(b))
	}
}

type algoFFT struct {
	plan *algofft.Plan[complex128]
	buf  []complex128
}

func newAlgoFFT(n int) (*algoFFT, error) {
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}
	return &algoFFT{plan: plan}, nil
}

func (a *algoFFT) forward(dst []complex128, frame []float64) error {
	a.buf = core.EnsureComplexLen(a.buf, len(frame))
	for i, v := range frame {
		a.buf[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.buf, a.buf); err != nil {
		return fmt.Errorf("stft: forward FFT failed: %w", err)
	}
	copy(dst, a.buf[:len(dst)])
	return nil
}

type gonumFFT struct {
	fft *fourier.FFT
}

func newGonumFFT(n int) *gonumFFT {
	return &gonumFFT{fft: fourier.NewFFT(n)}
}

func (g *gonumFFT) forward(dst []complex128, frame []float64) error {
	g.fft.Coefficients(dst, frame)
	return nil
}
