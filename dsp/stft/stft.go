package stft

import (
	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/dsp/window"
)

// Config describes a short-time Fourier transform.
type Config struct {
	// NFFT is the FFT size; each frame yields NFFT/2+1 bins.
	NFFT int
	// Hop is the distance between frame starts. Zero means WinLength/4.
	Hop int
	// WinLength is the window length, 0 < WinLength <= NFFT. Zero means NFFT.
	WinLength int
	// Window holds WinLength precomputed coefficients. Nil means rectangular.
	Window []float64
	// Center pads the signal by NFFT/2 on both sides before framing.
	Center bool
	// PadMode is the boundary mode used when Center is set.
	PadMode PadMode
	// Backend selects the FFT implementation.
	Backend Backend
}

// Spectrogram is a complex, one-sided time-frequency array laid out as
// (channel, frame, bin).
type Spectrogram struct {
	Channels int
	Frames   int
	Bins     int
	Data     []complex128
}

// Frame returns the bins of frame t in channel c. The slice shares storage.
func (s *Spectrogram) Frame(c, t int) []complex128 {
	off := (c*s.Frames + t) * s.Bins
	return s.Data[off : off+s.Bins]
}

// Tensor returns the spectrogram as a real (channel, bin, frame, 2) array
// holding the real and imaginary parts in the last axis.
func (s *Spectrogram) Tensor() *tensor.Dense {
	out := tensor.New(s.Channels, s.Bins, s.Frames, 2)
	for c := 0; c < s.Channels; c++ {
		for t := 0; t < s.Frames; t++ {
			for k, v := range s.Frame(c, t) {
				out.Set(real(v), c, k, t, 0)
				out.Set(imag(v), c, k, t, 1)
			}
		}
	}
	return out
}

// Transformer computes STFTs for a fixed configuration.
//
// A Transformer owns FFT scratch memory and is not safe for concurrent use;
// create one per goroutine.
type Transformer struct {
	cfg    Config
	window []float64 // padded to NFFT
	fft    realFFT
	frame  []float64
	padded []float64
}

// New validates cfg and prepares the FFT backend.
func New(cfg Config) (*Transformer, error) {
	if err := core.RequirePositive("n_fft", cfg.NFFT); err != nil {
		return nil, err
	}
	if cfg.WinLength == 0 {
		cfg.WinLength = cfg.NFFT
	}
	if cfg.WinLength < 0 || cfg.WinLength > cfg.NFFT {
		return nil, core.InvalidArgumentf("win_length must be in (0, n_fft=%d]: %d", cfg.NFFT, cfg.WinLength)
	}
	if cfg.Hop == 0 {
		cfg.Hop = max(cfg.WinLength/4, 1)
	}
	if err := core.RequirePositive("hop_length", cfg.Hop); err != nil {
		return nil, err
	}

	win := cfg.Window
	if win == nil {
		win = window.Generate(window.TypeRectangular, cfg.WinLength)
	}
	if len(win) != cfg.WinLength {
		return nil, core.InvalidArgumentf("window has %d coefficients, want win_length=%d", len(win), cfg.WinLength)
	}
	padded, err := window.PadCenter(win, cfg.NFFT)
	if err != nil {
		return nil, core.InvalidArgumentf("%v", err)
	}

	fft, err := newRealFFT(cfg.Backend, cfg.NFFT)
	if err != nil {
		return nil, err
	}

	cfg.Window = append([]float64(nil), win...)
	return &Transformer{
		cfg:    cfg,
		window: padded,
		fft:    fft,
		frame:  make([]float64, cfg.NFFT),
	}, nil
}

// Config returns the effective configuration with defaults resolved.
func (tr *Transformer) Config() Config { return tr.cfg }

// Bins returns the number of one-sided frequency bins, NFFT/2+1.
func (tr *Transformer) Bins() int { return tr.cfg.NFFT/2 + 1 }

// NumFrames returns the number of frames produced for n input samples, or
// 0 if the (padded) signal is shorter than one FFT.
func (tr *Transformer) NumFrames(n int) int {
	if tr.cfg.Center {
		n += 2 * (tr.cfg.NFFT / 2)
	}
	if n < tr.cfg.NFFT {
		return 0
	}
	return 1 + (n-tr.cfg.NFFT)/tr.cfg.Hop
}

// Transform computes the STFT of a (channel, time) waveform.
func (tr *Transformer) Transform(x *tensor.Dense) (*Spectrogram, error) {
	if x.Rank() != 2 {
		return nil, core.InvalidShapef("stft needs a (channel, time) waveform, got rank %d", x.Rank())
	}
	if err := tensor.CheckChannels(x, 0); err != nil {
		return nil, err
	}

	channels, n := x.Dim(0), x.Dim(1)
	frames := tr.NumFrames(n)
	if frames == 0 {
		return nil, core.InvalidShapef("signal of %d samples is shorter than n_fft=%d", n, tr.cfg.NFFT)
	}

	bins := tr.Bins()
	out := &Spectrogram{
		Channels: channels,
		Frames:   frames,
		Bins:     bins,
		Data:     make([]complex128, channels*frames*bins),
	}

	half := 0
	if tr.cfg.Center {
		half = tr.cfg.NFFT / 2
	}
	for c := 0; c < channels; c++ {
		sig, err := PadInto(tr.padded, x.Lead(c), half, half, tr.cfg.PadMode, 0)
		if err != nil {
			return nil, err
		}
		tr.padded = sig
		for t := 0; t < frames; t++ {
			start := t * tr.cfg.Hop
			copy(tr.frame, sig[start:start+tr.cfg.NFFT])
			if err := window.ApplyCoefficientsInPlace(tr.frame, tr.window); err != nil {
				return nil, err
			}
			if err := tr.fft.forward(out.Frame(c, t), tr.frame); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
