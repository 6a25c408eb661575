// Package stft computes centered, one-sided short-time Fourier transforms of
// multi-channel waveforms.
//
// Framing follows the common speech front-end convention: the signal is
// padded by NFFT/2 on both sides (reflect by default), frame t starts at
// t*Hop in the padded signal, and each frame is multiplied by a window of
// WinLength samples centred inside NFFT. The number of frames for n input
// samples is therefore 1 + n/Hop (integer division).
//
// The FFT itself is delegated to an explicitly selected backend: algo-fft
// plans for power-of-two sizes, gonum's dsp/fourier for every other size.
// [BackendAuto] picks between them per NFFT.
package stft
