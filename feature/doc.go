// Package feature composes short-time spectra into mel spectrograms,
// decibel spectrograms and MFCC.
//
// The pipeline is a chain of pure functions:
//
//	wave ─PowerSpectrum→ (channel, frame, bin)
//	     ─MelProjection→ (channel, frame, n_mels)
//	     ─ToDecibel / log→
//	     ─CepstralProjection→ (channel, frame, n_mfcc)
//
// Each stage returns a new array and never mutates its input. The
// filterbank and DCT matrices depend only on their integer and float
// parameters; [Cache] memoises them so they can be shared read-only between
// calls and goroutines. [Extractor] wires the stages together for a fixed
// [Config].
package feature
