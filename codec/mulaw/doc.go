// Package mulaw implements μ-law companding of amplitude samples.
//
// Encode maps samples in [-1, 1] to integer codes in [0, q-1] through the
// logarithmic μ-law curve with μ = q-1; Decode maps codes back onto the
// curve's inverse. The pair is lossy: a round trip lands within one
// quantisation step (2/μ) of the input on the companded scale.
//
// Both functions are generic over [Sample], so int16 PCM, float32 buffers
// and float64 arrays go through the same code path. Integer samples are
// converted to float64 before companding and are not rescaled; divide PCM
// by its full-scale value first.
package mulaw
