// Package spectrum converts complex STFT bins into real-valued magnitude and
// power values.
//
// The package intentionally does not implement FFT itself. It operates on
// complex bins produced by [github.com/cwbudde/algo-features/dsp/stft] or any
// other backend, and uses SIMD kernels from algo-vecmath for the hot
// magnitude and power loops.
package spectrum
