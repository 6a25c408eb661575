// Package tensor provides the dense float64 arrays exchanged between the
// spectral and feature packages.
//
// A [Dense] is a row-major N-dimensional array. Feature tensors use the
// (channel, frame, bin) layout and waveforms use (channel, time). Matrix
// products along the last axis are delegated to gonum/mat via [Project],
// which views each contiguous block of the backing slice as a matrix
// without copying.
//
// Values returned by this package are new arrays unless a function states
// that it shares the backing slice (Reshape, Data, Lead).
package tensor
