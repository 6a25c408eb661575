package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-features/dsp/tensor"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Waveform stacks equal-length channels into a (channel, time) array.
func Waveform(tb testing.TB, channels ...[]float64) *tensor.Dense {
	tb.Helper()
	x, err := tensor.FromRows(channels)
	if err != nil {
		tb.Fatalf("Waveform: %v", err)
	}
	return x
}

// Speech returns a two-channel, one second, 16 kHz test waveform: seeded
// noise in channel 0 and a 300 Hz tone in channel 1.
func Speech(tb testing.TB) *tensor.Dense {
	tb.Helper()
	return Waveform(tb,
		DeterministicNoise(11, 0.3, 16000),
		DeterministicSine(300, 16000, 0.8, 16000),
	)
}
