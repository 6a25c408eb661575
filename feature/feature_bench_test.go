package feature

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-features/dsp/stft"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/internal/testutil"
)

func BenchmarkExtractorMFCC(b *testing.B) {
	for _, n := range []int{400, 512} {
		b.Run("nfft="+strconv.Itoa(n), func(b *testing.B) {
			e, err := NewExtractor(WithNFFT(n), WithHop(160), WithMels(40), WithMFCC(13))
			if err != nil {
				b.Fatalf("NewExtractor error: %v", err)
			}
			wave, err := tensor.FromSlice(testutil.DeterministicNoise(1, 1, 16000), 1, 16000)
			if err != nil {
				b.Fatalf("FromSlice error: %v", err)
			}

			b.SetBytes(16000 * 8)
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				if _, err := e.MFCC(wave); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPowerSpectrumBackend(b *testing.B) {
	wave, err := tensor.FromSlice(testutil.DeterministicNoise(1, 1, 16000), 1, 16000)
	if err != nil {
		b.Fatalf("FromSlice error: %v", err)
	}
	for _, backend := range []stft.Backend{stft.BackendAlgoFFT, stft.BackendGonum} {
		b.Run(backend.String(), func(b *testing.B) {
			params := SpectrogramParams{NFFT: 512, Hop: 160, Power: 2, Backend: backend}
			b.ReportAllocs()
			for range b.N {
				if _, err := PowerSpectrum(wave, params); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
