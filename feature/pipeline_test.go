package feature

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/stft"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/dsp/window"
	"github.com/cwbudde/algo-features/internal/testutil"
)

func TestPowerSpectrumShapeAndSign(t *testing.T) {
	wave := testutil.Waveform(t,
		testutil.DeterministicNoise(1, 1, 4000),
		testutil.DeterministicSine(440, 16000, 0.5, 4000),
	)
	spec, err := PowerSpectrum(wave, SpectrogramParams{
		Window: window.Generate(window.TypeHann, 256, window.WithPeriodic()),
		NFFT:   256,
		Hop:    64,
		Power:  2,
	})
	if err != nil {
		t.Fatalf("PowerSpectrum error: %v", err)
	}

	testutil.RequireShape(t, spec.Shape(), 2, 1+4000/64, 129)
	for i, v := range spec.Data() {
		if v < 0 || math.IsNaN(v) {
			t.Fatalf("index %d: got %v, want non-negative", i, v)
		}
	}
}

func TestPowerSpectrumDC(t *testing.T) {
	for _, backend := range []stft.Backend{stft.BackendAlgoFFT, stft.BackendGonum} {
		t.Run(backend.String(), func(t *testing.T) {
			spec, err := PowerSpectrum(testutil.Waveform(t, testutil.DC(1, 32)), SpectrogramParams{
				NFFT:    8,
				Hop:     4,
				Power:   2,
				Backend: backend,
			})
			if err != nil {
				t.Fatalf("PowerSpectrum error: %v", err)
			}
			frames, bins := spec.Dim(1), spec.Dim(2)
			for f := 0; f < frames; f++ {
				for k := 0; k < bins; k++ {
					want := 0.0
					if k == 0 {
						want = 64
					}
					if got := spec.At(0, f, k); math.Abs(got-want) > 1e-9 {
						t.Fatalf("frame %d bin %d: got %v, want %v", f, k, got, want)
					}
				}
			}
		})
	}
}

func TestPowerSpectrumBackendsAgree(t *testing.T) {
	wave := testutil.Waveform(t, testutil.DeterministicNoise(21, 1, 4096))
	params := SpectrogramParams{
		Window: window.Generate(window.TypeHann, 512, window.WithPeriodic()),
		NFFT:   512,
		Hop:    128,
		Power:  2,
	}

	params.Backend = stft.BackendAlgoFFT
	a, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum(algo-fft) error: %v", err)
	}
	params.Backend = stft.BackendGonum
	g, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum(gonum) error: %v", err)
	}

	diff, err := testutil.MaxAbsDiff(a.Data(), g.Data())
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}
	if scale := a.Max(); diff > 1e-9*scale {
		t.Fatalf("backends differ by %v (peak %v)", diff, scale)
	}
}

func TestPowerSpectrumExponent(t *testing.T) {
	wave := testutil.Waveform(t, testutil.DeterministicNoise(7, 1, 1024))
	params := SpectrogramParams{NFFT: 128, Hop: 32, Power: 1}

	mag, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum(power=1) error: %v", err)
	}
	params.Power = 2
	pow, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum(power=2) error: %v", err)
	}

	squared := mag.Map(func(v float64) float64 { return v * v })
	testutil.RequireSliceNearlyEqual(t, pow.Data(), squared.Data(), 1e-9)
}

func TestPowerSpectrumNormalize(t *testing.T) {
	wave := testutil.Waveform(t, testutil.DeterministicNoise(3, 1, 2048))
	win := window.Generate(window.TypeHann, 200, window.WithPeriodic())
	params := SpectrogramParams{Window: win, NFFT: 256, Hop: 100, WinLength: 200, Power: 2}

	raw, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum error: %v", err)
	}
	params.Normalize = true
	norm, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum(normalized) error: %v", err)
	}

	energy, err := window.Energy(win)
	if err != nil {
		t.Fatalf("Energy error: %v", err)
	}
	want := raw.Map(func(v float64) float64 { return v / (energy * energy) })
	testutil.RequireSliceNearlyEqual(t, norm.Data(), want.Data(), 1e-9)
}

func TestPowerSpectrumHopDefault(t *testing.T) {
	spec, err := PowerSpectrum(testutil.Waveform(t, testutil.DeterministicNoise(5, 1, 1000)), SpectrogramParams{
		NFFT:  100,
		Power: 2,
	})
	if err != nil {
		t.Fatalf("PowerSpectrum error: %v", err)
	}
	if got, want := spec.Dim(1), 1+1000/50; got != want {
		t.Fatalf("frames = %d, want %d", got, want)
	}
}

func TestPowerSpectrumPad(t *testing.T) {
	wave := testutil.Waveform(t, testutil.DeterministicNoise(9, 1, 512))
	params := SpectrogramParams{NFFT: 64, Hop: 16, Power: 2}

	base, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum error: %v", err)
	}
	params.Pad = 32
	params.PadMode = stft.PadConstant
	padded, err := PowerSpectrum(wave, params)
	if err != nil {
		t.Fatalf("PowerSpectrum(pad) error: %v", err)
	}
	if got, want := padded.Dim(1), base.Dim(1)+64/16; got != want {
		t.Fatalf("frames = %d, want %d", got, want)
	}
}

func TestPowerSpectrumErrors(t *testing.T) {
	ok := SpectrogramParams{NFFT: 16, Hop: 4, Power: 2}
	tests := []struct {
		name   string
		wave   *tensor.Dense
		params SpectrogramParams
		want   error
	}{
		{"rank1", tensor.New(64), ok, core.ErrInvalidShape},
		{"rank3", tensor.New(1, 1, 64), ok, core.ErrInvalidShape},
		{"too many channels", tensor.New(tensor.MaxChannels, 64), ok, core.ErrInvalidShape},
		{"zero power", tensor.New(1, 64), SpectrogramParams{NFFT: 16, Hop: 4}, core.ErrInvalidArgument},
		{"negative hop", tensor.New(1, 64), SpectrogramParams{NFFT: 16, Hop: -4, Power: 2}, core.ErrInvalidArgument},
		{"negative pad", tensor.New(1, 64), SpectrogramParams{NFFT: 16, Hop: 4, Power: 2, Pad: -1}, core.ErrInvalidArgument},
		{"zero window", tensor.New(1, 64), SpectrogramParams{Window: make([]float64, 16), NFFT: 16, Hop: 4, Power: 2, Normalize: true}, core.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PowerSpectrum(tt.wave, tt.params)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMelProjectionBuildsFilterbank(t *testing.T) {
	spec := tensor.New(2, 5, 201)
	for i := range spec.Data() {
		spec.Data()[i] = 1
	}

	fb, mel, err := MelProjection(spec, 0, 8000, 40, nil)
	if err != nil {
		t.Fatalf("MelProjection error: %v", err)
	}
	if r, c := fb.Dims(); r != 201 || c != 40 {
		t.Fatalf("filterbank dims = (%d, %d), want (201, 40)", r, c)
	}
	testutil.RequireShape(t, mel.Shape(), 2, 5, 40)
	for j := 0; j < 40; j++ {
		want := mat.Sum(fb.ColView(j))
		if got := mel.At(1, 4, j); math.Abs(got-want) > 1e-12 {
			t.Fatalf("band %d: got %v, want column sum %v", j, got, want)
		}
	}
}

func TestMelProjectionReusesFilterbank(t *testing.T) {
	spec := tensor.New(1, 3, 9)
	fb := mat.NewDense(9, 2, nil)

	got, _, err := MelProjection(spec, 0, 100, 2, fb)
	if err != nil {
		t.Fatalf("MelProjection error: %v", err)
	}
	if got != fb {
		t.Fatal("MelProjection did not return the supplied filterbank")
	}

	_, _, err = MelProjection(tensor.New(1, 3, 10), 0, 100, 2, fb)
	if !errors.Is(err, core.ErrInvalidShape) {
		t.Fatalf("row mismatch error = %v, want ErrInvalidShape", err)
	}
}

func TestCepstralProjectionLog(t *testing.T) {
	mel, err := tensor.FromSlice([]float64{0, 1, math.E - LogOffset}, 1, 1, 3)
	if err != nil {
		t.Fatalf("FromSlice error: %v", err)
	}
	identity := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	out, err := CepstralProjection(mel, true, nil, identity)
	if err != nil {
		t.Fatalf("CepstralProjection error: %v", err)
	}
	want := []float64{math.Log(LogOffset), math.Log(1 + LogOffset), 1}
	testutil.RequireSliceNearlyEqual(t, out.Data(), want, 1e-12)
}

func TestCepstralProjectionDecibel(t *testing.T) {
	mel, err := tensor.FromSlice([]float64{1, 10, 100, 1000}, 1, 2, 2)
	if err != nil {
		t.Fatalf("FromSlice error: %v", err)
	}
	sum := mat.NewDense(2, 1, []float64{1, 1})

	out, err := CepstralProjection(mel, false, DecibelTransform(10, 1e-10, 0), sum)
	if err != nil {
		t.Fatalf("CepstralProjection error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Data(), []float64{10, 50}, 1e-9)
}

func TestCepstralProjectionErrors(t *testing.T) {
	mel := tensor.New(1, 2, 4)
	basis := mat.NewDense(4, 2, nil)

	if _, err := CepstralProjection(mel, false, nil, basis); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("nil toDB error = %v, want ErrInvalidArgument", err)
	}
	if _, err := CepstralProjection(mel, true, nil, nil); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("nil dct error = %v, want ErrInvalidArgument", err)
	}
	if _, err := CepstralProjection(mel, true, nil, mat.NewDense(3, 2, nil)); !errors.Is(err, core.ErrInvalidShape) {
		t.Fatalf("row mismatch error = %v, want ErrInvalidShape", err)
	}
}
