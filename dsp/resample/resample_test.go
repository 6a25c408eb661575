package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/internal/testutil"
)

func TestNewRationalValidation(t *testing.T) {
	for _, r := range [][2]int{{0, 1}, {1, 0}, {-2, 3}} {
		if _, err := NewRational(r[0], r[1]); !errors.Is(err, core.ErrInvalidArgument) {
			t.Fatalf("NewRational(%d, %d) error = %v, want ErrInvalidArgument", r[0], r[1], err)
		}
	}
	if _, err := NewForRates(0, 16000); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("NewForRates(0) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewForRates(16000, math.NaN()); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("NewForRates(NaN) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRatioReduction(t *testing.T) {
	r, err := NewRational(320, 294)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	up, down := r.Ratio()
	if up != 160 || down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", up, down)
	}
}

func TestNewForRatesRatios(t *testing.T) {
	tests := []struct {
		in, out  float64
		up, down int
	}{
		{44100, 48000, 160, 147},
		{48000, 16000, 1, 3},
		{8000, 16000, 2, 1},
		{22050, 16000, 320, 441},
	}
	for _, tc := range tests {
		r, err := NewForRates(tc.in, tc.out, WithQuality(QualityFast))
		if err != nil {
			t.Fatalf("NewForRates(%v, %v) error = %v", tc.in, tc.out, err)
		}
		if up, down := r.Ratio(); up != tc.up || down != tc.down {
			t.Fatalf("%v->%v ratio = %d/%d, want %d/%d", tc.in, tc.out, up, down, tc.up, tc.down)
		}
	}
}

func TestOutputLen(t *testing.T) {
	for _, ratio := range [][2]int{{1, 3}, {2, 1}, {3, 2}, {160, 147}} {
		r, err := NewRational(ratio[0], ratio[1], WithQuality(QualityFast))
		if err != nil {
			t.Fatalf("NewRational() error = %v", err)
		}
		for _, n := range []int{1, 2, 257, 1000} {
			want := int(math.Ceil(float64(n) * float64(ratio[0]) / float64(ratio[1])))
			got := len(r.Apply(make([]float64, n)))
			if got != want || r.OutputLen(n) != want {
				t.Fatalf("%d/%d n=%d: len = %d, OutputLen = %d, want %d", ratio[0], ratio[1], n, got, r.OutputLen(n), want)
			}
		}
	}
	r, err := NewRational(1, 2)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	if out := r.Apply(nil); len(out) != 0 {
		t.Fatalf("Apply(nil) = %v, want empty", out)
	}
}

func TestToneIsAligned(t *testing.T) {
	tests := []struct {
		name          string
		inRate, rate  float64
		freq          float64
		quality       Quality
	}{
		{"48k to 16k", 48000, 16000, 1000, QualityBalanced},
		{"16k to 48k", 16000, 48000, 440, QualityBalanced},
		{"44.1k to 16k", 44100, 16000, 500, QualityBest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewForRates(tc.inRate, tc.rate, WithQuality(tc.quality))
			if err != nil {
				t.Fatalf("NewForRates() error = %v", err)
			}
			in := testutil.DeterministicSine(tc.freq, tc.inRate, 1, int(tc.inRate/2))
			out := r.Apply(in)

			margin := 200
			for m := margin; m < len(out)-margin; m++ {
				want := math.Sin(2 * math.Pi * tc.freq * float64(m) / tc.rate)
				if diff := math.Abs(out[m] - want); diff > 0.01 {
					t.Fatalf("sample %d: got %v, want %v (diff %v)", m, out[m], want, diff)
				}
			}
		})
	}
}

func TestAntiAliasing(t *testing.T) {
	// 6 kHz lies above the 4 kHz Nyquist limit of the target rate.
	r, err := NewForRates(48000, 8000)
	if err != nil {
		t.Fatalf("NewForRates() error = %v", err)
	}
	out := r.Apply(testutil.DeterministicSine(6000, 48000, 1, 24000))

	margin := 100
	energy := 0.0
	for _, v := range out[margin : len(out)-margin] {
		energy += v * v
	}
	rms := math.Sqrt(energy / float64(len(out)-2*margin))
	if rms > 0.01 {
		t.Fatalf("aliased rms = %v, want < 0.01", rms)
	}
}

func TestWaveform(t *testing.T) {
	r, err := NewRational(1, 3)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	x, err := tensor.FromRows([][]float64{
		testutil.DeterministicNoise(1, 1, 300),
		testutil.DeterministicNoise(2, 1, 300),
	})
	if err != nil {
		t.Fatalf("FromRows error: %v", err)
	}

	out, err := r.Waveform(x)
	if err != nil {
		t.Fatalf("Waveform() error = %v", err)
	}
	if got := out.Shape(); got[0] != 2 || got[1] != 100 {
		t.Fatalf("shape = %v, want [2 100]", got)
	}
	testutil.RequireSliceNearlyEqual(t, out.Lead(1), r.Apply(x.Lead(1)), 0)

	if _, err := r.Waveform(tensor.New(300)); !errors.Is(err, core.ErrInvalidShape) {
		t.Fatalf("rank 1 error = %v, want ErrInvalidShape", err)
	}
}
