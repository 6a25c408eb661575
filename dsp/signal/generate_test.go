package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-features/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(WithSampleRate(48000))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGenerator(WithSeed(42))
	g2 := NewGenerator(WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if math.Abs(n1[i]) > 1 {
			t.Fatalf("noise[%d] = %v outside amplitude", i, n1[i])
		}
	}
}

func TestChirpStaysBounded(t *testing.T) {
	g := NewGenerator(WithSampleRate(8000))
	x, err := g.Chirp(100, 4000, 0.5, 8000)
	if err != nil {
		t.Fatalf("Chirp() error = %v", err)
	}
	if x[0] != 0 {
		t.Fatalf("x[0] = %v, want 0", x[0])
	}
	for i, v := range x {
		if math.Abs(v) > 0.5+1e-12 {
			t.Fatalf("x[%d] = %v exceeds amplitude", i, v)
		}
	}
	if _, err := g.Chirp(100, 5000, 1, 10); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Chirp above Nyquist error = %v, want ErrInvalidArgument", err)
	}
}

func TestWaveformChannels(t *testing.T) {
	g := NewGenerator(WithSeed(7))
	for _, kind := range []Kind{KindSine, KindNoise, KindChirp, KindSilence} {
		t.Run(kind.String(), func(t *testing.T) {
			wave, err := g.Waveform(kind, 300, 0.5, 3, 1000)
			if err != nil {
				t.Fatalf("Waveform() error = %v", err)
			}
			if got := wave.Shape(); got[0] != 3 || got[1] != 1000 {
				t.Fatalf("shape = %v, want [3 1000]", got)
			}
		})
	}

	noise, err := g.Waveform(KindNoise, 0, 1, 2, 32)
	if err != nil {
		t.Fatalf("Waveform() error = %v", err)
	}
	if noise.At(0, 5) == noise.At(1, 5) {
		t.Fatal("noise channels share a seed")
	}
}

func TestWaveformErrors(t *testing.T) {
	g := NewGenerator()
	tests := []struct {
		name     string
		kind     Kind
		channels int
		samples  int
		want     error
	}{
		{"no channels", KindSine, 0, 10, core.ErrInvalidArgument},
		{"too many channels", KindSine, 128, 10, core.ErrInvalidShape},
		{"no samples", KindNoise, 1, 0, core.ErrInvalidArgument},
		{"no silence", KindSilence, 1, 0, core.ErrInvalidArgument},
		{"unknown kind", Kind(42), 1, 10, core.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Waveform(tt.kind, 100, 1, tt.channels, tt.samples); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseKind(name)
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseKind("pink"); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("ParseKind(pink) error = %v, want ErrInvalidArgument", err)
	}
}

func TestNormalize(t *testing.T) {
	x, err := Normalize([]float64{0.5, -2, 1}, 1)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := []float64{0.25, -1, 0.5}
	for i := range want {
		if math.Abs(x[i]-want[i]) > 1e-12 {
			t.Fatalf("x[%d] = %v, want %v", i, x[i], want[i])
		}
	}

	zero, err := Normalize([]float64{0, 0}, 1)
	if err != nil {
		t.Fatalf("Normalize(zero) error = %v", err)
	}
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("Normalize(zero) = %v", zero)
	}

	if _, err := Normalize(nil, 1); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Normalize(nil) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := Normalize([]float64{1}, -1); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("Normalize(-1) error = %v, want ErrInvalidArgument", err)
	}
}
