package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
)

// Kind names a synthetic test signal.
type Kind int

const (
	KindSine Kind = iota
	KindNoise
	KindChirp
	KindSilence
)

var kindNames = map[Kind]string{
	KindSine:    "sine",
	KindNoise:   "noise",
	KindChirp:   "chirp",
	KindSilence: "silence",
}

// String returns the lower-case signal name.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a name printed by [Kind.String].
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindSine, core.InvalidArgumentf("unknown signal %q", name)
}

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSampleRate sets the sample rate in Hz. Non-positive values are ignored.
func WithSampleRate(sr float64) Option {
	return func(g *Generator) {
		if sr > 0 {
			g.sampleRate = sr
		}
	}
}

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator at 16 kHz with seed 1 unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{sampleRate: 16000, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if err := core.RequirePositive("sine samples", samples); err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	return g.noise(g.seed, amplitude, samples)
}

// Chirp generates a linear frequency sweep from f0 to f1 Hz.
func (g *Generator) Chirp(f0, f1, amplitude float64, samples int) ([]float64, error) {
	if err := core.RequirePositive("chirp samples", samples); err != nil {
		return nil, err
	}
	if f0 < 0 || f1 < 0 || f0 > g.sampleRate/2 || f1 > g.sampleRate/2 {
		return nil, core.InvalidArgumentf("chirp range [%v, %v] Hz outside [0, %v]", f0, f1, g.sampleRate/2)
	}
	out := make([]float64, samples)
	duration := float64(samples) / g.sampleRate
	rate := (f1 - f0) / duration
	for i := range out {
		t := float64(i) / g.sampleRate
		out[i] = amplitude * math.Sin(2*math.Pi*(f0*t+0.5*rate*t*t))
	}
	return out, nil
}

// Waveform returns a (channels, samples) array of the given kind.
//
// Channel c of a sine runs at (c+1)·freqHz, channel c of noise uses seed+c,
// and a chirp sweeps from freqHz up to Nyquist in every channel.
func (g *Generator) Waveform(kind Kind, freqHz, amplitude float64, channels, samples int) (*tensor.Dense, error) {
	if err := core.RequirePositive("channels", channels); err != nil {
		return nil, err
	}
	if channels >= tensor.MaxChannels {
		return nil, core.InvalidShapef("too many channels: %d", channels)
	}

	rows := make([][]float64, channels)
	for c := range rows {
		var err error
		switch kind {
		case KindSine:
			rows[c], err = g.Sine(freqHz*float64(c+1), amplitude, samples)
		case KindNoise:
			rows[c], err = g.noise(g.seed+int64(c), amplitude, samples)
		case KindChirp:
			rows[c], err = g.Chirp(freqHz, g.sampleRate/2, amplitude, samples)
		case KindSilence:
			err = core.RequirePositive("silence samples", samples)
			rows[c] = make([]float64, max(samples, 0))
		default:
			err = core.InvalidArgumentf("unknown signal %v", kind)
		}
		if err != nil {
			return nil, err
		}
	}
	return tensor.FromRows(rows)
}

func (g *Generator) noise(seed int64, amplitude float64, samples int) ([]float64, error) {
	if err := core.RequirePositive("noise samples", samples); err != nil {
		return nil, err
	}
	if amplitude < 0 {
		return nil, core.InvalidArgumentf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, core.InvalidArgumentf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, core.InvalidArgumentf("normalize input must not be empty")
	}

	out := make([]float64, len(data))
	maxAbs := floats.Norm(data, math.Inf(1))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	floats.ScaleTo(out, targetPeak/maxAbs, data)
	return out, nil
}
