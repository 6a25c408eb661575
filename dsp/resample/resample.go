package resample

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/dsp/window"
)

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// Profile exposes default filter parameters for each quality mode.
// ZeroCrossings is the number of sinc zero crossings the prototype spans.
type Profile struct {
	ZeroCrossings     int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{ZeroCrossings: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{ZeroCrossings: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{ZeroCrossings: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

// Option configures a Converter.
type Option func(*config)

type config struct {
	quality Quality
	maxDen  int
}

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator caps denominator size for rate-ratio approximation.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

// Converter resamples by a fixed rational factor. It holds only the
// designed filter and is safe for concurrent use.
type Converter struct {
	up, down int
	quality  Quality
	delay    int
	phases   [][]float64
}

// NewRational creates a converter for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, core.InvalidArgumentf("resample ratio must be positive: %d/%d", up, down)
	}
	cfg := applyOptions(opts)

	g := gcd(up, down)
	up /= g
	down /= g

	p := QualityProfile(cfg.quality)
	// The length follows the narrower of the two band limits so decimation
	// gets the same transition width as interpolation. Odd length keeps the
	// group delay on an integer sample.
	nTaps := p.ZeroCrossings*max(up, down) + 1
	fc := 0.5 / float64(max(up, down)) * p.CutoffScale

	taps, err := window.Kaiser(nTaps, p.KaiserBeta)
	if err != nil {
		return nil, core.InvalidArgumentf("%v", err)
	}
	center := 0.5 * float64(nTaps-1)
	for n := range taps {
		taps[n] *= 2 * fc * sinc(2*fc*(float64(n)-center))
	}
	// Unity DC gain per phase after zero-stuffing.
	floats.Scale(float64(up)/floats.Sum(taps), taps)

	phases := make([][]float64, up)
	for ph := range phases {
		for i := ph; i < nTaps; i += up {
			phases[ph] = append(phases[ph], taps[i])
		}
	}

	return &Converter{
		up:      up,
		down:    down,
		quality: cfg.quality,
		delay:   (nTaps - 1) / 2,
		phases:  phases,
	}, nil
}

// NewForRates creates a converter by approximating outRate/inRate as a
// ratio with bounded denominator.
func NewForRates(inRate, outRate float64, opts ...Option) (*Converter, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, core.InvalidArgumentf("sample rates must be positive and finite: %v -> %v", inRate, outRate)
	}
	cfg := applyOptions(opts)
	up, down := approximateRatio(outRate/inRate, cfg.maxDen)
	return NewRational(up, down, opts...)
}

// Ratio returns reduced up/down conversion factors.
func (c *Converter) Ratio() (up, down int) { return c.up, c.down }

// Quality returns the configured quality mode.
func (c *Converter) Quality() Quality { return c.quality }

// OutputLen returns ceil(n·up/down), the length [Converter.Apply] produces.
func (c *Converter) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n*c.up + c.down - 1) / c.down
}

// Apply returns x converted to the target rate. Samples beyond the ends of
// x are treated as zero.
func (c *Converter) Apply(x []float64) []float64 {
	out := make([]float64, c.OutputLen(len(x)))
	for m := range out {
		j := m*c.down + c.delay
		taps := c.phases[j%c.up]
		base := j / c.up

		var y float64
		for l, h := range taps {
			idx := base - l
			if idx < 0 {
				break
			}
			if idx < len(x) {
				y += h * x[idx]
			}
		}
		out[m] = y
	}
	return out
}

// Waveform converts every channel of a (channel, time) array.
func (c *Converter) Waveform(x *tensor.Dense) (*tensor.Dense, error) {
	if x.Rank() != 2 {
		return nil, core.InvalidShapef("resample needs a (channel, time) waveform, got rank %d", x.Rank())
	}
	if err := tensor.CheckChannels(x, 0); err != nil {
		return nil, err
	}

	channels, n := x.Dim(0), x.Dim(1)
	out := tensor.New(channels, c.OutputLen(n))
	for ch := 0; ch < channels; ch++ {
		copy(out.Lead(ch), c.Apply(x.Lead(ch)))
	}
	return out, nil
}

func applyOptions(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// approximateRatio returns the continued-fraction convergent of v with
// denominator at most maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v
	for {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}
		x = 1 / frac
		a := math.Floor(x)
		p2, q2 := a*p1+p0, a*q1+q0
		if q2 > float64(maxDen) {
			break
		}
		p0, q0 = p1, q1
		p1, q1 = p2, q2
	}

	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}
	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}
