package resample

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
)

// Soxr converts between arbitrary rates with the multi-stage engine of
// github.com/tphakala/go-audio-resampling. The engine is streaming, so
// every call builds a fresh instance; Soxr itself holds no state and is
// safe for concurrent use.
type Soxr struct {
	inRate, outRate float64
	quality         Quality
}

// NewSoxr creates a converter from inRate to outRate. Only [WithQuality]
// applies; the engine handles irrational ratios itself.
func NewSoxr(inRate, outRate float64, opts ...Option) (*Soxr, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, core.InvalidArgumentf("sample rates must be positive and finite: %v -> %v", inRate, outRate)
	}
	cfg := applyOptions(opts)
	return &Soxr{inRate: inRate, outRate: outRate, quality: cfg.quality}, nil
}

// Rates returns the input and output sample rates.
func (s *Soxr) Rates() (in, out float64) { return s.inRate, s.outRate }

// Quality returns the configured quality mode.
func (s *Soxr) Quality() Quality { return s.quality }

// OutputLen returns ceil(n·outRate/inRate).
func (s *Soxr) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n) * s.outRate / s.inRate))
}

// Apply returns x converted to the output rate, trimmed or zero-padded to
// OutputLen(len(x)).
func (s *Soxr) Apply(x []float64) ([]float64, error) {
	want := s.OutputLen(len(x))
	if want == 0 {
		return []float64{}, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  s.inRate,
		OutputRate: s.outRate,
		Channels:   1,
		Quality:    soxrQuality(s.quality),
	})
	if err != nil {
		return nil, fmt.Errorf("create soxr resampler: %w", err)
	}

	out, err := r.Process(x)
	if err != nil {
		return nil, fmt.Errorf("soxr process: %w", err)
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("soxr flush: %w", err)
	}
	out = append(out, tail...)

	if len(out) >= want {
		return out[:want], nil
	}
	return append(out, make([]float64, want-len(out))...), nil
}

// Waveform converts every channel of a (channel, time) array.
func (s *Soxr) Waveform(x *tensor.Dense) (*tensor.Dense, error) {
	if x.Rank() != 2 {
		return nil, core.InvalidShapef("resample needs a (channel, time) waveform, got rank %d", x.Rank())
	}
	if err := tensor.CheckChannels(x, 0); err != nil {
		return nil, err
	}

	channels, n := x.Dim(0), x.Dim(1)
	out := tensor.New(channels, s.OutputLen(n))
	for ch := 0; ch < channels; ch++ {
		y, err := s.Apply(x.Lead(ch))
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		copy(out.Lead(ch), y)
	}
	return out, nil
}

func soxrQuality(q Quality) resampling.QualitySpec {
	switch q {
	case QualityFast:
		return resampling.QualitySpec{Preset: resampling.QualityLow}
	case QualityBest:
		return resampling.QualitySpec{Preset: resampling.QualityHigh}
	default:
		return resampling.QualitySpec{Preset: resampling.QualityMedium}
	}
}
