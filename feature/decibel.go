package feature

import (
	"math"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
)

// DecibelFunc compresses a spectrum into decibels.
type DecibelFunc func(*tensor.Dense) (*tensor.Dense, error)

// DecibelOption configures [ToDecibel].
type DecibelOption func(*decibelConfig)

type decibelConfig struct {
	topDB    float64
	useTopDB bool
}

// WithTopDB limits the dynamic range: every output value is raised to at
// least max(output) − topDB. The maximum is taken over the whole array,
// across all channels and frames.
func WithTopDB(topDB float64) DecibelOption {
	return func(c *decibelConfig) {
		c.topDB = topDB
		c.useTopDB = true
	}
}

// DBMultiplier returns log10(max(amin, ref)), the reference offset passed to
// [ToDecibel] for a reference value ref.
func DBMultiplier(ref, amin float64) float64 {
	return math.Log10(math.Max(amin, ref))
}

// ToDecibel returns multiplier·log10(max(spec, amin)) − multiplier·dbMultiplier.
//
// Use multiplier 10 for power spectra and 20 for magnitude spectra. amin
// must be positive; it keeps silent bins finite.
func ToDecibel(spec *tensor.Dense, multiplier, amin, dbMultiplier float64, opts ...DecibelOption) (*tensor.Dense, error) {
	cfg, err := decibelSettings(multiplier, amin, dbMultiplier, opts)
	if err != nil {
		return nil, err
	}

	offset := multiplier * dbMultiplier
	out := spec.Map(func(v float64) float64 {
		return multiplier*core.FloorLog10(v, amin) - offset
	})

	if cfg.useTopDB && out.Len() > 0 {
		floor := out.Max() - cfg.topDB
		data := out.Data()
		for i, v := range data {
			if v < floor {
				data[i] = floor
			}
		}
	}
	return out, nil
}

// DecibelTransform binds the [ToDecibel] parameters into a [DecibelFunc].
// Parameter errors surface on the first call.
func DecibelTransform(multiplier, amin, dbMultiplier float64, opts ...DecibelOption) DecibelFunc {
	opts = append([]DecibelOption(nil), opts...)
	return func(spec *tensor.Dense) (*tensor.Dense, error) {
		return ToDecibel(spec, multiplier, amin, dbMultiplier, opts...)
	}
}

func decibelSettings(multiplier, amin, dbMultiplier float64, opts []DecibelOption) (decibelConfig, error) {
	var cfg decibelConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := core.RequireFinite("multiplier", multiplier); err != nil {
		return cfg, err
	}
	if err := core.RequireFinite("db_multiplier", dbMultiplier); err != nil {
		return cfg, err
	}
	if !(amin > 0) || math.IsInf(amin, 0) {
		return cfg, core.InvalidArgumentf("amin must be positive and finite: %v", amin)
	}
	if cfg.useTopDB && (!(cfg.topDB >= 0) || math.IsInf(cfg.topDB, 0)) {
		return cfg, core.InvalidArgumentf("top_db must be >= 0 and finite: %v", cfg.topDB)
	}
	return cfg, nil
}
