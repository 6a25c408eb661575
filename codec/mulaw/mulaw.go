package mulaw

import (
	"math"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
)

// DefaultChannels is the conventional 8-bit quantisation.
const DefaultChannels = 256

// Sample is the set of element types accepted by [Encode] and [Decode].
type Sample interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Encode compands x into codes in [0, q-1].
//
// Each sample becomes trunc(((sign(x)·ln(1+μ|x|)/ln(1+μ)) + 1)/2·μ + 0.5)
// with μ = q-1. Inputs are expected in [-1, 1]; values outside that range
// are not clamped and produce codes outside [0, q-1].
func Encode[T Sample](x []T, q int) ([]int, error) {
	mu, err := muFor(q)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(x))
	for i, v := range x {
		out[i] = encode(float64(v), mu)
	}
	return out, nil
}

// Decode expands codes produced by [Encode] back to amplitudes in [-1, 1].
func Decode[T Sample](codes []T, q int) ([]float64, error) {
	mu, err := muFor(q)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(codes))
	for i, c := range codes {
		out[i] = decode(float64(c), mu)
	}
	return out, nil
}

// EncodeTensor is [Encode] over an array; codes are stored as float64 and
// the shape is preserved.
func EncodeTensor(x *tensor.Dense, q int) (*tensor.Dense, error) {
	mu, err := muFor(q)
	if err != nil {
		return nil, err
	}
	return x.Map(func(v float64) float64 { return float64(encode(v, mu)) }), nil
}

// DecodeTensor is [Decode] over an array of codes.
func DecodeTensor(codes *tensor.Dense, q int) (*tensor.Dense, error) {
	mu, err := muFor(q)
	if err != nil {
		return nil, err
	}
	return codes.Map(func(c float64) float64 { return decode(c, mu) }), nil
}

// Compress returns the μ-law curve sign(x)·ln(1+μ|x|)/ln(1+μ) for q
// channels, before quantisation.
func Compress(x float64, q int) (float64, error) {
	mu, err := muFor(q)
	if err != nil {
		return 0, err
	}
	return compress(x, mu), nil
}

func muFor(q int) (float64, error) {
	if q < 2 {
		return 0, core.InvalidArgumentf("quantization channels must be >= 2: %d", q)
	}
	return float64(q - 1), nil
}

func compress(x, mu float64) float64 {
	return core.Sign(x) * math.Log1p(mu*math.Abs(x)) / math.Log1p(mu)
}

func encode(x, mu float64) int {
	return int((compress(x, mu)+1)/2*mu + 0.5)
}

func decode(c, mu float64) float64 {
	y := c/mu*2 - 1
	return core.Sign(y) * math.Expm1(math.Abs(y)*math.Log1p(mu)) / mu
}
