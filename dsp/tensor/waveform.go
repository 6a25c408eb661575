package tensor

import (
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-features/dsp/core"
)

// CheckChannels returns an ErrInvalidShape error when the channel axis of a
// waveform is implausibly large.
func CheckChannels(x *Dense, chDim int) error {
	if chDim < 0 || chDim >= x.Rank() {
		return core.InvalidShapef("channel axis %d out of range for rank %d", chDim, x.Rank())
	}
	if c := x.Dim(chDim); c >= MaxChannels {
		return core.InvalidShapef("too many channels (%d) on axis %d; expected channel-first layout", c, chDim)
	}
	return nil
}

// FromInt16 converts 16-bit PCM into a float array of the given shape,
// dividing every sample by factor.
func FromInt16(pcm []int16, factor float64, shape ...int) (*Dense, error) {
	if factor == 0 {
		return nil, core.InvalidArgumentf("scale factor must be non-zero")
	}
	data := make([]float64, len(pcm))
	for i, s := range pcm {
		data[i] = float64(s) / factor
	}
	return FromSlice(data, shape...)
}

// Scale returns x / factor, e.g. to bring integer PCM into [-1, 1].
func Scale(x *Dense, factor float64) (*Dense, error) {
	if factor == 0 {
		return nil, core.InvalidArgumentf("scale factor must be non-zero")
	}
	out := x.Clone()
	floats.Scale(1/factor, out.data)
	return out, nil
}

// PadTrim pads (with fill) or truncates the time axis of a 2-D waveform to
// exactly maxLen samples. chDim and lenDim name the channel and time axes.
func PadTrim(x *Dense, chDim, maxLen, lenDim int, fill float64) (*Dense, error) {
	if x.Rank() != 2 {
		return nil, core.InvalidShapef("pad/trim needs a 2-D waveform, got rank %d", x.Rank())
	}
	if chDim == lenDim || lenDim < 0 || lenDim > 1 {
		return nil, core.InvalidArgumentf("invalid axes: channel %d, length %d", chDim, lenDim)
	}
	if err := CheckChannels(x, chDim); err != nil {
		return nil, err
	}
	if maxLen < 0 {
		return nil, core.InvalidArgumentf("max length must be >= 0: %d", maxLen)
	}

	shape := x.Shape()
	shape[lenDim] = maxLen
	out := New(shape...)
	if fill != 0 {
		floats.AddConst(fill, out.data)
	}

	keep := min(maxLen, x.Dim(lenDim))
	for c := 0; c < x.Dim(chDim); c++ {
		for t := 0; t < keep; t++ {
			idx := [2]int{}
			idx[chDim], idx[lenDim] = c, t
			out.Set(x.At(idx[0], idx[1]), idx[0], idx[1])
		}
	}
	return out, nil
}

// DownmixMono averages the channel axis of a 2-D waveform, keeping it as a
// singleton dimension.
func DownmixMono(x *Dense, chDim int) (*Dense, error) {
	if x.Rank() != 2 {
		return nil, core.InvalidShapef("downmix needs a 2-D waveform, got rank %d", x.Rank())
	}
	if chDim != 0 && chDim != 1 {
		return nil, core.InvalidArgumentf("channel axis must be 0 or 1: %d", chDim)
	}
	if chDim == 1 {
		t, err := Transpose2D(x)
		if err != nil {
			return nil, err
		}
		mono, err := DownmixMono(t, 0)
		if err != nil {
			return nil, err
		}
		return Transpose2D(mono)
	}

	channels, n := x.Dim(0), x.Dim(1)
	out := New(1, n)
	if channels == 0 {
		return out, nil
	}
	for c := 0; c < channels; c++ {
		floats.Add(out.data, x.Lead(c))
	}
	floats.Scale(1/float64(channels), out.data)
	return out, nil
}

// Transpose2D swaps the axes of a 2-D array, converting between
// (time, channel) and (channel, time) layouts.
func Transpose2D(x *Dense) (*Dense, error) {
	return Permute(x, 1, 0)
}

// Permute returns a copy of x with its axes reordered: output axis i is
// input axis axes[i]. Permute(x, 2, 0, 1) turns (batch, length, channel)
// into (channel, batch, length).
func Permute(x *Dense, axes ...int) (*Dense, error) {
	if len(axes) != x.Rank() {
		return nil, core.InvalidShapef("permutation of %d axes for rank %d", len(axes), x.Rank())
	}
	seen := make([]bool, len(axes))
	shape := make([]int, len(axes))
	for i, a := range axes {
		if a < 0 || a >= len(axes) || seen[a] {
			return nil, core.InvalidArgumentf("invalid permutation %v", axes)
		}
		seen[a] = true
		shape[i] = x.shape[a]
	}

	out := New(shape...)
	if len(out.data) == 0 {
		return out, nil
	}

	// Walk the output in row-major order, tracking the matching input offset.
	idx := make([]int, len(shape))
	for o := range out.data {
		src := 0
		for i, a := range axes {
			src += idx[i] * x.strides[a]
		}
		out.data[o] = x.data[src]

		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out, nil
}
