package stft

import (
	"fmt"

	"github.com/cwbudde/algo-features/dsp/core"
)

// PadMode selects how samples beyond the signal edges are synthesised.
type PadMode int

const (
	// PadReflect mirrors the signal about its edge samples, excluding the
	// edge itself: [a b c] padded by 2 on the left is [c b a b c].
	PadReflect PadMode = iota
	// PadConstant fills with a constant value (zero unless stated).
	PadConstant
	// PadEdge repeats the edge sample.
	PadEdge
)

// String returns the mode name.
func (m PadMode) String() string {
	switch m {
	case PadReflect:
		return "reflect"
	case PadConstant:
		return "constant"
	case PadEdge:
		return "edge"
	default:
		return fmt.Sprintf("PadMode(%d)", int(m))
	}
}

// ParsePadMode resolves "reflect", "constant" or "edge".
func ParsePadMode(s string) (PadMode, error) {
	switch s {
	case "reflect", "":
		return PadReflect, nil
	case "constant", "zero":
		return PadConstant, nil
	case "edge", "replicate":
		return PadEdge, nil
	default:
		return PadReflect, core.InvalidArgumentf("unknown pad mode %q", s)
	}
}

// Pad returns signal extended by left and right samples using mode.
// value is only used by PadConstant. Reflection needs left and right to be
// smaller than len(signal).
func Pad(signal []float64, left, right int, mode PadMode, value float64) ([]float64, error) {
	return PadInto(nil, signal, left, right, mode, value)
}

// PadInto is [Pad] writing into dst, which is grown if its capacity is too
// small. dst must not overlap signal.
func PadInto(dst, signal []float64, left, right int, mode PadMode, value float64) ([]float64, error) {
	if left < 0 || right < 0 {
		return nil, core.InvalidArgumentf("padding must be >= 0: left=%d right=%d", left, right)
	}
	n := len(signal)
	out := core.EnsureLen(dst, left+n+right)
	copy(out[left:], signal)
	if left == 0 && right == 0 {
		return out, nil
	}

	switch mode {
	case PadReflect:
		if left >= n || right >= n {
			return nil, core.InvalidArgumentf("reflect padding (%d, %d) needs more than %d samples", left, right, max(left, right))
		}
		for i := 0; i < left; i++ {
			out[left-1-i] = signal[i+1]
		}
		for i := 0; i < right; i++ {
			out[left+n+i] = signal[n-2-i]
		}
	case PadConstant:
		for i := 0; i < left; i++ {
			out[i] = value
		}
		for i := left + n; i < len(out); i++ {
			out[i] = value
		}
	case PadEdge:
		if n == 0 {
			return nil, core.InvalidArgumentf("edge padding needs a non-empty signal")
		}
		for i := 0; i < left; i++ {
			out[i] = signal[0]
		}
		for i := left + n; i < len(out); i++ {
			out[i] = signal[n-1]
		}
	default:
		return nil, core.InvalidArgumentf("unknown pad mode %d", int(mode))
	}

	return out, nil
}
