package resample

import (
	"strings"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/tensor"
)

// Engine selects the conversion algorithm behind [New].
type Engine int

const (
	// EnginePolyphase is the single-stage Kaiser-windowed sinc [Converter].
	EnginePolyphase Engine = iota
	// EngineSoxr is the multi-stage libsoxr-derived [Soxr] converter.
	EngineSoxr
)

func (e Engine) String() string {
	switch e {
	case EnginePolyphase:
		return "polyphase"
	case EngineSoxr:
		return "soxr"
	default:
		return "unknown"
	}
}

// ParseEngine maps a name to an Engine.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "polyphase":
		return EnginePolyphase, nil
	case "soxr":
		return EngineSoxr, nil
	default:
		return 0, core.InvalidArgumentf("unknown resample engine %q", s)
	}
}

// WaveformConverter converts (channel, time) waveforms between two fixed
// rates. Implementations produce OutputLen(n) samples per channel.
type WaveformConverter interface {
	OutputLen(n int) int
	Waveform(x *tensor.Dense) (*tensor.Dense, error)
}

// New returns a converter from inRate to outRate using engine.
func New(engine Engine, inRate, outRate float64, opts ...Option) (WaveformConverter, error) {
	switch engine {
	case EnginePolyphase:
		return NewForRates(inRate, outRate, opts...)
	case EngineSoxr:
		return NewSoxr(inRate, outRate, opts...)
	default:
		return nil, core.InvalidArgumentf("unknown resample engine %d", int(engine))
	}
}
