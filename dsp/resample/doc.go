// Package resample converts whole waveforms between sample rates.
//
// [Converter] is a single-stage windowed-sinc polyphase FIR for rational
// ratios. [Soxr] wraps the multi-stage libsoxr-derived engine of
// github.com/tphakala/go-audio-resampling. [New] picks one by [Engine].
//
// Conversion is offline: the full signal is available, so Converter
// removes the filter's group delay and a signal of n samples converted by
// up/down yields exactly ceil(n·up/down) samples aligned with the input.
// Soxr output is trimmed or padded to the same length.
//
// Quality modes:
//
//	mode            crossings    nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
