package feature

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-features/dsp/core"
	"github.com/cwbudde/algo-features/dsp/resample"
	"github.com/cwbudde/algo-features/dsp/stft"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/dsp/window"
	"github.com/cwbudde/algo-features/feature/dct"
	"github.com/cwbudde/algo-features/feature/spectral"
)

// Config holds the parameters of an [Extractor].
type Config struct {
	SampleRate float64
	// InputRate is the rate of incoming waveforms. When set and different
	// from SampleRate, waveforms are resampled before analysis.
	InputRate float64
	// Resampler selects the conversion engine used for InputRate.
	Resampler resample.Engine

	NFFT      int
	WinLength int
	Hop       int
	Window    window.Type
	Power     float64
	Normalize bool
	Pad       int
	PadMode   stft.PadMode
	Backend   stft.Backend

	// FMax of zero means SampleRate/2.
	FMin, FMax float64
	NMels      int
	NMFCC      int
	Norm       dct.Norm
	// LogMels selects ln(mel+1e-6) over decibels for MFCC.
	LogMels bool

	// TopDB is applied only when UseTopDB is set.
	TopDB      float64
	UseTopDB   bool
	Multiplier float64
	Amin       float64
	RefValue   float64

	Logger *zap.Logger
	Cache  *Cache
}

// DefaultConfig returns the default extractor parameters: 16 kHz audio,
// 400-point periodic Hann frames with a 200-sample hop, 128 mel bands and
// 40 ortho-normalised coefficients over an 80 dB power-to-dB range.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		NFFT:       400,
		WinLength:  400,
		Hop:        200,
		Window:     window.TypeHann,
		Power:      2,
		NMels:      128,
		NMFCC:      40,
		Norm:       dct.NormOrtho,
		TopDB:      80,
		UseTopDB:   true,
		Multiplier: 10,
		Amin:       1e-10,
		RefValue:   1,
	}
}

// Option mutates a Config.
type Option func(*Config)

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(sr float64) Option { return func(c *Config) { c.SampleRate = sr } }

// WithInputRate declares the sample rate of incoming waveforms.
func WithInputRate(sr float64) Option { return func(c *Config) { c.InputRate = sr } }

// WithResampler selects the engine that converts InputRate to SampleRate.
func WithResampler(engine resample.Engine) Option {
	return func(c *Config) { c.Resampler = engine }
}

// WithNFFT sets the FFT size. The window length follows unless set
// explicitly afterwards with [WithWinLength].
func WithNFFT(n int) Option {
	return func(c *Config) {
		c.NFFT = n
		c.WinLength = n
	}
}

// WithWinLength sets the window length.
func WithWinLength(n int) Option { return func(c *Config) { c.WinLength = n } }

// WithHop sets the frame advance in samples.
func WithHop(n int) Option { return func(c *Config) { c.Hop = n } }

// WithWindow selects the analysis window.
func WithWindow(t window.Type) Option { return func(c *Config) { c.Window = t } }

// WithPower sets the spectrogram exponent.
func WithPower(p float64) Option { return func(c *Config) { c.Power = p } }

// WithNormalize enables window energy normalization.
func WithNormalize(on bool) Option { return func(c *Config) { c.Normalize = on } }

// WithPad pads both ends of the waveform before the STFT.
func WithPad(n int, mode stft.PadMode) Option {
	return func(c *Config) {
		c.Pad = n
		c.PadMode = mode
	}
}

// WithBackend selects the FFT implementation.
func WithBackend(b stft.Backend) Option { return func(c *Config) { c.Backend = b } }

// WithFrequencyRange limits the mel filterbank to [fMin, fMax] Hz.
func WithFrequencyRange(fMin, fMax float64) Option {
	return func(c *Config) {
		c.FMin = fMin
		c.FMax = fMax
	}
}

// WithMels sets the number of mel bands.
func WithMels(n int) Option { return func(c *Config) { c.NMels = n } }

// WithMFCC sets the number of cepstral coefficients.
func WithMFCC(n int) Option { return func(c *Config) { c.NMFCC = n } }

// WithNorm selects the DCT normalisation.
func WithNorm(n dct.Norm) Option { return func(c *Config) { c.Norm = n } }

// WithLogMels switches MFCC compression to the natural log.
func WithLogMels(on bool) Option { return func(c *Config) { c.LogMels = on } }

// WithDynamicRange enables the top_db clamp of the decibel stage.
func WithDynamicRange(v float64) Option {
	return func(c *Config) {
		c.TopDB = v
		c.UseTopDB = true
	}
}

// WithoutTopDB disables the dynamic range clamp.
func WithoutTopDB() Option { return func(c *Config) { c.UseTopDB = false } }

// WithDecibel sets the decibel multiplier, floor and reference value.
func WithDecibel(multiplier, amin, ref float64) Option {
	return func(c *Config) {
		c.Multiplier = multiplier
		c.Amin = amin
		c.RefValue = ref
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option { return func(c *Config) { c.Logger = l } }

// WithCache shares a matrix cache between extractors.
func WithCache(cache *Cache) Option { return func(c *Config) { c.Cache = cache } }

// Extractor computes spectral features for a fixed configuration.
// It is safe for concurrent use.
type Extractor struct {
	cfg       Config
	converter resample.WaveformConverter
	window    []float64
	toDB      DecibelFunc
	cache     *Cache
	logger    *zap.Logger
}

// NewExtractor applies opts to [DefaultConfig] and validates the result.
func NewExtractor(opts ...Option) (*Extractor, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return nil, core.InvalidArgumentf("sample rate must be positive and finite: %v", cfg.SampleRate)
	}
	if err := core.RequirePositive("n_fft", cfg.NFFT); err != nil {
		return nil, err
	}
	if cfg.WinLength == 0 {
		cfg.WinLength = cfg.NFFT
	}
	if cfg.WinLength < 0 || cfg.WinLength > cfg.NFFT {
		return nil, core.InvalidArgumentf("win_length must be in (0, n_fft=%d]: %d", cfg.NFFT, cfg.WinLength)
	}
	if cfg.Hop == 0 {
		cfg.Hop = max(cfg.WinLength/2, 1)
	}
	if err := core.RequirePositive("hop_length", cfg.Hop); err != nil {
		return nil, err
	}
	if err := core.RequirePositive("n_mels", cfg.NMels); err != nil {
		return nil, err
	}
	if err := core.RequirePositive("n_mfcc", cfg.NMFCC); err != nil {
		return nil, err
	}
	if cfg.FMax == 0 {
		cfg.FMax = cfg.SampleRate / 2
	}
	if cfg.FMax > cfg.SampleRate/2 {
		return nil, core.InvalidArgumentf("f_max %v exceeds Nyquist %v", cfg.FMax, cfg.SampleRate/2)
	}
	if !(cfg.RefValue > 0) {
		return nil, core.InvalidArgumentf("reference value must be positive: %v", cfg.RefValue)
	}

	dbOpts := []DecibelOption(nil)
	if cfg.UseTopDB {
		dbOpts = append(dbOpts, WithTopDB(cfg.TopDB))
	}
	if _, err := decibelSettings(cfg.Multiplier, cfg.Amin, DBMultiplier(cfg.RefValue, cfg.Amin), dbOpts); err != nil {
		return nil, err
	}

	var converter resample.WaveformConverter
	if cfg.InputRate != 0 && cfg.InputRate != cfg.SampleRate {
		var err error
		converter, err = resample.New(cfg.Resampler, cfg.InputRate, cfg.SampleRate)
		if err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewCache(logger)
	}

	e := &Extractor{
		cfg:       cfg,
		converter: converter,
		window:    window.Generate(cfg.Window, cfg.WinLength, window.WithPeriodic()),
		toDB:      DecibelTransform(cfg.Multiplier, cfg.Amin, DBMultiplier(cfg.RefValue, cfg.Amin), dbOpts...),
		cache:     cache,
		logger:    logger,
	}

	// Build the matrices eagerly so range errors surface here.
	if _, err := e.Filterbank(); err != nil {
		return nil, err
	}
	if _, err := e.DCT(); err != nil {
		return nil, err
	}

	logger.Debug("extractor ready",
		zap.Float64("sample_rate", cfg.SampleRate),
		zap.Bool("resampling", converter != nil),
		zap.Stringer("resampler", cfg.Resampler),
		zap.Int("n_fft", cfg.NFFT),
		zap.Int("hop_length", cfg.Hop),
		zap.Stringer("window", cfg.Window),
		zap.Int("n_mels", cfg.NMels),
		zap.Int("n_mfcc", cfg.NMFCC),
	)
	return e, nil
}

// Config returns the effective configuration with defaults resolved.
func (e *Extractor) Config() Config { return e.cfg }

// Filterbank returns the shared (n_fft/2+1, n_mels) mel filterbank.
func (e *Extractor) Filterbank() (*mat.Dense, error) {
	return e.cache.Filterbank(e.cfg.NFFT/2+1, e.cfg.FMin, e.cfg.FMax, e.cfg.NMels)
}

// DCT returns the shared (n_mels, n_mfcc) DCT basis.
func (e *Extractor) DCT() (*mat.Dense, error) {
	return e.cache.DCT(e.cfg.NMFCC, e.cfg.NMels, e.cfg.Norm)
}

// Spectrogram returns the (channel, frame, bin) power spectrum.
func (e *Extractor) Spectrogram(wave *tensor.Dense) (*tensor.Dense, error) {
	wave, err := promote(wave)
	if err != nil {
		return nil, err
	}
	if e.converter != nil {
		if wave, err = e.converter.Waveform(wave); err != nil {
			return nil, err
		}
	}
	return PowerSpectrum(wave, SpectrogramParams{
		Window:    e.window,
		NFFT:      e.cfg.NFFT,
		Hop:       e.cfg.Hop,
		WinLength: e.cfg.WinLength,
		Power:     e.cfg.Power,
		Normalize: e.cfg.Normalize,
		Pad:       e.cfg.Pad,
		PadMode:   e.cfg.PadMode,
		Backend:   e.cfg.Backend,
	})
}

// MelSpectrogram returns the (channel, frame, n_mels) mel spectrogram.
func (e *Extractor) MelSpectrogram(wave *tensor.Dense) (*tensor.Dense, error) {
	spec, err := e.Spectrogram(wave)
	if err != nil {
		return nil, err
	}
	fb, err := e.cache.Filterbank(spec.Dim(spec.Rank()-1), e.cfg.FMin, e.cfg.FMax, e.cfg.NMels)
	if err != nil {
		return nil, err
	}
	_, mel, err := MelProjection(spec, e.cfg.FMin, e.cfg.FMax, e.cfg.NMels, fb)
	return mel, err
}

// DecibelSpectrogram returns the mel spectrogram in decibels.
func (e *Extractor) DecibelSpectrogram(wave *tensor.Dense) (*tensor.Dense, error) {
	mel, err := e.MelSpectrogram(wave)
	if err != nil {
		return nil, err
	}
	return e.toDB(mel)
}

// MFCC returns the (channel, frame, n_mfcc) cepstral coefficients.
func (e *Extractor) MFCC(wave *tensor.Dense) (*tensor.Dense, error) {
	mel, err := e.MelSpectrogram(wave)
	if err != nil {
		return nil, err
	}
	basis, err := e.DCT()
	if err != nil {
		return nil, err
	}
	out, err := CepstralProjection(mel, e.cfg.LogMels, e.toDB, basis)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("computed mfcc", zap.Ints("shape", out.Shape()))
	return out, nil
}

// Descriptors returns frame-wise spectral shape descriptors of the power
// spectrum as a (channel, frame, spectral.NumDescriptors) array.
func (e *Extractor) Descriptors(wave *tensor.Dense) (*tensor.Dense, error) {
	spec, err := e.Spectrogram(wave)
	if err != nil {
		return nil, err
	}
	return spectral.Frames(spec, e.cfg.SampleRate, spectral.DefaultRolloff)
}

func promote(wave *tensor.Dense) (*tensor.Dense, error) {
	if wave.Rank() == 1 {
		return wave.Reshape(1, wave.Dim(0))
	}
	return wave, nil
}
