// Command featinfo prints properties of mel filterbanks, DCT bases and
// speech features computed from synthetic signals.
//
// Usage:
//
//	featinfo [flags] <bands|dct|mfcc|shape|mulaw>
//
// Examples:
//
//	featinfo -mels 40 bands
//	featinfo -mfcc 13 -mels 40 -norm none dct
//	featinfo -signal sine -freq 440 -hop 160 mfcc
//	featinfo -signal chirp shape
//	featinfo -insr 44100 -signal noise mfcc
//	featinfo -insr 48000 -resampler soxr shape
//	featinfo -q 256 mulaw
//	featinfo -v -backend gonum mfcc
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-features/dsp/resample"
	"github.com/cwbudde/algo-features/dsp/stft"
	"github.com/cwbudde/algo-features/dsp/window"
	"github.com/cwbudde/algo-features/feature"
	"github.com/cwbudde/algo-features/feature/dct"
)

type options struct {
	sampleRate float64
	inputRate  float64
	resampler  string
	nfft       int
	hop        int
	winLength  int
	window     string
	backend    string
	fMin       float64
	fMax       float64
	mels       int
	mfcc       int
	norm       string
	logMels    bool
	topDB      float64

	signal   string
	freq     float64
	duration float64
	channels int
	seed     int64

	q int
}

func main() {
	var o options
	flag.Float64Var(&o.sampleRate, "sr", 16000, "sample rate in Hz")
	flag.Float64Var(&o.inputRate, "insr", 0, "synthesize the test signal at this rate and resample to -sr (0 = sr)")
	flag.StringVar(&o.resampler, "resampler", "polyphase", "engine converting -insr to -sr (polyphase, soxr)")
	flag.IntVar(&o.nfft, "nfft", 400, "FFT size")
	flag.IntVar(&o.hop, "hop", 200, "hop length in samples")
	flag.IntVar(&o.winLength, "win", 0, "window length in samples (0 = nfft)")
	flag.StringVar(&o.window, "window", "hann", "analysis window (rectangular, hann, hamming, blackman, triangle, kaiser)")
	flag.StringVar(&o.backend, "backend", "auto", "FFT backend (auto, algofft, gonum)")
	flag.Float64Var(&o.fMin, "fmin", 0, "lowest mel band edge in Hz")
	flag.Float64Var(&o.fMax, "fmax", 0, "highest mel band edge in Hz (0 = sr/2)")
	flag.IntVar(&o.mels, "mels", 128, "number of mel bands")
	flag.IntVar(&o.mfcc, "mfcc", 40, "number of cepstral coefficients")
	flag.StringVar(&o.norm, "norm", "ortho", "DCT normalisation (ortho, none)")
	flag.BoolVar(&o.logMels, "logmels", false, "compress mel energies with ln instead of dB")
	flag.Float64Var(&o.topDB, "topdb", 80, "dynamic range clamp in dB (negative disables)")
	flag.StringVar(&o.signal, "signal", "sine", "synthetic test signal for mfcc (sine, noise, chirp, silence)")
	flag.Float64Var(&o.freq, "freq", 440, "sine frequency in Hz")
	flag.Float64Var(&o.duration, "duration", 1, "signal duration in seconds")
	flag.IntVar(&o.channels, "channels", 1, "number of signal channels")
	flag.Int64Var(&o.seed, "seed", 1, "noise seed")
	flag.IntVar(&o.q, "q", 256, "mu-law quantization channels")
	verbose := flag.Bool("v", false, "log matrix builds to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: featinfo [flags] <bands|dct|mfcc|shape|mulaw>\n\n")
		fmt.Fprintf(os.Stderr, "Prints mel filterbank, DCT, MFCC and spectral shape properties.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  featinfo -mels 40 bands\n")
		fmt.Fprintf(os.Stderr, "  featinfo -mfcc 13 -mels 40 dct\n")
		fmt.Fprintf(os.Stderr, "  featinfo -signal noise -hop 160 mfcc\n")
		fmt.Fprintf(os.Stderr, "  featinfo -signal chirp shape\n")
		fmt.Fprintf(os.Stderr, "  featinfo -q 256 mulaw\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: creating logger: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	if err := run(flag.Arg(0), o, logger); err != nil {
		logger.Error("featinfo failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(mode string, o options, logger *zap.Logger) error {
	if mode == "mulaw" {
		return printMuLaw(os.Stdout, o.q)
	}

	e, err := newExtractor(o, logger)
	if err != nil {
		return err
	}

	switch mode {
	case "bands":
		return printBands(os.Stdout, e)
	case "dct":
		return printDCT(os.Stdout, e)
	case "mfcc", "shape":
		wave, err := synthesize(o)
		if err != nil {
			return err
		}
		if mode == "shape" {
			return printShape(os.Stdout, e, wave)
		}
		return printMFCC(os.Stdout, e, wave)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func newExtractor(o options, logger *zap.Logger) (*feature.Extractor, error) {
	win, err := window.Parse(o.window)
	if err != nil {
		return nil, err
	}
	backend, err := stft.ParseBackend(o.backend)
	if err != nil {
		return nil, err
	}
	engine, err := resample.ParseEngine(o.resampler)
	if err != nil {
		return nil, err
	}
	norm, err := dct.ParseNorm(o.norm)
	if err != nil {
		return nil, err
	}

	opts := []feature.Option{
		feature.WithSampleRate(o.sampleRate),
		feature.WithInputRate(o.inputRate),
		feature.WithResampler(engine),
		feature.WithNFFT(o.nfft),
		feature.WithHop(o.hop),
		feature.WithWindow(win),
		feature.WithBackend(backend),
		feature.WithFrequencyRange(o.fMin, o.fMax),
		feature.WithMels(o.mels),
		feature.WithMFCC(o.mfcc),
		feature.WithNorm(norm),
		feature.WithLogMels(o.logMels),
		feature.WithLogger(logger),
	}
	if o.winLength > 0 {
		opts = append(opts, feature.WithWinLength(o.winLength))
	}
	if o.topDB >= 0 {
		opts = append(opts, feature.WithDynamicRange(o.topDB))
	} else {
		opts = append(opts, feature.WithoutTopDB())
	}
	return feature.NewExtractor(opts...)
}
