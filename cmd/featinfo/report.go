package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-features/codec/mulaw"
	"github.com/cwbudde/algo-features/dsp/signal"
	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/feature"
	"github.com/cwbudde/algo-features/feature/melbank"
	"github.com/cwbudde/algo-features/feature/spectral"
)

func synthesize(o options) (*tensor.Dense, error) {
	kind, err := signal.ParseKind(o.signal)
	if err != nil {
		return nil, err
	}
	rate := o.sampleRate
	if o.inputRate > 0 {
		rate = o.inputRate
	}
	n := int(o.duration * rate)
	if n <= 0 {
		return nil, fmt.Errorf("duration %.3fs at %.0f Hz yields no samples", o.duration, rate)
	}

	g := signal.NewGenerator(signal.WithSampleRate(rate), signal.WithSeed(o.seed))
	return g.Waveform(kind, o.freq, 0.5, o.channels, n)
}

func printBands(w io.Writer, e *feature.Extractor) error {
	cfg := e.Config()
	fb, err := e.Filterbank()
	if err != nil {
		return err
	}
	edges, err := melbank.Edges(cfg.FMin, cfg.FMax, cfg.NMels)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Band\tLower [Hz]\tCenter [Hz]\tUpper [Hz]\tPeak\tBins\n")
	fmt.Fprintf(tw, "----\t----------\t-----------\t----------\t----\t----\n")

	bins, _ := fb.Dims()
	col := make([]float64, bins)
	for j := 0; j < cfg.NMels; j++ {
		mat.Col(col, j, fb)
		support := 0
		for _, v := range col {
			if v > 0 {
				support++
			}
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.1f\t%.4f\t%d\n",
			j, edges[j], edges[j+1], edges[j+2], floats.Max(col), support)
	}
	return tw.Flush()
}

func printDCT(w io.Writer, e *feature.Extractor) error {
	cfg := e.Config()
	basis, err := e.DCT()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Coef\tL2 Norm\tSum\tFirst\tLast\n")
	fmt.Fprintf(tw, "----\t-------\t---\t-----\t----\n")

	col := make([]float64, cfg.NMels)
	for k := 0; k < cfg.NMFCC; k++ {
		mat.Col(col, k, basis)
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\t%.6f\t%.6f\n",
			k, floats.Norm(col, 2), floats.Sum(col), col[0], col[len(col)-1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var gram mat.Dense
	gram.Mul(basis.T(), basis)
	dev := 0.0
	for i := 0; i < cfg.NMFCC; i++ {
		for j := 0; j < cfg.NMFCC; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			dev = math.Max(dev, math.Abs(gram.At(i, j)-want))
		}
	}
	_, err = fmt.Fprintf(w, "\nnorm=%s  max |BᵀB - I| = %.3g\n", cfg.Norm, dev)
	return err
}

func printMFCC(w io.Writer, e *feature.Extractor, wave *tensor.Dense) error {
	mfcc, err := e.MFCC(wave)
	if err != nil {
		return err
	}
	shape := mfcc.Shape()
	channels, frames, coeffs := shape[0], shape[1], shape[2]
	if _, err := fmt.Fprintf(w, "MFCC shape %v (channel, frame, coefficient)\n\n", shape); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Coef\tMean\tStd\tMin\tMax\n")
	fmt.Fprintf(tw, "----\t----\t---\t---\t---\n")

	track := make([]float64, channels*frames)
	for k := 0; k < coeffs; k++ {
		for c := 0; c < channels; c++ {
			for t := 0; t < frames; t++ {
				track[c*frames+t] = mfcc.At(c, t, k)
			}
		}
		mean, std := stat.MeanStdDev(track, nil)
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.4f\t%.4f\n",
			k, mean, std, floats.Min(track), floats.Max(track))
	}
	return tw.Flush()
}

func printShape(w io.Writer, e *feature.Extractor, wave *tensor.Dense) error {
	d, err := e.Descriptors(wave)
	if err != nil {
		return err
	}
	channels, frames := d.Dim(0), d.Dim(1)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Channel\tDescriptor\tMean\tStd\n")
	fmt.Fprintf(tw, "-------\t----------\t----\t---\n")

	track := make([]float64, frames)
	for c := 0; c < channels; c++ {
		for k := spectral.Descriptor(0); k < spectral.NumDescriptors; k++ {
			for t := range track {
				track[t] = d.At(c, t, int(k))
			}
			mean, std := stat.MeanStdDev(track, nil)
			fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\n", c, k, mean, std)
		}
	}
	return tw.Flush()
}

func printMuLaw(w io.Writer, q int) error {
	amps := make([]float64, 9)
	floats.Span(amps, -1, 1)

	codes, err := mulaw.Encode(amps, q)
	if err != nil {
		return err
	}
	decoded, err := mulaw.Decode(codes, q)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Amplitude\tCode\tDecoded\tError\n")
	fmt.Fprintf(tw, "---------\t----\t-------\t-----\n")
	for i, a := range amps {
		fmt.Fprintf(tw, "%.3f\t%d\t%.6f\t%.2e\n", a, codes[i], decoded[i], math.Abs(decoded[i]-a))
	}
	return tw.Flush()
}
