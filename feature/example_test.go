package feature_test

import (
	"fmt"

	"github.com/cwbudde/algo-features/dsp/tensor"
	"github.com/cwbudde/algo-features/feature"
)

func ExampleToDecibel() {
	power, _ := tensor.FromSlice([]float64{1, 10, 100, 0}, 4)
	db, _ := feature.ToDecibel(power, 10, 1e-10, 0, feature.WithTopDB(80))
	fmt.Printf("%.1f\n", db.Data())
	// Output:
	// [0.0 10.0 20.0 -60.0]
}

func ExampleExtractor_MFCC() {
	e, err := feature.NewExtractor(
		feature.WithHop(160),
		feature.WithMels(40),
		feature.WithMFCC(13),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	wave := tensor.New(2, 16000)
	mfcc, err := e.MFCC(wave)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(mfcc.Shape())
	// Output:
	// [2 101 13]
}
