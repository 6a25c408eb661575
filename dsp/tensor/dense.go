package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-features/dsp/core"
)

// MaxChannels bounds the channel axis of waveforms. Larger values almost
// always mean a (time, channel) array was passed where (channel, time) was
// expected.
const MaxChannels = 128

// Dense is a row-major N-dimensional float64 array.
type Dense struct {
	shape   []int
	strides []int
	data    []float64
}

// New returns a zero-filled array with the given shape.
// It panics if any dimension is negative.
func New(shape ...int) *Dense {
	n, err := volume(shape)
	if err != nil {
		panic(err)
	}
	return &Dense{
		shape:   append([]int(nil), shape...),
		strides: stridesFor(shape),
		data:    make([]float64, n),
	}
}

// FromSlice wraps data as an array of the given shape. data is not copied.
func FromSlice(data []float64, shape ...int) (*Dense, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, core.InvalidShapef("shape %v needs %d values, got %d", shape, n, len(data))
	}
	return &Dense{
		shape:   append([]int(nil), shape...),
		strides: stridesFor(shape),
		data:    data,
	}, nil
}

// FromRows copies equally sized rows into a (len(rows), len(rows[0])) array.
// It is the usual way to build a (channel, time) waveform.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, core.InvalidShapef("no rows")
	}
	cols := len(rows[0])
	out := New(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, core.InvalidShapef("row %d has length %d, want %d", i, len(r), cols)
		}
		copy(out.data[i*cols:], r)
	}
	return out, nil
}

// Shape returns a copy of the array dimensions.
func (d *Dense) Shape() []int { return append([]int(nil), d.shape...) }

// Rank returns the number of dimensions.
func (d *Dense) Rank() int { return len(d.shape) }

// Dim returns the size of axis i.
func (d *Dense) Dim(i int) int { return d.shape[i] }

// Len returns the total number of elements.
func (d *Dense) Len() int { return len(d.data) }

// Data returns the backing slice. Callers must treat it as read-only unless
// they own the array.
func (d *Dense) Data() []float64 { return d.data }

// At returns the element at the given index.
func (d *Dense) At(idx ...int) float64 { return d.data[d.offset(idx)] }

// Set stores v at the given index.
func (d *Dense) Set(v float64, idx ...int) { d.data[d.offset(idx)] = v }

// Lead returns the contiguous block addressed by index i on axis 0, e.g. one
// channel of a (channel, frame, bin) array. The block shares storage with d.
func (d *Dense) Lead(i int) []float64 {
	if len(d.shape) == 0 {
		return d.data
	}
	step := d.strides[0]
	return d.data[i*step : (i+1)*step]
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	return &Dense{
		shape:   append([]int(nil), d.shape...),
		strides: append([]int(nil), d.strides...),
		data:    append([]float64(nil), d.data...),
	}
}

// Reshape returns a view with a new shape over the same data.
func (d *Dense) Reshape(shape ...int) (*Dense, error) {
	return FromSlice(d.data, shape...)
}

// Max returns the largest element. It panics on an empty array.
func (d *Dense) Max() float64 { return floats.Max(d.data) }

// Min returns the smallest element. It panics on an empty array.
func (d *Dense) Min() float64 { return floats.Min(d.data) }

// Map returns a new array with fn applied to every element.
func (d *Dense) Map(fn func(float64) float64) *Dense {
	out := &Dense{
		shape:   append([]int(nil), d.shape...),
		strides: append([]int(nil), d.strides...),
		data:    make([]float64, len(d.data)),
	}
	for i, v := range d.data {
		out.data[i] = fn(v)
	}
	return out
}

// String implements fmt.Stringer with the shape only.
func (d *Dense) String() string {
	return fmt.Sprintf("tensor.Dense%v", d.shape)
}

func (d *Dense) offset(idx []int) int {
	if len(idx) != len(d.shape) {
		panic(fmt.Sprintf("tensor: index rank %d, want %d", len(idx), len(d.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= d.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range on axis %d (size %d)", v, i, d.shape[i]))
		}
		off += v * d.strides[i]
	}
	return off
}

func volume(shape []int) (int, error) {
	n := 1
	for i, s := range shape {
		if s < 0 {
			return 0, core.InvalidShapef("negative dimension %d on axis %d", s, i)
		}
		n *= s
	}
	return n, nil
}

func stridesFor(shape []int) []int {
	strides := make([]int, len(shape))
	step := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
	}
	return strides
}
