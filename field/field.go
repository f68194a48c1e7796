package field

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/papaveez/metropolis-gen/geom"
)

// TensorField is an ordered sum of basis fields. Addition is commutative
// so the order has no semantic effect, but it is kept stable for
// reproducibility.
type TensorField struct {
	basis []BasisField
	noise opensimplex.Noise
}

// New returns an empty tensor field.
func New() *TensorField {
	return &TensorField{noise: opensimplex.New(0)}
}

// NewWithSeed returns an empty tensor field whose rotational noise is
// seeded for reproducible NoisySample output.
func NewWithSeed(seed int64) *TensorField {
	return &TensorField{noise: opensimplex.New(seed)}
}

// Clear removes all basis fields.
func (f *TensorField) Clear() {
	f.basis = f.basis[:0]
}

// AddBasisField appends a basis field. Insertion order is preserved.
func (f *TensorField) AddBasisField(b BasisField) {
	f.basis = append(f.basis, b)
}

// Len returns the number of basis fields.
func (f *TensorField) Len() int {
	return len(f.basis)
}

// Sample returns the accumulated tensor at p with (r, θ) re-derived.
func (f *TensorField) Sample(p geom.Vec) Tensor {
	var out Tensor
	for _, b := range f.basis {
		out = out.Add(b.WeightedTensorAt(p))
	}
	out.setRTheta()
	return out
}

// NoisySample rotates the sampled tensor by strength*noise(p/size)*pi,
// where noise is a simplex scalar in [-1, 1]. size <= 0 disables the
// perturbation.
func (f *TensorField) NoisySample(p geom.Vec, size, strength float64) Tensor {
	t := f.Sample(p)
	if size <= 0 || strength == 0 {
		return t
	}
	n := f.noise.Eval2(p.X/size, p.Y/size)
	return t.Rotate(strength * n * math.Pi)
}

// BasisCentres returns the centres of all basis fields, in insertion
// order. HUD and debug rendering only.
func (f *TensorField) BasisCentres() []geom.Vec {
	out := make([]geom.Vec, len(f.basis))
	for i, b := range f.basis {
		out[i] = b.Centre
	}
	return out
}
