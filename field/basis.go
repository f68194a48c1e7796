package field

import (
	"math"

	"github.com/papaveez/metropolis-gen/geom"
)

// BasisKind discriminates the closed set of basis field variants. A
// tagged struct keeps Sample free of dynamic dispatch.
type BasisKind int

const (
	// GridKind contributes a constant-orientation tensor.
	GridKind BasisKind = iota
	// RadialKind contributes a tensor circling the centre.
	RadialKind
)

// BasisField is one weighted contribution to the tensor field. Size is
// the influence radius (0 = infinite), Decay the falloff exponent. Theta
// is only meaningful for GridKind.
type BasisField struct {
	Kind   BasisKind
	Centre geom.Vec
	Size   float64
	Decay  float64
	Theta  float64
}

// NewGrid returns a grid basis field with orientation theta.
func NewGrid(centre geom.Vec, size, decay, theta float64) BasisField {
	return BasisField{Kind: GridKind, Centre: centre, Size: size, Decay: decay, Theta: theta}
}

// NewRadial returns a radial basis field around centre.
func NewRadial(centre geom.Vec, size, decay float64) BasisField {
	return BasisField{Kind: RadialKind, Centre: centre, Size: size, Decay: decay}
}

// TensorAt returns the unweighted tensor contribution at p.
func (b BasisField) TensorAt(p geom.Vec) Tensor {
	switch b.Kind {
	case RadialKind:
		return TensorFromXY(p.Sub(b.Centre))
	default:
		return TensorFromRTheta(1, b.Theta)
	}
}

// Weight returns the falloff weight at p. Size 0 means the field covers
// the whole plane; decay 0 makes a hard disc of radius Size.
func (b BasisField) Weight(p geom.Vec) float64 {
	if b.Size == 0 {
		return 1
	}

	normDist := p.Sub(b.Centre).Length() / b.Size
	if b.Decay == 0 && normDist >= 1 {
		return 0
	}

	w := math.Pow(math.Max(0, 1-normDist), b.Decay)
	if math.Abs(w) < epsilon {
		return 0
	}
	return w
}

// WeightedTensorAt returns the weighted tensor contribution at p.
func (b BasisField) WeightedTensorAt(p geom.Vec) Tensor {
	return b.TensorAt(p).Scale(b.Weight(p))
}
