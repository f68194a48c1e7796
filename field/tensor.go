// Package field implements the editable tensor field the road network
// follows: symmetric traceless 2x2 tensors, weighted basis fields, and
// the numerical integrator that traces principal directions.
package field

import (
	"math"

	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// epsilon below which a tensor has no principal direction.
const epsilon = 2.220446049250313e-16 // math.Nextafter(1, 2) - 1

// Tensor is a 2x2 symmetric traceless matrix
//
//	R * | cos(2θ)  sin(2θ) |  -->  | a  b |
//	    | sin(2θ) -cos(2θ) |       | _  _ |
//
// stored as the coupled quadruple (a, b, r, θ). R and Theta are re-derived
// from A and B after every mutation; eigenvector formulas read Theta
// directly, so a stale (r, θ) pair would silently misbehave.
type Tensor struct {
	A     float64
	B     float64
	R     float64
	Theta float64
}

// TensorFromAB builds a tensor from its matrix entries.
func TensorFromAB(a, b float64) Tensor {
	t := Tensor{A: a, B: b}
	t.setRTheta()
	return t
}

// TensorFromRTheta builds a tensor from polar form.
func TensorFromRTheta(r, theta float64) Tensor {
	return Tensor{
		A:     r * math.Cos(2*theta),
		B:     r * math.Sin(2*theta),
		R:     r,
		Theta: theta,
	}
}

// TensorFromXY builds the radial-pattern tensor for the offset xy.
func TensorFromXY(xy geom.Vec) Tensor {
	return TensorFromAB(xy.Y*xy.Y-xy.X*xy.X, -2*xy.X*xy.Y)
}

func (t *Tensor) setRTheta() {
	t.R = math.Hypot(t.A, t.B)
	if t.IsDegenerate() {
		t.Theta = 0
	} else {
		t.Theta = math.Atan2(t.B/t.R, t.A/t.R) / 2
	}
}

// IsDegenerate reports whether the tensor has no well-defined principal
// direction.
func (t Tensor) IsDegenerate() bool {
	return math.Abs(t.R) <= epsilon
}

// MajorEigenvector returns the major principal direction, or the zero
// vector for a degenerate tensor.
func (t Tensor) MajorEigenvector() geom.Vec {
	if t.IsDegenerate() {
		return geom.Vec{}
	}
	return geom.Vec{X: math.Cos(t.Theta), Y: math.Sin(t.Theta)}
}

// MinorEigenvector returns the minor principal direction, or the zero
// vector for a degenerate tensor.
func (t Tensor) MinorEigenvector() geom.Vec {
	if t.IsDegenerate() {
		return geom.Vec{}
	}
	return geom.Vec{X: math.Sin(t.Theta), Y: -math.Cos(t.Theta)}
}

// Eigenvector returns the principal direction for dir.
func (t Tensor) Eigenvector(dir roads.Direction) geom.Vec {
	if dir == roads.Major {
		return t.MajorEigenvector()
	}
	return t.MinorEigenvector()
}

// Rotate returns the tensor rotated by angle.
func (t Tensor) Rotate(angle float64) Tensor {
	return TensorFromRTheta(t.R, math.Mod(t.Theta+angle, 2*math.Pi))
}

// Add returns the component-wise sum with (r, θ) re-derived.
func (t Tensor) Add(other Tensor) Tensor {
	return TensorFromAB(t.A+other.A, t.B+other.B)
}

// Scale returns the tensor scaled by s.
func (t Tensor) Scale(s float64) Tensor {
	return TensorFromAB(s*t.A, s*t.B)
}
