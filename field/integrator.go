package field

import (
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// Integrator produces a step delta along a principal direction of a
// tensor field. A delta of (near) zero magnitude signals a degeneracy;
// callers must detect and abort.
type Integrator interface {
	Integrate(p geom.Vec, dir roads.Direction, dl float64) geom.Vec
}

// RK4 is the default integrator. The blend k1 + 4*k2 + k4/6 departs from
// textbook RK4; it is kept exactly for compatibility with existing maps.
type RK4 struct {
	field *TensorField
}

// NewRK4 returns an RK4 integrator over the given field.
func NewRK4(f *TensorField) *RK4 {
	return &RK4{field: f}
}

func (r *RK4) vector(p geom.Vec, dir roads.Direction) geom.Vec {
	return r.field.Sample(p).Eigenvector(dir)
}

// Integrate returns the integration delta at p for step length dl.
func (r *RK4) Integrate(p geom.Vec, dir roads.Direction, dl float64) geom.Vec {
	dx := geom.Vec{X: dl, Y: dl}

	k1 := r.vector(p, dir)
	k2 := r.vector(p.Add(dx.Div(2)), dir)
	k4 := r.vector(p.Add(dx), dir)

	return k1.Add(k2.Scale(4)).Add(k4.Div(6))
}

// NoisyRK4 is an RK4 integrator that samples through the field's
// rotational noise, bending otherwise straight streets.
type NoisyRK4 struct {
	field    *TensorField
	size     float64
	strength float64
}

// NewNoisyRK4 returns a noise-perturbed RK4 integrator.
func NewNoisyRK4(f *TensorField, size, strength float64) *NoisyRK4 {
	return &NoisyRK4{field: f, size: size, strength: strength}
}

func (r *NoisyRK4) vector(p geom.Vec, dir roads.Direction) geom.Vec {
	return r.field.NoisySample(p, r.size, r.strength).Eigenvector(dir)
}

// Integrate returns the integration delta at p for step length dl.
func (r *NoisyRK4) Integrate(p geom.Vec, dir roads.Direction, dl float64) geom.Vec {
	dx := geom.Vec{X: dl, Y: dl}

	k1 := r.vector(p, dir)
	k2 := r.vector(p.Add(dx.Div(2)), dir)
	k4 := r.vector(p.Add(dx), dir)

	return k1.Add(k2.Scale(4)).Add(k4.Div(6))
}
