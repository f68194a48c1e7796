// Package renderer draws the tensor field, the generated road network,
// and the ambient overlays.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/papaveez/metropolis-gen/camera"
	"github.com/papaveez/metropolis-gen/field"
	"github.com/papaveez/metropolis-gen/geom"
)

var (
	majorHatchColor = rl.Color{R: 196, G: 78, B: 82, A: 255}
	minorHatchColor = rl.Color{R: 76, G: 114, B: 176, A: 255}
	samplePointColor = rl.Color{R: 120, G: 140, B: 170, A: 160}
	centreColor      = rl.Color{R: 255, G: 190, B: 60, A: 255}
)

// FieldRenderer draws eigenvector hatches on a fixed screen-space grid.
type FieldRenderer struct {
	spacing   int
	hatchSize float64
}

// NewFieldRenderer creates a field renderer with the given screen-space
// sample spacing in pixels.
func NewFieldRenderer(spacing int) *FieldRenderer {
	if spacing <= 0 {
		spacing = 40
	}
	return &FieldRenderer{spacing: spacing, hatchSize: 10}
}

func toScreenVec(v geom.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}

// Draw samples the field at every grid point of the viewport and draws
// the major/minor eigenvector cross. Degenerate samples draw only the
// sample dot.
func (r *FieldRenderer) Draw(tf *field.TensorField, cam *camera.Camera) {
	for sx := 0; sx < int(cam.ViewportW); sx += r.spacing {
		for sy := 0; sy < int(cam.ViewportH); sy += r.spacing {
			screen := geom.V(float64(sx), float64(sy))
			world := cam.ScreenToWorld(screen)

			t := tf.Sample(world)

			major := t.MajorEigenvector()
			minor := t.MinorEigenvector()

			// Hatch length is fixed in screen space.
			half := r.hatchSize

			if (major != geom.Vec{}) {
				a := screen.Sub(major.Scale(half))
				b := screen.Add(major.Scale(half))
				rl.DrawLineEx(toScreenVec(a), toScreenVec(b), 2, majorHatchColor)
			}
			if (minor != geom.Vec{}) {
				a := screen.Sub(minor.Scale(half))
				b := screen.Add(minor.Scale(half))
				rl.DrawLineEx(toScreenVec(a), toScreenVec(b), 2, minorHatchColor)
			}

			rl.DrawCircleV(toScreenVec(screen), 1, samplePointColor)
		}
	}
}

// DrawCentres marks the basis field centres.
func (r *FieldRenderer) DrawCentres(tf *field.TensorField, cam *camera.Camera) {
	for _, c := range tf.BasisCentres() {
		s := cam.WorldToScreen(c)
		rl.DrawCircleV(toScreenVec(s), 4, centreColor)
		rl.DrawCircleLines(int32(s.X), int32(s.Y), 7, centreColor)
	}
}
