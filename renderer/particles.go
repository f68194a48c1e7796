package renderer

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/papaveez/metropolis-gen/camera"
	"github.com/papaveez/metropolis-gen/field"
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// FlowParticle is one short-lived particle advected along the tensor
// field for the editor background.
type FlowParticle struct {
	Pos         geom.Vec
	LastDelta   geom.Vec
	Dir         roads.Direction
	Lifespan    int32
	MaxLifespan int32
	Opacity     float32
	// Trail history (most recent first)
	TrailX   [8]float32
	TrailY   [8]float32
	TrailLen uint8
}

// ParticleSystem advects flow particles along the field's principal
// directions so the editor shows where streets would run.
type ParticleSystem struct {
	Particles   []FlowParticle
	integrator  field.Integrator
	bounds      geom.Box
	targetCount int
	spawnRate   int
	rng         *rand.Rand
}

// NewParticleSystem creates a particle system over the given bounds.
func NewParticleSystem(integrator field.Integrator, bounds geom.Box, targetCount int) *ParticleSystem {
	return &ParticleSystem{
		Particles:   make([]FlowParticle, 0, targetCount),
		integrator:  integrator,
		bounds:      bounds,
		targetCount: targetCount,
		spawnRate:   30,
		rng:         rand.New(rand.NewSource(rand.Int63())),
	}
}

// SetBounds updates the spawn area after a viewport change.
func (s *ParticleSystem) SetBounds(bounds geom.Box) {
	s.bounds = bounds
}

// Update spawns up to the target count and advances every particle one
// field step. Particles die on leaving the bounds, at a degeneracy, or
// at the end of their lifespan.
func (s *ParticleSystem) Update() {
	if len(s.Particles) < s.targetCount {
		for i := 0; i < s.spawnRate && len(s.Particles) < s.targetCount; i++ {
			dir := roads.Major
			if s.rng.Intn(2) == 0 {
				dir = roads.Minor
			}
			lifespan := int32(240 + s.rng.Intn(240))
			s.Particles = append(s.Particles, FlowParticle{
				Pos: geom.Vec{
					X: s.rng.Float64()*s.bounds.Width() + s.bounds.Min.X,
					Y: s.rng.Float64()*s.bounds.Height() + s.bounds.Min.Y,
				},
				Dir:         dir,
				Lifespan:    lifespan,
				MaxLifespan: lifespan,
				Opacity:     0.25 + s.rng.Float32()*0.3,
			})
		}
	}

	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Lifespan--
		if p.Lifespan <= 0 {
			continue
		}

		delta := s.integrator.Integrate(p.Pos, p.Dir, 1)

		// Keep heading consistent across eigenvector sign flips.
		if (p.LastDelta != geom.Vec{}) && p.LastDelta.Dot(delta) < 0 {
			delta = delta.Scale(-1)
		}
		if delta.LengthSq() < 0.01 {
			continue
		}

		// Shift trail history.
		for j := len(p.TrailX) - 1; j > 0; j-- {
			p.TrailX[j] = p.TrailX[j-1]
			p.TrailY[j] = p.TrailY[j-1]
		}
		p.TrailX[0] = float32(p.Pos.X)
		p.TrailY[0] = float32(p.Pos.Y)
		if p.TrailLen < uint8(len(p.TrailX)) {
			p.TrailLen++
		}

		p.Pos = p.Pos.Add(delta)
		p.LastDelta = delta

		if !s.bounds.Contains(p.Pos) {
			continue
		}

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// Draw renders particle trails with additive blending.
func (s *ParticleSystem) Draw(cam *camera.Camera) {
	rl.BeginBlendMode(rl.BlendAdditive)

	for i := range s.Particles {
		p := &s.Particles[i]
		if p.TrailLen < 1 {
			continue
		}

		lifeRatio := float32(p.Lifespan) / float32(p.MaxLifespan)
		fadeIn := lifeRatio * 5
		if fadeIn > 1 {
			fadeIn = 1
		}
		fadeOut := (1-lifeRatio)*3 + 0.7
		if fadeOut > 1 {
			fadeOut = 1
		}

		baseAlpha := p.Opacity * fadeIn * fadeOut * 140
		if baseAlpha < 2 {
			continue
		}

		tint := minorHatchColor
		if p.Dir == roads.Major {
			tint = majorHatchColor
		}

		prev := toScreenVec(cam.WorldToScreen(p.Pos))
		for j := uint8(0); j < p.TrailLen; j++ {
			fade := 1 - float32(j)/float32(p.TrailLen)
			fade *= fade

			alpha := baseAlpha * fade
			if alpha < 1 {
				break
			}

			next := toScreenVec(cam.WorldToScreen(geom.V(float64(p.TrailX[j]), float64(p.TrailY[j]))))
			rl.DrawLineEx(prev, next, 1.5, rl.Color{R: tint.R, G: tint.G, B: tint.B, A: uint8(alpha)})
			prev = next
		}
	}

	rl.EndBlendMode()
}
