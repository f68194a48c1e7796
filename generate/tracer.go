package generate

import (
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

type integrationStatus int

const (
	statusContinue integrationStatus = iota
	statusTerminate
	statusAbort
)

// integration is one half of a bidirectional trace. The backward half
// negates every delta; points accumulate in generation order and are
// reversed when the halves are stitched together.
type integration struct {
	status   integrationStatus
	delta    geom.Vec
	hasDelta bool
	front    geom.Vec
	negate   bool
	points   []geom.Vec
}

func newIntegration(seed geom.Vec, negate bool) integration {
	return integration{
		status: statusContinue,
		front:  seed,
		negate: negate,
		points: []geom.Vec{seed},
	}
}

// extendStreamline advances one integration by a single step.
func (g *Generator) extendStreamline(res *integration, road roads.RoadType, dir roads.Direction) {
	if res.status != statusContinue {
		res.status = statusAbort
		return
	}

	p := g.params[road]

	delta := g.integrator.Integrate(res.front, dir, p.Dl)

	if res.negate {
		delta = delta.Scale(-1)
	}

	// Eigenvectors have no canonical sign; keep stepping the way we came.
	if res.hasDelta && res.delta.Dot(delta) < 0 {
		delta = delta.Scale(-1)
	}

	// Degenerate or stalled.
	if delta.LengthSq() < 0.01 {
		res.status = statusAbort
		return
	}

	res.front = res.front.Add(delta)
	res.delta = delta
	res.hasDelta = true

	if !g.inBounds(res.front) {
		res.status = statusAbort
		return
	}

	res.status = statusContinue
	if g.index.HasNearbyPoint(res.front, p.DTest, dir.Mask()) {
		res.status = statusTerminate
	}
}

// generateStreamline traces forward and backward from seed until both
// halves abort, the iteration budget runs out, or the tips close into a
// cycle. Returns false when the result is shorter than the minimum
// streamline size.
func (g *Generator) generateStreamline(road roads.RoadType, seed geom.Vec, dir roads.Direction) ([]geom.Vec, bool) {
	p := g.params[road]

	forward := newIntegration(seed, false)
	backward := newIntegration(seed, true)

	diverged := false
	join := false

	count := 0
	for count < p.MaxIntegrationIterations {
		g.extendStreamline(&forward, road, dir)
		g.extendStreamline(&backward, road, dir)

		if forward.status == statusAbort && backward.status == statusAbort {
			break
		}

		if forward.status != statusAbort {
			forward.points = append(forward.points, forward.front)
			count++
		}
		if backward.status != statusAbort {
			backward.points = append(backward.points, backward.front)
			count++
		}

		// Cycle detection: once the tips have left the starting
		// neighbourhood, the first re-approach closes the loop.
		endsDiff := forward.points[len(forward.points)-1].Sub(backward.points[len(backward.points)-1])
		sep2 := endsDiff.LengthSq()

		if diverged && sep2 < p.dCircle2 {
			join = true
			break
		} else if !diverged && sep2 > p.dCircle2 {
			diverged = true
		}
	}

	// Both halves started at the seed; keep only the forward copy.
	back := backward.points[1:]

	if join && len(back) > 0 {
		// Close the polyline on the backward tip.
		forward.points = append(forward.points, back[len(back)-1])
	}

	result := make([]geom.Vec, 0, len(back)+len(forward.points))
	for i := len(back) - 1; i >= 0; i-- {
		result = append(result, back[i])
	}
	result = append(result, forward.points...)

	if len(result) < minStreamlineSize {
		return nil, false
	}
	return result, true
}
