package generate

import (
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// simplifyStreamline runs the class's Douglas-Peucker pass. Polylines
// with fewer than 3 points pass through untouched.
func (g *Generator) simplifyStreamline(road roads.RoadType, points []geom.Vec) []geom.Vec {
	p := g.params[road]
	if p.Epsilon <= 0 {
		panic("generate: non-positive epsilon")
	}
	return douglasPeucker(p.Epsilon, p.nodeSep2, points)
}

// douglasPeucker simplifies a polyline: segments are split at the point
// farthest from the chord while that distance exceeds epsilon; within a
// segment that is flat enough, interior points closer than
// sqrt(minSep2) to their retained predecessor are dropped. Straight
// stretches therefore keep nodes at roughly minSep spacing instead of
// collapsing to their endpoints, which would starve the road of
// joinable nodes.
func douglasPeucker(epsilon, minSep2 float64, points []geom.Vec) []geom.Vec {
	if len(points) < 3 {
		return points
	}

	keep := make([]bool, len(points))
	for i := range keep {
		keep[i] = true
	}
	dpMark(epsilon, minSep2, points, 0, len(points)-1, keep)

	out := points[:0]
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// dpMark clears the keep flag of pruned points in [first, last].
func dpMark(epsilon, minSep2 float64, points []geom.Vec, first, last int, keep []bool) {
	if last-first < 2 {
		return
	}

	dMax := 0.0
	index := first
	for i := first + 1; i < last; i++ {
		d := geom.PerpDistance(points[i], points[first], points[last])
		if d > dMax {
			dMax = d
			index = i
		}
	}

	if dMax > epsilon {
		dpMark(epsilon, minSep2, points, first, index, keep)
		dpMark(epsilon, minSep2, points, index, last, keep)
		return
	}

	// Flat segment: enforce the minimum node spacing. The predecessor is
	// the last point kept so far, so spacing accumulates across pruned
	// runs.
	prev := first
	for i := first + 1; i < last; i++ {
		if points[i].Sub(points[prev]).LengthSq() < minSep2 {
			keep[i] = false
		} else {
			prev = i
		}
	}
}
