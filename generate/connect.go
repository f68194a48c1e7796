package generate

import (
	"math"

	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// connectRoads closes the dangling endpoints of every non-cyclic
// streamline in one class/direction by prepending or appending a nearby
// node id from any direction. The joined node stays owned by its
// original streamline; junctions are geometric, not topological.
func (g *Generator) connectRoads(road roads.RoadType, dir roads.Direction) {
	p := g.params[road]
	lines := g.streamlines[road].Get(dir)

	for i, s := range lines {
		if len(s) < minStreamlineSize || s.IsCyclic() {
			continue
		}

		prefix := s[:minStreamlineSize]
		suffix := s[len(s)-minStreamlineSize:]

		forbiddenFront := make(map[roads.NodeID]bool, minStreamlineSize)
		for _, id := range prefix {
			forbiddenFront[id] = true
		}
		forbiddenBack := make(map[roads.NodeID]bool, minStreamlineSize)
		for _, id := range suffix {
			forbiddenBack[id] = true
		}

		frontPos := g.nodes[s[0]].Pos
		backPos := g.nodes[s[len(s)-1]].Pos

		// Endpoint headings point out of the streamline.
		frontHeading := frontPos.Sub(g.nodes[prefix[len(prefix)-1]].Pos)
		backHeading := backPos.Sub(g.nodes[suffix[0]].Pos)

		if id, ok := g.joiningCandidate(p.DLookahead, p.nodeSep2, p.ThetaMax, frontPos, frontHeading, forbiddenFront); ok {
			s = append(roads.Streamline{id}, s...)
		}
		if id, ok := g.joiningCandidate(p.DLookahead, p.nodeSep2, p.ThetaMax, backPos, backHeading, forbiddenBack); ok {
			s = append(s, id)
		}

		lines[i] = s
	}
}

// joiningCandidate picks the node an endpoint should connect to: any
// node within the snap distance wins immediately; otherwise the closest
// node ahead of the endpoint whose join vector deviates from the road
// heading by less than thetaMax.
func (g *Generator) joiningCandidate(radius, snapDist2, thetaMax float64, pos, roadDirection geom.Vec, forbidden map[roads.NodeID]bool) (roads.NodeID, bool) {
	candidates := g.index.NearbyPoints(pos, radius, roads.AllDirs)

	best := roads.NullNode
	bestDist2 := math.Inf(1)

	for _, id := range candidates {
		if forbidden[id] {
			continue
		}

		join := g.nodes[id].Pos.Sub(pos)
		if join.Dot(roadDirection) < 0 {
			continue
		}

		dist2 := join.LengthSq()
		if dist2 < snapDist2 {
			return id, true
		}

		if math.Abs(geom.VectorAngle(roadDirection, join)) >= thetaMax {
			continue
		}
		if dist2 < bestDist2 {
			best = id
			bestDist2 = dist2
		}
	}

	if best == roads.NullNode {
		return roads.NullNode, false
	}
	return best, true
}
