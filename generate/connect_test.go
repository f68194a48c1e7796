package generate

import (
	"math/rand"
	"testing"

	"github.com/papaveez/metropolis-gen/field"
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

func connectTestGenerator() *Generator {
	p := testParams()
	p.NodeSep = 1 // keep the snap radius tight so angle joins are exercised
	return New(
		field.NewRK4(field.New()),
		map[roads.RoadType]Parameters{roads.Main: p},
		testViewport(),
		rand.New(rand.NewSource(1)),
	)
}

func horizontalLine(y float64, x0, x1, step float64) []geom.Vec {
	var out []geom.Vec
	for x := x0; x <= x1; x += step {
		out = append(out, geom.V(x, y))
	}
	return out
}

func TestJoiningCandidatePicksAlignedNode(t *testing.T) {
	g := connectTestGenerator()
	g.pushStreamline(roads.Main, horizontalLine(50, 10, 90, 10), roads.Major)

	// An endpoint at (50,30) heading straight up should join the node
	// directly above it.
	id, ok := g.joiningCandidate(40, 1, 0.3, geom.V(50, 30), geom.V(0, 20), nil)
	if !ok {
		t.Fatal("expected a joining candidate")
	}
	if g.nodes[id].Pos != geom.V(50, 50) {
		t.Errorf("joined %v, want (50,50)", g.nodes[id].Pos)
	}
}

func TestJoiningCandidateRejectsWrongSide(t *testing.T) {
	g := connectTestGenerator()
	g.pushStreamline(roads.Main, horizontalLine(50, 10, 90, 10), roads.Major)

	// Heading away from the road: every candidate is behind the endpoint.
	if _, ok := g.joiningCandidate(40, 1, 0.3, geom.V(50, 30), geom.V(0, -20), nil); ok {
		t.Error("candidates behind the heading should be rejected")
	}
}

func TestJoiningCandidateRejectsWideAngles(t *testing.T) {
	g := connectTestGenerator()
	g.pushStreamline(roads.Main, horizontalLine(50, 10, 90, 10), roads.Major)

	// From (80,30) the nearest node is (80,50), directly above, but with
	// the heading tilted hard sideways nothing fits inside thetaMax.
	if _, ok := g.joiningCandidate(40, 1, 0.05, geom.V(80, 30), geom.V(20, 1), nil); ok {
		t.Error("no candidate should pass a 0.05 rad cone pointed along x")
	}
}

func TestJoiningCandidateSnapsWithinNodeSep(t *testing.T) {
	g := connectTestGenerator()
	g.pushStreamline(roads.Main, horizontalLine(50, 10, 90, 10), roads.Major)

	// One unit below a node: inside the snap distance, angle no longer
	// matters.
	id, ok := g.joiningCandidate(40, 2*2, 0.001, geom.V(50, 49), geom.V(0, 1), nil)
	if !ok {
		t.Fatal("expected snap join")
	}
	if g.nodes[id].Pos != geom.V(50, 50) {
		t.Errorf("snapped to %v, want (50,50)", g.nodes[id].Pos)
	}
}

func TestJoiningCandidateHonoursForbidden(t *testing.T) {
	g := connectTestGenerator()
	g.pushStreamline(roads.Main, horizontalLine(50, 40, 60, 10), roads.Major)

	forbidden := make(map[roads.NodeID]bool)
	for id := range g.nodes {
		forbidden[roads.NodeID(id)] = true
	}
	if _, ok := g.joiningCandidate(40, 1, 0.3, geom.V(50, 30), geom.V(0, 20), forbidden); ok {
		t.Error("forbidden ids must not be joined")
	}
}

func TestConnectRoadsAppendsDanglingTail(t *testing.T) {
	g := connectTestGenerator()

	// A major road along y=50 and a minor road rising toward it,
	// stopping 12 units short.
	g.pushStreamline(roads.Main, horizontalLine(50, 10, 90, 10), roads.Major)
	g.pushStreamline(roads.Main, []geom.Vec{
		geom.V(50, 10), geom.V(50, 17), geom.V(50, 24), geom.V(50, 31), geom.V(50, 38),
	}, roads.Minor)

	before := g.Streamlines(roads.Main, roads.Minor)[0]
	g.connectRoads(roads.Main, roads.Minor)
	after := g.Streamlines(roads.Main, roads.Minor)[0]

	if len(after) != len(before)+1 {
		t.Fatalf("streamline length %d after connect, want %d", len(after), len(before)+1)
	}
	joined := g.nodes[after[len(after)-1]]
	if joined.Pos != geom.V(50, 50) {
		t.Errorf("tail joined to %v, want (50,50)", joined.Pos)
	}
	if joined.Dir != roads.Major {
		t.Error("joined node keeps its own direction")
	}
}

func TestConnectRoadsSkipsCyclicStreamlines(t *testing.T) {
	g := connectTestGenerator()
	g.pushStreamline(roads.Main, horizontalLine(50, 10, 90, 10), roads.Major)

	// A closed loop near the road must not be extended.
	loop := []geom.Vec{
		geom.V(30, 70), geom.V(40, 70), geom.V(40, 80), geom.V(35, 85), geom.V(30, 80), geom.V(30, 70),
	}
	g.pushStreamline(roads.Main, loop, roads.Minor)

	s := g.Streamlines(roads.Main, roads.Minor)[0]
	if !s.IsCyclic() {
		t.Fatal("loop should commit as cyclic")
	}
	lenBefore := len(s)

	g.connectRoads(roads.Main, roads.Minor)

	if len(g.Streamlines(roads.Main, roads.Minor)[0]) != lenBefore {
		t.Error("cyclic streamline should be left alone")
	}
}
