package generate

import (
	"testing"

	"github.com/papaveez/metropolis-gen/geom"
)

func TestDouglasPeuckerShortPolylinesUntouched(t *testing.T) {
	short := []geom.Vec{geom.V(0, 0), geom.V(1, 1)}
	got := douglasPeucker(0.5, 100, short)
	if len(got) != 2 {
		t.Errorf("2-point polyline should pass through, got %d points", len(got))
	}
}

func TestDouglasPeuckerKeepsCorners(t *testing.T) {
	// A sharp corner at (3,0) followed by a steep rise. The corner is a
	// split point and must survive; the near-flat jitter before it is
	// thinned by the spacing rule, which drops (1,0.1) as too close to
	// (0,0).
	points := []geom.Vec{
		geom.V(0, 0),
		geom.V(1, 0.1),
		geom.V(2, -0.1),
		geom.V(3, 0),
		geom.V(4, 10),
	}

	got := douglasPeucker(0.5, 1.5*1.5, points)

	want := []geom.Vec{geom.V(0, 0), geom.V(2, -0.1), geom.V(3, 0), geom.V(4, 10)}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDouglasPeuckerSpacingOnStraightLine(t *testing.T) {
	// A straight line never splits; the spacing rule thins it to roughly
	// one node per NodeSep while keeping both endpoints.
	var points []geom.Vec
	for i := 0; i <= 20; i++ {
		points = append(points, geom.V(float64(i), 0))
	}

	got := douglasPeucker(0.5, 2.5*2.5, points)

	if got[0] != points[0] || got[len(got)-1] != geom.V(20, 0) {
		t.Fatal("endpoints must be preserved")
	}
	for i := 1; i < len(got); i++ {
		d := got[i].Sub(got[i-1]).Length()
		if i < len(got)-1 && d < 2.5 {
			t.Errorf("interior spacing %v below minimum 2.5", d)
		}
	}
	if len(got) < 5 {
		t.Errorf("straight line over-pruned to %d points", len(got))
	}
}

func TestDouglasPeuckerZeroNodeSepKeepsFlatDetail(t *testing.T) {
	points := []geom.Vec{
		geom.V(0, 0),
		geom.V(1, 0.1),
		geom.V(2, -0.1),
		geom.V(3, 0),
	}
	got := douglasPeucker(0.5, 0, points)
	if len(got) != 4 {
		t.Errorf("node_sep 0 should prune nothing on a flat run, got %v", got)
	}
}

func TestDouglasPeuckerClosedPolyline(t *testing.T) {
	// A closed square with midpoints on each edge; the duplicate closing
	// point must survive so the loop stays value-closed.
	points := []geom.Vec{
		geom.V(0, 0), geom.V(5, 0), geom.V(10, 0),
		geom.V(10, 5), geom.V(10, 10),
		geom.V(5, 10), geom.V(0, 10),
		geom.V(0, 5), geom.V(0, 0),
	}
	got := douglasPeucker(0.5, 1, points)

	if got[0] != got[len(got)-1] {
		t.Error("closed polyline should stay closed after simplification")
	}
	if len(got) < 5 {
		t.Errorf("square collapsed to %d points", len(got))
	}
}
