package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// arena is a minimal NodeSource for tests.
type arena []roads.Node

func (a arena) NodePos(id roads.NodeID) geom.Vec       { return a[id].Pos }
func (a arena) NodeDir(id roads.NodeID) roads.Direction { return a[id].Dir }

func line(a *arena, dir roads.Direction, points ...geom.Vec) roads.Streamline {
	var out roads.Streamline
	for _, p := range points {
		out = append(out, roads.NodeID(len(*a)))
		*a = append(*a, roads.Node{Pos: p, Dir: dir})
	}
	return out
}

func TestEmptyTreeHasNoPoints(t *testing.T) {
	nodes := arena{}
	idx := New(nodes, geom.NewBox(geom.V(0, 0), geom.V(100, 100)), DefaultMaxDepth, DefaultLeafCapacity)

	if idx.HasNearbyPoint(geom.V(50, 50), 10, roads.AllDirs) {
		t.Error("empty tree should have no nearby points")
	}
	if got := idx.NearbyPoints(geom.V(50, 50), 10, roads.AllDirs); len(got) != 0 {
		t.Errorf("empty tree returned %v", got)
	}
}

func TestInsertAndQueryByDirection(t *testing.T) {
	nodes := arena{}
	idx := New(&nodes, geom.NewBox(geom.V(0, 0), geom.V(100, 100)), DefaultMaxDepth, DefaultLeafCapacity)

	s := line(&nodes, roads.Major, geom.V(10, 10), geom.V(20, 10), geom.V(30, 10))
	idx.InsertStreamline(s, roads.Major)

	if !idx.HasNearbyPoint(geom.V(12, 10), 5, roads.Major.Mask()) {
		t.Error("major query should find major node")
	}
	if idx.HasNearbyPoint(geom.V(12, 10), 5, roads.Minor.Mask()) {
		t.Error("minor query should not find major node")
	}
	if !idx.HasNearbyPoint(geom.V(12, 10), 5, roads.AllDirs) {
		t.Error("all-direction query should find major node")
	}
	if idx.HasNearbyPoint(geom.V(80, 80), 5, roads.AllDirs) {
		t.Error("far query should find nothing")
	}
}

func TestHasNearbyPointAgreesWithEnumeration(t *testing.T) {
	nodes := arena{}
	idx := New(&nodes, geom.NewBox(geom.V(0, 0), geom.V(200, 200)), DefaultMaxDepth, DefaultLeafCapacity)

	rng := rand.New(rand.NewSource(11))
	var pts []geom.Vec
	for i := 0; i < 64; i++ {
		pts = append(pts, geom.V(rng.Float64()*200, rng.Float64()*200))
	}
	idx.InsertStreamline(line(&nodes, roads.Major, pts...), roads.Major)

	for i := 0; i < 200; i++ {
		c := geom.V(rng.Float64()*200, rng.Float64()*200)
		r := rng.Float64() * 40
		has := idx.HasNearbyPoint(c, r, roads.AllDirs)
		count := len(idx.NearbyPoints(c, r, roads.AllDirs))
		if has != (count > 0) {
			t.Fatalf("query %d: HasNearbyPoint=%v but %d points enumerated", i, has, count)
		}
	}
}

func TestCyclicStreamlineDropsTrailingDuplicate(t *testing.T) {
	nodes := arena{}
	idx := New(&nodes, geom.NewBox(geom.V(0, 0), geom.V(100, 100)), DefaultMaxDepth, DefaultLeafCapacity)

	s := line(&nodes, roads.Major, geom.V(10, 10), geom.V(20, 10), geom.V(20, 20), geom.V(10, 20))
	s = append(s, s[0]) // close the loop
	if !s.IsCyclic() {
		t.Fatal("streamline should be cyclic")
	}
	idx.InsertStreamline(s, roads.Major)

	got := idx.NearbyPoints(geom.V(10, 10), 1, roads.AllDirs)
	if len(got) != 1 {
		t.Errorf("cyclic head stored %d times, want 1", len(got))
	}
}

func TestSubdivisionBeyondLeafCapacity(t *testing.T) {
	nodes := arena{}
	idx := New(&nodes, geom.NewBox(geom.V(0, 0), geom.V(100, 100)), DefaultMaxDepth, 2)

	rng := rand.New(rand.NewSource(5))
	var pts []geom.Vec
	for i := 0; i < 40; i++ {
		pts = append(pts, geom.V(rng.Float64()*100, rng.Float64()*100))
	}
	idx.InsertStreamline(line(&nodes, roads.Minor, pts...), roads.Minor)

	if len(idx.qnodes) == 1 {
		t.Fatal("tree should have subdivided")
	}

	// Every point is still findable.
	for _, p := range pts {
		if !idx.HasNearbyPoint(p, 0.5, roads.Minor.Mask()) {
			t.Fatalf("point %v lost after subdivision", p)
		}
	}
}

func TestDirMaskInvariant(t *testing.T) {
	nodes := arena{}
	idx := New(&nodes, geom.NewBox(geom.V(0, 0), geom.V(100, 100)), DefaultMaxDepth, 4)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		dir := roads.Major
		if i%2 == 0 {
			dir = roads.Minor
		}
		var pts []geom.Vec
		for j := 0; j < 8; j++ {
			pts = append(pts, geom.V(rng.Float64()*100, rng.Float64()*100))
		}
		idx.InsertStreamline(line(&nodes, dir, pts...), dir)
	}

	// For every interior node, the children's masks OR together into the
	// parent's mask, and stored points lie inside their cell's bbox.
	var walk func(head int32)
	walk = func(head int32) {
		qn := &idx.qnodes[head]
		for _, id := range qn.data {
			if !qn.bbox.Contains(nodes.NodePos(id)) {
				t.Fatalf("node %d outside its cell bbox", id)
			}
		}
		if qn.isLeaf() {
			return
		}
		var childMask roads.DirMask
		for _, c := range qn.children {
			if c == nullQNode {
				continue
			}
			childMask |= idx.qnodes[c].dirs
			walk(c)
		}
		if head != 0 && childMask != qn.dirs {
			t.Fatalf("interior node %d mask %b != children OR %b", head, qn.dirs, childMask)
		}
		if head == 0 && childMask&^qn.dirs != 0 {
			t.Fatalf("root mask %b missing child bits %b", qn.dirs, childMask)
		}
	}
	walk(0)
}

func TestQuadtreeMatchesBruteForce(t *testing.T) {
	const (
		numPoints  = 1000
		numQueries = 10000
		world      = 1000.0
	)

	nodes := arena{}
	idx := New(&nodes, geom.NewBox(geom.V(0, 0), geom.V(world, world)), DefaultMaxDepth, DefaultLeafCapacity)

	rng := rand.New(rand.NewSource(42))

	// 500 major, 500 minor, inserted as small streamlines.
	for batch := 0; batch < 100; batch++ {
		dir := roads.Major
		if batch%2 == 1 {
			dir = roads.Minor
		}
		var pts []geom.Vec
		for j := 0; j < numPoints/100; j++ {
			pts = append(pts, geom.V(rng.Float64()*world, rng.Float64()*world))
		}
		idx.InsertStreamline(line(&nodes, dir, pts...), dir)
	}

	masks := []roads.DirMask{roads.Major.Mask(), roads.Minor.Mask(), roads.AllDirs}

	for i := 0; i < numQueries; i++ {
		c := geom.V(rng.Float64()*world, rng.Float64()*world)
		r := rng.Float64() * 60
		mask := masks[rng.Intn(len(masks))]

		var want []roads.NodeID
		for id := range nodes {
			n := nodes[id]
			if mask.Has(n.Dir) && n.Pos.Sub(c).LengthSq() <= r*r {
				want = append(want, roads.NodeID(id))
			}
		}

		got := idx.NearbyPoints(c, r, mask)

		sort.Slice(got, func(a, b int) bool { return got[a] < got[b] })
		sort.Slice(want, func(a, b int) bool { return want[a] < want[b] })

		if len(got) != len(want) {
			t.Fatalf("query %d (c=%v r=%v mask=%b): got %d ids, want %d", i, c, r, mask, len(got), len(want))
		}
		for j := range got {
			if got[j] != want[j] {
				t.Fatalf("query %d: id sets differ at %d: got %d want %d", i, j, got[j], want[j])
			}
		}

		if idx.HasNearbyPoint(c, r, mask) != (len(want) > 0) {
			t.Fatalf("query %d: existence disagrees with enumeration", i)
		}
	}
}

func TestResetAfterViewportChange(t *testing.T) {
	nodes := arena{}
	idx := New(&nodes, geom.NewBox(geom.V(0, 0), geom.V(100, 100)), DefaultMaxDepth, DefaultLeafCapacity)

	idx.InsertStreamline(line(&nodes, roads.Major, geom.V(10, 10), geom.V(20, 20), geom.V(30, 30)), roads.Major)
	idx.Reset(geom.NewBox(geom.V(0, 0), geom.V(500, 500)))

	if idx.HasNearbyPoint(geom.V(10, 10), 5, roads.AllDirs) {
		t.Error("reset index should be empty")
	}

	nodes = nodes[:0]
	s := line(&nodes, roads.Minor, geom.V(400, 400), geom.V(410, 400), geom.V(420, 400))
	idx.InsertStreamline(s, roads.Minor)
	if !idx.HasNearbyPoint(geom.V(405, 400), 10, roads.Minor.Mask()) {
		t.Error("point in grown viewport should be indexed")
	}
}
