// Package spatial implements a direction-tagged quadtree over streamline
// nodes. It answers "is there already a node of direction D within radius
// r" in sub-linear time, which the tracer asks on every integration step.
//
// The quadtree never stores positions itself: it parks arena node ids and
// resolves them through a read-only NodeSource, so ids stay valid while
// the owning arena grows.
package spatial

import (
	"math"

	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// NodeSource resolves arena ids to position and direction. Implemented
// by the generator's node arena.
type NodeSource interface {
	NodePos(id roads.NodeID) geom.Vec
	NodeDir(id roads.NodeID) roads.Direction
}

const (
	// DefaultMaxDepth bounds subdivision; at 1920x1080 a depth-10 leaf
	// covers roughly 2x1 pixels.
	DefaultMaxDepth = 10
	// DefaultLeafCapacity is the node count a leaf holds before it splits.
	DefaultLeafCapacity = 10
)

const nullQNode = int32(-1)

// quadNode is one cell of the tree. Data is only non-empty at leaves and
// at the depth cap. Dirs is the OR of the directions of every id
// reachable from this subtree.
type quadNode struct {
	bbox     geom.Box
	data     []roads.NodeID
	children [4]int32
	dirs     roads.DirMask
}

func newQuadNode(bbox geom.Box, dirs roads.DirMask) quadNode {
	return quadNode{
		bbox:     bbox,
		children: [4]int32{nullQNode, nullQNode, nullQNode, nullQNode},
		dirs:     dirs,
	}
}

func (q *quadNode) isLeaf() bool {
	for _, c := range q.children {
		if c != nullQNode {
			return false
		}
	}
	return true
}

// Index is the quadtree. Node 0 of the arena is the root.
type Index struct {
	source NodeSource
	bounds geom.Box

	qnodes []quadNode

	maxDepth     int
	leafCapacity int
}

// New creates an index over bounds. The root's direction mask starts with
// all bits set so queries do not short-circuit on an empty tree.
func New(source NodeSource, bounds geom.Box, maxDepth, leafCapacity int) *Index {
	idx := &Index{
		source:       source,
		bounds:       bounds,
		maxDepth:     maxDepth,
		leafCapacity: leafCapacity,
	}
	idx.qnodes = append(idx.qnodes, newQuadNode(bounds, roads.AllDirs))
	return idx
}

// Clear drops all stored ids and re-initialises the root.
func (x *Index) Clear() {
	x.qnodes = x.qnodes[:0]
	x.qnodes = append(x.qnodes, newQuadNode(x.bounds, roads.AllDirs))
}

// Reset re-bounds the index and clears it.
func (x *Index) Reset(bounds geom.Box) {
	x.bounds = bounds
	x.Clear()
}

// InsertStreamline indexes every node of the streamline under dir. A
// cyclic streamline is stored without its trailing duplicate id.
func (x *Index) InsertStreamline(s roads.Streamline, dir roads.Direction) {
	if len(s) == 0 {
		return
	}

	ids := make([]roads.NodeID, len(s))
	copy(ids, s)
	if len(ids) > 2 && ids[0] == ids[len(ids)-1] {
		ids = ids[:len(ids)-1]
	}

	x.insertRec(0, 0, dir.Mask(), ids)
}

// partition splits ids by the quadrant of bbox they fall in: a point is
// right when x > mid.x and bottom when y > mid.y, so ties go left/top.
// Order inside each part is preserved.
func (x *Index) partition(bbox geom.Box, ids []roads.NodeID) (parts [4][]roads.NodeID, dirs [4]roads.DirMask) {
	mid := bbox.Mid()
	for _, id := range ids {
		pos := x.source.NodePos(id)
		q := 0
		if pos.X > mid.X {
			q |= 1
		}
		if pos.Y > mid.Y {
			q |= 2
		}
		parts[q] = append(parts[q], id)
		dirs[q] |= x.source.NodeDir(id).Mask()
	}
	return parts, dirs
}

// subdivide pushes a leaf's data down into freshly allocated children.
func (x *Index) subdivide(head int32) {
	bbox := x.qnodes[head].bbox
	parts, dirs := x.partition(bbox, x.qnodes[head].data)
	x.qnodes[head].data = nil

	for q := 0; q < 4; q++ {
		if len(parts[q]) == 0 {
			continue
		}
		child := int32(len(x.qnodes))
		x.qnodes = append(x.qnodes, newQuadNode(bbox.GetQuadrant(geom.Quadrant(q)), dirs[q]))
		x.qnodes[child].data = parts[q]
		x.qnodes[head].children[q] = child
	}
}

func (x *Index) appendLeafData(head int32, dirs roads.DirMask, ids []roads.NodeID) {
	x.qnodes[head].dirs |= dirs
	x.qnodes[head].data = append(x.qnodes[head].data, ids...)
}

func (x *Index) insertRec(depth int, head int32, dirs roads.DirMask, ids []roads.NodeID) {
	if depth >= x.maxDepth {
		x.appendLeafData(head, dirs, ids)
		return
	}
	if x.qnodes[head].isLeaf() {
		if len(x.qnodes[head].data)+len(ids) <= x.leafCapacity {
			x.appendLeafData(head, dirs, ids)
			return
		}
		x.subdivide(head)
	}

	x.qnodes[head].dirs |= dirs

	bbox := x.qnodes[head].bbox
	parts, partDirs := x.partition(bbox, ids)

	for q := 0; q < 4; q++ {
		if len(parts[q]) == 0 {
			continue
		}

		child := x.qnodes[head].children[q]
		if child == nullQNode {
			child = int32(len(x.qnodes))
			x.qnodes = append(x.qnodes, newQuadNode(bbox.GetQuadrant(geom.Quadrant(q)), 0))
			x.qnodes[head].children[q] = child
		}

		x.insertRec(depth+1, child, partDirs[q], parts[q])
	}
}

// circleQuery carries the traversal state of a radius query. The outer
// box circumscribes the circle; the inner box is inscribed, so a subtree
// whose bbox fits inside it is proven within radius without per-point
// distance tests.
type circleQuery struct {
	dirs    roads.DirMask
	centre  geom.Vec
	radius2 float64
	outer   geom.Box
	inner   geom.Box
	gather  bool
	harvest []roads.NodeID
}

func newCircleQuery(centre geom.Vec, radius float64, dirs roads.DirMask, gather bool) circleQuery {
	half := radius / math.Sqrt2
	return circleQuery{
		dirs:    dirs,
		centre:  centre,
		radius2: radius * radius,
		outer: geom.NewBox(
			centre.Sub(geom.V(radius, radius)),
			centre.Add(geom.V(radius, radius)),
		),
		inner: geom.NewBox(
			centre.Sub(geom.V(half, half)),
			centre.Add(geom.V(half, half)),
		),
		gather: gather,
	}
}

// HasNearbyPoint reports whether any indexed node matching dirs lies
// within radius of centre.
func (x *Index) HasNearbyPoint(centre geom.Vec, radius float64, dirs roads.DirMask) bool {
	q := newCircleQuery(centre, radius, dirs, false)
	if x.bounds.Intersect(q.inner).IsEmpty() || x.qnodes[0].dirs&dirs == 0 {
		return false
	}
	return x.inCircleRec(0, &q)
}

// NearbyPoints returns every indexed node matching dirs within radius of
// centre. Result order is traversal order and not part of the contract.
func (x *Index) NearbyPoints(centre geom.Vec, radius float64, dirs roads.DirMask) []roads.NodeID {
	q := newCircleQuery(centre, radius, dirs, true)
	if x.bounds.Intersect(q.inner).IsEmpty() || x.qnodes[0].dirs&dirs == 0 {
		return nil
	}
	x.inCircleRec(0, &q)
	return q.harvest
}

func (x *Index) inCircleRec(head int32, q *circleQuery) bool {
	qnode := &x.qnodes[head]

	if qnode.dirs&q.dirs == 0 || q.outer.Intersect(qnode.bbox).IsEmpty() {
		return false
	}

	// The whole cell sits inside the inscribed square: every stored point
	// is within radius, no distance checks needed.
	if q.inner.ContainsBox(qnode.bbox) {
		return x.inBoxRec(head, q.inner, q)
	}

	found := false

	if qnode.isLeaf() {
		for _, id := range qnode.data {
			if !q.dirs.Has(x.source.NodeDir(id)) {
				continue
			}
			if x.source.NodePos(id).Sub(q.centre).LengthSq() > q.radius2 {
				continue
			}
			if !q.gather {
				return true
			}
			q.harvest = append(q.harvest, id)
			found = true
		}
		return found
	}

	for _, child := range qnode.children {
		if child == nullQNode {
			continue
		}
		if x.inCircleRec(child, q) {
			if !q.gather {
				return true
			}
			found = true
		}
	}
	return found
}

// inBoxRec reports or collects every direction-matching id stored in
// bbox. Cells fully inside bbox contribute their whole subtree.
func (x *Index) inBoxRec(head int32, bbox geom.Box, q *circleQuery) bool {
	qnode := &x.qnodes[head]

	if qnode.dirs&q.dirs == 0 || bbox.Intersect(qnode.bbox).IsEmpty() {
		return false
	}

	if bbox.ContainsBox(qnode.bbox) {
		return x.reportSubtree(head, q)
	}

	found := false

	if qnode.isLeaf() {
		for _, id := range qnode.data {
			if !q.dirs.Has(x.source.NodeDir(id)) || !bbox.Contains(x.source.NodePos(id)) {
				continue
			}
			if !q.gather {
				return true
			}
			q.harvest = append(q.harvest, id)
			found = true
		}
		return found
	}

	for _, child := range qnode.children {
		if child == nullQNode {
			continue
		}
		if x.inBoxRec(child, bbox, q) {
			if !q.gather {
				return true
			}
			found = true
		}
	}
	return found
}

func (x *Index) reportSubtree(head int32, q *circleQuery) bool {
	qnode := &x.qnodes[head]
	if qnode.dirs&q.dirs == 0 {
		return false
	}

	found := false
	for _, id := range qnode.data {
		if !q.dirs.Has(x.source.NodeDir(id)) {
			continue
		}
		if !q.gather {
			return true
		}
		q.harvest = append(q.harvest, id)
		found = true
	}

	for _, child := range qnode.children {
		if child == nullQNode {
			continue
		}
		if x.reportSubtree(child, q) {
			if !q.gather {
				return true
			}
			found = true
		}
	}
	return found
}
