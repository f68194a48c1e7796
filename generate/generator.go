package generate

import (
	"math/rand"
	"sort"

	"github.com/papaveez/metropolis-gen/field"
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
	"github.com/papaveez/metropolis-gen/spatial"
)

// minStreamlineSize is the smallest node count a streamline may commit
// with, and the endpoint prefix excluded from joining candidates.
const minStreamlineSize = 5

// Generator drives the full pipeline: seed selection, bidirectional
// tracing, simplification, commit, and endpoint joining. It owns the
// append-only node arena; everything else references nodes by id.
type Generator struct {
	integrator field.Integrator
	params     map[roads.RoadType]Parameters
	roadTypes  []roads.RoadType
	viewport   geom.Box

	rng *rand.Rand

	nodes       []roads.Node
	index       *spatial.Index
	streamlines map[roads.RoadType]*roads.Streamlines

	seeds map[roads.Direction][]geom.Vec
}

// New creates a generator. The parameter map must be non-empty and every
// Epsilon positive; violations panic.
func New(integrator field.Integrator, params map[roads.RoadType]Parameters, viewport geom.Box, rng *rand.Rand) *Generator {
	if len(params) == 0 {
		panic("generate: empty parameter map")
	}

	g := &Generator{
		integrator:  integrator,
		params:      make(map[roads.RoadType]Parameters, len(params)),
		viewport:    viewport,
		rng:         rng,
		streamlines: make(map[roads.RoadType]*roads.Streamlines, len(params)),
		seeds:       make(map[roads.Direction][]geom.Vec, 2),
	}

	for road, p := range params {
		if p.Epsilon <= 0 {
			panic("generate: non-positive epsilon")
		}
		p.normalize()
		g.params[road] = p
		g.roadTypes = append(g.roadTypes, road)
		g.streamlines[road] = &roads.Streamlines{}
	}
	sort.Slice(g.roadTypes, func(i, j int) bool { return g.roadTypes[i] < g.roadTypes[j] })

	g.index = spatial.New(g, viewport, spatial.DefaultMaxDepth, spatial.DefaultLeafCapacity)

	return g
}

// NodePos resolves an arena id to its position. Part of the read-only
// view the spatial index borrows.
func (g *Generator) NodePos(id roads.NodeID) geom.Vec {
	return g.nodes[id].Pos
}

// NodeDir resolves an arena id to its direction.
func (g *Generator) NodeDir(id roads.NodeID) roads.Direction {
	return g.nodes[id].Dir
}

// NodeByID returns the node for id, or false when the id is out of range.
func (g *Generator) NodeByID(id roads.NodeID) (roads.Node, bool) {
	if int(id) >= len(g.nodes) {
		return roads.Node{}, false
	}
	return g.nodes[id], true
}

// RoadTypes returns the road classes in generation order (ascending).
func (g *Generator) RoadTypes() []roads.RoadType {
	return g.roadTypes
}

// Params returns the normalized parameters for a road class.
func (g *Generator) Params(road roads.RoadType) Parameters {
	return g.params[road]
}

// Streamlines returns the committed streamlines of one class/direction.
func (g *Generator) Streamlines(road roads.RoadType, dir roads.Direction) []roads.Streamline {
	return g.streamlines[road].Get(dir)
}

// NodeCount returns the size of the node arena.
func (g *Generator) NodeCount() int {
	return len(g.nodes)
}

// StreamlineCount returns the total committed streamline count across
// all classes and directions.
func (g *Generator) StreamlineCount() int {
	total := 0
	for _, s := range g.streamlines {
		total += s.Len(roads.Major) + s.Len(roads.Minor)
	}
	return total
}

// SetViewport replaces the generation area. Takes effect on the next
// Generate call.
func (g *Generator) SetViewport(viewport geom.Box) {
	g.viewport = viewport
}

// Viewport returns the current generation area.
func (g *Generator) Viewport() geom.Box {
	return g.viewport
}

func (g *Generator) inBounds(p geom.Vec) bool {
	return g.viewport.Contains(p)
}

func (g *Generator) addCandidateSeed(id roads.NodeID, dir roads.Direction) {
	g.seeds[dir] = append(g.seeds[dir], g.nodes[id].Pos)
}

// getSeed drains the direction's queue for a candidate with no
// same-direction streamline within DSep, then falls back to uniform
// random samples inside the viewport.
func (g *Generator) getSeed(road roads.RoadType, dir roads.Direction) (geom.Vec, bool) {
	p := g.params[road]

	for len(g.seeds[dir]) > 0 {
		seed := g.seeds[dir][0]
		g.seeds[dir] = g.seeds[dir][1:]
		if !g.index.HasNearbyPoint(seed, p.DSep, dir.Mask()) {
			return seed, true
		}
	}

	for i := 0; i < p.MaxSeedRetries; i++ {
		seed := geom.Vec{
			X: g.rng.Float64()*g.viewport.Width() + g.viewport.Min.X,
			Y: g.rng.Float64()*g.viewport.Height() + g.viewport.Min.Y,
		}
		if !g.index.HasNearbyPoint(seed, p.DSep, dir.Mask()) {
			return seed, true
		}
	}

	return geom.Vec{}, false
}

// pushStreamline commits a traced polyline: nodes go into the arena, the
// id list into the spatial index and the store, and non-cyclic endpoints
// become seeds for the opposite direction. A polyline closed by value is
// stored with its first id repeated at the end.
func (g *Generator) pushStreamline(road roads.RoadType, points []geom.Vec, dir roads.Direction) {
	if len(points) == 0 {
		return
	}

	streamlineID := g.streamlines[road].Len(dir)

	closed := len(points) > 2 && points[0] == points[len(points)-1]
	distinct := len(points)
	if closed {
		distinct--
	}

	out := make(roads.Streamline, 0, len(points))
	for _, p := range points[:distinct] {
		id := roads.NodeID(len(g.nodes))
		g.nodes = append(g.nodes, roads.Node{Pos: p, StreamlineID: streamlineID, Dir: dir})
		out = append(out, id)
	}
	if closed {
		out = append(out, out[0])
	}

	g.index.InsertStreamline(out, dir)

	if !out.IsCyclic() {
		g.addCandidateSeed(out[0], dir.Flip())
		g.addCandidateSeed(out[len(out)-1], dir.Flip())
	}

	g.streamlines[road].Add(out, dir)
}

// generateStreamlines lays down all streamlines of one road class,
// alternating direction after every accepted streamline, then joins
// dangling endpoints.
func (g *Generator) generateStreamlines(road roads.RoadType) int {
	dir := roads.Major
	accepted := 0

	// Rejected traces leave the index untouched, so an unworkable field
	// could hand out fresh seeds forever. Bound consecutive rejections
	// by the same budget as seed retries to guarantee progress.
	rejected := 0

	for rejected <= g.params[road].MaxSeedRetries {
		seed, ok := g.getSeed(road, dir)
		if !ok {
			break
		}

		points, ok := g.generateStreamline(road, seed, dir)
		if ok {
			points = g.simplifyStreamline(road, points)
			ok = len(points) >= minStreamlineSize
		}
		if !ok {
			rejected++
			continue
		}

		g.pushStreamline(road, points, dir)
		accepted++
		rejected = 0
		dir = dir.Flip()
	}

	g.connectRoads(road, roads.Major)
	g.connectRoads(road, roads.Minor)

	return accepted
}

// GenerationStep performs exactly one tracer attempt for interactive
// stepping. It does not simplify, connect, or flip direction. Reports
// whether a streamline was committed.
func (g *Generator) GenerationStep(road roads.RoadType, dir roads.Direction) bool {
	seed, ok := g.getSeed(road, dir)
	if !ok {
		return false
	}

	points, ok := g.generateStreamline(road, seed, dir)
	if !ok {
		return false
	}

	g.pushStreamline(road, points, dir)
	return true
}

// Generate clears all state and runs the full pipeline, widest road
// class first.
func (g *Generator) Generate() {
	g.Clear()
	g.index.Reset(g.viewport)

	for _, road := range g.roadTypes {
		g.generateStreamlines(road)
	}
}

// Clear wipes the arena, the store, the seed queues, and the spatial
// index.
func (g *Generator) Clear() {
	g.nodes = g.nodes[:0]
	for _, s := range g.streamlines {
		s.Clear()
	}
	g.seeds = make(map[roads.Direction][]geom.Vec, 2)
	g.index.Clear()
}
