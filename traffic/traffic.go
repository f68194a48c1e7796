// Package traffic animates ambient vehicles along the generated road
// network. It is a read-only consumer of the generator: vehicles follow
// committed streamlines by node id and are respawned wholesale whenever
// the network is regenerated.
package traffic

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/papaveez/metropolis-gen/camera"
	"github.com/papaveez/metropolis-gen/generate"
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/roads"
)

// Position is a vehicle's world position component.
type Position struct {
	X, Y float64
}

// Route pins a vehicle to one streamline of the network.
type Route struct {
	Road    roads.RoadType
	Dir     roads.Direction
	Line    int
	Segment int     // index of the segment's start node
	T       float64 // progress along the segment in [0, 1]
	Forward bool
	Speed   float64
}

// routeRef identifies a drivable streamline at respawn time.
type routeRef struct {
	road roads.RoadType
	dir  roads.Direction
	line int
}

// System owns the vehicle world.
type System struct {
	world  *ecs.World
	mapper *ecs.Map2[Position, Route]
	filter *ecs.Filter2[Position, Route]

	gen    *generate.Generator
	rng    *rand.Rand
	speeds map[roads.RoadType]float64
	target int
}

// NewSystem creates a traffic system over the generator's output.
// Speeds are per road class in world units per second.
func NewSystem(gen *generate.Generator, target int, speeds map[roads.RoadType]float64, seed int64) *System {
	world := ecs.NewWorld()
	return &System{
		world:  world,
		mapper: ecs.NewMap2[Position, Route](world),
		filter: ecs.NewFilter2[Position, Route](world),
		gen:    gen,
		rng:    rand.New(rand.NewSource(seed)),
		speeds: speeds,
		target: target,
	}
}

// VehicleCount returns the number of live vehicles.
func (s *System) VehicleCount() int {
	count := 0
	query := s.filter.Query()
	for query.Next() {
		count++
	}
	return count
}

// Clear removes every vehicle.
func (s *System) Clear() {
	var toRemove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		s.mapper.Remove(e)
	}
}

// Respawn rebuilds the fleet against the current network. Must be
// called after every regeneration because node ids do not survive a
// Clear.
func (s *System) Respawn() {
	s.Clear()

	var refs []routeRef
	for _, road := range s.gen.RoadTypes() {
		for _, dir := range []roads.Direction{roads.Major, roads.Minor} {
			for i, line := range s.gen.Streamlines(road, dir) {
				if len(line) >= 2 {
					refs = append(refs, routeRef{road: road, dir: dir, line: i})
				}
			}
		}
	}
	if len(refs) == 0 {
		return
	}

	for i := 0; i < s.target; i++ {
		ref := refs[s.rng.Intn(len(refs))]
		line := s.gen.Streamlines(ref.road, ref.dir)[ref.line]

		seg := s.rng.Intn(len(line) - 1)
		t := s.rng.Float64()

		pos := s.segmentPoint(line, seg, t)
		route := Route{
			Road:    ref.road,
			Dir:     ref.dir,
			Line:    ref.line,
			Segment: seg,
			T:       t,
			Forward: s.rng.Intn(2) == 0,
			Speed:   s.speeds[ref.road],
		}
		p := Position{X: pos.X, Y: pos.Y}
		s.mapper.NewEntity(&p, &route)
	}
}

func (s *System) segmentPoint(line roads.Streamline, seg int, t float64) geom.Vec {
	a, _ := s.gen.NodeByID(line[seg])
	b, _ := s.gen.NodeByID(line[seg+1])
	return a.Pos.Add(b.Pos.Sub(a.Pos).Scale(t))
}

// Update advances every vehicle by dt seconds. Cyclic roads wrap;
// dead ends turn the vehicle around.
func (s *System) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, route := query.Get()

		line := s.gen.Streamlines(route.Road, route.Dir)[route.Line]
		s.advance(route, line, route.Speed*dt)

		p := s.segmentPoint(line, route.Segment, route.T)
		pos.X, pos.Y = p.X, p.Y
	}
}

func (s *System) advance(route *Route, line roads.Streamline, distance float64) {
	cyclic := line.IsCyclic()

	// Bounded pass budget in case of zero-length segments.
	for steps := 0; distance > 0 && steps < 2*len(line); steps++ {
		a, _ := s.gen.NodeByID(line[route.Segment])
		b, _ := s.gen.NodeByID(line[route.Segment+1])
		segLen := b.Pos.Sub(a.Pos).Length()
		if segLen <= 0 {
			segLen = 1e-9
		}

		if route.Forward {
			remain := (1 - route.T) * segLen
			if distance < remain {
				route.T += distance / segLen
				return
			}
			distance -= remain
			route.T = 0
			route.Segment++
			if route.Segment >= len(line)-1 {
				if cyclic {
					route.Segment = 0
				} else {
					route.Segment = len(line) - 2
					route.T = 1
					route.Forward = false
				}
			}
		} else {
			remain := route.T * segLen
			if distance < remain {
				route.T -= distance / segLen
				return
			}
			distance -= remain
			route.T = 1
			route.Segment--
			if route.Segment < 0 {
				if cyclic {
					route.Segment = len(line) - 2
				} else {
					route.Segment = 0
					route.T = 0
					route.Forward = true
				}
			}
		}
	}
}

var vehicleColor = rl.Color{R: 40, G: 40, B: 48, A: 230}

// Draw renders vehicles as dots scaled with zoom.
func (s *System) Draw(cam *camera.Camera) {
	radius := float32(2 * cam.Zoom)
	if radius < 1 {
		radius = 1
	}

	query := s.filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		screen := cam.WorldToScreen(geom.V(pos.X, pos.Y))
		rl.DrawCircleV(rl.Vector2{X: float32(screen.X), Y: float32(screen.Y)}, radius, vehicleColor)
	}
}
