package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/papaveez/metropolis-gen/camera"
	"github.com/papaveez/metropolis-gen/generate"
	"github.com/papaveez/metropolis-gen/roads"
)

// RoadStyle is the fill/casing look of one road class.
type RoadStyle struct {
	Fill         rl.Color
	Casing       rl.Color
	Width        float32
	CasingExtra  float32
}

// DefaultRoadStyle returns the built-in palette for a road class.
func DefaultRoadStyle(t roads.RoadType) RoadStyle {
	switch t {
	case roads.Main:
		return RoadStyle{
			Fill:        rl.Color{R: 250, G: 224, B: 98, A: 255},
			Casing:      rl.Color{R: 238, G: 199, B: 132, A: 255},
			Width:       10,
			CasingExtra: 2,
		}
	case roads.HighStreet:
		return RoadStyle{
			Fill:        rl.Color{R: 252, G: 252, B: 224, A: 255},
			Casing:      rl.Color{R: 240, G: 210, B: 152, A: 255},
			Width:       8,
			CasingExtra: 2,
		}
	default:
		return RoadStyle{
			Fill:        rl.Color{R: 255, G: 255, B: 255, A: 255},
			Casing:      rl.Color{R: 215, G: 208, B: 198, A: 255},
			Width:       6,
			CasingExtra: 1,
		}
	}
}

// RoadRenderer draws committed streamlines as cased polylines.
type RoadRenderer struct {
	styles map[roads.RoadType]RoadStyle
}

// NewRoadRenderer creates a road renderer with the default palette.
func NewRoadRenderer() *RoadRenderer {
	return &RoadRenderer{
		styles: map[roads.RoadType]RoadStyle{
			roads.Main:       DefaultRoadStyle(roads.Main),
			roads.HighStreet: DefaultRoadStyle(roads.HighStreet),
			roads.SideStreet: DefaultRoadStyle(roads.SideStreet),
		},
	}
}

// Draw renders the whole network, narrowest class first so wider roads
// sit on top. Casings for a class go under its fills so junction gaps
// stay clean.
func (r *RoadRenderer) Draw(g *generate.Generator, cam *camera.Camera) {
	types := g.RoadTypes()
	for i := len(types) - 1; i >= 0; i-- {
		road := types[i]
		style := r.styles[road]

		for _, dir := range []roads.Direction{roads.Major, roads.Minor} {
			for _, s := range g.Streamlines(road, dir) {
				r.drawStreamline(g, cam, s, style.Casing, style.Width+2*style.CasingExtra)
			}
		}
		for _, dir := range []roads.Direction{roads.Major, roads.Minor} {
			for _, s := range g.Streamlines(road, dir) {
				r.drawStreamline(g, cam, s, style.Fill, style.Width)
			}
		}
	}
}

func (r *RoadRenderer) drawStreamline(g *generate.Generator, cam *camera.Camera, s roads.Streamline, color rl.Color, width float32) {
	if len(s) < 2 {
		return
	}

	w := width * float32(cam.Zoom)

	prev, _ := g.NodeByID(s[0])
	prevScreen := toScreenVec(cam.WorldToScreen(prev.Pos))

	for i := 1; i < len(s); i++ {
		node, ok := g.NodeByID(s[i])
		if !ok {
			continue
		}
		screen := toScreenVec(cam.WorldToScreen(node.Pos))
		rl.DrawLineEx(prevScreen, screen, w, color)
		rl.DrawCircleV(screen, w/2, color)
		prevScreen = screen
	}

	// Round off the head as well.
	rl.DrawCircleV(toScreenVec(cam.WorldToScreen(prev.Pos)), w/2, color)
}
