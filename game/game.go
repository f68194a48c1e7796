// Package game wires the tensor field, the generator, and the
// interactive editor into one application.
package game

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/papaveez/metropolis-gen/camera"
	"github.com/papaveez/metropolis-gen/config"
	"github.com/papaveez/metropolis-gen/field"
	"github.com/papaveez/metropolis-gen/generate"
	"github.com/papaveez/metropolis-gen/geom"
	"github.com/papaveez/metropolis-gen/renderer"
	"github.com/papaveez/metropolis-gen/roads"
	"github.com/papaveez/metropolis-gen/telemetry"
	"github.com/papaveez/metropolis-gen/traffic"
	"github.com/papaveez/metropolis-gen/ui"
)

var backgroundColor = rl.Color{R: 34, G: 38, B: 46, A: 255}
var mapBackground = rl.Color{R: 222, G: 217, B: 210, A: 255}

// Options configures a new game.
type Options struct {
	Seed      int64
	OutputDir string
	Headless  bool
}

// Game holds the complete application state.
type Game struct {
	cfg *config.Config

	tensorField *field.TensorField
	gen         *generate.Generator
	cam         *camera.Camera

	panel     *ui.Panel
	hud       *ui.HUD
	fieldR    *renderer.FieldRenderer
	roadR     *renderer.RoadRenderer
	particles *renderer.ParticleSystem
	vehicles  *traffic.System

	output *telemetry.OutputManager

	rng       *rand.Rand
	seed      int64
	generated bool
	genMillis float64
}

// New creates a game from the loaded configuration.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()

	viewport := geom.NewBox(
		geom.V(0, 0),
		geom.V(float64(cfg.Screen.Width), float64(cfg.Screen.Height)),
	)

	tf := field.NewWithSeed(opts.Seed)

	var integrator field.Integrator = field.NewRK4(tf)
	if cfg.Noise.Enabled {
		integrator = field.NewNoisyRK4(tf, cfg.Noise.Size, cfg.Noise.Strength)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	gen := generate.New(integrator, cfg.GeneratorParams(), viewport, rng)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:         cfg,
		tensorField: tf,
		gen:         gen,
		rng:         rng,
		seed:        opts.Seed,
		output:      output,
	}

	speeds := map[roads.RoadType]float64{
		roads.Main:       cfg.VehicleSpeed(roads.Main),
		roads.HighStreet: cfg.VehicleSpeed(roads.HighStreet),
		roads.SideStreet: cfg.VehicleSpeed(roads.SideStreet),
	}
	if cfg.Traffic.Enabled {
		g.vehicles = traffic.NewSystem(gen, cfg.Traffic.Vehicles, speeds, opts.Seed)
	}

	if !opts.Headless {
		g.cam = camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height), viewport)
		g.panel = ui.NewPanel(12, 12, 220, cfg.Editor.BrushSize, cfg.Editor.BrushDecay)
		g.hud = ui.NewHUD(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
		g.fieldR = renderer.NewFieldRenderer(cfg.Editor.HatchSpacing)
		g.roadR = renderer.NewRoadRenderer()
		if cfg.Particles.Enabled {
			g.particles = renderer.NewParticleSystem(integrator, viewport, cfg.Particles.TargetCount)
		}
	}

	return g, nil
}

// SeedDefaultScene places a starter field so generation has something
// to follow before the user has painted anything.
func (g *Game) SeedDefaultScene() {
	vp := g.gen.Viewport()
	mid := vp.Mid()

	g.tensorField.AddBasisField(field.NewGrid(mid, 0, 0, 0))
	g.tensorField.AddBasisField(field.NewRadial(mid, vp.Width()/3, 2))
}

// Regenerate runs a full generation pass and refreshes every consumer.
func (g *Game) Regenerate() {
	start := time.Now()
	g.gen.Generate()
	g.genMillis = float64(time.Since(start).Microseconds()) / 1000
	g.generated = true

	if g.vehicles != nil {
		g.vehicles.Respawn()
	}

	slog.Info("generated road network",
		"streamlines", g.gen.StreamlineCount(),
		"nodes", g.gen.NodeCount(),
		"millis", g.genMillis,
	)
}

// WriteOutput exports telemetry CSVs and the config snapshot. A no-op
// when no output directory was configured.
func (g *Game) WriteOutput() error {
	if g.output == nil || !g.cfg.Telemetry.Enabled {
		return nil
	}

	records, stats := telemetry.Collect(g.gen, g.genMillis)
	if err := g.output.WriteStreamlines(records); err != nil {
		return err
	}
	if err := g.output.WriteSummary(stats); err != nil {
		return err
	}
	return g.output.WriteConfig(g.cfg)
}

// UpdateHeadless runs one generation pass without any rendering.
func (g *Game) UpdateHeadless() {
	g.Regenerate()
}

// Update advances input and simulation for one frame.
func (g *Game) Update() {
	g.handleInput()

	if g.panel.Mode == ui.ModeFieldEditor && g.particles != nil {
		g.particles.Update()
	}
	if g.panel.Mode == ui.ModeMap && g.vehicles != nil {
		g.vehicles.Update(float64(rl.GetFrameTime()))
	}
}

func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyTab) {
		g.toggleMode()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.Regenerate()
		g.panel.Mode = ui.ModeMap
	}
	if rl.IsKeyPressed(rl.KeyC) && g.panel.Mode == ui.ModeFieldEditor {
		g.clearField()
	}

	mouse := rl.GetMousePosition()
	overPanel := rl.CheckCollisionPointRec(mouse, g.panel.Bounds())

	// Wheel zoom anchored at the cursor.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		g.cam.ZoomAt(geom.V(float64(mouse.X), float64(mouse.Y)), math.Pow(1.1, float64(wheel)))
	}

	// Right-drag pan.
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		g.cam.Pan(float64(delta.X), float64(delta.Y))
	}

	// Brush placement.
	if g.panel.Mode == ui.ModeFieldEditor && !overPanel && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		world := g.cam.ScreenToWorld(geom.V(float64(mouse.X), float64(mouse.Y)))
		g.placeBrush(world)
	}
}

func (g *Game) placeBrush(world geom.Vec) {
	size := float64(g.panel.BrushSize)
	decay := float64(g.panel.BrushDecay)

	switch g.panel.Tool {
	case ui.RadialBrush:
		g.tensorField.AddBasisField(field.NewRadial(world, size, decay))
	default:
		g.tensorField.AddBasisField(field.NewGrid(world, size, decay, float64(g.panel.BrushTheta)))
	}

	slog.Debug("placed basis field",
		"tool", int(g.panel.Tool),
		"x", world.X, "y", world.Y,
		"size", size, "decay", decay,
	)
}

func (g *Game) clearField() {
	g.tensorField.Clear()
	g.gen.Clear()
	if g.vehicles != nil {
		g.vehicles.Clear()
	}
	g.generated = false
}

func (g *Game) toggleMode() {
	if g.panel.Mode == ui.ModeFieldEditor {
		if !g.generated {
			g.Regenerate()
		}
		g.panel.Mode = ui.ModeMap
	} else {
		g.panel.Mode = ui.ModeFieldEditor
	}
}

// Draw renders one frame. The immediate-mode panel is drawn last and
// its actions are applied in the same frame.
func (g *Game) Draw() {
	rl.BeginDrawing()

	if g.panel.Mode == ui.ModeFieldEditor {
		rl.ClearBackground(backgroundColor)
		if g.particles != nil {
			g.particles.Draw(g.cam)
		}
		g.fieldR.Draw(g.tensorField, g.cam)
		g.fieldR.DrawCentres(g.tensorField, g.cam)
	} else {
		rl.ClearBackground(mapBackground)
		g.roadR.Draw(g.gen, g.cam)
		if g.vehicles != nil {
			g.vehicles.Draw(g.cam)
		}
	}

	vehicles := 0
	if g.vehicles != nil {
		vehicles = g.vehicles.VehicleCount()
	}
	g.hud.Draw(ui.HUDInfo{
		Mode:        g.panel.Mode,
		BasisFields: g.tensorField.Len(),
		Nodes:       g.gen.NodeCount(),
		Streamlines: g.gen.StreamlineCount(),
		Vehicles:    vehicles,
		Zoom:        g.cam.Zoom,
		FPS:         int32(rl.GetFPS()),
	})

	actions := g.panel.Draw()

	rl.EndDrawing()

	if actions.Generate {
		g.Regenerate()
		g.panel.Mode = ui.ModeMap
	}
	if actions.ClearField {
		g.clearField()
	}
	if actions.ToggleMode {
		g.toggleMode()
	}
}

// Generator exposes the generator for telemetry collection.
func (g *Game) Generator() *generate.Generator {
	return g.gen
}

// GenMillis returns the last generation pass duration.
func (g *Game) GenMillis() float64 {
	return g.genMillis
}

// Unload releases resources. Nothing allocated outside the Go heap yet;
// kept for symmetry with the window lifecycle.
func (g *Game) Unload() {}
