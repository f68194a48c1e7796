package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Mode selects what the main view shows.
type Mode int

const (
	// ModeFieldEditor shows the tensor field and accepts brush input.
	ModeFieldEditor Mode = iota
	// ModeMap shows the generated road network.
	ModeMap
)

// Tool is the active field editor brush.
type Tool int

const (
	GridBrush Tool = iota
	RadialBrush
)

// Actions reports what the user clicked this frame.
type Actions struct {
	Generate   bool
	ClearField bool
	ToggleMode bool
}

// Panel is the left-hand editor panel: brush selection, brush
// parameters, and generation controls.
type Panel struct {
	renderer *Renderer
	x, y     int32
	width    int32

	Mode Mode
	Tool Tool

	BrushSize  float32
	BrushDecay float32
	BrushTheta float32
}

// NewPanel creates the editor panel with brush defaults.
func NewPanel(x, y, width int32, brushSize, brushDecay float64) *Panel {
	return &Panel{
		renderer:   NewRenderer(),
		x:          x,
		y:          y,
		width:      width,
		BrushSize:  float32(brushSize),
		BrushDecay: float32(brushDecay),
	}
}

// Bounds returns the panel rectangle for input hit-testing.
func (p *Panel) Bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: 320}
}

// Draw renders the panel and returns the frame's actions.
func (p *Panel) Draw() Actions {
	var actions Actions

	r := p.renderer
	pad := r.Theme.Padding
	p.renderer.DrawPanel(p.x, p.y, p.width, 320)

	x := p.x + pad
	y := p.y + pad
	innerW := float32(p.width - 2*pad)

	y = r.DrawSectionHeader(x, y, "Field editor")

	// Brush choice.
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: innerW/2 - 4, Height: 24}, buttonLabel("Grid", p.Tool == GridBrush)) {
		p.Tool = GridBrush
	}
	if gui.Button(rl.Rectangle{X: float32(x) + innerW/2 + 4, Y: float32(y), Width: innerW/2 - 4, Height: 24}, buttonLabel("Radial", p.Tool == RadialBrush)) {
		p.Tool = RadialBrush
	}
	y += 34

	r.DrawLabel(x, y, fmt.Sprintf("Brush size: %.0f", p.BrushSize))
	y += r.Theme.LineHeight
	p.BrushSize = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: innerW, Height: 16},
		"", "",
		p.BrushSize, 0, 1200,
	)
	y += 26

	r.DrawLabel(x, y, fmt.Sprintf("Decay: %.1f", p.BrushDecay))
	y += r.Theme.LineHeight
	p.BrushDecay = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: innerW, Height: 16},
		"", "",
		p.BrushDecay, 0, 20,
	)
	y += 26

	if p.Tool == GridBrush {
		r.DrawLabel(x, y, fmt.Sprintf("Angle: %.2f rad", p.BrushTheta))
		y += r.Theme.LineHeight
		p.BrushTheta = gui.SliderBar(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: innerW, Height: 16},
			"", "",
			p.BrushTheta, 0, 3.1415,
		)
		y += 26
	} else {
		y += r.Theme.LineHeight + 26
	}

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: innerW, Height: 28}, "Generate map") {
		actions.Generate = true
	}
	y += 36

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: innerW/2 - 4, Height: 24}, "Clear field") {
		actions.ClearField = true
	}
	label := "View map"
	if p.Mode == ModeMap {
		label = "Edit field"
	}
	if gui.Button(rl.Rectangle{X: float32(x) + innerW/2 + 4, Y: float32(y), Width: innerW/2 - 4, Height: 24}, label) {
		actions.ToggleMode = true
	}

	return actions
}

func buttonLabel(name string, active bool) string {
	if active {
		return "> " + name
	}
	return name
}
