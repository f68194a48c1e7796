package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDInfo is the per-frame data the HUD shows.
type HUDInfo struct {
	Mode        Mode
	BasisFields int
	Nodes       int
	Streamlines int
	Vehicles    int
	Zoom        float64
	FPS         int32
}

// HUD draws the status strip along the bottom of the screen.
type HUD struct {
	renderer *Renderer
	width    int32
	height   int32
}

// NewHUD creates a HUD for the given screen size.
func NewHUD(screenW, screenH int32) *HUD {
	return &HUD{renderer: NewRenderer(), width: screenW, height: screenH}
}

// Draw renders the status strip.
func (h *HUD) Draw(info HUDInfo) {
	r := h.renderer
	barH := int32(26)
	y := h.height - barH

	rl.DrawRectangle(0, y, h.width, barH, r.Theme.PanelBg)
	rl.DrawLine(0, y, h.width, y, r.Theme.PanelBorder)

	mode := "field editor"
	hint := "click to place basis fields | wheel zoom | right-drag pan"
	if info.Mode == ModeMap {
		mode = "map"
		hint = "wheel zoom | right-drag pan | G regenerate"
	}

	text := fmt.Sprintf(
		"%s | bases %d | nodes %d | streets %d | vehicles %d | zoom %.2f | %d fps",
		mode, info.BasisFields, info.Nodes, info.Streamlines, info.Vehicles, info.Zoom, info.FPS,
	)
	rl.DrawText(text, 8, y+6, r.Theme.FontSize, r.Theme.ValueColor)
	rl.DrawText(hint, h.width-int32(rl.MeasureText(hint, r.Theme.FontSize))-8, y+6, r.Theme.FontSize, r.Theme.LabelColor)
}
