// Package camera provides a 2D camera for viewport control over the
// generation area.
package camera

import "github.com/papaveez/metropolis-gen/geom"

// Camera controls the visible window into the world. Supports pan and
// zoom; the view is clamped so it never leaves the world bounds.
type Camera struct {
	// Position is the camera center in world coordinates.
	X, Y float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification).
	Zoom float64

	// Viewport dimensions (screen size).
	ViewportW, ViewportH float64

	// World bounds.
	World geom.Box

	MinZoom, MaxZoom float64
}

// New creates a camera centered on the world at 1:1 zoom.
func New(viewportW, viewportH float64, world geom.Box) *Camera {
	// The viewport must never exceed the world, so the minimum zoom is
	// bounded by both axes.
	minZoom := viewportW / world.Width()
	if z := viewportH / world.Height(); z > minZoom {
		minZoom = z
	}

	mid := world.Mid()
	return &Camera{
		X:         mid.X,
		Y:         mid.Y,
		Zoom:      1,
		ViewportW: viewportW,
		ViewportH: viewportH,
		World:     world,
		MinZoom:   minZoom,
		MaxZoom:   8,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(w geom.Vec) geom.Vec {
	return geom.Vec{
		X: c.ViewportW/2 + (w.X-c.X)*c.Zoom,
		Y: c.ViewportH/2 + (w.Y-c.Y)*c.Zoom,
	}
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(s geom.Vec) geom.Vec {
	return geom.Vec{
		X: c.X + (s.X-c.ViewportW/2)/c.Zoom,
		Y: c.Y + (s.Y-c.ViewportH/2)/c.Zoom,
	}
}

// Visible returns the world-space box currently on screen.
func (c *Camera) Visible() geom.Box {
	half := geom.Vec{X: c.ViewportW / 2 / c.Zoom, Y: c.ViewportH / 2 / c.Zoom}
	return geom.NewBox(geom.Vec{X: c.X, Y: c.Y}.Sub(half), geom.Vec{X: c.X, Y: c.Y}.Add(half))
}

// Pan moves the camera by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
	c.clamp()
}

// ZoomAt zooms by factor keeping the world point under the given screen
// position fixed.
func (c *Camera) ZoomAt(screen geom.Vec, factor float64) {
	anchor := c.ScreenToWorld(screen)

	c.Zoom *= factor
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}

	// Re-anchor: keep the same world point under the cursor.
	after := c.ScreenToWorld(screen)
	c.X += anchor.X - after.X
	c.Y += anchor.Y - after.Y
	c.clamp()
}

// clamp keeps the visible area inside the world bounds.
func (c *Camera) clamp() {
	halfW := c.ViewportW / 2 / c.Zoom
	halfH := c.ViewportH / 2 / c.Zoom

	if c.X < c.World.Min.X+halfW {
		c.X = c.World.Min.X + halfW
	}
	if c.X > c.World.Max.X-halfW {
		c.X = c.World.Max.X - halfW
	}
	if c.Y < c.World.Min.Y+halfH {
		c.Y = c.World.Min.Y + halfH
	}
	if c.Y > c.World.Max.Y-halfH {
		c.Y = c.World.Max.Y - halfH
	}
}
