// Package ui provides the editor panel and HUD for the road generator.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds the shared UI styling.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	SectionHeader rl.Color
	AccentColor   rl.Color

	FontSize       int32
	HeaderFontSize int32
	LineHeight     int32
	Padding        int32
	LabelWidth     int32
}

// DefaultTheme returns the standard dark panel theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 24, G: 26, B: 32, A: 230},
		PanelBorder:   rl.Color{R: 70, G: 76, B: 90, A: 255},
		LabelColor:    rl.Color{R: 170, G: 176, B: 190, A: 255},
		ValueColor:    rl.White,
		SectionHeader: rl.Color{R: 120, G: 170, B: 255, A: 255},
		AccentColor:   rl.Color{R: 255, G: 190, B: 60, A: 255},

		FontSize:       12,
		HeaderFontSize: 14,
		LineHeight:     20,
		Padding:        10,
		LabelWidth:     110,
	}
}
