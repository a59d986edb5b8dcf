package common

import (
	"image/color"
)

// ScoreColors maps an adjacency score to the colour of its digit.
var ScoreColors = map[int]color.Color{
	1: color.RGBA{0, 0, 255, 255},     // Blue
	2: color.RGBA{0, 128, 0, 255},     // Green
	3: color.RGBA{255, 0, 0, 255},     // Red
	4: color.RGBA{0, 0, 128, 255},     // Navy
	5: color.RGBA{128, 0, 0, 255},     // Maroon
	6: color.RGBA{0, 128, 128, 255},   // Teal
	7: color.RGBA{0, 0, 0, 255},       // Black
	8: color.RGBA{128, 128, 128, 255}, // Gray
}

// GetScoreColor returns the digit colour for a score, black for anything
// outside 1..8.
func GetScoreColor(score int) color.Color {
	if c, ok := ScoreColors[score]; ok {
		return c
	}
	return color.Black
}

// RGBToColor converts a configured [r,g,b] triple to an opaque colour.
func RGBToColor(rgb [3]int) color.RGBA {
	return color.RGBA{
		R: uint8(Clamp(rgb[0], 0, 255)),
		G: uint8(Clamp(rgb[1], 0, 255)),
		B: uint8(Clamp(rgb[2], 0, 255)),
		A: 255,
	}
}
