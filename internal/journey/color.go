package journey

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	colorHueBase    = 210.0
	colorHueStep    = 137.0
	colorSaturation = 0.68
	colorLightness  = 0.52
)

// SegmentColor derives the hex color for the segment at the given index.
// The hue walks the color wheel in large steps so adjacent legs stay
// visually distinct, and the result depends on the index alone, so the same
// journey always renders with the same colors.
func SegmentColor(index int) string {
	if index < 0 {
		index = 0
	}
	hue := math.Mod(colorHueBase+float64(index)*colorHueStep, 360)
	return colorful.Hsl(hue, colorSaturation, colorLightness).Hex()
}
