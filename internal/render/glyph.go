package render

import "math"

// Color is a symbolic color tag for a display layer to map onto its own
// palette; WriteSnapshot (snapshot.go) maps each tag to an RGB color.
type Color int

const (
	ColorDefault Color = iota
	ColorGray
	ColorBlue
	ColorCyan
	ColorGreen
	ColorYellow
	ColorMagenta
	ColorRed
	ColorWhite
)

// heightBand is one row of the surface-height glyph/color lookup
// table: cells with normalized height z' in [Lo,Hi) render with Glyph
// in Color.
type heightBand struct {
	Lo, Hi float64
	Glyph  rune
	Color  Color
}

// heightTable maps normalized surface height z' = (zValue+1)/2 to a
// glyph and color.
var heightTable = []heightBand{
	{0.00, 0.08, '·', ColorGray},
	{0.08, 0.20, '∙', ColorBlue},
	{0.20, 0.35, ':', ColorCyan},
	{0.35, 0.50, '░', ColorGreen},
	{0.50, 0.65, '▒', ColorYellow},
	{0.65, 0.80, '▓', ColorMagenta},
	{0.80, 0.95, '█', ColorRed},
	{0.95, 1.01, '▀', ColorWhite}, // upper bound inclusive of 1.00
}

// surfaceGlyph looks up the glyph and color for a normalized zValue in
// [-1,1] via heightTable.
func surfaceGlyph(zValue float64) (rune, Color) {
	zp := (zValue + 1) / 2
	for _, band := range heightTable {
		if zp >= band.Lo && zp < band.Hi {
			return band.Glyph, band.Color
		}
	}
	if zp < 0 {
		return heightTable[0].Glyph, heightTable[0].Color
	}
	last := heightTable[len(heightTable)-1]
	return last.Glyph, last.Color
}

// styleColor returns the fixed color for non-surface styles; surface
// segments instead take their color from heightTable.
func styleColor(style Style) Color {
	switch style {
	case StyleAxis:
		return ColorWhite
	case StyleGrid:
		return ColorGray
	default: // StyleWireframe
		return ColorGray
	}
}

// lineGlyph chooses a glyph by the angle of the segment from (x0,y0)
// to (x1,y1): near-horizontal, near-vertical, or one of the two
// diagonal directions. bold selects the heavier variant, which the
// rasterizer uses for the axis style only.
func lineGlyph(x0, y0, x1, y1 float64, bold bool) rune {
	dx, dy := x1-x0, y1-y0
	if dx == 0 && dy == 0 {
		return '·'
	}
	angle := math.Abs(math.Atan2(dy, dx))
	const (
		nearHorizontal = math.Pi / 8
		nearVertical   = math.Pi/2 - math.Pi/8
	)
	switch {
	case angle < nearHorizontal || angle > math.Pi-nearHorizontal:
		if bold {
			return '━'
		}
		return '─'
	case angle > nearVertical && angle < math.Pi-nearVertical:
		if bold {
			return '┃'
		}
		return '│'
	default:
		// diagonal: choose by the sign of dx*dy (screen Y grows downward)
		if dx*dy > 0 {
			return '╲'
		}
		return '╱'
	}
}
