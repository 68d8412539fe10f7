package render

import "testing"

func TestSurfaceGlyphBandBoundaries(t *testing.T) {
	cases := []struct {
		zValue    float64
		wantGlyph rune
		wantColor Color
	}{
		{-1, '·', ColorGray},     // z' = 0.00
		{-0.8, '∙', ColorBlue},   // z' = 0.10
		{0, '▒', ColorYellow},    // z' = 0.50
		{1, '▀', ColorWhite},     // z' = 1.00
	}
	for _, c := range cases {
		glyph, color := surfaceGlyph(c.zValue)
		if glyph != c.wantGlyph || color != c.wantColor {
			t.Errorf("surfaceGlyph(%v) = (%q,%v), want (%q,%v)", c.zValue, glyph, color, c.wantGlyph, c.wantColor)
		}
	}
}

func TestLineGlyphOrientation(t *testing.T) {
	cases := []struct {
		x0, y0, x1, y1 float64
		want           rune
	}{
		{0, 0, 10, 0, '─'},
		{0, 0, 0, 10, '│'},
		{0, 0, 10, 10, '╲'},
		{0, 10, 10, 0, '╱'},
	}
	for _, c := range cases {
		got := lineGlyph(c.x0, c.y0, c.x1, c.y1, false)
		if got != c.want {
			t.Errorf("lineGlyph(%v,%v,%v,%v) = %q, want %q", c.x0, c.y0, c.x1, c.y1, got, c.want)
		}
	}
}

func TestLineGlyphBoldVariant(t *testing.T) {
	got := lineGlyph(0, 0, 10, 0, true)
	if got != '━' {
		t.Fatalf("bold horizontal glyph = %q, want '━'", got)
	}
}
