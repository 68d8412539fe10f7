package render

import (
	"testing"

	"seehuhn.de/go/geom/vec"
)

func seg(x0, y0, x1, y1, depth float64, style Style) Segment {
	return Segment{
		A:     Point2{Vec2: vec.Vec2{X: x0, Y: y0}},
		B:     Point2{Vec2: vec.Vec2{X: x1, Y: y1}},
		Depth: depth,
		Style: style,
	}
}

func TestRasterizeHorizontalLineWritesHorizontalGlyph(t *testing.T) {
	r := NewRasterizer(10, 5)
	f := Frame{Segments: []Segment{seg(1, 2, 8, 2, 0, StyleWireframe)}}
	buf := r.Render(f)

	cell := buf.at(4, 2)
	if cell.Glyph != '─' {
		t.Fatalf("glyph = %q, want '─'", cell.Glyph)
	}
}

func TestRasterizeDepthTestLaterDrawWinsOnTie(t *testing.T) {
	r := NewRasterizer(10, 5)
	f := Frame{Segments: []Segment{
		seg(0, 2, 9, 2, 0, StyleWireframe),
		seg(2, 0, 2, 4, 0, StyleWireframe),
	}}
	buf := r.Render(f)

	cell := buf.at(2, 2)
	if cell.Glyph != '│' {
		t.Fatalf("tie-break glyph = %q, want '│' (later draw wins)", cell.Glyph)
	}
}

func TestRasterizeDepthTestCloserWins(t *testing.T) {
	r := NewRasterizer(10, 5)
	f := Frame{Segments: []Segment{
		seg(0, 2, 9, 2, 5, StyleWireframe), // closer (higher depth), listed first
		seg(2, 0, 2, 4, 1, StyleWireframe), // farther (lower depth), listed second
	}}
	buf := r.Render(f)

	// Render sorts ascending by depth, so depth=1 draws before depth=5;
	// the higher-depth horizontal line should win the overlap.
	cell := buf.at(2, 2)
	if cell.Glyph != '─' {
		t.Fatalf("glyph = %q, want '─' (higher depth wins)", cell.Glyph)
	}
}

func TestRasterizeOutOfBoundsIsClipped(t *testing.T) {
	r := NewRasterizer(5, 5)
	f := Frame{Segments: []Segment{seg(-10, -10, -5, -5, 0, StyleWireframe)}}
	buf := r.Render(f) // must not panic
	for _, c := range buf.Cells {
		if c.Glyph != ' ' {
			t.Fatalf("expected empty buffer, found glyph %q", c.Glyph)
		}
	}
}

func TestRasterizeResetReusesCapacity(t *testing.T) {
	r := NewRasterizer(10, 10)
	oldCap := cap(r.buf.Cells)
	r.Reset(5, 5)
	if cap(r.buf.Cells) != oldCap {
		t.Fatalf("Reset to smaller size should reuse capacity: cap = %d, want %d", cap(r.buf.Cells), oldCap)
	}
	if len(r.buf.Cells) != 25 {
		t.Fatalf("Cells len = %d, want 25", len(r.buf.Cells))
	}
}
