package render

import (
	"math"
	"sort"

	"seehuhn.de/go/geom/rect"
)

// Cell is one position in a RasterBuffer: the glyph and color tag
// currently painted there, and the depth that won the paint.
type Cell struct {
	Glyph rune
	Color Color
	Depth float64
}

// unpaintedDepth is the sentinel depth for a Cell nothing has drawn to
// yet; any real depth test beats it.
const unpaintedDepth = math.Inf(-1)

// labelDepth is the depth labels are painted at — always greater than
// any line depth, so labels sit on top regardless of draw order.
const labelDepth = math.Inf(1)

// RasterBuffer is a width x height grid of Cells produced by
// Rasterizer.Render.
type RasterBuffer struct {
	Width, Height int
	Cells         []Cell // row-major, length Width*Height
}

func (b *RasterBuffer) at(x, y int) *Cell {
	return &b.Cells[y*b.Width+x]
}

// Rasterizer converts a Frame into a RasterBuffer via depth-tested
// Bresenham line drawing. The caller creates one instance and reuses
// it across frames; the Cells buffer is only reallocated when the
// requested size grows.
type Rasterizer struct {
	Bounds rect.Rect // device-space clip, in buffer cells
	buf    RasterBuffer

	order []int // scratch: segment indices sorted by ascending depth
}

// NewRasterizer returns a Rasterizer sized for width x height cells.
func NewRasterizer(width, height int) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(width, height)
	return r
}

// Reset resizes the Rasterizer to width x height, reusing the
// underlying Cells slice when it is already large enough.
func (r *Rasterizer) Reset(width, height int) {
	r.Bounds = rect.Rect{LLx: 0, LLy: 0, URx: float64(width), URy: float64(height)}
	size := width * height
	if cap(r.buf.Cells) < size {
		r.buf.Cells = make([]Cell, size)
	} else {
		r.buf.Cells = r.buf.Cells[:size]
	}
	r.buf.Width, r.buf.Height = width, height
}

// Render rasterizes f (already scaled into this Rasterizer's
// dimensions by ScaleToBuffer) and returns the resulting buffer. The
// returned RasterBuffer aliases the Rasterizer's internal storage and
// is only valid until the next call to Render or Reset.
func (r *Rasterizer) Render(f Frame) *RasterBuffer {
	for i := range r.buf.Cells {
		r.buf.Cells[i] = Cell{Glyph: ' ', Color: ColorDefault, Depth: unpaintedDepth}
	}

	r.order = r.order[:0]
	for i := range f.Segments {
		r.order = append(r.order, i)
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		return f.Segments[r.order[i]].Depth < f.Segments[r.order[j]].Depth
	})

	for _, idx := range r.order {
		r.drawSegment(&f.Segments[idx])
	}
	for _, lbl := range f.Labels {
		r.drawLabel(lbl)
	}

	return &r.buf
}

func (r *Rasterizer) drawSegment(seg *Segment) {
	glyph, color := segmentGlyphColor(seg)
	r.bresenham(seg.A.X, seg.A.Y, seg.B.X, seg.B.Y, func(x, y int) {
		r.paint(x, y, glyph, color, seg.Depth)
	})
}

func segmentGlyphColor(seg *Segment) (rune, Color) {
	if seg.Style == StyleSurface {
		return surfaceGlyph(seg.ZValue)
	}
	bold := seg.Style == StyleAxis
	return lineGlyph(seg.A.X, seg.A.Y, seg.B.X, seg.B.Y, bold), styleColor(seg.Style)
}

func (r *Rasterizer) drawLabel(lbl Label) {
	x0 := int(math.Round(lbl.Pos.X))
	y := int(math.Round(lbl.Pos.Y))
	for i, ch := range lbl.Text {
		r.paint(x0+i, y, ch, ColorWhite, labelDepth)
	}
}

// paint writes (glyph, color) at (x,y) if it passes the clip bounds
// and the depth test: a new draw wins when its depth is >= the
// existing cell's depth, so equal-depth later draws overwrite earlier
// ones, matching painter's-algorithm tie-breaking.
func (r *Rasterizer) paint(x, y int, glyph rune, color Color, depth float64) {
	if float64(x) < r.Bounds.LLx || float64(x) >= r.Bounds.URx ||
		float64(y) < r.Bounds.LLy || float64(y) >= r.Bounds.URy {
		return
	}
	cell := r.buf.at(x, y)
	if depth >= cell.Depth {
		*cell = Cell{Glyph: glyph, Color: color, Depth: depth}
	}
}

// bresenham steps the integer Bresenham line algorithm from (x0,y0) to
// (x1,y1) and calls plot for every pixel visited, including both
// endpoints.
func (r *Rasterizer) bresenham(x0f, y0f, x1f, y1f float64, plot func(x, y int)) {
	x0, y0 := int(math.Round(x0f)), int(math.Round(y0f))
	x1, y1 := int(math.Round(x1f)), int(math.Round(y1f))

	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		plot(x, y)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
