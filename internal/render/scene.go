package render

import (
	"math"

	"github.com/marigraph/marigraph/internal/surface"
)

// Style distinguishes the four line families a RenderFrame carries.
// Non-surface styles get a fixed color and a glyph chosen by the
// segment's angle; StyleSurface segments take glyph and color from
// ZValue (see glyph.go).
type Style int

const (
	StyleWireframe Style = iota
	StyleAxis
	StyleGrid
	StyleSurface
)

// Segment is one depth-tagged 2D line in a RenderFrame, already
// projected to screen space.
type Segment struct {
	A, B   Point2
	Depth  float64 // mean of A.Depth and B.Depth
	Style  Style
	ZValue float64 // normalized [-1,1]; meaningful only for StyleSurface
	Light  float64 // [0,1] lighting factor, 1 = fully lit; set only for StyleSurface and not read by Rasterizer
}

// Label is a depth-tagged piece of text painted after all lines.
type Label struct {
	Pos  Point2
	Text string
}

// Frame is an ordered set of line segments and labels built from one
// Surface under one Projection.
type Frame struct {
	Segments []Segment
	Labels   []Label
}

// bottomGridDivisions is the default division count for BuildFrame's
// bottom grid.
const bottomGridDivisions = 8

// lightDir is the fixed light direction used for surface-mesh shading,
// per the renderer's contract: a single light at (2,-2,3), not
// attached to the camera.
var lightDir = normalize3(Point3{X: 2, Y: -2, Z: 3})

const (
	ambientLight      = 0.15
	specularStrength  = 0.4
	specularShininess = 16.0
)

// BuildFrame converts s into a normalized [-1,1]^3 point grid under
// proj and assembles the wireframe cube, axes, bottom grid, and surface
// mesh into one Frame.
func BuildFrame(s *surface.Surface, proj Projection) Frame {
	pts := normalizedPoints(s)

	var f Frame
	f.Segments = append(f.Segments, wireframeEdges(proj)...)
	axisSegs, axisLabels := axes(proj, s.Meta.XLabel, s.Meta.YLabel, s.Meta.ZLabel)
	f.Segments = append(f.Segments, axisSegs...)
	f.Labels = append(f.Labels, axisLabels...)
	f.Segments = append(f.Segments, bottomGrid(proj, bottomGridDivisions)...)
	f.Segments = append(f.Segments, surfaceMesh(pts, s.Nx, s.Ny, proj)...)
	return f
}

// normalizedPoints maps s's (x,y,z) samples into [-1,1]^3 by per-axis
// min-max scaling.
func normalizedPoints(s *surface.Surface) []Point3 {
	xmin, xmax := s.Meta.X.Min, s.Meta.X.Max
	ymin, ymax := s.Meta.Y.Min, s.Meta.Y.Max
	zmin, zmax := s.Meta.Z.Min, s.Meta.Z.Max

	pts := make([]Point3, s.Nx*s.Ny)
	for xi := 0; xi < s.Nx; xi++ {
		nx := normalizeTo11(s.X[xi], xmin, xmax)
		for yi := 0; yi < s.Ny; yi++ {
			ny := normalizeTo11(s.Y[yi], ymin, ymax)
			nz := normalizeTo11(s.At(xi, yi), zmin, zmax)
			pts[xi*s.Ny+yi] = Point3{X: nx, Y: ny, Z: nz}
		}
	}
	return pts
}

func normalizeTo11(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return 2*(v-lo)/(hi-lo) - 1
}

// cubeCorners returns the 8 corners of [-1,1]^3 in a fixed order used
// both by wireframeEdges and the bottom grid.
func cubeCorners() [8]Point3 {
	var c [8]Point3
	i := 0
	for _, x := range []float64{-1, 1} {
		for _, y := range []float64{-1, 1} {
			for _, z := range []float64{-1, 1} {
				c[i] = Point3{X: x, Y: y, Z: z}
				i++
			}
		}
	}
	return c
}

// cubeEdgeIndices lists the 12 edges of the cube as pairs of indices
// into cubeCorners's output, ordered by the bit pattern (x,y,z) each
// corner's index encodes (index = x*4 + y*2 + z).
var cubeEdgeIndices = [12][2]int{
	{0, 1}, {0, 2}, {0, 4},
	{3, 1}, {3, 2}, {3, 7},
	{5, 1}, {5, 4}, {5, 7},
	{6, 2}, {6, 4}, {6, 7},
}

func wireframeEdges(proj Projection) []Segment {
	corners := cubeCorners()
	segs := make([]Segment, 0, len(cubeEdgeIndices))
	for _, e := range cubeEdgeIndices {
		a := proj.Project(corners[e[0]])
		b := proj.Project(corners[e[1]])
		segs = append(segs, Segment{A: a, B: b, Depth: (a.Depth + b.Depth) / 2, Style: StyleWireframe})
	}
	return segs
}

// axisLabelOvershoot is how far past the axis endpoint (in normalized
// units) a label is placed.
const axisLabelOvershoot = 0.15

// axes builds the three axis line segments from the back-bottom-left
// corner (-1,-1,-1) along +x, +y, +z, each with a label placed slightly
// past its end.
func axes(proj Projection, xLabel, yLabel, zLabel string) ([]Segment, []Label) {
	origin := Point3{X: -1, Y: -1, Z: -1}
	ends := []Point3{
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	labelPos := []Point3{
		{X: 1 + axisLabelOvershoot, Y: -1, Z: -1},
		{X: -1, Y: 1 + axisLabelOvershoot, Z: -1},
		{X: -1, Y: -1, Z: 1 + axisLabelOvershoot},
	}
	names := []string{xLabel, yLabel, zLabel}

	o := proj.Project(origin)
	segs := make([]Segment, 0, 3)
	labels := make([]Label, 0, 3)
	for i, end := range ends {
		e := proj.Project(end)
		segs = append(segs, Segment{A: o, B: e, Depth: (o.Depth + e.Depth) / 2, Style: StyleAxis})
		labels = append(labels, Label{Pos: proj.Project(labelPos[i]), Text: names[i]})
	}
	return segs, labels
}

// bottomGrid builds divisions+1 lines parallel to each of X and Y at
// z=-1.
func bottomGrid(proj Projection, divisions int) []Segment {
	segs := make([]Segment, 0, 2*(divisions+1))
	for i := 0; i <= divisions; i++ {
		t := -1 + 2*float64(i)/float64(divisions)

		a := proj.Project(Point3{X: t, Y: -1, Z: -1})
		b := proj.Project(Point3{X: t, Y: 1, Z: -1})
		segs = append(segs, Segment{A: a, B: b, Depth: (a.Depth + b.Depth) / 2, Style: StyleGrid})

		c := proj.Project(Point3{X: -1, Y: t, Z: -1})
		d := proj.Project(Point3{X: 1, Y: t, Z: -1})
		segs = append(segs, Segment{A: c, B: d, Depth: (c.Depth + d.Depth) / 2, Style: StyleGrid})
	}
	return segs
}

// surfaceMesh builds the horizontal and vertical segments connecting
// adjacent grid points, each tagged with the mean normalized z of its
// endpoints and an optional Lambert+specular lighting factor.
func surfaceMesh(pts []Point3, nx, ny int, proj Projection) []Segment {
	segs := make([]Segment, 0, nx*ny*2)
	at := func(xi, yi int) Point3 { return pts[xi*ny+yi] }

	for xi := 0; xi < nx; xi++ {
		for yi := 0; yi < ny; yi++ {
			p := at(xi, yi)
			if yi+1 < ny {
				q := at(xi, yi+1)
				segs = append(segs, meshSegment(p, q, xi, yi, xi, yi+1, pts, nx, ny, proj))
			}
			if xi+1 < nx {
				q := at(xi+1, yi)
				segs = append(segs, meshSegment(p, q, xi, yi, xi+1, yi, pts, nx, ny, proj))
			}
		}
	}
	return segs
}

func meshSegment(p, q Point3, xi0, yi0, xi1, yi1 int, pts []Point3, nx, ny int, proj Projection) Segment {
	a := proj.Project(p)
	b := proj.Project(q)
	zValue := (p.Z + q.Z) / 2
	light := meshLighting(pts, nx, ny, xi0, yi0, xi1, yi1)
	return Segment{
		A: a, B: b,
		Depth:  (a.Depth + b.Depth) / 2,
		Style:  StyleSurface,
		ZValue: zValue,
		Light:  light,
	}
}

// meshLighting estimates a per-segment Lambert+specular factor from the
// local surface normal, approximated by the central-difference
// cross-product at the segment's shared neighborhood. The result is
// stored in Segment.Light only: it changes neither depth ordering nor
// the glyph/color the rasterizer picks from the height-based table.
func meshLighting(pts []Point3, nx, ny, xi0, yi0, xi1, yi1 int) float64 {
	cx := (xi0 + xi1) / 2
	cy := (yi0 + yi1) / 2
	cx = clampInt(cx, 0, nx-1)
	cy = clampInt(cy, 0, ny-1)

	xNeighborLo, xNeighborHi := clampInt(cx-1, 0, nx-1), clampInt(cx+1, 0, nx-1)
	yNeighborLo, yNeighborHi := clampInt(cy-1, 0, ny-1), clampInt(cy+1, 0, ny-1)

	px := pts[xNeighborHi*ny+cy].sub(pts[xNeighborLo*ny+cy])
	py := pts[cx*ny+yNeighborHi].sub(pts[cx*ny+yNeighborLo])
	n := normalize3(px.cross(py))

	diffuse := math.Max(0, n.dot(lightDir))

	viewDir := normalize3(Point3{X: 0, Y: 1, Z: 0})
	halfway := normalize3(Point3{
		X: lightDir.X + viewDir.X,
		Y: lightDir.Y + viewDir.Y,
		Z: lightDir.Z + viewDir.Z,
	})
	specular := math.Pow(math.Max(0, n.dot(halfway)), specularShininess) * specularStrength

	return clamp(ambientLight+(1-ambientLight)*diffuse+specular, 0, 1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (p Point3) sub(o Point3) Point3 {
	return Point3{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

func (p Point3) cross(o Point3) Point3 {
	return Point3{
		X: p.Y*o.Z - p.Z*o.Y,
		Y: p.Z*o.X - p.X*o.Z,
		Z: p.X*o.Y - p.Y*o.X,
	}
}

func (p Point3) dot(o Point3) float64 {
	return p.X*o.X + p.Y*o.Y + p.Z*o.Z
}

func normalize3(p Point3) Point3 {
	l := math.Sqrt(p.dot(p))
	if l == 0 {
		return p
	}
	return Point3{X: p.X / l, Y: p.Y / l, Z: p.Z / l}
}
