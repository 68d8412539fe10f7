package surface

import "github.com/marigraph/marigraph/internal/grid"

// Method selects an interpolation scheme for Interpolate, SliceAtX,
// SliceAtY and Resample.
type Method int

const (
	Nearest Method = iota
	Bilinear
	Bicubic
)

// Interpolate samples s at (x,y) using method. Queries outside the
// convex hull of the axes are clamped to the nearest boundary cell —
// Interpolate never fails.
func Interpolate(s *Surface, x, y float64, method Method) float64 {
	switch method {
	case Nearest:
		xi := grid.NearestAxisIndex(s.X, x)
		yi := grid.NearestAxisIndex(s.Y, y)
		return s.At(xi, yi)
	case Bicubic:
		return bicubic(s, x, y)
	default:
		return bilinear(s, x, y)
	}
}

// bilinear locates the cell containing (x,y) by binary search on each
// axis and blends the four corners by the normalized offsets tx, ty.
func bilinear(s *Surface, x, y float64) float64 {
	xi := grid.BinarySearchAxis(s.X, x)
	yi := grid.BinarySearchAxis(s.Y, y)
	x0, x1 := s.X[xi], s.X[xi+1]
	y0, y1 := s.Y[yi], s.Y[yi+1]

	tx := 0.0
	if x1 != x0 {
		tx = grid.Clamp((x-x0)/(x1-x0), 0, 1)
	}
	ty := 0.0
	if y1 != y0 {
		ty = grid.Clamp((y-y0)/(y1-y0), 0, 1)
	}

	z00 := s.At(xi, yi)
	z10 := s.At(xi+1, yi)
	z01 := s.At(xi, yi+1)
	z11 := s.At(xi+1, yi+1)

	z0 := z00*(1-tx) + z10*tx
	z1 := z01*(1-tx) + z11*tx
	return z0*(1-ty) + z1*ty
}

// bicubic performs a Catmull-Rom interpolation over the 4x4 neighborhood
// of (x,y). When the query lies within one cell of the boundary, sample
// indices are clamped to the grid rather than extrapolated.
func bicubic(s *Surface, x, y float64) float64 {
	xi := grid.BinarySearchAxis(s.X, x)
	yi := grid.BinarySearchAxis(s.Y, y)
	x0, x1 := s.X[xi], s.X[xi+1]
	y0, y1 := s.Y[yi], s.Y[yi+1]

	tx := 0.0
	if x1 != x0 {
		tx = grid.Clamp((x-x0)/(x1-x0), 0, 1)
	}
	ty := 0.0
	if y1 != y0 {
		ty = grid.Clamp((y-y0)/(y1-y0), 0, 1)
	}

	clampX := func(i int) int { return grid.ClampInt(i, 0, s.Nx-1) }
	clampY := func(i int) int { return grid.ClampInt(i, 0, s.Ny-1) }

	var cols [4]float64
	for c := -1; c <= 2; c++ {
		var p [4]float64
		for r := -1; r <= 2; r++ {
			p[r+1] = s.At(clampX(xi+c), clampY(yi+r))
		}
		cols[c+1] = catmullRom(p[0], p[1], p[2], p[3], ty)
	}
	return catmullRom(cols[0], cols[1], cols[2], cols[3], tx)
}

// catmullRom evaluates the uniform Catmull-Rom spline through
// control points p0..p3 at parameter t in [0,1], where the curve passes
// through p1 at t=0 and p2 at t=1.
func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// SliceAtX returns the y-axis and the interpolated z values along the
// line x=x0.
func SliceAtX(s *Surface, x0 float64, method Method) (y, z grid.Vec) {
	y = s.Y.Copy()
	z = grid.NewVec(s.Ny)
	for i, yv := range y {
		z[i] = Interpolate(s, x0, yv, method)
	}
	return y, z
}

// SliceAtY returns the x-axis and the interpolated z values along the
// line y=y0.
func SliceAtY(s *Surface, y0 float64, method Method) (x, z grid.Vec) {
	x = s.X.Copy()
	z = grid.NewVec(s.Nx)
	for i, xv := range x {
		z[i] = Interpolate(s, xv, y0, method)
	}
	return x, z
}

// Resample returns a fresh, regularly-spaced surface of size
// newNx x newNy spanning src's domain, sampled with method.
func Resample(src *Surface, newNx, newNy int, method Method) *Surface {
	xmin, xmax := grid.MinMax(src.X)
	ymin, ymax := grid.MinMax(src.Y)
	x := grid.Linspace(xmin, xmax, newNx)
	y := grid.Linspace(ymin, ymax, newNy)
	z := grid.NewVec(newNx * newNy)
	for xi, xv := range x {
		for yi, yv := range y {
			z[xi*newNy+yi] = Interpolate(src, xv, yv, method)
		}
	}
	return New(x, y, z, src.Meta.XLabel, src.Meta.YLabel, src.Meta.ZLabel)
}
