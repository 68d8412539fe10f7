// Package surface implements the regular-grid volatility surface and its
// slope field: the model that packages analytics and render both consume.
package surface

import (
	"math"
	"time"

	"github.com/marigraph/marigraph/internal/grid"
)

// AxisMeta carries a human label and the cached [min,max] domain for one
// axis of a Surface.
type AxisMeta struct {
	Label string
	Min   float64
	Max   float64
}

// Meta is the non-numeric metadata attached to a Surface.
type Meta struct {
	XLabel    string
	YLabel    string
	ZLabel    string
	X         AxisMeta
	Y         AxisMeta
	Z         AxisMeta
	CreatedAt time.Time
}

// Surface is a regular, rectilinear sampling of z = f(x,y). X and Y are
// strictly increasing. Z is row-major: z[xi,yi] lives at index
// xi*Ny + yi. A Surface is owned exclusively by its producer until
// serialized (see package ipc); a receiver always allocates a fresh one.
type Surface struct {
	Nx, Ny int
	X, Y   grid.Vec
	Z      grid.Vec
	Meta   Meta
}

// New builds a Surface from axis vectors and row-major z values,
// computing the cached domain metadata. x must have length nx, y must
// have length ny, and z must have length nx*ny.
func New(x, y, z grid.Vec, xLabel, yLabel, zLabel string) *Surface {
	nx, ny := len(x), len(y)
	if len(z) != nx*ny {
		panic("surface: len(z) != nx*ny")
	}
	s := &Surface{
		Nx: nx, Ny: ny,
		X: x.Copy(), Y: y.Copy(), Z: z.Copy(),
		Meta: Meta{XLabel: xLabel, YLabel: yLabel, ZLabel: zLabel},
	}
	s.Meta.CreatedAt = time.Now()
	s.RecomputeDomains()
	return s
}

// At returns z[xi,yi].
func (s *Surface) At(xi, yi int) float64 {
	return s.Z[xi*s.Ny+yi]
}

// Set writes z[xi,yi]. Callers that mutate a Surface in place must call
// RecomputeDomains afterwards — domains are not kept live automatically,
// per the Surface invariant in the data model (§3): a mutator either
// recomputes the cached domain or the surface carries a stale one. Set
// itself does not recompute; the higher-level mutators in this module
// (ipc.ApplySurfaceDelta, analytics.EnforceArbitrageFree) call
// RecomputeDomains after their writes.
func (s *Surface) Set(xi, yi int, v float64) {
	s.Z[xi*s.Ny+yi] = v
}

// RecomputeDomains resets Meta's cached [min,max] for x, y and z from
// the current contents of the Surface.
func (s *Surface) RecomputeDomains() {
	xmin, xmax := grid.MinMax(s.X)
	ymin, ymax := grid.MinMax(s.Y)
	zmin, zmax := grid.MinMax(s.Z)
	s.Meta.X = AxisMeta{Label: s.Meta.XLabel, Min: xmin, Max: xmax}
	s.Meta.Y = AxisMeta{Label: s.Meta.YLabel, Min: ymin, Max: ymax}
	s.Meta.Z = AxisMeta{Label: s.Meta.ZLabel, Min: zmin, Max: zmax}
}

// Clone returns a deep copy of s.
func (s *Surface) Clone() *Surface {
	c := &Surface{
		Nx: s.Nx, Ny: s.Ny,
		X: s.X.Copy(), Y: s.Y.Copy(), Z: s.Z.Copy(),
		Meta: s.Meta,
	}
	return c
}

// SlopeField is the gradient of a Surface: dz/dx, dz/dy, and their polar
// form (magnitude, angle), one value per surface cell.
type SlopeField struct {
	Nx, Ny     int
	DzDx, DzDy grid.Vec
	Magnitude  grid.Vec
	Angle      grid.Vec
}

// ComputeSlope derives a SlopeField from s using central differences at
// interior points and one-sided (forward/backward) first-order
// differences at the boundaries, each divided by the adjacent — possibly
// non-uniform — axis spacing.
func ComputeSlope(s *Surface) *SlopeField {
	n := s.Nx * s.Ny
	f := &SlopeField{
		Nx: s.Nx, Ny: s.Ny,
		DzDx:      grid.NewVec(n),
		DzDy:      grid.NewVec(n),
		Magnitude: grid.NewVec(n),
		Angle:     grid.NewVec(n),
	}
	for xi := 0; xi < s.Nx; xi++ {
		for yi := 0; yi < s.Ny; yi++ {
			idx := xi*s.Ny + yi
			dzdx := partialX(s, xi, yi)
			dzdy := partialY(s, xi, yi)
			f.DzDx[idx] = dzdx
			f.DzDy[idx] = dzdy
			f.Magnitude[idx] = math.Hypot(dzdx, dzdy)
			f.Angle[idx] = math.Atan2(dzdy, dzdx)
		}
	}
	return f
}

// partialX computes dz/dx at cell (xi,yi).
func partialX(s *Surface, xi, yi int) float64 {
	switch {
	case s.Nx == 1:
		return 0
	case xi == 0:
		return (s.At(1, yi) - s.At(0, yi)) / (s.X[1] - s.X[0])
	case xi == s.Nx-1:
		return (s.At(xi, yi) - s.At(xi-1, yi)) / (s.X[xi] - s.X[xi-1])
	default:
		return (s.At(xi+1, yi) - s.At(xi-1, yi)) / (s.X[xi+1] - s.X[xi-1])
	}
}

// partialY computes dz/dy at cell (xi,yi).
func partialY(s *Surface, xi, yi int) float64 {
	switch {
	case s.Ny == 1:
		return 0
	case yi == 0:
		return (s.At(xi, 1) - s.At(xi, 0)) / (s.Y[1] - s.Y[0])
	case yi == s.Ny-1:
		return (s.At(xi, yi) - s.At(xi, yi-1)) / (s.Y[yi] - s.Y[yi-1])
	default:
		return (s.At(xi, yi+1) - s.At(xi, yi-1)) / (s.Y[yi+1] - s.Y[yi-1])
	}
}
