// Package render turns a sampled surface into a character grid: 3D
// projection, scene construction (wireframe, axes, bottom grid, surface
// mesh), and a depth-sorted line rasterizer writing into a cell buffer
// of (glyph, color, depth) triples.
package render

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Point3 is a point in either logical surface space or camera space,
// depending on context.
type Point3 struct {
	X, Y, Z float64
}

// Point2 is a projected screen-space point plus the depth it was
// produced at. The screen coordinates are a vec.Vec2 so that scene
// scaling (scale.go) can compose with it through the same library's
// matrix.Matrix affine.
type Point2 struct {
	vec.Vec2
	Depth float64
}

// Projection is the camera state controlling how Point3 values map onto
// the 2D screen plane.
type Projection struct {
	Azimuth     float64 // degrees, [0,360)
	Elevation   float64 // degrees, [-89,89]
	Zoom        float64 // > 0
	CenterX     float64
	CenterY     float64
	AspectRatio float64 // character cell width/height ratio
}

// DefaultAspectRatio is the default character cell width/height ratio
// used when a Projection is built without one.
const DefaultAspectRatio = 0.5

// NewProjection returns a Projection looking at the origin with the
// given center, zoom 1, and the default aspect ratio.
func NewProjection(centerX, centerY float64) Projection {
	return Projection{
		Zoom:        1,
		CenterX:     centerX,
		CenterY:     centerY,
		AspectRatio: DefaultAspectRatio,
	}
}

// minZoom is the lower clamp applied by ZoomProjection.
const minZoom = 1.0

// Project maps p from logical space to screen space under the camera
// state in proj: rotate about Z by azimuth, rotate about X by
// elevation, then an orthographic projection scaled by zoom. Depth is
// the camera-space Y after both rotations — larger is closer to the
// camera.
func (proj Projection) Project(p Point3) Point2 {
	az := proj.Azimuth * math.Pi / 180
	el := proj.Elevation * math.Pi / 180

	cosAz, sinAz := math.Cos(az), math.Sin(az)
	x1 := p.X*cosAz - p.Y*sinAz
	y1 := p.X*sinAz + p.Y*cosAz
	z1 := p.Z

	cosEl, sinEl := math.Cos(el), math.Sin(el)
	y2 := y1*cosEl - z1*sinEl
	z2 := y1*sinEl + z1*cosEl

	return Point2{
		Vec2: vec.Vec2{
			X: proj.CenterX + x1*proj.Zoom,
			Y: proj.CenterY - z2*proj.Zoom*proj.AspectRatio,
		},
		Depth: y2,
	}
}

// Rotate returns a copy of proj with azimuth advanced by dAz degrees
// (wrapped into [0,360)) and elevation advanced by dEl degrees (clamped
// to [-89,89]).
func (proj Projection) Rotate(dAz, dEl float64) Projection {
	out := proj
	out.Azimuth = math.Mod(out.Azimuth+dAz, 360)
	if out.Azimuth < 0 {
		out.Azimuth += 360
	}
	out.Elevation = clamp(out.Elevation+dEl, -89, 89)
	return out
}

// ZoomBy returns a copy of proj with zoom scaled by factor, clamped to
// a minimum of 1.
func (proj Projection) ZoomBy(factor float64) Projection {
	out := proj
	out.Zoom = math.Max(minZoom, out.Zoom*factor)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
