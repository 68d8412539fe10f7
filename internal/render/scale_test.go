package render

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestScaleToBufferCentersOrigin(t *testing.T) {
	proj := NewProjection(1, 1) // logical extent 2x2
	f := Frame{Segments: []Segment{{
		A: Point2{Vec2: vec.Vec2{X: 1, Y: 1}},
		B: Point2{Vec2: vec.Vec2{X: 1, Y: 1}},
	}}}
	scaled := ScaleToBuffer(f, proj, 80, 24)

	gotX, gotY := scaled.Segments[0].A.X, scaled.Segments[0].A.Y
	if math.Abs(gotX-40) > 1e-9 || math.Abs(gotY-12) > 1e-9 {
		t.Fatalf("scaled origin = (%v,%v), want (40,12)", gotX, gotY)
	}
}

func TestScaleToBufferPreservesAspect(t *testing.T) {
	proj := NewProjection(10, 10)
	f := Frame{Segments: []Segment{
		{A: Point2{Vec2: vec.Vec2{X: 0, Y: 0}}, B: Point2{Vec2: vec.Vec2{X: 20, Y: 0}}},
		{A: Point2{Vec2: vec.Vec2{X: 0, Y: 0}}, B: Point2{Vec2: vec.Vec2{X: 0, Y: 20}}},
	}}
	scaled := ScaleToBuffer(f, proj, 100, 50)

	dxScaled := scaled.Segments[0].B.X - scaled.Segments[0].A.X
	dyScaled := scaled.Segments[1].B.Y - scaled.Segments[1].A.Y
	if math.Abs(dxScaled-dyScaled) > 1e-9 {
		t.Fatalf("non-uniform scale: dx=%v dy=%v", dxScaled, dyScaled)
	}
}
