package render

import "seehuhn.de/go/geom/matrix"

// usableMargin is subtracted from the target buffer's width/height to
// leave a border for axis labels and overshoot.
const (
	usableMarginX = 4
	usableMarginY = 2
)

// sceneToBuffer builds the affine that scales and centers a scene whose
// logical extent is 2*centerX x 2*centerY into a width x height target
// buffer, preserving aspect ratio. It mirrors the teacher rasterizer's
// CTM convention: x' = m[0]*x + m[2]*y + m[4], y' = m[1]*x + m[3]*y + m[5].
func sceneToBuffer(centerX, centerY float64, width, height int) matrix.Matrix {
	usableW := float64(width - usableMarginX)
	usableH := float64(height - usableMarginY)
	if usableW < 1 {
		usableW = 1
	}
	if usableH < 1 {
		usableH = 1
	}

	logicalW := 2 * centerX
	logicalH := 2 * centerY
	if logicalW <= 0 {
		logicalW = 1
	}
	if logicalH <= 0 {
		logicalH = 1
	}

	scale := min(usableW/logicalW, usableH/logicalH)

	tx := float64(width)/2 - scale*centerX
	ty := float64(height)/2 - scale*centerY

	return matrix.Matrix{scale, 0, 0, scale, tx, ty}
}

// applyScale maps p through m.
func applyScale(m matrix.Matrix, p Point2) Point2 {
	x := m[0]*p.X + m[2]*p.Y + m[4]
	y := m[1]*p.X + m[3]*p.Y + m[5]
	out := p
	out.X, out.Y = x, y
	return out
}

// ScaleToBuffer rescales every point in f into a width x height target
// buffer, given the Projection that produced f (its CenterX/CenterY
// define the scene's logical extent).
func ScaleToBuffer(f Frame, proj Projection, width, height int) Frame {
	m := sceneToBuffer(proj.CenterX, proj.CenterY, width, height)

	out := Frame{
		Segments: make([]Segment, len(f.Segments)),
		Labels:   make([]Label, len(f.Labels)),
	}
	for i, seg := range f.Segments {
		seg.A = applyScale(m, seg.A)
		seg.B = applyScale(m, seg.B)
		out.Segments[i] = seg
	}
	for i, lbl := range f.Labels {
		lbl.Pos = applyScale(m, lbl.Pos)
		out.Labels[i] = lbl
	}
	return out
}
