package motion

import "math"

// Pose is the set of visual parameters a subject animates between: a
// translation, a uniform scale, a rotation in degrees, and an opacity.
type Pose struct {
	X, Y    float64
	Scale   float64
	Rotate  float64
	Opacity float64
}

// IdentityPose is a subject at rest: no offset, full scale, fully opaque.
var IdentityPose = Pose{Scale: 1, Opacity: 1}

func (p Pose) valid() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Scale) &&
		isFinite(p.Rotate) && isFinite(p.Opacity)
}

// Matrix is a 2D affine transform laid out as [a, b, c, d, tx, ty]. It maps
// (x, y) to (a*x + c*y + tx, b*x + d*y + ty), the same layout ebiten.GeoM
// uses.
type Matrix [6]float64

// IdentityMatrix leaves every point where it is.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// Translation returns a matrix moving points by (x, y).
func Translation(x, y float64) Matrix {
	return Matrix{1, 0, 0, 1, x, y}
}

// Affine returns the matrix that renders a subject of the given pose. Scale
// and rotation happen about the pivot (px, py) in the subject's local space,
// so the pivot itself only moves by the pose's (X, Y) offset. Positive
// rotation turns +x toward +y.
func Affine(p Pose, px, py float64) Matrix {
	sin, cos := math.Sincos(p.Rotate * math.Pi / 180)
	m := Matrix{cos * p.Scale, sin * p.Scale, -sin * p.Scale, cos * p.Scale, 0, 0}
	qx, qy := m.linear(px, py)
	m[4], m[5] = px+p.X-qx, py+p.Y-qy
	return m
}

// Apply maps the point (x, y) through m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	lx, ly := m.linear(x, y)
	return lx + m[4], ly + m[5]
}

// linear maps (x, y) through m without its translation.
func (m Matrix) linear(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}

// Then returns the matrix that applies m and then next.
func (m Matrix) Then(next Matrix) Matrix {
	a, b := next.linear(m[0], m[1])
	c, d := next.linear(m[2], m[3])
	tx, ty := next.Apply(m[4], m[5])
	return Matrix{a, b, c, d, tx, ty}
}

// Compose returns the matrix that applies child first and then parent, for
// subjects nested inside a translated or scaled container.
func Compose(parent, child Matrix) Matrix {
	return child.Then(parent)
}

// Invert returns the inverse of m. It reports false when m collapses the
// plane, as it does for a subject at scale 0 mid-exit.
func (m Matrix) Invert() (Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-12 || !isFinite(det) {
		return IdentityMatrix, false
	}
	inv := Matrix{m[3] / det, -m[1] / det, -m[2] / det, m[0] / det, 0, 0}
	tx, ty := inv.linear(m[4], m[5])
	inv[4], inv[5] = -tx, -ty
	return inv, true
}

// ToLocal converts a screen-space point into the local space of a subject
// rendered with m, for hit-testing a pointer sample against the subject's
// own rectangle. It reports false when m is singular and no local point
// exists.
func ToLocal(m Matrix, x, y float64) (float64, float64, bool) {
	inv, ok := m.Invert()
	if !ok {
		return 0, 0, false
	}
	lx, ly := inv.Apply(x, y)
	return lx, ly, true
}
