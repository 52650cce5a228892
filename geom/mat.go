package geom

import "math"

// Mat4 is a row-major 4x4 transform matrix. Points transform as column
// vectors with an implicit w of 1.
type Mat4 [4][4]float64

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a translation by v.
func Translation(v Vec3) Mat4 {
	m := Identity()
	m[0][3] = v.X
	m[1][3] = v.Y
	m[2][3] = v.Z
	return m
}

// Scaling returns a non-uniform scale about the origin.
func Scaling(sx, sy, sz float64) Mat4 {
	m := Identity()
	m[0][0] = sx
	m[1][1] = sy
	m[2][2] = sz
	return m
}

// Mirror returns a reflection across the plane through the origin with
// the given axis normal (0 = X, 1 = Y, 2 = Z).
func Mirror(axis int) Mat4 {
	m := Identity()
	m[axis][axis] = -1
	return m
}

// RotationAbout returns a rotation of angle radians around the given
// axis through the origin. The axis must be normalized.
func RotationAbout(axis Vec3, angle float64) Mat4 {
	s, c := math.Sincos(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return Mat4{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns a * b.
func Mul(a, b Mat4) Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i][k] * b[k][j]
			}
			m[i][j] = sum
		}
	}
	return m
}

// TransformPoint applies the full affine transform to a point.
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3],
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3],
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3],
	}
}

// TransformDir applies only the linear part of the transform.
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// LinearDeterminant returns the determinant of the upper-left 3x3 part.
// A negative determinant means the transform reverses orientation.
func (m Mat4) LinearDeterminant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// LinearInverseTranspose returns the inverse transpose of the linear
// part, used to transform normals. The second return value is false when
// the linear part is not invertible.
func (m Mat4) LinearInverseTranspose() (Mat4, bool) {
	det := m.LinearDeterminant()
	if math.Abs(det) < AlmostZero {
		return Mat4{}, false
	}
	inv := 1 / det

	// Cofactor matrix of the 3x3 linear part. The inverse transpose is
	// the cofactor matrix divided by the determinant.
	var r Mat4
	r[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * inv
	r[0][1] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * inv
	r[0][2] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * inv
	r[1][0] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv
	r[1][2] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv
	r[2][0] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv
	r[2][1] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv
	r[3][3] = 1
	return r, true
}
