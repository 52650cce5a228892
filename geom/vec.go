// Package geom provides the vector, matrix and plane math used by the
// map parser and the brush kernel. All coordinates are float64; map files
// store doubles and the CSG code is sensitive to precision loss.
package geom

import "math"

const (
	// PointEpsilon is the distance tolerance for classifying points
	// against planes and for matching vertices by position.
	PointEpsilon = 1e-2

	// AlmostZero is the tolerance below which a length or determinant is
	// treated as zero.
	AlmostZero = 1e-9
)

// Vec2 is a 2D vector, used for UV coordinates and hotspot rects.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns a + b.
func Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Dot returns a dot b.
func Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a cross b.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Lerp computes a weighted average between two points.
func Lerp(a, b Vec3, frac float64) Vec3 {
	fi := 1 - frac
	return Vec3{
		fi*a.X + frac*b.X,
		fi*a.Y + frac*b.Y,
		fi*a.Z + frac*b.Z,
	}
}

// Scale returns the vector multiplied by the scalar s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Length returns the length of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(Dot(v, v))
}

// SquaredLength returns the squared length of the vector.
func (v Vec3) SquaredLength() float64 {
	return Dot(v, v)
}

// Normalize returns the normalized vector, or the zero vector if v has
// near-zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < AlmostZero {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// NearZero reports whether the vector length is below AlmostZero.
func (v Vec3) NearZero() bool {
	return v.SquaredLength() < AlmostZero*AlmostZero
}

// Idx returns the i-th component.
func (v Vec3) Idx(i int) float64 {
	switch i {
	default:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
}

// NearEqual reports whether a and b are within eps of each other in
// every component.
func NearEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps
}

// SquaredDistance returns the squared distance between a and b.
func SquaredDistance(a, b Vec3) float64 {
	return Sub(a, b).SquaredLength()
}

// Correct snaps components that are within eps of an integer to that
// integer. Map files store plane points as text and accumulate tiny
// conversion errors that break plane reconstruction.
func (v Vec3) Correct(eps float64) Vec3 {
	return Vec3{correct(v.X, eps), correct(v.Y, eps), correct(v.Z, eps)}
}

func correct(f, eps float64) float64 {
	r := math.Round(f)
	if math.Abs(r-f) <= eps {
		return r
	}
	return f
}

func minmax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}

// MinMax returns the componentwise minimum and maximum of a and b.
func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r.X, s.X = minmax(a.X, b.X)
	r.Y, s.Y = minmax(a.Y, b.Y)
	r.Z, s.Z = minmax(a.Z, b.Z)
	return r, s
}
