package geom

import (
	"errors"
	"math"
)

// PointStatus classifies a point against a plane.
type PointStatus int

const (
	PointInside PointStatus = iota // on the plane within PointEpsilon
	PointAbove                     // on the normal side
	PointBelow                     // on the opposite side
)

// Plane is an oriented plane in Hesse normal form: Normal·p = Dist.
// The normal points out of the solid for brush faces.
type Plane struct {
	Normal Vec3
	Dist   float64
}

// ErrDegeneratePlane is returned when three points do not span a plane.
var ErrDegeneratePlane = errors.New("plane points are colinear")

// PlaneFromPoints builds the plane through three points using the map
// file convention: the normal is cross(p3-p1, p2-p1), normalized.
func PlaneFromPoints(p1, p2, p3 Vec3) (Plane, error) {
	n := Cross(Sub(p3, p1), Sub(p2, p1))
	if n.NearZero() {
		return Plane{}, ErrDegeneratePlane
	}
	n = n.Normalize()
	return Plane{Normal: n, Dist: Dot(n, p1)}, nil
}

// DistanceTo returns the signed distance from p to the plane, positive
// on the normal side.
func (pl Plane) DistanceTo(p Vec3) float64 {
	return Dot(pl.Normal, p) - pl.Dist
}

// Status classifies p against the plane with the given epsilon.
func (pl Plane) Status(p Vec3, eps float64) PointStatus {
	d := pl.DistanceTo(p)
	switch {
	case d > eps:
		return PointAbove
	case d < -eps:
		return PointBelow
	default:
		return PointInside
	}
}

// Flip returns the plane with reversed orientation.
func (pl Plane) Flip() Plane {
	return Plane{Normal: pl.Normal.Neg(), Dist: -pl.Dist}
}

// Translate returns the plane moved by delta.
func (pl Plane) Translate(delta Vec3) Plane {
	return Plane{Normal: pl.Normal, Dist: pl.Dist + Dot(pl.Normal, delta)}
}

// Anchor returns an arbitrary point on the plane.
func (pl Plane) Anchor() Vec3 {
	return pl.Normal.Scale(pl.Dist)
}

// IntersectPlanes computes the single point shared by three planes.
// It fails when any two of the planes are parallel or near-parallel.
func IntersectPlanes(a, b, c Plane) (Vec3, bool) {
	n1, n2, n3 := a.Normal, b.Normal, c.Normal
	det := Dot(n1, Cross(n2, n3))
	if math.Abs(det) < AlmostZero {
		return Vec3{}, false
	}
	p := Cross(n2, n3).Scale(a.Dist)
	p = Add(p, Cross(n3, n1).Scale(b.Dist))
	p = Add(p, Cross(n1, n2).Scale(c.Dist))
	return p.Scale(1 / det), true
}
