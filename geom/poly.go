package geom

// Segment is a line segment between two points. Brush edges are
// segments; orientation carries no meaning, an edge equals its reverse.
type Segment struct {
	Start, End Vec3
}

// Center returns the midpoint of the segment.
func (s Segment) Center() Vec3 {
	return Lerp(s.Start, s.End, 0.5)
}

// Direction returns the normalized direction from Start to End.
func (s Segment) Direction() Vec3 {
	return Sub(s.End, s.Start).Normalize()
}

// NearEqual reports whether s and o connect the same two points within
// eps, in either orientation.
func (s Segment) NearEqual(o Segment, eps float64) bool {
	if NearEqual(s.Start, o.Start, eps) && NearEqual(s.End, o.End, eps) {
		return true
	}
	return NearEqual(s.Start, o.End, eps) && NearEqual(s.End, o.Start, eps)
}

// Polygon is a planar vertex loop. Brush face polygons wind
// counter-clockwise when viewed from the outside of the solid.
type Polygon []Vec3

// Center returns the vertex centroid of the polygon.
func (p Polygon) Center() Vec3 {
	if len(p) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, v := range p {
		sum = Add(sum, v)
	}
	return sum.Scale(1 / float64(len(p)))
}

// Contains reports whether v is one of the polygon's vertices within eps.
func (p Polygon) Contains(v Vec3, eps float64) bool {
	for _, q := range p {
		if NearEqual(q, v, eps) {
			return true
		}
	}
	return false
}
