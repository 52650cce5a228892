package geom

import "math"

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max Vec3
}

// EmptyBBox returns a box that contains nothing; extending it with any
// point yields a box around that point.
func EmptyBBox() BBox {
	inf := math.Inf(1)
	return BBox{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// BBoxAround returns the smallest box containing all points.
func BBoxAround(points []Vec3) BBox {
	b := EmptyBBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns the box grown to contain p.
func (b BBox) Extend(p Vec3) BBox {
	b.Min = Vec3{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)}
	b.Max = Vec3{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)}
	return b
}

// IsEmpty reports whether the box contains no volume.
func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the midpoint of the box.
func (b BBox) Center() Vec3 {
	return Add(b.Min, b.Max).Scale(0.5)
}

// Size returns the extents of the box.
func (b BBox) Size() Vec3 {
	return Sub(b.Max, b.Min)
}

// Contains reports whether p lies inside the box within eps.
func (b BBox) Contains(p Vec3, eps float64) bool {
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps &&
		p.Z >= b.Min.Z-eps && p.Z <= b.Max.Z+eps
}

// Intersects reports whether the two boxes overlap.
func (b BBox) Intersects(o BBox) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Translated returns the box moved by delta.
func (b BBox) Translated(delta Vec3) BBox {
	return BBox{Min: Add(b.Min, delta), Max: Add(b.Max, delta)}
}
