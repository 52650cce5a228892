package brush

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/themuffinator/BrumSchtick/geom"
)

var (
	// ErrDegenerateFace is returned when a face contributes no area to
	// the solid.
	ErrDegenerateFace = errors.New("face has no area within the brush")

	// ErrInvalidBrush is returned when the faces do not bound a closed
	// convex solid.
	ErrInvalidBrush = errors.New("faces do not form a closed convex solid")

	// ErrEmptyBrush is returned when an operation leaves no volume.
	ErrEmptyBrush = errors.New("brush has no volume")
)

// Brush is a convex solid bounded by its faces. Vertices, edges and face
// polygons are derived from the planes at construction and cached; a
// Brush value is immutable, operations return new brushes.
type Brush struct {
	faces    []Face
	polygons []geom.Polygon
	vertices []geom.Vec3
	bounds   geom.BBox
}

// New builds a brush from its bounding faces. Every face must contribute
// a polygon with at least three vertices and every edge must be shared by
// exactly two faces. Faces that fail to close into a solid report
// ErrInvalidBrush; a face with no area in an otherwise closed solid
// reports ErrDegenerateFace.
func New(faces []Face) (*Brush, error) {
	vertices, polygons := deriveGeometry(faces)

	var keptPolys []geom.Polygon
	dropped := -1
	for i, poly := range polygons {
		if len(poly) >= 3 {
			keptPolys = append(keptPolys, poly)
		} else if dropped < 0 {
			dropped = i
		}
	}
	if err := validateSolid(vertices, keptPolys); err != nil {
		return nil, err
	}
	if dropped >= 0 {
		return nil, fmt.Errorf("face %d (%s): %w", dropped, faces[dropped].Attrs.Material, ErrDegenerateFace)
	}

	return &Brush{
		faces:    append([]Face(nil), faces...),
		polygons: polygons,
		vertices: vertices,
		bounds:   geom.BBoxAround(vertices),
	}, nil
}

// newReduced builds a brush from faces, silently dropping faces that end
// up with no area. Near-identical planes are collapsed first; CSG clips
// routinely re-add a plane the brush already has. It returns (nil, nil)
// when the faces bound no volume at all; CSG treats that as an empty
// fragment, not an error.
func newReduced(faces []Face) (*Brush, error) {
	faces = dedupeFaces(faces)
	vertices, polygons := deriveGeometry(faces)

	var kept []Face
	var keptPolys []geom.Polygon
	for i, poly := range polygons {
		if len(poly) >= 3 {
			kept = append(kept, faces[i])
			keptPolys = append(keptPolys, poly)
		}
	}
	if len(kept) < 4 || len(vertices) < 4 {
		return nil, nil
	}
	if err := validateSolid(vertices, keptPolys); err != nil {
		return nil, err
	}

	return &Brush{
		faces:    kept,
		polygons: keptPolys,
		vertices: vertices,
		bounds:   geom.BBoxAround(vertices),
	}, nil
}

// deriveGeometry computes the brush vertices as the intersections of all
// face plane triples that lie inside every half-space, then assembles
// each face's polygon from the vertices on its plane, wound
// counter-clockwise as seen from outside.
func deriveGeometry(faces []Face) ([]geom.Vec3, []geom.Polygon) {
	var vertices []geom.Vec3
	for i := 0; i < len(faces); i++ {
		for j := i + 1; j < len(faces); j++ {
			for k := j + 1; k < len(faces); k++ {
				p, ok := geom.IntersectPlanes(faces[i].Plane, faces[j].Plane, faces[k].Plane)
				if !ok || !insideAll(faces, p) {
					continue
				}
				if !containsVertex(vertices, p) {
					vertices = append(vertices, p)
				}
			}
		}
	}

	polygons := make([]geom.Polygon, len(faces))
	for i, f := range faces {
		var poly geom.Polygon
		for _, v := range vertices {
			if math.Abs(f.Plane.DistanceTo(v)) <= geom.PointEpsilon {
				poly = append(poly, v)
			}
		}
		if len(poly) >= 3 {
			sortWinding(poly, f.Plane.Normal)
		}
		polygons[i] = poly
	}
	return vertices, polygons
}

// dedupeFaces keeps the first of any set of faces with near-identical
// planes.
func dedupeFaces(faces []Face) []Face {
	kept := make([]Face, 0, len(faces))
	for _, f := range faces {
		dup := false
		for _, k := range kept {
			if geom.NearEqual(k.Plane.Normal, f.Plane.Normal, 1e-6) &&
				math.Abs(k.Plane.Dist-f.Plane.Dist) <= geom.PointEpsilon {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, f)
		}
	}
	return kept
}

func insideAll(faces []Face, p geom.Vec3) bool {
	for _, f := range faces {
		if f.Plane.DistanceTo(p) > geom.PointEpsilon {
			return false
		}
	}
	return true
}

func containsVertex(vertices []geom.Vec3, p geom.Vec3) bool {
	for _, v := range vertices {
		if geom.NearEqual(v, p, geom.PointEpsilon) {
			return true
		}
	}
	return false
}

// sortWinding orders a planar vertex loop counter-clockwise around the
// normal, in place.
func sortWinding(poly geom.Polygon, normal geom.Vec3) {
	center := poly.Center()
	ref := geom.Sub(poly[0], center)

	slices.SortFunc(poly, func(a, b geom.Vec3) int {
		av := windingAngle(a, center, ref, normal)
		bv := windingAngle(b, center, ref, normal)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	})
}

func windingAngle(v, center, ref, normal geom.Vec3) float64 {
	d := geom.Sub(v, center)
	return math.Atan2(geom.Dot(geom.Cross(ref, d), normal), geom.Dot(ref, d))
}

// validateSolid checks that the polygons close up into a polyhedron:
// at least four faces and four vertices, and every edge shared by exactly
// two faces.
func validateSolid(vertices []geom.Vec3, polygons []geom.Polygon) error {
	if len(polygons) < 4 || len(vertices) < 4 {
		return ErrInvalidBrush
	}

	edges := make(map[[2]int]int)
	for _, poly := range polygons {
		for i := range poly {
			a := vertexIndex(vertices, poly[i])
			b := vertexIndex(vertices, poly[(i+1)%len(poly)])
			if a < 0 || b < 0 || a == b {
				return ErrInvalidBrush
			}
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}]++
		}
	}
	for _, count := range edges {
		if count != 2 {
			return ErrInvalidBrush
		}
	}
	return nil
}

func vertexIndex(vertices []geom.Vec3, p geom.Vec3) int {
	for i, v := range vertices {
		if geom.NearEqual(v, p, geom.PointEpsilon) {
			return i
		}
	}
	return -1
}

// Faces returns the brush's bounding faces.
func (b *Brush) Faces() []Face {
	return b.faces
}

// Polygons returns the face polygons, parallel to Faces.
func (b *Brush) Polygons() []geom.Polygon {
	return b.polygons
}

// Vertices returns the derived vertices.
func (b *Brush) Vertices() []geom.Vec3 {
	return b.vertices
}

// Edges returns each edge of the solid exactly once.
func (b *Brush) Edges() []geom.Segment {
	var edges []geom.Segment
	for _, poly := range b.polygons {
		for i := range poly {
			edge := geom.Segment{Start: poly[i], End: poly[(i+1)%len(poly)]}
			if !containsEdge(edges, edge) {
				edges = append(edges, edge)
			}
		}
	}
	return edges
}

func containsEdge(edges []geom.Segment, edge geom.Segment) bool {
	for _, e := range edges {
		if e.NearEqual(edge, geom.PointEpsilon) {
			return true
		}
	}
	return false
}

// Bounds returns the axis-aligned bounding box.
func (b *Brush) Bounds() geom.BBox {
	return b.bounds
}

// InteriorPoint returns a point strictly inside the solid: the vertex
// centroid, which is interior for any convex solid.
func (b *Brush) InteriorPoint() geom.Vec3 {
	var sum geom.Vec3
	for _, v := range b.vertices {
		sum = geom.Add(sum, v)
	}
	return sum.Scale(1 / float64(len(b.vertices)))
}

// ContainsPoint reports whether p is inside or on the boundary.
func (b *Brush) ContainsPoint(p geom.Vec3) bool {
	return insideAll(b.faces, p)
}

// Contains reports whether every vertex of other lies inside b.
func (b *Brush) Contains(other *Brush) bool {
	for _, v := range other.vertices {
		if !b.ContainsPoint(v) {
			return false
		}
	}
	return true
}

// Clip cuts the brush with an additional bounding face. Faces eaten by
// the cut are dropped; a cut that removes the whole brush fails with
// ErrEmptyBrush.
func (b *Brush) Clip(face Face) (*Brush, error) {
	clipped, err := b.clipReduced(face)
	if err != nil {
		return nil, err
	}
	if clipped == nil {
		return nil, ErrEmptyBrush
	}
	return clipped, nil
}

// clipReduced cuts the brush for CSG: faces eaten by the cut are dropped
// and an empty result is reported as (nil, nil).
func (b *Brush) clipReduced(face Face) (*Brush, error) {
	faces := make([]Face, 0, len(b.faces)+1)
	faces = append(faces, b.faces...)
	faces = append(faces, face)
	return newReduced(faces)
}

// Transform applies an affine transform to the brush. Face normals are
// mapped by the inverse transpose of the linear part so they stay
// perpendicular under non-uniform scaling; the linear part itself is the
// fallback when the transform is singular.
func (b *Brush) Transform(m geom.Mat4) (*Brush, error) {
	normalTransform, ok := m.LinearInverseTranspose()
	if !ok {
		normalTransform = m
	}

	faces := make([]Face, len(b.faces))
	for i, f := range b.faces {
		normal := normalTransform.TransformDir(f.Plane.Normal).Normalize()
		if normal.NearZero() {
			return nil, fmt.Errorf("transform collapses face %d normal", i)
		}
		anchor := m.TransformPoint(f.Plane.Anchor())

		faces[i] = f
		faces[i].Plane = geom.Plane{Normal: normal, Dist: geom.Dot(normal, anchor)}
	}
	return New(faces)
}

// Expand moves every face plane outward by delta (inward for negative
// delta). Faces consumed by a shrink are dropped; a shrink past the
// brush's extent fails with ErrEmptyBrush.
func (b *Brush) Expand(delta float64) (*Brush, error) {
	faces := make([]Face, len(b.faces))
	for i, f := range b.faces {
		faces[i] = f
		faces[i].Plane.Dist += delta
	}

	expanded, err := newReduced(faces)
	if err != nil {
		return nil, err
	}
	if expanded == nil {
		return nil, ErrEmptyBrush
	}
	return expanded, nil
}

// MoveBoundary translates one face's plane by delta, identifying the face
// by its current polygon. With lockAlignment, Valve-style UV offsets are
// adjusted so the texture projection stays fixed in world space.
func (b *Brush) MoveBoundary(polygon geom.Polygon, delta geom.Vec3, lockAlignment bool) (*Brush, error) {
	idx := b.findPolygon(polygon)
	if idx < 0 {
		return nil, fmt.Errorf("no face matches the given polygon")
	}

	faces := append([]Face(nil), b.faces...)
	faces[idx].Plane = faces[idx].Plane.Translate(delta)

	if lockAlignment && faces[idx].HasUVAxes {
		if faces[idx].Attrs.XScale != 0 {
			faces[idx].Attrs.XOffset -= geom.Dot(delta, faces[idx].UAxis) / faces[idx].Attrs.XScale
		}
		if faces[idx].Attrs.YScale != 0 {
			faces[idx].Attrs.YOffset -= geom.Dot(delta, faces[idx].VAxis) / faces[idx].Attrs.YScale
		}
	}

	moved, err := newReduced(faces)
	if err != nil {
		return nil, err
	}
	if moved == nil {
		return nil, ErrEmptyBrush
	}
	return moved, nil
}

// findPolygon returns the index of the face whose polygon matches the
// given one: the same vertex count and every vertex present within the
// point epsilon.
func (b *Brush) findPolygon(polygon geom.Polygon) int {
	for i, poly := range b.polygons {
		if len(poly) != len(polygon) {
			continue
		}
		matched := true
		for _, v := range polygon {
			if !poly.Contains(v, geom.PointEpsilon) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

// FindClosestVertex returns the brush vertex nearest to p.
func (b *Brush) FindClosestVertex(p geom.Vec3) geom.Vec3 {
	best := b.vertices[0]
	bestDist := geom.SquaredDistance(best, p)
	for _, v := range b.vertices[1:] {
		if d := geom.SquaredDistance(v, p); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

// FindClosestEdge returns the brush edge whose midpoint is nearest to p.
func (b *Brush) FindClosestEdge(p geom.Vec3) geom.Segment {
	edges := b.Edges()
	best := edges[0]
	bestDist := geom.SquaredDistance(best.Center(), p)
	for _, e := range edges[1:] {
		if d := geom.SquaredDistance(e.Center(), p); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// FindClosestPolygon returns the face polygon whose center is nearest to
// p.
func (b *Brush) FindClosestPolygon(p geom.Vec3) geom.Polygon {
	best := b.polygons[0]
	bestDist := geom.SquaredDistance(best.Center(), p)
	for _, poly := range b.polygons[1:] {
		if d := geom.SquaredDistance(poly.Center(), p); d < bestDist {
			best, bestDist = poly, d
		}
	}
	return best
}
