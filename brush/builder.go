package brush

import (
	"errors"
	"math"

	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/patch"
)

// Builder creates brushes from scratch: axis-aligned cuboids, convex
// hulls of point clouds, and convex approximations of bezier patches.
// New faces carry DefaultMaterial unless a better source exists.
type Builder struct {
	Format          mapfile.Format
	DefaultMaterial string
}

// NewBuilder returns a builder producing brushes for the given format.
func NewBuilder(format mapfile.Format) *Builder {
	return &Builder{
		Format:          format,
		DefaultMaterial: "common/caulk",
	}
}

// Cuboid builds an axis-aligned box brush filling bounds.
func (bd *Builder) Cuboid(bounds geom.BBox, material string) (*Brush, error) {
	if bounds.IsEmpty() {
		return nil, errors.New("cuboid bounds are empty")
	}

	normals := []geom.Vec3{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}
	dists := []float64{
		bounds.Max.X, -bounds.Min.X,
		bounds.Max.Y, -bounds.Min.Y,
		bounds.Max.Z, -bounds.Min.Z,
	}

	faces := make([]Face, len(normals))
	for i := range normals {
		faces[i] = bd.newFace(geom.Plane{Normal: normals[i], Dist: dists[i]}, material)
	}
	return New(faces)
}

// Hull builds the convex hull brush around a point cloud.
func (bd *Builder) Hull(points []geom.Vec3, material string) (*Brush, error) {
	faces, err := hullFaces(points)
	if err != nil {
		return nil, err
	}
	for i := range faces {
		faces[i] = bd.newFace(faces[i].Plane, material)
	}

	hull, err := newReduced(faces)
	if err != nil {
		return nil, err
	}
	if hull == nil {
		return nil, ErrEmptyBrush
	}
	return hull, nil
}

// PatchToBrush builds the convex hull of the patch's evaluated surface.
// For formats with explicit UV axes, each hull face recovers its texture
// projection from three surface samples on the face plane; faces with no
// such samples fall back to the default material.
func (bd *Builder) PatchToBrush(p *patch.BezierPatch, subdivisions int) (*Brush, error) {
	grid := p.Evaluate(subdivisions)

	hull, err := bd.Hull(grid.Positions(), bd.DefaultMaterial)
	if err != nil {
		return nil, err
	}

	for i := range hull.faces {
		face := &hull.faces[i]

		uAxis, vAxis, uOffset, vOffset, ok := faceUVMapping(face.Plane, grid)
		if !ok {
			continue
		}
		face.Attrs.Material = p.Material()
		if bd.Format.HasValveUVAxes() {
			face.HasUVAxes = true
			face.UAxis = uAxis
			face.VAxis = vAxis
			face.Attrs.XOffset = uOffset
			face.Attrs.YOffset = vOffset
			face.Attrs.XScale = 1
			face.Attrs.YScale = 1
		}
	}
	return hull, nil
}

func (bd *Builder) newFace(plane geom.Plane, material string) Face {
	if material == "" {
		material = bd.DefaultMaterial
	}
	face := Face{
		Plane: plane,
		Attrs: mapfile.FaceAttributes{Material: material, XScale: 1, YScale: 1},
	}
	if bd.Format.HasValveUVAxes() {
		face.HasUVAxes = true
		face.UAxis, face.VAxis = paraxialAxes(plane.Normal)
	}
	return face
}

// paraxialAxes returns the classic paraxial texture axes for a face
// normal: the projection plane follows the normal's dominant axis.
func paraxialAxes(normal geom.Vec3) (geom.Vec3, geom.Vec3) {
	ax, ay, az := math.Abs(normal.X), math.Abs(normal.Y), math.Abs(normal.Z)
	switch {
	case az >= ax && az >= ay:
		return geom.Vec3{X: 1}, geom.Vec3{Y: -1}
	case ax >= ay:
		return geom.Vec3{Y: 1}, geom.Vec3{Z: -1}
	default:
		return geom.Vec3{X: 1}, geom.Vec3{Z: -1}
	}
}

// faceUVMapping recovers Valve-style UV axes for a hull face from the
// patch samples lying on its plane. The axes are constrained to the face
// plane, so each of U and V reduces to three unknowns (two in-plane
// components plus an offset) solved from three non-collinear samples.
func faceUVMapping(plane geom.Plane, grid *patch.Grid) (uAxis, vAxis geom.Vec3, uOffset, vOffset float64, ok bool) {
	var samples []mapfile.PatchControlPoint
	for row := 0; row < grid.RowCount; row++ {
		for col := 0; col < grid.ColumnCount; col++ {
			cp := grid.At(row, col)
			if math.Abs(plane.DistanceTo(cp.Pos)) <= geom.PointEpsilon {
				samples = append(samples, cp)
			}
		}
	}
	if len(samples) < 3 {
		return geom.Vec3{}, geom.Vec3{}, 0, 0, false
	}

	// In-plane orthonormal basis anchored at the first sample.
	e1 := geom.Sub(samples[1].Pos, samples[0].Pos).Normalize()
	if e1.NearZero() {
		return geom.Vec3{}, geom.Vec3{}, 0, 0, false
	}
	e2 := geom.Cross(plane.Normal, e1)

	// Pick a third sample that is not collinear with the first two.
	third := -1
	for i := 2; i < len(samples); i++ {
		if math.Abs(geom.Dot(geom.Sub(samples[i].Pos, samples[0].Pos), e2)) > geom.PointEpsilon {
			third = i
			break
		}
	}
	if third < 0 {
		return geom.Vec3{}, geom.Vec3{}, 0, 0, false
	}

	s0, s1, s2 := samples[0], samples[1], samples[third]
	x0, y0 := geom.Dot(s0.Pos, e1), geom.Dot(s0.Pos, e2)
	x1, y1 := geom.Dot(s1.Pos, e1), geom.Dot(s1.Pos, e2)
	x2, y2 := geom.Dot(s2.Pos, e1), geom.Dot(s2.Pos, e2)

	det := x0*(y1-y2) - y0*(x1-x2) + (x1*y2 - x2*y1)
	if math.Abs(det) < geom.AlmostZero {
		return geom.Vec3{}, geom.Vec3{}, 0, 0, false
	}

	solve := func(u0, u1, u2 float64) (geom.Vec3, float64) {
		a := (u0*(y1-y2) - y0*(u1-u2) + (u1*y2 - u2*y1)) / det
		bc := (x0*(u1-u2) - u0*(x1-x2) + (x1*u2 - x2*u1)) / det
		offset := (x0*(y1*u2-y2*u1) - y0*(x1*u2-x2*u1) + u0*(x1*y2-x2*y1)) / det
		axis := geom.Add(e1.Scale(a), e2.Scale(bc))
		return axis, offset
	}

	uAxis, uOffset = solve(s0.UV.X, s1.UV.X, s2.UV.X)
	vAxis, vOffset = solve(s0.UV.Y, s1.UV.Y, s2.UV.Y)
	return uAxis, vAxis, uOffset, vOffset, true
}
