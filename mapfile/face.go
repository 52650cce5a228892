package mapfile

import "github.com/themuffinator/BrumSchtick/geom"

// FaceAttributes carries the material and UV attributes of a brush face.
// Which fields are meaningful depends on the dialect: Valve-style
// dialects use explicit UV axes on the Face instead of the rotation
// convention, Daikatana faces may carry an RGB color.
type FaceAttributes struct {
	Material string

	XOffset  float64
	YOffset  float64
	Rotation float64
	XScale   float64
	YScale   float64

	// Optional trailing contents/flags/value triple (Quake2 family,
	// Quake3 legacy, Daikatana).
	HasSurfaceAttributes bool
	SurfaceContents      int
	SurfaceFlags         int
	SurfaceValue         float64

	// Optional face color, Daikatana only. Components are clamped to
	// [0, 255] at parse time.
	HasColor bool
	Color    [3]int
}

// Face is one planar boundary of a brush as read from the map file: the
// three defining points plus attributes. The plane through the points
// uses the map convention normal = cross(p3-p1, p2-p1).
type Face struct {
	Location Position
	Format   Format
	Points   [3]geom.Vec3
	Attrs    FaceAttributes

	// Explicit texture projection, Valve-style dialects only.
	HasUVAxes bool
	UAxis     geom.Vec3
	VAxis     geom.Vec3
}

// Plane returns the face's oriented boundary plane.
func (f *Face) Plane() (geom.Plane, error) {
	return geom.PlaneFromPoints(f.Points[0], f.Points[1], f.Points[2])
}

// BrushRecord is a parsed brush: its face list plus the source span it
// was read from.
type BrushRecord struct {
	Start Position
	End   Position
	Faces []Face
}

// PatchControlPoint is one control point of a patch: a position plus its
// UV coordinate.
type PatchControlPoint struct {
	Pos geom.Vec3
	UV  geom.Vec2
}

// PatchRecord is a parsed patchDef2/patchDef3 surface. RowCount and
// ColumnCount are sanitized (odd, at least 3) by the parser before the
// record is emitted. ControlNormals is empty for patchDef2 and parallel
// to ControlPoints for patchDef3.
type PatchRecord struct {
	Start  Position
	End    Position
	Format Format

	RowCount    int
	ColumnCount int

	ControlPoints  []PatchControlPoint
	ControlNormals []geom.Vec3

	Material        string
	SurfaceContents int
	SurfaceFlags    int
	SurfaceValue    float64
}
