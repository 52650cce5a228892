// Package patch implements biquadratic Bezier patch surfaces: a fixed
// grid of control points decomposed into 3x3 sub-surfaces that share
// their border points with their neighbors.
package patch

import (
	"fmt"

	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

// BezierPatch is a curved surface defined by a grid of control points.
// Row and column counts are odd and at least 3; the parser sanitizes
// counts before construction, so violating that here is a programming
// error and panics.
type BezierPatch struct {
	rowCount    int
	columnCount int

	controlPoints  []mapfile.PatchControlPoint
	controlNormals []geom.Vec3 // empty, or parallel to controlPoints

	material        string
	surfaceContents int
	surfaceFlags    int
	surfaceValue    float64

	bounds geom.BBox
}

// New creates a patch from a row-major control point grid. normals must
// be nil or exactly rowCount*columnCount long.
func New(rowCount, columnCount int, points []mapfile.PatchControlPoint, normals []geom.Vec3, material string) *BezierPatch {
	if rowCount < 3 || rowCount%2 == 0 {
		panic(fmt.Sprintf("patch row count must be odd and at least 3, got %d", rowCount))
	}
	if columnCount < 3 || columnCount%2 == 0 {
		panic(fmt.Sprintf("patch column count must be odd and at least 3, got %d", columnCount))
	}
	if len(points) != rowCount*columnCount {
		panic(fmt.Sprintf("patch needs %d control points, got %d", rowCount*columnCount, len(points)))
	}
	if len(normals) != 0 && len(normals) != len(points) {
		panic(fmt.Sprintf("patch control normals must be empty or %d long, got %d", len(points), len(normals)))
	}

	p := &BezierPatch{
		rowCount:       rowCount,
		columnCount:    columnCount,
		controlPoints:  points,
		controlNormals: normals,
		material:       material,
	}
	p.updateBounds()
	return p
}

// FromRecord creates a patch from a parsed patch record.
func FromRecord(rec *mapfile.PatchRecord) *BezierPatch {
	p := New(rec.RowCount, rec.ColumnCount, rec.ControlPoints, rec.ControlNormals, rec.Material)
	p.surfaceContents = rec.SurfaceContents
	p.surfaceFlags = rec.SurfaceFlags
	p.surfaceValue = rec.SurfaceValue
	return p
}

func (p *BezierPatch) RowCount() int    { return p.rowCount }
func (p *BezierPatch) ColumnCount() int { return p.columnCount }

// QuadRowCount returns the number of control point quads per column.
func (p *BezierPatch) QuadRowCount() int { return p.rowCount - 1 }

// QuadColumnCount returns the number of control point quads per row.
func (p *BezierPatch) QuadColumnCount() int { return p.columnCount - 1 }

// SurfaceRowCount returns the number of 3x3 sub-surfaces per column.
func (p *BezierPatch) SurfaceRowCount() int { return p.QuadRowCount() / 2 }

// SurfaceColumnCount returns the number of 3x3 sub-surfaces per row.
func (p *BezierPatch) SurfaceColumnCount() int { return p.QuadColumnCount() / 2 }

// ControlPoints returns the row-major control point grid.
func (p *BezierPatch) ControlPoints() []mapfile.PatchControlPoint { return p.controlPoints }

// ControlNormals returns the control normal grid, empty for patches
// without explicit normals.
func (p *BezierPatch) ControlNormals() []geom.Vec3 { return p.controlNormals }

// HasControlNormals reports whether the patch carries explicit normals.
func (p *BezierPatch) HasControlNormals() bool { return len(p.controlNormals) > 0 }

func (p *BezierPatch) Material() string { return p.material }

// Bounds returns the AABB of the control points. It is recomputed on
// every control point mutation.
func (p *BezierPatch) Bounds() geom.BBox { return p.bounds }

// ControlPointAt returns the control point at the given grid cell.
func (p *BezierPatch) ControlPointAt(row, col int) mapfile.PatchControlPoint {
	return p.controlPoints[row*p.columnCount+col]
}

// SetControlPoint replaces the control point at the given grid cell.
func (p *BezierPatch) SetControlPoint(row, col int, cp mapfile.PatchControlPoint) {
	p.controlPoints[row*p.columnCount+col] = cp
	p.updateBounds()
}

// GridRowCount returns the number of evaluated grid rows for the given
// subdivision count.
func (p *BezierPatch) GridRowCount(subdivisions int) int {
	return p.SurfaceRowCount()*(1<<subdivisions) + 1
}

// GridColumnCount returns the number of evaluated grid columns for the
// given subdivision count.
func (p *BezierPatch) GridColumnCount(subdivisions int) int {
	return p.SurfaceColumnCount()*(1<<subdivisions) + 1
}

// Grid is a row-major grid of evaluated patch points.
type Grid struct {
	RowCount    int
	ColumnCount int
	Points      []mapfile.PatchControlPoint
}

// At returns the evaluated point at the given grid cell.
func (g *Grid) At(row, col int) mapfile.PatchControlPoint {
	return g.Points[row*g.ColumnCount+col]
}

// Positions returns the evaluated positions without UVs.
func (g *Grid) Positions() []geom.Vec3 {
	positions := make([]geom.Vec3, len(g.Points))
	for i, cp := range g.Points {
		positions[i] = cp.Pos
	}
	return positions
}

// Evaluate tessellates the patch, sampling every 3x3 sub-surface on a
// (2^subdivisions+1) square grid and assembling the samples into one
// patch-wide grid. Shared border rows and columns appear exactly once:
// a shared grid point samples the earlier surface at parameter 1.0
// rather than the later surface at 0.0.
func (p *BezierPatch) Evaluate(subdivisions int) *Grid {
	grid := &Grid{
		RowCount:    p.GridRowCount(subdivisions),
		ColumnCount: p.GridColumnCount(subdivisions),
	}
	grid.Points = make([]mapfile.PatchControlPoint, grid.RowCount*grid.ColumnCount)

	step := 1 << subdivisions
	for gridRow := 0; gridRow < grid.RowCount; gridRow++ {
		surfaceRow, v := surfaceParam(gridRow, step)
		for gridCol := 0; gridCol < grid.ColumnCount; gridCol++ {
			surfaceCol, u := surfaceParam(gridCol, step)
			grid.Points[gridRow*grid.ColumnCount+gridCol] =
				p.samplePoint(surfaceRow, surfaceCol, u, v)
		}
	}
	return grid
}

// EvaluateNormals tessellates the control normal grid with the same
// sampling as Evaluate. The interpolated normals are not renormalized;
// that is the caller's responsibility. Returns nil when the patch has
// no control normals.
func (p *BezierPatch) EvaluateNormals(subdivisions int) []geom.Vec3 {
	if !p.HasControlNormals() {
		return nil
	}

	rows := p.GridRowCount(subdivisions)
	cols := p.GridColumnCount(subdivisions)
	normals := make([]geom.Vec3, rows*cols)

	step := 1 << subdivisions
	for gridRow := 0; gridRow < rows; gridRow++ {
		surfaceRow, v := surfaceParam(gridRow, step)
		for gridCol := 0; gridCol < cols; gridCol++ {
			surfaceCol, u := surfaceParam(gridCol, step)
			normals[gridRow*cols+gridCol] = p.sampleNormal(surfaceRow, surfaceCol, u, v)
		}
	}
	return normals
}

// surfaceParam maps a patch-wide grid index to a surface index and a
// local parameter in [0, 1]. At a shared border the earlier surface is
// selected and the parameter comes out as 1.0.
func surfaceParam(gridIndex, step int) (int, float64) {
	idx := gridIndex
	if idx > 0 {
		idx--
	}
	surface := idx / step
	local := gridIndex - surface*step
	return surface, float64(local) / float64(step)
}

// samplePoint evaluates the biquadratic Bezier surface at (u, v) using
// the 3x3 control points of the given sub-surface. Position and UV are
// interpolated together.
func (p *BezierPatch) samplePoint(surfaceRow, surfaceCol int, u, v float64) mapfile.PatchControlPoint {
	bu := quadraticBasis(u)
	bv := quadraticBasis(v)

	var out mapfile.PatchControlPoint
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cp := p.ControlPointAt(surfaceRow*2+i, surfaceCol*2+j)
			w := bv[i] * bu[j]
			out.Pos = geom.Add(out.Pos, cp.Pos.Scale(w))
			out.UV.X += cp.UV.X * w
			out.UV.Y += cp.UV.Y * w
		}
	}
	return out
}

func (p *BezierPatch) sampleNormal(surfaceRow, surfaceCol int, u, v float64) geom.Vec3 {
	bu := quadraticBasis(u)
	bv := quadraticBasis(v)

	var out geom.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			n := p.controlNormals[(surfaceRow*2+i)*p.columnCount+surfaceCol*2+j]
			out = geom.Add(out, n.Scale(bv[i]*bu[j]))
		}
	}
	return out
}

// quadraticBasis returns the three quadratic Bernstein weights at t.
func quadraticBasis(t float64) [3]float64 {
	it := 1 - t
	return [3]float64{it * it, 2 * t * it, t * t}
}

// Transform applies an affine transform to every control point. Control
// normals are transformed by the inverse transpose of the linear part,
// falling back to the linear part itself when it is not invertible, and
// renormalized unless near zero. Orientation-reversing transforms mirror
// the grid along the column axis so the surface does not turn inside
// out.
func (p *BezierPatch) Transform(m geom.Mat4) {
	for i := range p.controlPoints {
		p.controlPoints[i].Pos = m.TransformPoint(p.controlPoints[i].Pos)
	}

	if p.HasControlNormals() {
		normalTransform, ok := m.LinearInverseTranspose()
		if !ok {
			normalTransform = m
		}
		for i, n := range p.controlNormals {
			n = normalTransform.TransformDir(n)
			if !n.NearZero() {
				n = n.Normalize()
			}
			p.controlNormals[i] = n
		}
	}

	if m.LinearDeterminant() < 0 {
		p.mirrorColumns()
	}

	p.updateBounds()
}

// mirrorColumns swaps column c with column columnCount-1-c in every row,
// for both control points and normals.
func (p *BezierPatch) mirrorColumns() {
	for row := 0; row < p.rowCount; row++ {
		base := row * p.columnCount
		for c := 0; c < p.columnCount/2; c++ {
			o := p.columnCount - 1 - c
			p.controlPoints[base+c], p.controlPoints[base+o] =
				p.controlPoints[base+o], p.controlPoints[base+c]
			if p.HasControlNormals() {
				p.controlNormals[base+c], p.controlNormals[base+o] =
					p.controlNormals[base+o], p.controlNormals[base+c]
			}
		}
	}
}

func (p *BezierPatch) updateBounds() {
	b := geom.EmptyBBox()
	for _, cp := range p.controlPoints {
		b = b.Extend(cp.Pos)
	}
	p.bounds = b
}
