package brush

import (
	"errors"
	"fmt"
	"math"

	"github.com/themuffinator/BrumSchtick/geom"
)

// parallelAngleEpsilon bounds the dihedral angle below which two faces
// are treated as coplanar for chamfering.
const parallelAngleEpsilon = 1e-6

// ChamferEdge bevels the edge at the given endpoints: it sweeps the
// first adjacent face's normal toward the second in equal angular steps,
// drops an arc point at the given distance inward from the edge at each
// step, and clips the brush with the secant plane through each pair of
// consecutive arc points. Coplanar or opposing adjacent faces make the
// chamfer meaningless; that case is a reported no-op, not an error.
// The second return value is false when nothing was done.
func (b *Brush) ChamferEdge(edge geom.Segment, distance float64, segments int) (*Brush, bool, error) {
	if distance <= 0 {
		return nil, false, errors.New("chamfer distance must be positive")
	}
	if segments < 1 {
		return nil, false, errors.New("chamfer needs at least one segment")
	}

	first, second, err := b.adjacentFaces(edge)
	if err != nil {
		return nil, false, err
	}

	n1 := first.Plane.Normal
	n2 := second.Plane.Normal
	angle := math.Acos(clamp(geom.Dot(n1, n2), -1, 1))
	if angle < parallelAngleEpsilon || math.Pi-angle < parallelAngleEpsilon {
		return b, false, nil
	}

	// Orient the edge axis so a positive rotation carries n1 toward n2.
	axis := edge.Direction()
	if geom.Dot(geom.Cross(n1, n2), axis) < 0 {
		axis = axis.Neg()
	}

	interior := b.InteriorPoint()
	edgePoint := edge.Center()
	adjacent := []Face{first, second}

	arc := make([]geom.Vec3, segments+1)
	for i := 0; i <= segments; i++ {
		step := angle * float64(i) / float64(segments)
		normal := geom.RotationAbout(axis, step).TransformDir(n1).Normalize()
		arc[i] = geom.Sub(edgePoint, normal.Scale(distance))
	}

	result := b
	for i := 0; i < segments; i++ {
		chord := geom.Sub(arc[i+1], arc[i])
		normal := geom.Cross(chord, axis).Normalize()

		plane := geom.Plane{Normal: normal, Dist: geom.Dot(normal, arc[i])}
		if plane.DistanceTo(interior) > 0 {
			plane = plane.Flip()
		}

		bevel, _ := closestFace(adjacent, plane.Normal)
		bevel.Plane = plane

		result, err = result.Clip(bevel)
		if err != nil {
			return nil, false, fmt.Errorf("chamfer segment %d: %w", i+1, err)
		}
	}
	return result, true, nil
}

// adjacentFaces finds the two faces whose polygons share the edge.
func (b *Brush) adjacentFaces(edge geom.Segment) (Face, Face, error) {
	var found []Face
	for i, poly := range b.polygons {
		if poly.Contains(edge.Start, geom.PointEpsilon) && poly.Contains(edge.End, geom.PointEpsilon) {
			found = append(found, b.faces[i])
		}
	}
	if len(found) != 2 {
		return Face{}, Face{}, fmt.Errorf("edge %v-%v is not shared by exactly two faces", edge.Start, edge.End)
	}
	return found[0], found[1], nil
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
