package brush

import (
	"errors"

	"github.com/themuffinator/BrumSchtick/geom"
)

// hullFaces computes the bounding faces of the convex hull of a point
// cloud by brute force: every point triple that spans a plane with all
// points on one side contributes a face, oriented outward. Brushes are
// small; the cubic scan is simpler and more robust than an incremental
// hull at these sizes.
func hullFaces(points []geom.Vec3) ([]Face, error) {
	if len(points) < 4 {
		return nil, errors.New("convex hull needs at least 4 points")
	}

	var faces []Face
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			for k := j + 1; k < len(points); k++ {
				plane, err := geom.PlaneFromPoints(points[i], points[j], points[k])
				if err != nil {
					continue
				}

				switch classifyAgainst(points, plane) {
				case sideBehind:
					// Normal already points outward.
				case sideFront:
					plane = plane.Flip()
				default:
					continue
				}

				if !containsPlane(faces, plane) {
					faces = append(faces, Face{Plane: plane})
				}
			}
		}
	}

	if len(faces) < 4 {
		return nil, errors.New("points do not span a solid")
	}
	return faces, nil
}

type hullSide int

const (
	sideSplit hullSide = iota
	sideBehind
	sideFront
)

func classifyAgainst(points []geom.Vec3, plane geom.Plane) hullSide {
	behind, front := true, true
	for _, p := range points {
		d := plane.DistanceTo(p)
		if d > geom.PointEpsilon {
			behind = false
		}
		if d < -geom.PointEpsilon {
			front = false
		}
		if !behind && !front {
			return sideSplit
		}
	}
	if behind {
		return sideBehind
	}
	return sideFront
}

func containsPlane(faces []Face, plane geom.Plane) bool {
	for _, f := range faces {
		if geom.NearEqual(f.Plane.Normal, plane.Normal, 1e-6) &&
			f.Plane.DistanceTo(plane.Anchor()) <= geom.PointEpsilon &&
			f.Plane.DistanceTo(plane.Anchor()) >= -geom.PointEpsilon {
			return true
		}
	}
	return false
}

// hullWithAttributes builds a brush around the convex hull of points and
// inherits face attributes from the source faces by closest normal.
func hullWithAttributes(points []geom.Vec3, sources []Face) (*Brush, error) {
	faces, err := hullFaces(points)
	if err != nil {
		return nil, err
	}
	inheritAttributes(sources, faces)

	hull, err := newReduced(faces)
	if err != nil {
		return nil, err
	}
	if hull == nil {
		return nil, ErrEmptyBrush
	}
	return hull, nil
}
