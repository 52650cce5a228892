// Package brush implements the convex solid kernel: brushes are minimal
// sets of bounding half-space faces, with vertices, edges and face
// polygons derived by plane intersection. All operations follow a
// copy-then-commit discipline; a failed operation leaves its input
// untouched and returns an error.
package brush

import (
	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

// Face is one bounding half-space of a brush: the oriented plane (normal
// pointing out of the solid) plus the material and UV attributes carried
// over from the map file.
type Face struct {
	Plane geom.Plane
	Attrs mapfile.FaceAttributes

	// Explicit texture projection, Valve-style dialects only.
	HasUVAxes bool
	UAxis     geom.Vec3
	VAxis     geom.Vec3
}

// NewFace builds a face from three points using the map file winding
// convention.
func NewFace(p1, p2, p3 geom.Vec3, attrs mapfile.FaceAttributes) (Face, error) {
	plane, err := geom.PlaneFromPoints(p1, p2, p3)
	if err != nil {
		return Face{}, err
	}
	return Face{Plane: plane, Attrs: attrs}, nil
}

// FaceFromRecord converts a parsed map face into a kernel face.
func FaceFromRecord(f mapfile.Face) (Face, error) {
	plane, err := f.Plane()
	if err != nil {
		return Face{}, err
	}
	return Face{
		Plane:     plane,
		Attrs:     f.Attrs,
		HasUVAxes: f.HasUVAxes,
		UAxis:     f.UAxis,
		VAxis:     f.VAxis,
	}, nil
}

// closestFace returns the source face whose normal is closest to the
// given normal, measured by squared difference. Used to inherit
// attributes onto faces created by CSG and vertex operations.
func closestFace(sources []Face, normal geom.Vec3) (Face, bool) {
	if len(sources) == 0 {
		return Face{}, false
	}

	best := 0
	bestDist := geom.SquaredDistance(sources[0].Plane.Normal, normal)
	for i := 1; i < len(sources); i++ {
		if d := geom.SquaredDistance(sources[i].Plane.Normal, normal); d < bestDist {
			best, bestDist = i, d
		}
	}
	return sources[best], true
}

// inheritAttributes copies material and UV attributes onto each target
// face from the source face with the closest normal. Plane data is left
// alone.
func inheritAttributes(sources []Face, targets []Face) {
	for i := range targets {
		source, ok := closestFace(sources, targets[i].Plane.Normal)
		if !ok {
			continue
		}
		targets[i].Attrs = source.Attrs
		targets[i].HasUVAxes = source.HasUVAxes
		targets[i].UAxis = source.UAxis
		targets[i].VAxis = source.VAxis
	}
}
