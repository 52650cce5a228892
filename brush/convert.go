package brush

import (
	"fmt"

	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

// FromRecord builds a solid from a parsed brush record.
func FromRecord(rec *mapfile.BrushRecord) (*Brush, error) {
	faces := make([]Face, len(rec.Faces))
	for i, f := range rec.Faces {
		face, err := FaceFromRecord(f)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		faces[i] = face
	}
	return New(faces)
}

// ToRecord serializes a solid back into a brush record. Each face emits
// three polygon vertices ordered so the map file winding convention
// reconstructs the same outward normal.
func (b *Brush) ToRecord(format mapfile.Format) *mapfile.BrushRecord {
	rec := &mapfile.BrushRecord{Faces: make([]mapfile.Face, len(b.faces))}
	for i, f := range b.faces {
		poly := b.polygons[i]
		rec.Faces[i] = mapfile.Face{
			Format: format,
			Points: [3]geom.Vec3{poly[0], poly[2], poly[1]},
			Attrs:  f.Attrs,

			HasUVAxes: f.HasUVAxes,
			UAxis:     f.UAxis,
			VAxis:     f.VAxis,
		}
	}
	return rec
}
