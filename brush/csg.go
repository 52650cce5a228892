package brush

import (
	"errors"
	"fmt"

	"github.com/themuffinator/BrumSchtick/geom"
)

// Subtract removes the subtrahend brushes from the minuend and returns
// the remaining fragments. The subtraction is a fold: each subtrahend is
// carved out of every fragment in turn. A failure for one
// fragment/subtrahend pair is recorded and that subtrahend is skipped for
// that fragment; earlier fragments are never corrupted.
func Subtract(minuend *Brush, subtrahends []*Brush) ([]*Brush, []error) {
	fragments := []*Brush{minuend}
	var errs []error

	for _, subtrahend := range subtrahends {
		next := make([]*Brush, 0, len(fragments))
		for _, fragment := range fragments {
			pieces, err := subtractFragment(fragment, subtrahend)
			if err != nil {
				errs = append(errs, err)
				next = append(next, fragment)
				continue
			}
			next = append(next, pieces...)
		}
		fragments = next
	}
	return fragments, errs
}

// subtractFragment carves one subtrahend out of one fragment. For each
// subtrahend face, the part of the fragment outside that face becomes a
// result piece and the rest is carried into the next face; whatever is
// left after all faces lies inside the subtrahend and is discarded.
func subtractFragment(fragment, subtrahend *Brush) ([]*Brush, error) {
	if !fragment.bounds.Intersects(subtrahend.bounds) {
		return []*Brush{fragment}, nil
	}

	var pieces []*Brush
	remainder := fragment
	for _, f := range subtrahend.faces {
		// The cavity wall faces the opposite way and shows the
		// subtrahend face's material.
		wall := f
		wall.Plane = f.Plane.Flip()

		piece, err := remainder.clipReduced(wall)
		if err != nil {
			return nil, fmt.Errorf("subtract: %w", err)
		}
		if piece != nil {
			pieces = append(pieces, piece)
		}

		remainder, err = remainder.clipReduced(f)
		if err != nil {
			return nil, fmt.Errorf("subtract: %w", err)
		}
		if remainder == nil {
			break
		}
	}
	return pieces, nil
}

// Intersect computes the pairwise intersection of all brushes in
// sequence. It fails without partial state when any intersection is empty
// or degenerate.
func Intersect(brushes []*Brush) (*Brush, error) {
	if len(brushes) == 0 {
		return nil, errors.New("no brushes to intersect")
	}

	result := brushes[0]
	for _, other := range brushes[1:] {
		faces := make([]Face, 0, len(result.faces)+len(other.faces))
		faces = append(faces, result.faces...)
		faces = append(faces, other.faces...)

		merged, err := newReduced(faces)
		if err != nil {
			return nil, fmt.Errorf("intersect: %w", err)
		}
		if merged == nil {
			return nil, errors.New("intersect: brushes do not overlap")
		}
		result = merged
	}
	return result, nil
}

// ConvexMerge builds the convex hull around all input brushes. The hull
// faces inherit attributes from the input face with the closest normal.
func ConvexMerge(brushes []*Brush) (*Brush, error) {
	if len(brushes) == 0 {
		return nil, errors.New("no brushes to merge")
	}

	var points []geom.Vec3
	var sources []Face
	for _, b := range brushes {
		points = append(points, b.vertices...)
		sources = append(sources, b.faces...)
	}

	merged, err := hullWithAttributes(points, sources)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return merged, nil
}

// Hollow shrinks the brush inward by thickness and subtracts the shrunk
// copy from the original, leaving the walls. A thickness at or beyond the
// brush's extent fails without producing fragments.
func Hollow(b *Brush, thickness float64) ([]*Brush, []error) {
	inner, err := b.Expand(-thickness)
	if err != nil {
		return nil, []error{fmt.Errorf("hollow: %w", err)}
	}
	return Subtract(b, []*Brush{inner})
}
