package brush

import (
	"errors"
	"fmt"
	"math"

	"github.com/themuffinator/BrumSchtick/geom"
)

// Vertex, edge and face drags. Features are identified by their current
// geometric position, matched by epsilon against the live brush, not by
// stable IDs: after any rebuild the topology may differ (vertices merge,
// faces split), so each operation reports the new positions of the moved
// features by closest match in the result.

// MoveVertices translates the vertices at the given positions by delta
// and rebuilds the solid as the hull of the moved point cloud. It returns
// the rebuilt brush and the new positions of the moved vertices. The
// input brush is untouched on failure.
func (b *Brush) MoveVertices(positions []geom.Vec3, delta geom.Vec3) (*Brush, []geom.Vec3, error) {
	if len(positions) == 0 {
		return nil, nil, errors.New("no vertices to move")
	}

	cloud, movedCount, err := b.movedCloud(positions, delta)
	if err != nil {
		return nil, nil, err
	}
	if movedCount == len(b.vertices) {
		// Every vertex moves: a plain translation, no hull rebuild.
		translated, err := b.Transform(geom.Translation(delta))
		if err != nil {
			return nil, nil, err
		}
		return translated, translatedPositions(positions, delta), nil
	}

	moved, err := hullWithAttributes(cloud, b.faces)
	if err != nil {
		return nil, nil, err
	}

	result := make([]geom.Vec3, len(positions))
	for i, p := range positions {
		result[i] = moved.FindClosestVertex(geom.Add(p, delta))
	}
	return moved, result, nil
}

// CanMoveVertices reports whether MoveVertices would succeed.
func (b *Brush) CanMoveVertices(positions []geom.Vec3, delta geom.Vec3) bool {
	_, _, err := b.MoveVertices(positions, delta)
	return err == nil
}

// MoveEdges translates the edges at the given positions by delta. It
// returns the rebuilt brush and the new edges, found by closest midpoint.
func (b *Brush) MoveEdges(edges []geom.Segment, delta geom.Vec3) (*Brush, []geom.Segment, error) {
	if len(edges) == 0 {
		return nil, nil, errors.New("no edges to move")
	}

	brushEdges := b.Edges()
	var positions []geom.Vec3
	for _, edge := range edges {
		if !containsEdge(brushEdges, edge) {
			return nil, nil, fmt.Errorf("no edge matches %v-%v", edge.Start, edge.End)
		}
		positions = appendPosition(positions, edge.Start)
		positions = appendPosition(positions, edge.End)
	}

	moved, _, err := b.MoveVertices(positions, delta)
	if err != nil {
		return nil, nil, err
	}

	result := make([]geom.Segment, len(edges))
	for i, edge := range edges {
		result[i] = moved.FindClosestEdge(geom.Add(edge.Center(), delta))
	}
	return moved, result, nil
}

// CanMoveEdges reports whether MoveEdges would succeed.
func (b *Brush) CanMoveEdges(edges []geom.Segment, delta geom.Vec3) bool {
	_, _, err := b.MoveEdges(edges, delta)
	return err == nil
}

// MoveFaces translates the faces at the given polygons by delta. It
// returns the rebuilt brush and the new polygons, found by closest
// center.
func (b *Brush) MoveFaces(polygons []geom.Polygon, delta geom.Vec3) (*Brush, []geom.Polygon, error) {
	if len(polygons) == 0 {
		return nil, nil, errors.New("no faces to move")
	}

	var positions []geom.Vec3
	for _, polygon := range polygons {
		if b.findPolygon(polygon) < 0 {
			return nil, nil, errors.New("no face matches the given polygon")
		}
		for _, v := range polygon {
			positions = appendPosition(positions, v)
		}
	}

	moved, _, err := b.MoveVertices(positions, delta)
	if err != nil {
		return nil, nil, err
	}

	result := make([]geom.Polygon, len(polygons))
	for i, polygon := range polygons {
		result[i] = moved.FindClosestPolygon(geom.Add(polygon.Center(), delta))
	}
	return moved, result, nil
}

// CanMoveFaces reports whether MoveFaces would succeed.
func (b *Brush) CanMoveFaces(polygons []geom.Polygon, delta geom.Vec3) bool {
	_, _, err := b.MoveFaces(polygons, delta)
	return err == nil
}

// SnapVertices snaps every vertex to the given grid and rebuilds the
// solid around the snapped cloud.
func (b *Brush) SnapVertices(gridSize float64) (*Brush, error) {
	if gridSize <= 0 {
		return nil, errors.New("grid size must be positive")
	}

	var snapped []geom.Vec3
	for _, v := range b.vertices {
		snapped = appendPosition(snapped, snapToGrid(v, gridSize))
	}
	return hullWithAttributes(snapped, b.faces)
}

// CanSnapVertices reports whether SnapVertices would succeed.
func (b *Brush) CanSnapVertices(gridSize float64) bool {
	_, err := b.SnapVertices(gridSize)
	return err == nil
}

// AddVertex extends the brush to the hull of its vertices plus p. A point
// already inside the brush is rejected; it would not change the solid.
func (b *Brush) AddVertex(p geom.Vec3) (*Brush, error) {
	if b.ContainsPoint(p) {
		return nil, errors.New("vertex lies inside the brush")
	}

	cloud := make([]geom.Vec3, 0, len(b.vertices)+1)
	cloud = append(cloud, b.vertices...)
	cloud = append(cloud, p)
	return hullWithAttributes(cloud, b.faces)
}

// RemoveVertices rebuilds the brush without the vertices at the given
// positions. At least four vertices must remain.
func (b *Brush) RemoveVertices(positions []geom.Vec3) (*Brush, error) {
	if len(positions) == 0 {
		return nil, errors.New("no vertices to remove")
	}
	for _, p := range positions {
		if !containsVertex(b.vertices, p) {
			return nil, fmt.Errorf("no vertex matches %v", p)
		}
	}

	var kept []geom.Vec3
	for _, v := range b.vertices {
		if !containsVertex(positions, v) {
			kept = append(kept, v)
		}
	}
	if len(kept) < 4 {
		return nil, errors.New("removal leaves fewer than 4 vertices")
	}
	return hullWithAttributes(kept, b.faces)
}

// CanRemoveVertices reports whether RemoveVertices would succeed.
func (b *Brush) CanRemoveVertices(positions []geom.Vec3) bool {
	_, err := b.RemoveVertices(positions)
	return err == nil
}

// movedCloud builds the vertex cloud with the selected vertices moved by
// delta. Every given position must match a live vertex.
func (b *Brush) movedCloud(positions []geom.Vec3, delta geom.Vec3) ([]geom.Vec3, int, error) {
	for _, p := range positions {
		if !containsVertex(b.vertices, p) {
			return nil, 0, fmt.Errorf("no vertex matches %v", p)
		}
	}

	cloud := make([]geom.Vec3, 0, len(b.vertices))
	movedCount := 0
	for _, v := range b.vertices {
		if containsVertex(positions, v) {
			cloud = appendPosition(cloud, geom.Add(v, delta))
			movedCount++
		} else {
			cloud = appendPosition(cloud, v)
		}
	}
	return cloud, movedCount, nil
}

// appendPosition appends p unless an epsilon-equal point is present.
func appendPosition(positions []geom.Vec3, p geom.Vec3) []geom.Vec3 {
	if containsVertex(positions, p) {
		return positions
	}
	return append(positions, p)
}

func translatedPositions(positions []geom.Vec3, delta geom.Vec3) []geom.Vec3 {
	result := make([]geom.Vec3, len(positions))
	for i, p := range positions {
		result[i] = geom.Add(p, delta)
	}
	return result
}

func snapToGrid(v geom.Vec3, gridSize float64) geom.Vec3 {
	return geom.Vec3{
		X: math.Round(v.X/gridSize) * gridSize,
		Y: math.Round(v.Y/gridSize) * gridSize,
		Z: math.Round(v.Z/gridSize) * gridSize,
	}
}
