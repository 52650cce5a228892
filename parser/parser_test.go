package parser

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

func parseTestMap(t *testing.T, source string, format mapfile.Format) (*mapfile.Document, *CollectingStatus) {
	t.Helper()

	status := &CollectingStatus{}
	doc, err := ParseDocument([]byte(source), "test.map", format, format, status)
	assert.NoError(t, err)
	return doc, status
}

func singleBrush(t *testing.T, doc *mapfile.Document) *mapfile.BrushRecord {
	t.Helper()

	assert.Equal(t, 1, len(doc.Entities))
	brushes := doc.Entities[0].Brushes()
	assert.Equal(t, 1, len(brushes))
	return brushes[0]
}

func TestParseEntityProperties(t *testing.T) {
	source := `{
"classname" "worldspawn"
"message" "say \"hi\""
"origin" "16 -32 64"
}`
	doc, _ := parseTestMap(t, source, mapfile.Standard)

	assert.Equal(t, 1, len(doc.Entities))
	entity := doc.Entities[0]
	assert.True(t, entity.IsWorldspawn())
	assert.Equal(t, geom.Vec3{X: 16, Y: -32, Z: 64}, entity.Origin())

	message, ok := entity.Property("message")
	assert.True(t, ok)
	assert.Equal(t, `say "hi"`, message)
}

func TestParseMultipleEntities(t *testing.T) {
	source := `{
"classname" "worldspawn"
}
{
"classname" "info_player_start"
"origin" "0 0 24"
}`
	doc, _ := parseTestMap(t, source, mapfile.Standard)

	assert.Equal(t, 2, len(doc.Entities))
	assert.Equal(t, "worldspawn", doc.Entities[0].Classname())
	assert.Equal(t, "info_player_start", doc.Entities[1].Classname())
	assert.Equal(t, doc.Entities[0], doc.Worldspawn())
}

func TestParseBrushThenSiblingEntity(t *testing.T) {
	source := `{
"classname" "worldspawn"
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) floor 0 0 0 1 1
( 0 0 16 ) ( 1 0 16 ) ( 0 1 16 ) ceil 0 0 0 1 1
}
}
{
"classname" "info_player_start"
"origin" "0 0 24"
}`
	doc, _ := parseTestMap(t, source, mapfile.Standard)

	assert.Equal(t, 2, len(doc.Entities))
	brushes := doc.Entities[0].Brushes()
	assert.Equal(t, 1, len(brushes))
	assert.Equal(t, 2, len(brushes[0].Faces))
	assert.Equal(t, "info_player_start", doc.Entities[1].Classname())
}

func TestParseStandardFace(t *testing.T) {
	source := `{
"classname" "worldspawn"
{
( -64 -64 -16 ) ( -64 -63 -16 ) ( -63 -64 -16 ) mt_ground 16 -8 45 1.5 2
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Standard)

	brush := singleBrush(t, doc)
	assert.Equal(t, 1, len(brush.Faces))

	face := brush.Faces[0]
	assert.Equal(t, geom.Vec3{X: -64, Y: -64, Z: -16}, face.Points[0])
	assert.Equal(t, geom.Vec3{X: -64, Y: -63, Z: -16}, face.Points[1])
	assert.Equal(t, geom.Vec3{X: -63, Y: -64, Z: -16}, face.Points[2])
	assert.Equal(t, "mt_ground", face.Attrs.Material)
	assert.Equal(t, 16.0, face.Attrs.XOffset)
	assert.Equal(t, -8.0, face.Attrs.YOffset)
	assert.Equal(t, 45.0, face.Attrs.Rotation)
	assert.Equal(t, 1.5, face.Attrs.XScale)
	assert.Equal(t, 2.0, face.Attrs.YScale)
	assert.False(t, face.HasUVAxes)
	assert.False(t, face.Attrs.HasSurfaceAttributes)
}

func TestParseFacePointCorrection(t *testing.T) {
	source := `{
{
( -0.0002 63.9999 16.0005 ) ( 0 64.5 16 ) ( 1 64 16 ) stone 0 0 0 1 1
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Standard)

	face := singleBrush(t, doc).Faces[0]
	assert.Equal(t, geom.Vec3{X: 0, Y: 64, Z: 16}, face.Points[0])
	assert.Equal(t, geom.Vec3{X: 0, Y: 64.5, Z: 16}, face.Points[1])
}

func TestParseQuotedMaterialName(t *testing.T) {
	source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) "stone floor" 0 0 0 1 1
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Standard)

	face := singleBrush(t, doc).Faces[0]
	assert.Equal(t, "stone floor", face.Attrs.Material)
}

func TestParseQuake2Face(t *testing.T) {
	t.Run("with surface attributes", func(t *testing.T) {
		source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) e1u1/floor 0 0 0 1 1 134217728 271 12.5
}
}`
		doc, _ := parseTestMap(t, source, mapfile.Quake2)

		face := singleBrush(t, doc).Faces[0]
		assert.True(t, face.Attrs.HasSurfaceAttributes)
		assert.Equal(t, 134217728, face.Attrs.SurfaceContents)
		assert.Equal(t, 271, face.Attrs.SurfaceFlags)
		assert.Equal(t, 12.5, face.Attrs.SurfaceValue)
	})

	t.Run("without surface attributes", func(t *testing.T) {
		source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) e1u1/floor 0 0 0 1 1
( 0 0 16 ) ( 1 0 16 ) ( 0 1 16 ) e1u1/ceil 0 0 0 1 1
}
}`
		doc, _ := parseTestMap(t, source, mapfile.Quake2)

		brush := singleBrush(t, doc)
		assert.Equal(t, 2, len(brush.Faces))
		assert.False(t, brush.Faces[0].Attrs.HasSurfaceAttributes)
	})
}

func TestParseValveFace(t *testing.T) {
	source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) BRICK [ 1 0 0 32 ] [ 0 -1 0 16 ] 45 1.25 0.5
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Valve)

	face := singleBrush(t, doc).Faces[0]
	assert.True(t, face.HasUVAxes)
	assert.Equal(t, geom.Vec3{X: 1, Y: 0, Z: 0}, face.UAxis)
	assert.Equal(t, geom.Vec3{X: 0, Y: -1, Z: 0}, face.VAxis)
	assert.Equal(t, 32.0, face.Attrs.XOffset)
	assert.Equal(t, 16.0, face.Attrs.YOffset)
	assert.Equal(t, 45.0, face.Attrs.Rotation)
	assert.Equal(t, 1.25, face.Attrs.XScale)
	assert.Equal(t, 0.5, face.Attrs.YScale)
}

func TestParseQuake2ValveFace(t *testing.T) {
	source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) floor [ 1 0 0 0 ] [ 0 -1 0 0 ] 0 1 1 0 16 0
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Quake2Valve)

	face := singleBrush(t, doc).Faces[0]
	assert.True(t, face.HasUVAxes)
	assert.True(t, face.Attrs.HasSurfaceAttributes)
	assert.Equal(t, 16, face.Attrs.SurfaceFlags)
}

func TestParseHexen2Face(t *testing.T) {
	// Hexen 2 faces may carry a trailing unknown field.
	source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) wall 0 0 0 1 1 -1
( 0 0 16 ) ( 1 0 16 ) ( 0 1 16 ) wall 0 0 0 1 1
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Hexen2)

	brush := singleBrush(t, doc)
	assert.Equal(t, 2, len(brush.Faces))
	for _, face := range brush.Faces {
		assert.Equal(t, "wall", face.Attrs.Material)
		assert.False(t, face.Attrs.HasSurfaceAttributes)
	}
}

func TestParseHexen2FaceKeepsAnnotations(t *testing.T) {
	// The trailing-field skip must not eat an annotated comment that
	// follows a face without the extra field.
	source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) wall 0 0 0 1 1
/// layer: walls
( 0 0 16 ) ( 1 0 16 ) ( 0 1 16 ) wall 0 0 0 1 1 -1
/// end of layer
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Hexen2)

	brush := singleBrush(t, doc)
	assert.Equal(t, 2, len(brush.Faces))
}

func TestParseDaikatanaFace(t *testing.T) {
	t.Run("with color", func(t *testing.T) {
		source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) dk_wall 0 0 0 1 1 1 2 3.5 300 128 -5
}
}`
		doc, _ := parseTestMap(t, source, mapfile.Daikatana)

		face := singleBrush(t, doc).Faces[0]
		assert.True(t, face.Attrs.HasSurfaceAttributes)
		assert.Equal(t, 1, face.Attrs.SurfaceContents)
		assert.Equal(t, 2, face.Attrs.SurfaceFlags)
		assert.Equal(t, 3.5, face.Attrs.SurfaceValue)
		assert.True(t, face.Attrs.HasColor)
		assert.Equal(t, [3]int{255, 128, 0}, face.Attrs.Color)
	})

	t.Run("without optional fields", func(t *testing.T) {
		source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) dk_wall 0 0 0 1 1
}
}`
		doc, _ := parseTestMap(t, source, mapfile.Daikatana)

		face := singleBrush(t, doc).Faces[0]
		assert.False(t, face.Attrs.HasSurfaceAttributes)
		assert.False(t, face.Attrs.HasColor)
	})
}

func TestParsePatchDef2(t *testing.T) {
	source := `{
"classname" "worldspawn"
{
patchDef2
{
base_wall/c_met5_2
( 3 3 0 0 0 )
(
( ( 0 0 0 0 0 ) ( 0 64 0 0 0.5 ) ( 0 128 0 0 1 ) )
( ( 64 0 0 0.5 0 ) ( 64 64 32 0.5 0.5 ) ( 64 128 0 0.5 1 ) )
( ( 128 0 0 1 0 ) ( 128 64 0 1 0.5 ) ( 128 128 0 1 1 ) )
)
}
}
}`
	doc, status := parseTestMap(t, source, mapfile.Quake3)

	assert.Equal(t, 0, len(status.Warnings))
	patches := doc.Entities[0].Patches()
	assert.Equal(t, 1, len(patches))

	patch := patches[0]
	assert.Equal(t, "base_wall/c_met5_2", patch.Material)
	assert.Equal(t, 3, patch.RowCount)
	assert.Equal(t, 3, patch.ColumnCount)
	assert.Equal(t, 9, len(patch.ControlPoints))
	assert.Equal(t, 0, len(patch.ControlNormals))

	center := patch.ControlPoints[4]
	assert.Equal(t, geom.Vec3{X: 64, Y: 64, Z: 32}, center.Pos)
	assert.Equal(t, geom.Vec2{X: 0.5, Y: 0.5}, center.UV)
}

func TestParsePatchDef3(t *testing.T) {
	source := `{
{
patchDef3
{
common/caulk
( 3 3 0 0 0 )
(
( ( 0 0 0 0 0 1 0 0 ) ( 0 64 0 0 0 1 0 0.5 ) ( 0 128 0 0 0 1 0 1 ) )
( ( 64 0 0 0 0 1 0.5 0 ) ( 64 64 0 0 0 1 0.5 0.5 ) ( 64 128 0 0 0 1 0.5 1 ) )
( ( 128 0 0 0 0 1 1 0 ) ( 128 64 0 0 0 1 1 0.5 ) ( 128 128 0 0 0 1 1 1 ) )
)
}
}
}`
	doc, _ := parseTestMap(t, source, mapfile.Quake3)

	patch := doc.Entities[0].Patches()[0]
	assert.Equal(t, 9, len(patch.ControlPoints))
	assert.Equal(t, 9, len(patch.ControlNormals))
	assert.Equal(t, geom.Vec3{X: 0, Y: 0, Z: 1}, patch.ControlNormals[4])
	assert.Equal(t, geom.Vec2{X: 0.5, Y: 0.5}, patch.ControlPoints[4].UV)
}

func TestParsePatchSanitizesDimensions(t *testing.T) {
	// A declared 2x4 grid must be expanded to 3x5 by duplicating the last
	// row and column.
	source := `{
{
patchDef2
{
caulk
( 2 4 0 0 0 )
(
( ( 0 0 0 0 0 ) ( 0 1 0 0 0 ) ( 0 2 0 0 0 ) ( 0 3 0 0 0 ) )
( ( 1 0 0 0 0 ) ( 1 1 0 0 0 ) ( 1 2 0 0 0 ) ( 1 3 0 0 0 ) )
)
}
}
}`
	doc, status := parseTestMap(t, source, mapfile.Quake3)

	assert.Equal(t, 2, len(status.Warnings))
	assert.Equal(t, "Invalid patch height, expanding to 3", status.Warnings[0].Message)
	assert.Equal(t, "Invalid patch width, expanding to 5", status.Warnings[1].Message)

	patch := doc.Entities[0].Patches()[0]
	assert.Equal(t, 3, patch.RowCount)
	assert.Equal(t, 5, patch.ColumnCount)
	assert.Equal(t, 15, len(patch.ControlPoints))

	// The extra row and column repeat the last source row and column.
	assert.Equal(t, geom.Vec3{X: 1, Y: 3, Z: 0}, patch.ControlPoints[9].Pos)
	assert.Equal(t, geom.Vec3{X: 1, Y: 0, Z: 0}, patch.ControlPoints[10].Pos)
	assert.Equal(t, geom.Vec3{X: 1, Y: 3, Z: 0}, patch.ControlPoints[14].Pos)
}

func TestParsePatchNonPositiveDimension(t *testing.T) {
	source := `{
{
patchDef2
{
caulk
( 0 3 0 0 0 )
(
( ( 0 0 0 0 0 ) ( 0 1 0 0 0 ) ( 0 2 0 0 0 ) )
)
}
}
}`
	doc, status := parseTestMap(t, source, mapfile.Quake3)

	assert.Equal(t, 2, len(status.Warnings))
	assert.Equal(t, "Invalid patch height, assuming 1", status.Warnings[0].Message)
	assert.Equal(t, "Invalid patch height, expanding to 3", status.Warnings[1].Message)

	patch := doc.Entities[0].Patches()[0]
	assert.Equal(t, 3, patch.RowCount)
	assert.Equal(t, 3, patch.ColumnCount)
	assert.Equal(t, 9, len(patch.ControlPoints))
}

func TestParseBrushPrimitiveSkipped(t *testing.T) {
	source := `{
"classname" "worldspawn"
{
brushDef
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) ( ( 0.0078125 0 0 ) ( 0 0.0078125 0 ) ) common/caulk 0 0 0
}
}
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) common/caulk 0 0 0 1 1
}
}`
	doc, status := parseTestMap(t, source, mapfile.Quake3)

	assert.Equal(t, 1, len(status.Warnings))
	assert.Equal(t, "Skipping brush primitive: currently not supported", status.Warnings[0].Message)

	// The primitive is consumed but not materialized; only the regular
	// brush survives.
	brushes := doc.Entities[0].Brushes()
	assert.Equal(t, 1, len(brushes))
	assert.Equal(t, 1, len(brushes[0].Faces))
}

func TestParseLayerComments(t *testing.T) {
	source := `{
"classname" "worldspawn"
/// layer: walls
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) wall 0 0 0 1 1
}
/// end of layer
}`
	doc, _ := parseTestMap(t, source, mapfile.Standard)

	assert.Equal(t, 1, len(doc.Entities[0].Brushes()))
}

func TestParseBrushFaces(t *testing.T) {
	source := `( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) floor 0 0 0 1 1
( 0 0 16 ) ( 1 0 16 ) ( 0 1 16 ) ceil 0 0 0 1 1`

	var faces []mapfile.Face
	receiver := &faceRecorder{
		DocumentCollector: NewDocumentCollector(mapfile.Standard),
		faces:             &faces,
	}

	p, err := NewMapParser([]byte(source), "faces.txt", mapfile.Standard, mapfile.Standard, receiver, nil)
	assert.NoError(t, err)
	assert.NoError(t, p.ParseBrushFaces())

	assert.Equal(t, 2, len(faces))
	assert.Equal(t, "floor", faces[0].Attrs.Material)
	assert.Equal(t, "ceil", faces[1].Attrs.Material)
}

// faceRecorder captures faces emitted outside a brush.
type faceRecorder struct {
	*DocumentCollector
	faces *[]mapfile.Face
}

func (r *faceRecorder) StandardFace(face mapfile.Face) {
	*r.faces = append(*r.faces, face)
}

func TestParseBrushesOrPatches(t *testing.T) {
	source := `{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) a 0 0 0 1 1
}
{
( 0 0 16 ) ( 1 0 16 ) ( 0 1 16 ) b 0 0 0 1 1
}`

	collector := NewDocumentCollector(mapfile.Standard)
	p, err := NewMapParser([]byte(source), "clip.txt", mapfile.Standard, mapfile.Standard, collector, nil)
	assert.NoError(t, err)

	collector.BeginEntity(mapfile.Position{}, nil)
	assert.NoError(t, p.ParseBrushesOrPatches())
	collector.EndEntity(mapfile.Position{})

	doc := collector.Document()
	assert.Equal(t, 2, len(doc.Entities[0].Brushes()))
}

func TestParseTargetFormatTagsFaces(t *testing.T) {
	source := `{
{
( 0 0 0 ) ( 0 1 0 ) ( 1 0 0 ) wall 0 0 0 1 1
}
}`
	doc, err := ParseDocument([]byte(source), "test.map", mapfile.Standard, mapfile.Hexen2, nil)
	assert.NoError(t, err)

	face := doc.Entities[0].Brushes()[0].Faces[0]
	assert.Equal(t, mapfile.Hexen2, face.Format)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		format mapfile.Format
	}{
		{
			name:   "property without value",
			source: "{\n\"classname\"\n}",
			format: mapfile.Standard,
		},
		{
			name:   "unclosed entity",
			source: "{\n\"classname\" \"worldspawn\"\n",
			format: mapfile.Standard,
		},
		{
			name:   "text instead of number",
			source: "{\n{\n( 0 x 0 ) ( 0 1 0 ) ( 1 0 0 ) wall 0 0 0 1 1\n}\n}",
			format: mapfile.Standard,
		},
		{
			name:   "unknown object keyword",
			source: "{\n{\nbrushDef4\n{\n}\n}\n}",
			format: mapfile.Quake3,
		},
		{
			name:   "stray token at top level",
			source: "stray",
			format: mapfile.Standard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.source), "test.map", tt.format, tt.format, nil)
			assert.Error(t, err)

			parseErr, ok := err.(*ParseError)
			assert.True(t, ok, "expected a ParseError, got %T", err)
			assert.NotZero(t, parseErr.Pos.Line)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseDocument([]byte("{\n\"classname\"\n}"), "test.map", mapfile.Standard, mapfile.Standard, nil)

	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "test.map:"), "error should carry the filename: %s", err)
}

func TestNewMapParserValidation(t *testing.T) {
	collector := NewDocumentCollector(mapfile.Standard)

	_, err := NewMapParser(nil, "", mapfile.Unknown, mapfile.Standard, collector, nil)
	assert.Error(t, err)

	_, err = NewMapParser(nil, "", mapfile.Standard, mapfile.Unknown, collector, nil)
	assert.Error(t, err)

	_, err = NewMapParser(nil, "", mapfile.Standard, mapfile.Standard, nil, nil)
	assert.Error(t, err)
}
