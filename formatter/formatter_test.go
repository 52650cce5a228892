package formatter

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
)

func parseMap(t *testing.T, source string, format mapfile.Format) *mapfile.Document {
	t.Helper()

	doc, err := parser.ParseDocument([]byte(source), "test.map", format, format, parser.NopStatus{})
	assert.NoError(t, err)
	return doc
}

// roundTrip parses source, serializes the document and parses the output
// again, returning both documents for comparison.
func roundTrip(t *testing.T, source string, format mapfile.Format) (*mapfile.Document, *mapfile.Document) {
	t.Helper()

	doc := parseMap(t, source, format)

	var buf strings.Builder
	err := New().Format(doc, &buf)
	assert.NoError(t, err)

	return doc, parseMap(t, buf.String(), format)
}

func assertSameFaces(t *testing.T, want, got *mapfile.Document) {
	t.Helper()

	assert.Equal(t, len(want.Entities), len(got.Entities))
	for i, entity := range want.Entities {
		assert.Equal(t, entity.Properties, got.Entities[i].Properties)

		wantBrushes := entity.Brushes()
		gotBrushes := got.Entities[i].Brushes()
		assert.Equal(t, len(wantBrushes), len(gotBrushes))

		for j, brush := range wantBrushes {
			assert.Equal(t, len(brush.Faces), len(gotBrushes[j].Faces))
			for k, face := range brush.Faces {
				other := gotBrushes[j].Faces[k]
				assert.Equal(t, face.Points, other.Points)
				assert.Equal(t, face.Attrs, other.Attrs)
				assert.Equal(t, face.HasUVAxes, other.HasUVAxes)
				assert.Equal(t, face.UAxis, other.UAxis)
				assert.Equal(t, face.VAxis, other.VAxis)
			}
		}
	}
}

func TestRoundTripFaces(t *testing.T) {
	tests := []struct {
		name   string
		format mapfile.Format
		face   string
	}{
		{"Standard", mapfile.Standard,
			`( -64 16 0 ) ( -48 16 8 ) ( -48 18 8 ) mmetal1_2 0 16 45 1 -1`},
		{"Quake2", mapfile.Quake2,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) e1u1/floor1_3 0 0 0 1 1 134217728 8 700`},
		{"Quake2 without surface attributes", mapfile.Quake2,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) e1u1/floor1_3 0 0 0 1 1`},
		{"Quake2 Valve", mapfile.Quake2Valve,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) e1u1/floor1_3 [ 1 0 0 16 ] [ 0 -1 0 -8 ] 0 1 1 0 1 700`},
		{"Valve", mapfile.Valve,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) BRICK [ 1 0 0 0.5 ] [ 0 -1 0 0.25 ] 0 1.5 1.5`},
		{"Hexen2", mapfile.Hexen2,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) wood 0 0 0 1 1`},
		{"Daikatana", mapfile.Daikatana,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) grate 0 0 0 1 1 1 2 3 255 128 0`},
		{"Quake3", mapfile.Quake3,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) base_wall/c_met5_2 0 0 0 0.5 0.5`},
		{"Quake3 Valve", mapfile.Quake3Valve,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) base_wall/c_met5_2 [ 1 0 0 0 ] [ 0 -1 0 0 ] 0 1 1 0 0 0`},
		{"Quake3 Legacy", mapfile.Quake3Legacy,
			`( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) base_wall/c_met5_2 0 0 0 1 1 0 512 0`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			source := "{\n\"classname\" \"worldspawn\"\n{\n" + test.face + "\n}\n}\n"

			want, got := roundTrip(t, source, test.format)
			assertSameFaces(t, want, got)
		})
	}
}

func TestRoundTripProperties(t *testing.T) {
	source := `{
"classname" "info_player_start"
"message" "say \"hello\" and \\wave"
"origin" "16 -32 24"
}`

	want, got := roundTrip(t, source, mapfile.Standard)
	assertSameFaces(t, want, got)
	assert.Equal(t, `say "hello" and \wave`, mustProperty(t, got.Entities[0], "message"))
}

func mustProperty(t *testing.T, e *mapfile.Entity, key string) string {
	t.Helper()
	v, ok := e.Property(key)
	assert.True(t, ok)
	return v
}

func TestRoundTripPatchDef2(t *testing.T) {
	source := `{
"classname" "worldspawn"
{
patchDef2
{
base_wall/c_met5_2
( 3 3 0 0 0 )
(
( ( 0 0 0 0 0 ) ( 0 32 0 0 0.5 ) ( 0 64 0 0 1 ) )
( ( 32 0 16 0.5 0 ) ( 32 32 16 0.5 0.5 ) ( 32 64 16 0.5 1 ) )
( ( 64 0 0 1 0 ) ( 64 32 0 1 0.5 ) ( 64 64 0 1 1 ) )
)
}
}
}`

	want, got := roundTrip(t, source, mapfile.Quake3)

	wantPatch := want.Entities[0].Patches()[0]
	gotPatch := got.Entities[0].Patches()[0]
	assert.Equal(t, wantPatch.RowCount, gotPatch.RowCount)
	assert.Equal(t, wantPatch.ColumnCount, gotPatch.ColumnCount)
	assert.Equal(t, wantPatch.Material, gotPatch.Material)
	assert.Equal(t, wantPatch.ControlPoints, gotPatch.ControlPoints)
	assert.Equal(t, 0, len(gotPatch.ControlNormals))
}

func TestRoundTripPatchDef3(t *testing.T) {
	source := `{
"classname" "worldspawn"
{
patchDef3
{
base_wall/c_met5_2
( 3 3 0 0 0 )
(
( ( 0 0 0 0 0 1 0 0 ) ( 0 32 0 0 0 1 0 0.5 ) ( 0 64 0 0 0 1 0 1 ) )
( ( 32 0 16 0 0 1 0.5 0 ) ( 32 32 16 0 0 1 0.5 0.5 ) ( 32 64 16 0 0 1 0.5 1 ) )
( ( 64 0 0 0 0 1 1 0 ) ( 64 32 0 0 0 1 1 0.5 ) ( 64 64 0 0 0 1 1 1 ) )
)
}
}
}`

	want, got := roundTrip(t, source, mapfile.Quake3)

	wantPatch := want.Entities[0].Patches()[0]
	gotPatch := got.Entities[0].Patches()[0]
	assert.Equal(t, wantPatch.ControlPoints, gotPatch.ControlPoints)
	assert.Equal(t, wantPatch.ControlNormals, gotPatch.ControlNormals)
}

func TestFormatConversion(t *testing.T) {
	source := `{
"classname" "worldspawn"
{
( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) stone 0 0 0 1 1
}
}`

	doc := parseMap(t, source, mapfile.Standard)

	// Standard attributes survive in a dialect with a wider face grammar:
	// the surface triple is optional and stays absent.
	var buf strings.Builder
	err := New(WithFormat(mapfile.Quake2)).Format(doc, &buf)
	assert.NoError(t, err)

	converted := parseMap(t, buf.String(), mapfile.Quake2)
	face := converted.Entities[0].Brushes()[0].Faces[0]
	assert.Equal(t, "stone", face.Attrs.Material)
	assert.False(t, face.Attrs.HasSurfaceAttributes)
}

func TestFormatUnknownFormatFails(t *testing.T) {
	doc := &mapfile.Document{}

	var buf strings.Builder
	err := New().Format(doc, &buf)
	assert.Error(t, err)
}

func TestQuotedMaterial(t *testing.T) {
	source := "{\n{\n( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) \"two words\" 0 0 0 1 1\n}\n}\n"

	want, got := roundTrip(t, source, mapfile.Standard)
	assertSameFaces(t, want, got)
	assert.Equal(t, "two words", got.Entities[0].Brushes()[0].Faces[0].Attrs.Material)
}

func TestWriteNumberFormatting(t *testing.T) {
	var buf strings.Builder
	for _, f := range []float64{0, 64, -1, 0.5, -0.125, 1e16} {
		writeNumber(&buf, f)
		buf.WriteByte(' ')
	}
	assert.Equal(t, "0 64 -1 0.5 -0.125 10000000000000000 ", buf.String())
}
