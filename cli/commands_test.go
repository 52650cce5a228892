package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/themuffinator/BrumSchtick/brush"
	"github.com/themuffinator/BrumSchtick/formatter"
	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
)

func TestGlobalsSourceFormat(t *testing.T) {
	for _, name := range strings.Split(FormatEnum, ",") {
		t.Run(name, func(t *testing.T) {
			globals := &Globals{Format: name}
			format, err := globals.SourceFormat()
			assert.NoError(t, err)
			assert.NotEqual(t, mapfile.Unknown, format)
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		globals := &Globals{Format: "quake5"}
		_, err := globals.SourceFormat()
		assert.Error(t, err)
	})
}

func TestStarterMap(t *testing.T) {
	doc, err := starterMap(mapfile.Valve, 256, "base/floor")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Entities))

	world := doc.Worldspawn()
	assert.True(t, world != nil)
	assert.True(t, world.IsWorldspawn())

	records := world.Brushes()
	assert.Equal(t, 1, len(records))
	assert.Equal(t, 6, len(records[0].Faces))
	for _, face := range records[0].Faces {
		assert.Equal(t, "base/floor", face.Attrs.Material)
		assert.True(t, face.HasUVAxes)
	}

	// The room record builds back into a valid solid centered on the origin.
	room, err := brush.FromRecord(records[0])
	assert.NoError(t, err)
	assert.Equal(t, geom.Vec3{X: -128, Y: -128, Z: -128}, room.Bounds().Min)
	assert.Equal(t, geom.Vec3{X: 128, Y: 128, Z: 128}, room.Bounds().Max)
}

func TestStarterMapSerializes(t *testing.T) {
	doc, err := starterMap(mapfile.Standard, 64, "stone")
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, formatter.New().Format(doc, &buf))

	reparsed, err := parser.ParseDocument(buf.Bytes(), "starter.map", mapfile.Standard, mapfile.Standard, nil)
	assert.NoError(t, err)

	entities, brushes, patches := countObjects(reparsed)
	assert.Equal(t, 1, entities)
	assert.Equal(t, 1, brushes)
	assert.Equal(t, 0, patches)
}

func TestCountObjects(t *testing.T) {
	doc, err := starterMap(mapfile.Standard, 64, "stone")
	assert.NoError(t, err)

	world := doc.Worldspawn()
	world.Objects = append(world.Objects, &mapfile.PatchRecord{RowCount: 3, ColumnCount: 3})
	doc.Entities = append(doc.Entities, mapfile.NewEntity([]mapfile.EntityProperty{
		{Key: mapfile.ClassnameKey, Value: "info_player_start"},
		{Key: "origin", Value: "0 0 24"},
	}))

	entities, brushes, patches := countObjects(doc)
	assert.Equal(t, 2, entities)
	assert.Equal(t, 1, brushes)
	assert.Equal(t, 1, patches)
}

func TestHollowBrushes(t *testing.T) {
	bounds := geom.BBox{
		Min: geom.Vec3{X: -64, Y: -64, Z: -64},
		Max: geom.Vec3{X: 64, Y: 64, Z: 64},
	}
	room, err := brush.NewBuilder(mapfile.Standard).Cuboid(bounds, "stone")
	assert.NoError(t, err)

	cmd := &HollowCmd{Thickness: 8, Jobs: 2}
	records := []*mapfile.BrushRecord{
		room.ToRecord(mapfile.Standard),
		room.ToRecord(mapfile.Standard),
	}
	results := cmd.hollowBrushes(records, mapfile.Standard)

	assert.Equal(t, 2, len(results))
	for _, result := range results {
		assert.NoError(t, result.err)
		assert.Equal(t, 6, len(result.fragments))
	}
}

func TestHollowBrushesInvalidRecord(t *testing.T) {
	cmd := &HollowCmd{Thickness: 8}
	results := cmd.hollowBrushes([]*mapfile.BrushRecord{{}}, mapfile.Standard)

	assert.Equal(t, 1, len(results))
	assert.Error(t, results[0].err)
}

func TestHollowBrushesEmpty(t *testing.T) {
	cmd := &HollowCmd{Thickness: 8}
	results := cmd.hollowBrushes(nil, mapfile.Standard)
	assert.Equal(t, 0, len(results))
}

func TestFileOrStdin(t *testing.T) {
	t.Run("reads file contents on demand", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.map")
		assert.NoError(t, os.WriteFile(path, []byte("{\n}\n"), 0600))

		f := &FileOrStdin{Filename: path}
		content, err := f.GetSourceContent()
		assert.NoError(t, err)
		assert.Equal(t, "{\n}\n", string(content))
		assert.True(t, filepath.IsAbs(f.GetAbsoluteFilename()))
	})

	t.Run("keeps stdin contents", func(t *testing.T) {
		f := &FileOrStdin{Filename: "<stdin>", Contents: []byte("data")}
		content, err := f.GetSourceContent()
		assert.NoError(t, err)
		assert.Equal(t, "data", string(content))
		assert.Equal(t, "<stdin>", f.GetAbsoluteFilename())
	})
}

func TestRectFlags(t *testing.T) {
	tests := []struct {
		name string
		rect mapfile.HotspotRect
		want string
	}{
		{"none", mapfile.HotspotRect{}, ""},
		{"tileU", mapfile.HotspotRect{TileU: true}, " tileU"},
		{"tileV", mapfile.HotspotRect{TileV: true}, " tileV"},
		{"both", mapfile.HotspotRect{TileU: true, TileV: true}, " tileU tileV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rectFlags(tt.rect))
		})
	}
}
