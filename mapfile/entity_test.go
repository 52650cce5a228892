package mapfile

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/themuffinator/BrumSchtick/geom"
)

func TestEntityDerivedProperties(t *testing.T) {
	e := NewEntity([]EntityProperty{
		{Key: "classname", Value: "info_player_start"},
		{Key: "origin", Value: "16 -32 64"},
	})

	assert.Equal(t, "info_player_start", e.Classname())
	assert.Equal(t, geom.Vec3{X: 16, Y: -32, Z: 64}, e.Origin())
}

func TestEntitySetPropertyRecomputes(t *testing.T) {
	e := NewEntity([]EntityProperty{{Key: "classname", Value: "worldspawn"}})
	assert.True(t, e.IsWorldspawn())

	e.SetProperty("classname", "func_door")
	assert.Equal(t, "func_door", e.Classname())
	assert.False(t, e.IsWorldspawn())

	e.SetProperty("origin", "1 2 3")
	assert.Equal(t, geom.Vec3{X: 1, Y: 2, Z: 3}, e.Origin())

	e.RemoveProperty("origin")
	assert.Equal(t, geom.Vec3{}, e.Origin())
}

func TestEntityDuplicateKeysFirstWins(t *testing.T) {
	e := NewEntity([]EntityProperty{
		{Key: "classname", Value: "first"},
		{Key: "classname", Value: "second"},
	})
	assert.Equal(t, "first", e.Classname())
}

func TestEntityMalformedOrigin(t *testing.T) {
	e := NewEntity([]EntityProperty{{Key: "origin", Value: "not a vector"}})
	assert.Equal(t, geom.Vec3{}, e.Origin())
}

func TestFormatMasks(t *testing.T) {
	tests := []struct {
		format  Format
		valve   bool
		surface bool
		patches bool
	}{
		{Standard, false, false, false},
		{Quake2, false, true, false},
		{Quake2Valve, true, true, false},
		{Valve, true, false, false},
		{Hexen2, false, false, false},
		{Daikatana, false, true, false},
		{Quake3, false, false, true},
		{Quake3Valve, true, true, true},
		{Quake3Legacy, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			assert.Equal(t, tt.valve, tt.format.HasValveUVAxes())
			assert.Equal(t, tt.surface, tt.format.HasSurfaceAttributes())
			assert.Equal(t, tt.patches, tt.format.HasPatches())
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	names := []string{
		"standard", "quake2", "quake2_valve", "valve", "hexen2",
		"daikatana", "quake3", "quake3_valve", "quake3_legacy",
	}
	for _, name := range names {
		f, err := ParseFormat(name)
		assert.NoError(t, err)
		assert.NotEqual(t, Unknown, f)
	}

	_, err := ParseFormat("quake4")
	assert.Error(t, err)
}

func TestHotspotRectMapOrder(t *testing.T) {
	m := NewHotspotRectMap()
	m.Add("b", HotspotRect{Min: geom.Vec2{X: 0, Y: 0}, Size: geom.Vec2{X: 8, Y: 8}, Weight: 1})
	m.Add("a", HotspotRect{Min: geom.Vec2{X: 8, Y: 0}, Size: geom.Vec2{X: 8, Y: 8}, Weight: 1})
	m.Add("b", HotspotRect{Min: geom.Vec2{X: 0, Y: 8}, Size: geom.Vec2{X: 8, Y: 8}, Weight: 2})

	assert.Equal(t, []string{"b", "a"}, m.Textures())
	assert.Equal(t, 2, len(m.Rects("b")))
	assert.Equal(t, 2.0, m.Rects("b")[1].Weight)
}
