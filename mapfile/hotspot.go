package mapfile

import "github.com/themuffinator/BrumSchtick/geom"

// HotspotRect is one texture hotspot: a rectangle in texture space with
// tiling flags and a selection weight.
type HotspotRect struct {
	Min    geom.Vec2
	Size   geom.Vec2
	TileU  bool
	TileV  bool
	Weight float64 // > 0, defaults to 1.0
}

// HotspotRectMap maps texture names to their declared hotspot rects,
// preserving both declaration order of textures and of rects within a
// texture.
type HotspotRectMap struct {
	names []string
	rects map[string][]HotspotRect
}

// NewHotspotRectMap returns an empty map.
func NewHotspotRectMap() *HotspotRectMap {
	return &HotspotRectMap{rects: make(map[string][]HotspotRect)}
}

// Add appends a rect for the given texture.
func (m *HotspotRectMap) Add(texture string, rect HotspotRect) {
	if _, ok := m.rects[texture]; !ok {
		m.names = append(m.names, texture)
	}
	m.rects[texture] = append(m.rects[texture], rect)
}

// Textures returns the texture names in declaration order.
func (m *HotspotRectMap) Textures() []string {
	return m.names
}

// Rects returns the rects declared for a texture, in declaration order.
func (m *HotspotRectMap) Rects(texture string) []HotspotRect {
	return m.rects[texture]
}

// Len returns the number of textures with at least one rect.
func (m *HotspotRectMap) Len() int {
	return len(m.names)
}
