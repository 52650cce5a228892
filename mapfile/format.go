// Package mapfile defines the data model for parsed map files: formats,
// source positions, entities, brush records, patches and hotspot rects.
package mapfile

import "fmt"

// Format identifies one of the historical map file dialects. The values
// are bit flags so grammar code can test membership in a dialect family
// with a single mask.
type Format uint16

const (
	Standard Format = 1 << iota
	Quake2
	Quake2Valve
	Valve
	Hexen2
	Daikatana
	Quake3
	Quake3Valve
	Quake3Legacy

	// Unknown is not a valid source or target format.
	Unknown Format = 0
)

var formatNames = map[Format]string{
	Standard:     "Standard",
	Quake2:       "Quake2",
	Quake2Valve:  "Quake2 (Valve)",
	Valve:        "Valve",
	Hexen2:       "Hexen2",
	Daikatana:    "Daikatana",
	Quake3:       "Quake3",
	Quake3Valve:  "Quake3 (Valve)",
	Quake3Legacy: "Quake3 (Legacy)",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "Unknown"
}

// Is reports whether f is one of the formats in the mask.
func (f Format) Is(mask Format) bool {
	return f&mask != 0
}

// HasValveUVAxes reports whether faces in this dialect carry explicit
// texture projection axes instead of an angle/offset/scale triple.
func (f Format) HasValveUVAxes() bool {
	return f.Is(Valve | Quake2Valve | Quake3Valve)
}

// HasSurfaceAttributes reports whether faces in this dialect may carry a
// trailing contents/flags/value triple.
func (f Format) HasSurfaceAttributes() bool {
	return f.Is(Quake2 | Quake2Valve | Quake3Legacy | Quake3Valve | Daikatana)
}

// HasPatches reports whether the dialect supports patchDef2/patchDef3
// surfaces.
func (f Format) HasPatches() bool {
	return f.Is(Quake3 | Quake3Valve | Quake3Legacy)
}

// HasBrushPrimitives reports whether the dialect supports brushDef
// primitives.
func (f Format) HasBrushPrimitives() bool {
	return f.Is(Quake3)
}

// ParseFormat maps a format name to its Format value. Recognized names
// are the lower-case identifiers used on the command line.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "standard", "quake":
		return Standard, nil
	case "quake2":
		return Quake2, nil
	case "quake2_valve":
		return Quake2Valve, nil
	case "valve":
		return Valve, nil
	case "hexen2":
		return Hexen2, nil
	case "daikatana":
		return Daikatana, nil
	case "quake3":
		return Quake3, nil
	case "quake3_valve":
		return Quake3Valve, nil
	case "quake3_legacy":
		return Quake3Legacy, nil
	default:
		return Unknown, fmt.Errorf("unknown map format %q", name)
	}
}
