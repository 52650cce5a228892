package cli

import "github.com/themuffinator/BrumSchtick/mapfile"

// FormatEnum is the set of format names accepted on the command line.
// Main wires it into kong as the ${formats} variable.
const FormatEnum = "standard,quake,quake2,quake2_valve,valve,hexen2,daikatana,quake3,quake3_valve,quake3_legacy"

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Format    string `help:"Source map format." default:"standard" enum:"${formats}"`
}

// SourceFormat returns the map format selected by the --format flag.
func (g *Globals) SourceFormat() (mapfile.Format, error) {
	return mapfile.ParseFormat(g.Format)
}

type Commands struct {
	Globals

	Check    CheckCmd    `cmd:"" help:"Parse and validate a map file."`
	Fmt      FmtCmd      `cmd:"" help:"Re-serialize a map file, optionally converting to another dialect."`
	Hollow   HollowCmd   `cmd:"" help:"Replace every worldspawn brush with hollow walls."`
	Watch    WatchCmd    `cmd:"" help:"Watch a map file and re-check it on every change."`
	New      NewCmd      `cmd:"" help:"Create a starter map file."`
	Hotspots HotspotsCmd `cmd:"" help:"Parse a hotspot rect file and list its rects."`
}
