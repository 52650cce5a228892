// Large Map File Generator
//
// This tool generates a large .map file for performance testing and profiling.
// It mixes worldspawn geometry, brush entities and point entities to
// stress-test the parser and the brush kernel.
//
// Usage:
//
//	go run main.go > large.map
//	go run main.go 20000000 > large.map  # Specify target size in bytes
package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/themuffinator/BrumSchtick/brush"
	"github.com/themuffinator/BrumSchtick/formatter"
	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB

	gridStep  = 256
	gridCells = 1024
)

var (
	materials = []string{
		"base_wall/concrete",
		"base_wall/metalfloor_wall_14",
		"base_floor/clang_floor",
		"base_floor/diamond2c",
		"base_trim/pewter_shiney",
		"base_trim/rusty_pentagrate",
		"gothic_block/blocks18b",
		"gothic_block/killblock",
		"gothic_floor/largerblock3b",
		"gothic_trim/metalsupport4b",
		"common/caulk",
		"common/clip",
	}

	pointClassnames = []string{
		"light",
		"info_player_deathmatch",
		"ammo_shells",
		"ammo_rockets",
		"item_armor_shard",
		"item_health_small",
		"weapon_shotgun",
		"weapon_rocketlauncher",
		"misc_teleporter_dest",
	}

	brushClassnames = []string{
		"func_detail",
		"func_wall",
		"func_door",
		"trigger_multiple",
	}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	format := mapfile.Standard
	builder := brush.NewBuilder(format)
	f := formatter.New(formatter.WithFormat(format))

	bytesWritten := 0
	brushCount := 0
	entityCount := 0

	// Worldspawn first: a batch of room brushes. Entity blocks written
	// afterwards concatenate into the same map.
	world, count, err := worldspawnChunk(builder, format, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate worldspawn: %v\n", err)
		os.Exit(1)
	}
	brushCount += count
	entityCount++

	n, err := emit(f, world)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write worldspawn: %v\n", err)
		os.Exit(1)
	}
	bytesWritten += n

	for bytesWritten < targetSize {
		var entity *mapfile.Entity

		switch rand.Intn(10) {
		case 0, 1, 2: // 30% - Brush entity with a handful of brushes
			entity, count, err = brushEntityChunk(builder, format, rand.Intn(4)+1)
			if err != nil {
				fmt.Fprintf(os.Stderr, "generate brush entity: %v\n", err)
				os.Exit(1)
			}
			brushCount += count

		default: // 70% - Point entity
			entity = pointEntity()
		}
		entityCount++

		n, err := emit(f, &mapfile.Document{Format: format, Entities: []*mapfile.Entity{entity}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "write entity: %v\n", err)
			os.Exit(1)
		}
		bytesWritten += n
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d entities and %d brushes\n", bytesWritten, entityCount, brushCount)
}

func emit(f *formatter.Formatter, doc *mapfile.Document) (int, error) {
	var buf bytes.Buffer
	if err := f.Format(doc, &buf); err != nil {
		return 0, err
	}
	n, err := os.Stdout.Write(buf.Bytes())
	return n, err
}

func worldspawnChunk(builder *brush.Builder, format mapfile.Format, brushes int) (*mapfile.Document, int, error) {
	world := mapfile.NewEntity([]mapfile.EntityProperty{
		{Key: mapfile.ClassnameKey, Value: mapfile.WorldspawnClassname},
		{Key: "message", Value: "Performance Test Map"},
	})

	for i := 0; i < brushes; i++ {
		room, err := builder.Cuboid(randomBounds(), randomMaterial())
		if err != nil {
			return nil, 0, err
		}
		world.Objects = append(world.Objects, room.ToRecord(format))
	}

	return &mapfile.Document{Format: format, Entities: []*mapfile.Entity{world}}, brushes, nil
}

func brushEntityChunk(builder *brush.Builder, format mapfile.Format, brushes int) (*mapfile.Entity, int, error) {
	entity := mapfile.NewEntity([]mapfile.EntityProperty{
		{Key: mapfile.ClassnameKey, Value: brushClassnames[rand.Intn(len(brushClassnames))]},
	})

	for i := 0; i < brushes; i++ {
		b, err := builder.Cuboid(randomBounds(), randomMaterial())
		if err != nil {
			return nil, 0, err
		}
		entity.Objects = append(entity.Objects, b.ToRecord(format))
	}

	return entity, brushes, nil
}

func pointEntity() *mapfile.Entity {
	classname := pointClassnames[rand.Intn(len(pointClassnames))]
	origin := fmt.Sprintf("%d %d %d", randomCoordinate(), randomCoordinate(), rand.Intn(16)*64)

	props := []mapfile.EntityProperty{
		{Key: mapfile.ClassnameKey, Value: classname},
		{Key: "origin", Value: origin},
	}
	if classname == "light" {
		props = append(props, mapfile.EntityProperty{Key: "light", Value: strconv.Itoa(rand.Intn(400) + 100)})
	}
	if rand.Intn(4) == 0 {
		props = append(props, mapfile.EntityProperty{Key: "angle", Value: strconv.Itoa(rand.Intn(360))})
	}

	return mapfile.NewEntity(props)
}

func randomBounds() geom.BBox {
	x := float64(randomCoordinate())
	y := float64(randomCoordinate())
	z := float64(rand.Intn(16) * 64)

	width := float64(rand.Intn(15)+1) * 16
	depth := float64(rand.Intn(15)+1) * 16
	height := float64(rand.Intn(15)+1) * 16

	return geom.BBox{
		Min: geom.Vec3{X: x, Y: y, Z: z},
		Max: geom.Vec3{X: x + width, Y: y + depth, Z: z + height},
	}
}

func randomCoordinate() int {
	return (rand.Intn(gridCells) - gridCells/2) * gridStep
}

func randomMaterial() string {
	return materials[rand.Intn(len(materials))]
}
