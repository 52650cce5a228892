package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"github.com/themuffinator/BrumSchtick/brush"
	"github.com/themuffinator/BrumSchtick/formatter"
	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

type NewCmd struct {
	File        string  `help:"Map file to create." arg:""`
	Size        float64 `help:"Edge length of the starter room in map units." default:"256"`
	Material    string  `help:"Material applied to the starter brush." default:"common/caulk"`
	Interactive bool    `help:"Ask for the room parameters instead of taking flags." short:"i"`
	Force       bool    `help:"Overwrite an existing file without asking." short:"f"`
}

func (cmd *NewCmd) Run(ctx *kong.Context, globals *Globals) error {
	format, err := globals.SourceFormat()
	if err != nil {
		return err
	}

	if cmd.Interactive {
		if err := cmd.promptParameters(); err != nil {
			return err
		}
	}
	if cmd.Size <= 0 {
		return fmt.Errorf("size must be positive, got %g", cmd.Size)
	}

	if _, err := os.Stat(cmd.File); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("File %q already exists. Overwrite it?", cmd.File))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("file already exists: %s", cmd.File)
		}
	}

	doc, err := starterMap(format, cmd.Size, cmd.Material)
	if err != nil {
		return err
	}

	file, err := os.Create(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := formatter.New().Format(doc, file); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Created %s", pathStyle.Render(cmd.File)))
	return nil
}

func (cmd *NewCmd) promptParameters() error {
	size := strconv.FormatFloat(cmd.Size, 'f', -1, 64)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Room size (map units)").
				Value(&size).
				Validate(func(s string) error {
					f, err := strconv.ParseFloat(s, 64)
					if err != nil || f <= 0 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Material").
				Value(&cmd.Material),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to read parameters: %w", err)
	}

	cmd.Size, _ = strconv.ParseFloat(size, 64)
	return nil
}

// starterMap builds a single-entity document holding one cuboid room
// brush centered on the origin.
func starterMap(format mapfile.Format, size float64, material string) (*mapfile.Document, error) {
	half := size / 2
	bounds := geom.BBox{
		Min: geom.Vec3{X: -half, Y: -half, Z: -half},
		Max: geom.Vec3{X: half, Y: half, Z: half},
	}

	room, err := brush.NewBuilder(format).Cuboid(bounds, material)
	if err != nil {
		return nil, err
	}

	world := mapfile.NewEntity([]mapfile.EntityProperty{
		{Key: mapfile.ClassnameKey, Value: mapfile.WorldspawnClassname},
	})
	world.Objects = append(world.Objects, room.ToRecord(format))

	return &mapfile.Document{
		Format:   format,
		Entities: []*mapfile.Entity{world},
	}, nil
}
