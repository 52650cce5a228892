package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
)

type HotspotsCmd struct {
	File           FileOrStdin `help:"Hotspot rect filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	DefaultTexture string      `help:"Texture for rects declared outside any texture block."`
}

func (cmd *HotspotsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	rects := parser.ParseHotspotRects(source, cmd.DefaultTexture)
	if rects.Len() == 0 {
		printInfof(ctx.Stdout, "No hotspot rects found")
		return nil
	}

	// Align the rect columns under the widest texture name.
	nameWidth := 0
	for _, texture := range rects.Textures() {
		if w := runewidth.StringWidth(texture); w > nameWidth {
			nameWidth = w
		}
	}

	total := 0
	for _, texture := range rects.Textures() {
		pad := strings.Repeat(" ", nameWidth-runewidth.StringWidth(texture))
		for i, rect := range rects.Rects(texture) {
			name := texture + pad
			if i > 0 {
				name = strings.Repeat(" ", nameWidth)
			}
			_, _ = fmt.Fprintf(ctx.Stdout, "%s  %g %g  %gx%g  weight %g%s\n",
				name, rect.Min.X, rect.Min.Y, rect.Size.X, rect.Size.Y, rect.Weight, rectFlags(rect))
			total++
		}
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%d rect(s) across %d texture(s)", total, rects.Len()))
	return nil
}

func rectFlags(rect mapfile.HotspotRect) string {
	flags := ""
	if rect.TileU {
		flags += " tileU"
	}
	if rect.TileV {
		flags += " tileV"
	}
	return flags
}
