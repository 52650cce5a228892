package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/themuffinator/BrumSchtick/formatter"
	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
)

type FmtCmd struct {
	File FileOrStdin `help:"Map input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	To   string      `help:"Target dialect, defaults to the source format."`
}

func (cmd *FmtCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	sourceFormat, err := globals.SourceFormat()
	if err != nil {
		return err
	}
	targetFormat := sourceFormat
	if cmd.To != "" {
		targetFormat, err = mapfile.ParseFormat(cmd.To)
		if err != nil {
			return err
		}
	}

	status := &parser.CollectingStatus{}
	doc, err := parser.ParseDocument(source, cmd.File.GetAbsoluteFilename(), sourceFormat, targetFormat, status)
	if err != nil {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	for _, warning := range status.Warnings {
		printWarning(ctx.Stderr, fmt.Sprintf("%s: %s", warning.Pos, warning.Message))
	}

	return formatter.New(formatter.WithFormat(targetFormat)).Format(doc, ctx.Stdout)
}
