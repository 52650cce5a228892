package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/themuffinator/BrumSchtick/brush"
	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
	"github.com/themuffinator/BrumSchtick/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Map input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	AST  bool        `help:"Dump the parsed document."`
	Lax  bool        `help:"Only parse; do not verify brush geometry."`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	format, err := globals.SourceFormat()
	if err != nil {
		return err
	}

	collector, reportTelemetry := setupTelemetry(ctx, globals)
	defer reportTelemetry()

	checkTimer := collector.Start(fmt.Sprintf("check %s", cmd.File.Filename))
	defer checkTimer.End()

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	status := &parser.CollectingStatus{}

	parseTimer := checkTimer.Child("Parse")
	doc, err := parser.ParseDocument(source, cmd.File.GetAbsoluteFilename(), format, format, status)
	parseTimer.End()
	if err != nil {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	for _, warning := range status.Warnings {
		printWarning(ctx.Stderr, fmt.Sprintf("%s: %s", warning.Pos, warning.Message))
	}

	entities, brushes, patches := countObjects(doc)

	invalid := 0
	if !cmd.Lax {
		buildTimer := checkTimer.Child("Build brushes")
		invalid = reportInvalidBrushes(ctx, doc)
		buildTimer.End()
	}

	if cmd.AST {
		repr.Println(doc)
	}

	if invalid > 0 {
		printError(ctx.Stderr, fmt.Sprintf("%d invalid brush(es)", invalid))
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%d entities, %d brushes, %d patches", entities, brushes, patches))
	return nil
}

// reportInvalidBrushes builds every brush record into a solid and prints
// a diagnostic for each one that does not form a closed convex volume.
func reportInvalidBrushes(ctx *kong.Context, doc *mapfile.Document) int {
	invalid := 0
	for _, entity := range doc.Entities {
		for _, rec := range entity.Brushes() {
			if _, err := brush.FromRecord(rec); err != nil {
				printWarning(ctx.Stderr, fmt.Sprintf("%s: %v", rec.Start, err))
				invalid++
			}
		}
	}
	return invalid
}

func countObjects(doc *mapfile.Document) (entities, brushes, patches int) {
	entities = len(doc.Entities)
	for _, entity := range doc.Entities {
		brushes += len(entity.Brushes())
		patches += len(entity.Patches())
	}
	return entities, brushes, patches
}

// setupTelemetry returns the collector for the run and a report function
// for main to defer. Without --telemetry both are no-ops.
func setupTelemetry(ctx *kong.Context, globals *Globals) (telemetry.Collector, func()) {
	if !globals.Telemetry {
		return telemetry.FromContext(context.Background()), func() {}
	}

	collector := telemetry.NewTimingCollector()
	return collector, func() {
		_, _ = fmt.Fprintln(ctx.Stderr)
		collector.Report(ctx.Stderr, nil)
	}
}
