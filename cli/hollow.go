package cli

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/themuffinator/BrumSchtick/brush"
	"github.com/themuffinator/BrumSchtick/formatter"
	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
)

type HollowCmd struct {
	File      FileOrStdin `help:"Map input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Thickness float64     `help:"Wall thickness in map units." default:"8"`
	Jobs      int         `help:"Number of brushes hollowed in parallel (0 = number of CPUs)." default:"0"`
}

// hollowResult is the outcome for one worldspawn brush. A nil err with
// zero fragments means the brush collapsed and is dropped.
type hollowResult struct {
	fragments []*mapfile.BrushRecord
	err       error
}

func (cmd *HollowCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Thickness <= 0 {
		return fmt.Errorf("thickness must be positive, got %g", cmd.Thickness)
	}
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	format, err := globals.SourceFormat()
	if err != nil {
		return err
	}

	collector, reportTelemetry := setupTelemetry(ctx, globals)
	defer reportTelemetry()

	timer := collector.Start(fmt.Sprintf("hollow %s", cmd.File.Filename))
	defer timer.End()

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	parseTimer := timer.Child("Parse")
	doc, err := parser.ParseDocument(source, cmd.File.GetAbsoluteFilename(), format, format, parser.NopStatus{})
	parseTimer.End()
	if err != nil {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	world := doc.Worldspawn()
	if world == nil {
		return fmt.Errorf("map has no worldspawn entity")
	}

	hollowTimer := timer.Child("Hollow brushes")
	results := cmd.hollowBrushes(world.Brushes(), format)
	hollowTimer.End()

	failed := 0
	var objects []mapfile.Object
	next := 0
	for _, obj := range world.Objects {
		rec, ok := obj.(*mapfile.BrushRecord)
		if !ok {
			objects = append(objects, obj)
			continue
		}

		result := results[next]
		next++
		if result.err != nil {
			// Keep the original brush rather than losing geometry.
			printWarning(ctx.Stderr, fmt.Sprintf("%s: %v", rec.Start, result.err))
			objects = append(objects, obj)
			failed++
			continue
		}
		for _, fragment := range result.fragments {
			objects = append(objects, fragment)
		}
	}
	world.Objects = objects

	if err := formatter.New(formatter.WithFormat(format)).Format(doc, ctx.Stdout); err != nil {
		return err
	}

	if failed > 0 {
		printError(ctx.Stderr, fmt.Sprintf("%d brush(es) could not be hollowed", failed))
		return NewCommandError(1)
	}
	return nil
}

// hollowBrushes fans the worldspawn brushes out across a bounded worker
// pool. Results come back indexed so output order matches input order
// regardless of completion order.
func (cmd *HollowCmd) hollowBrushes(records []*mapfile.BrushRecord, format mapfile.Format) []hollowResult {
	jobs := cmd.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(records) {
		jobs = len(records)
	}

	results := make([]hollowResult, len(records))
	work := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = hollowBrush(records[i], cmd.Thickness, format)
			}
		}()
	}

	for i := range records {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}

func hollowBrush(rec *mapfile.BrushRecord, thickness float64, format mapfile.Format) hollowResult {
	b, err := brush.FromRecord(rec)
	if err != nil {
		return hollowResult{err: err}
	}

	fragments, errs := brush.Hollow(b, thickness)
	if len(errs) > 0 {
		return hollowResult{err: errs[0]}
	}

	result := hollowResult{fragments: make([]*mapfile.BrushRecord, len(fragments))}
	for i, fragment := range fragments {
		result.fragments[i] = fragment.ToRecord(format)
	}
	return result
}
