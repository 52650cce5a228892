// Package telemetry provides hierarchical timing collection for map
// processing operations: parsing, brush building, CSG batches.
//
// Collectors travel through context so instrumentation does not leak
// into function signatures. Without a collector in the context, timing
// calls are no-ops.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.FromContext(ctx).Start("Check map")
//	parse := timer.Child("Parse")
//	// ... work ...
//	parse.End()
//	timer.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/themuffinator/BrumSchtick/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector collects timing data for a tree of operations.
type Collector interface {
	// Start begins timing a top-level operation. The returned timer must
	// be ended with End when the operation completes.
	Start(name string) Timer

	// Report writes the collected timings. styles may be nil for plain
	// output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation. Nested operations hang off Child.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context, falling back to a
// collector that does nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}
