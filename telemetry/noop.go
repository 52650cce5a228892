package telemetry

import (
	"io"

	"github.com/themuffinator/BrumSchtick/output"
)

// noOpCollector discards all timings. It is what FromContext hands out
// when no collector was installed.
type noOpCollector struct{}

func (noOpCollector) Start(string) Timer               { return noOpTimer{} }
func (noOpCollector) Report(io.Writer, *output.Styles) {}

type noOpTimer struct{}

func (noOpTimer) End()               {}
func (noOpTimer) Child(string) Timer { return noOpTimer{} }
