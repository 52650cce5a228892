package parser

import "github.com/themuffinator/BrumSchtick/mapfile"

// Status receives recoverable diagnostics during parsing: patch
// dimension corrections, unsupported brush primitives and the like.
// Fatal syntax errors are returned from the parse entry points instead.
//
// A Status is invoked from the goroutine running the parse. Independent
// parses may run concurrently with their own Status instances; sharing
// one instance across parses requires the caller to synchronize it.
type Status interface {
	Warn(pos mapfile.Position, message string)
}

// NopStatus discards all diagnostics.
type NopStatus struct{}

func (NopStatus) Warn(mapfile.Position, string) {}

// Warning is one recorded diagnostic.
type Warning struct {
	Pos     mapfile.Position
	Message string
}

// CollectingStatus records diagnostics for later inspection.
type CollectingStatus struct {
	Warnings []Warning
}

func (s *CollectingStatus) Warn(pos mapfile.Position, message string) {
	s.Warnings = append(s.Warnings, Warning{Pos: pos, Message: message})
}
