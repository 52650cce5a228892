package parser

import "github.com/themuffinator/BrumSchtick/mapfile"

// ParseDocument parses a whole map into a Document. It wires a
// DocumentCollector to a MapParser; callers needing streaming delivery
// use NewMapParser with their own Receiver instead.
func ParseDocument(source []byte, filename string, sourceFormat, targetFormat mapfile.Format, status Status) (*mapfile.Document, error) {
	collector := NewDocumentCollector(targetFormat)
	p, err := NewMapParser(source, filename, sourceFormat, targetFormat, collector, status)
	if err != nil {
		return nil, err
	}
	if err := p.ParseEntities(); err != nil {
		return nil, err
	}
	return collector.Document(), nil
}
