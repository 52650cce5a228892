package parser

import "github.com/themuffinator/BrumSchtick/mapfile"

// Receiver consumes the objects produced during a parse. Callbacks run
// synchronously on the parsing goroutine, in source order, each carrying
// the source position it was read from so diagnostics and selection can
// round-trip back to the file.
//
// StandardFace receives faces whose UV mapping is an
// offset/rotation/scale triple; ValveFace receives faces with explicit
// UV axes. The face's Format field holds the parser's target format.
type Receiver interface {
	BeginEntity(pos mapfile.Position, properties []mapfile.EntityProperty)
	EndEntity(pos mapfile.Position)
	BeginBrush(pos mapfile.Position)
	EndBrush(pos mapfile.Position)
	StandardFace(face mapfile.Face)
	ValveFace(face mapfile.Face)
	Patch(patch *mapfile.PatchRecord)
}

// DocumentCollector is a Receiver that assembles parsed entities into a
// Document.
type DocumentCollector struct {
	doc     *mapfile.Document
	current *mapfile.Entity
	brush   *mapfile.BrushRecord
}

// NewDocumentCollector creates a collector producing a document tagged
// with the given format.
func NewDocumentCollector(format mapfile.Format) *DocumentCollector {
	return &DocumentCollector{doc: &mapfile.Document{Format: format}}
}

// Document returns the assembled document.
func (c *DocumentCollector) Document() *mapfile.Document {
	return c.doc
}

func (c *DocumentCollector) BeginEntity(pos mapfile.Position, properties []mapfile.EntityProperty) {
	c.current = mapfile.NewEntity(properties)
	c.current.Start = pos
}

func (c *DocumentCollector) EndEntity(pos mapfile.Position) {
	if c.current == nil {
		return
	}
	c.current.End = pos
	c.doc.Entities = append(c.doc.Entities, c.current)
	c.current = nil
}

func (c *DocumentCollector) BeginBrush(pos mapfile.Position) {
	c.brush = &mapfile.BrushRecord{Start: pos}
}

func (c *DocumentCollector) EndBrush(pos mapfile.Position) {
	if c.brush == nil {
		return
	}
	c.brush.End = pos
	if c.current != nil {
		c.current.Objects = append(c.current.Objects, c.brush)
	}
	c.brush = nil
}

func (c *DocumentCollector) StandardFace(face mapfile.Face) {
	c.addFace(face)
}

func (c *DocumentCollector) ValveFace(face mapfile.Face) {
	c.addFace(face)
}

func (c *DocumentCollector) addFace(face mapfile.Face) {
	if c.brush != nil {
		c.brush.Faces = append(c.brush.Faces, face)
	}
}

func (c *DocumentCollector) Patch(patch *mapfile.PatchRecord) {
	if c.current != nil {
		c.current.Objects = append(c.current.Objects, patch)
	}
}
