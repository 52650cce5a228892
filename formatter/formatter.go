// Package formatter serializes parsed map documents back to map text.
// Output uses the canonical layout map editors emit: one face per line,
// numbered entity and brush comments, minimal number formatting. The
// face field count and order follow the target dialect, so a document
// parsed from one dialect can be written out as another as long as the
// attributes survive the narrowing.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

// Formatter writes map documents in a fixed target dialect.
type Formatter struct {
	// format overrides the document's own format when set.
	format mapfile.Format
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithFormat forces the output dialect regardless of the document's
// declared format.
func WithFormat(format mapfile.Format) Option {
	return func(f *Formatter) {
		f.format = format
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format serializes the document and writes the output to the writer.
func (f *Formatter) Format(doc *mapfile.Document, w io.Writer) error {
	format := f.format
	if format == mapfile.Unknown {
		format = doc.Format
	}
	if format == mapfile.Unknown {
		return fmt.Errorf("cannot format a document with unknown map format")
	}

	var buf strings.Builder
	buf.Grow(len(doc.Entities) * 256)

	for i, entity := range doc.Entities {
		fmt.Fprintf(&buf, "// entity %d\n", i)
		f.formatEntity(entity, format, &buf)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func (f *Formatter) formatEntity(e *mapfile.Entity, format mapfile.Format, buf *strings.Builder) {
	buf.WriteString("{\n")

	for _, p := range e.Properties {
		buf.WriteByte('"')
		buf.WriteString(escapeString(p.Key))
		buf.WriteString(`" "`)
		buf.WriteString(escapeString(p.Value))
		buf.WriteString("\"\n")
	}

	for i, obj := range e.Objects {
		fmt.Fprintf(buf, "// brush %d\n", i)
		switch o := obj.(type) {
		case *mapfile.BrushRecord:
			f.formatBrush(o, format, buf)
		case *mapfile.PatchRecord:
			f.formatPatch(o, buf)
		}
	}

	buf.WriteString("}\n")
}

func (f *Formatter) formatBrush(b *mapfile.BrushRecord, format mapfile.Format, buf *strings.Builder) {
	buf.WriteString("{\n")
	for i := range b.Faces {
		f.formatFace(&b.Faces[i], format, buf)
	}
	buf.WriteString("}\n")
}

// formatFace writes one face line in the target dialect's field order.
func (f *Formatter) formatFace(face *mapfile.Face, format mapfile.Format, buf *strings.Builder) {
	for _, p := range face.Points {
		writePoint(buf, p)
		buf.WriteByte(' ')
	}
	buf.WriteString(quoteMaterial(face.Attrs.Material))

	if format.HasValveUVAxes() {
		writeUVAxis(buf, face.UAxis, face.Attrs.XOffset)
		writeUVAxis(buf, face.VAxis, face.Attrs.YOffset)
		writeNumbers(buf, face.Attrs.Rotation, face.Attrs.XScale, face.Attrs.YScale)
	} else {
		writeNumbers(buf,
			face.Attrs.XOffset, face.Attrs.YOffset,
			face.Attrs.Rotation, face.Attrs.XScale, face.Attrs.YScale)
	}

	if format.HasSurfaceAttributes() && face.Attrs.HasSurfaceAttributes {
		writeNumbers(buf,
			float64(face.Attrs.SurfaceContents),
			float64(face.Attrs.SurfaceFlags),
			face.Attrs.SurfaceValue)
	}

	if format == mapfile.Daikatana && face.Attrs.HasColor {
		writeNumbers(buf,
			float64(face.Attrs.Color[0]),
			float64(face.Attrs.Color[1]),
			float64(face.Attrs.Color[2]))
	}

	buf.WriteByte('\n')
}

func (f *Formatter) formatPatch(p *mapfile.PatchRecord, buf *strings.Builder) {
	buf.WriteString("{\n")
	if len(p.ControlNormals) > 0 {
		buf.WriteString("patchDef3\n")
	} else {
		buf.WriteString("patchDef2\n")
	}
	buf.WriteString("{\n")

	buf.WriteString(quoteMaterial(p.Material))
	buf.WriteByte('\n')

	buf.WriteString("( ")
	writeNumber(buf, float64(p.RowCount))
	buf.WriteByte(' ')
	writeNumber(buf, float64(p.ColumnCount))
	buf.WriteByte(' ')
	writeNumber(buf, float64(p.SurfaceContents))
	buf.WriteByte(' ')
	writeNumber(buf, float64(p.SurfaceFlags))
	buf.WriteByte(' ')
	writeNumber(buf, p.SurfaceValue)
	buf.WriteString(" )\n")

	buf.WriteString("(\n")
	for row := 0; row < p.RowCount; row++ {
		buf.WriteString("( ")
		for col := 0; col < p.ColumnCount; col++ {
			cp := p.ControlPoints[row*p.ColumnCount+col]
			buf.WriteString("( ")
			writeNumbers3(buf, cp.Pos)
			if len(p.ControlNormals) > 0 {
				buf.WriteByte(' ')
				writeNumbers3(buf, p.ControlNormals[row*p.ColumnCount+col])
			}
			buf.WriteByte(' ')
			writeNumber(buf, cp.UV.X)
			buf.WriteByte(' ')
			writeNumber(buf, cp.UV.Y)
			buf.WriteString(" ) ")
		}
		buf.WriteString(")\n")
	}
	buf.WriteString(")\n")

	buf.WriteString("}\n")
	buf.WriteString("}\n")
}

func writePoint(buf *strings.Builder, p geom.Vec3) {
	buf.WriteString("( ")
	writeNumbers3(buf, p)
	buf.WriteString(" )")
}

func writeUVAxis(buf *strings.Builder, axis geom.Vec3, offset float64) {
	buf.WriteString(" [ ")
	writeNumbers3(buf, axis)
	buf.WriteByte(' ')
	writeNumber(buf, offset)
	buf.WriteString(" ]")
}

func writeNumbers3(buf *strings.Builder, v geom.Vec3) {
	writeNumber(buf, v.X)
	buf.WriteByte(' ')
	writeNumber(buf, v.Y)
	buf.WriteByte(' ')
	writeNumber(buf, v.Z)
}

func writeNumbers(buf *strings.Builder, values ...float64) {
	for _, v := range values {
		buf.WriteByte(' ')
		writeNumber(buf, v)
	}
}
