// Package parser reads textual map files across the historical dialect
// family: a streaming tokenizer plus a recursive-descent grammar driver
// that branches on the declared source format and emits entities,
// brushes and patches through a Receiver.
package parser

import (
	"fmt"
	"strconv"

	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

// Object type keywords in Quake3-family maps.
const (
	brushPrimitiveID = "brushDef"
	patchID          = "patchDef2"
	patch3ID         = "patchDef3"
)

// pointCorrectEpsilon snaps plane points read from text to integer
// coordinates when they are this close.
const pointCorrectEpsilon = 0.001

// MapParser is the dialect grammar driver. It pulls tokens on demand,
// holds no state across invocations beyond the read position, and emits
// results through the Receiver given at construction.
//
// The source format selects the grammar; the target format only tags the
// emitted faces and patches.
type MapParser struct {
	tokenizer *Tokenizer
	source    []byte
	filename  string

	sourceFormat mapfile.Format
	targetFormat mapfile.Format

	receiver Receiver
	status   Status
}

// NewMapParser creates a parser over the given map text. Unknown is not
// a valid source or target format. A nil status discards diagnostics.
func NewMapParser(source []byte, filename string, sourceFormat, targetFormat mapfile.Format, receiver Receiver, status Status) (*MapParser, error) {
	if sourceFormat == mapfile.Unknown {
		return nil, fmt.Errorf("source map format must be known")
	}
	if targetFormat == mapfile.Unknown {
		return nil, fmt.Errorf("target map format must be known")
	}
	if receiver == nil {
		return nil, fmt.Errorf("receiver must not be nil")
	}
	if status == nil {
		status = NopStatus{}
	}

	return &MapParser{
		tokenizer:    NewTokenizer(source, filename),
		source:       source,
		filename:     filename,
		sourceFormat: sourceFormat,
		targetFormat: targetFormat,
		receiver:     receiver,
		status:       status,
	}, nil
}

// ParseEntities parses a whole map: a sequence of entities until end of
// input. The first syntax error terminates the parse; entities already
// emitted through the receiver stand.
func (p *MapParser) ParseEntities() error {
	for {
		tok, err := p.peekToken(OBrace | Eof)
		if err != nil {
			return err
		}
		if tok.Kind == Eof {
			return nil
		}
		if err := p.parseEntity(); err != nil {
			return err
		}
	}
}

// ParseBrushesOrPatches parses a sequence of objects without an
// enclosing entity, as found on the clipboard when brushes are copied.
func (p *MapParser) ParseBrushesOrPatches() error {
	for {
		tok, err := p.peekToken(OBrace | Eof)
		if err != nil {
			return err
		}
		if tok.Kind == Eof {
			return nil
		}
		if err := p.parseObject(); err != nil {
			return err
		}
	}
}

// ParseBrushFaces parses a bare sequence of faces until end of input.
func (p *MapParser) ParseBrushFaces() error {
	for {
		tok, err := p.peekToken(OParen | Eof)
		if err != nil {
			return err
		}
		if tok.Kind == Eof {
			return nil
		}
		if err := p.parseFace(false); err != nil {
			return err
		}
	}
}

func (p *MapParser) parseEntity() error {
	tok, err := p.nextToken(OBrace | Eof)
	if err != nil {
		return err
	}
	if tok.Kind == Eof {
		return nil
	}
	startPos := tokenPosition(tok, p.filename)

	properties, err := p.parseEntityProperties()
	if err != nil {
		return err
	}

	p.receiver.BeginEntity(startPos, properties)

	if err := p.parseObjects(); err != nil {
		return err
	}

	tok, err = p.skipAndNextToken(Comment, CBrace)
	if err != nil {
		return err
	}
	p.receiver.EndEntity(tokenPosition(tok, p.filename))
	return nil
}

func (p *MapParser) parseEntityProperties() ([]mapfile.EntityProperty, error) {
	var properties []mapfile.EntityProperty
	for {
		tok, err := p.skipAndPeekToken(Comment, String|OBrace|CBrace)
		if err != nil {
			return nil, err
		}
		if tok.Kind != String {
			return properties, nil
		}

		prop, err := p.parseEntityProperty()
		if err != nil {
			return nil, err
		}
		properties = append(properties, prop)
	}
}

func (p *MapParser) parseEntityProperty() (mapfile.EntityProperty, error) {
	keyTok, err := p.skipAndNextToken(Comment, String)
	if err != nil {
		return mapfile.EntityProperty{}, err
	}
	valueTok, err := p.nextToken(String)
	if err != nil {
		return mapfile.EntityProperty{}, err
	}

	return mapfile.EntityProperty{
		Key:   p.stringValue(keyTok),
		Value: p.stringValue(valueTok),
	}, nil
}

func (p *MapParser) parseObjects() error {
	for {
		tok, err := p.skipAndPeekToken(Comment, OParen|OBrace|CBrace|Eof|String)
		if err != nil {
			return err
		}
		if tok.Kind != OBrace {
			return nil
		}
		if err := p.parseObject(); err != nil {
			return err
		}
	}
}

// parseObject parses one brush, patch or brush primitive. The opening
// brace is consumed here; which constructs are allowed inside depends on
// the source format.
func (p *MapParser) parseObject() error {
	tok, err := p.skipAndNextToken(Comment, OBrace|CBrace|Eof)
	if err != nil {
		return err
	}
	if tok.Kind == Eof || tok.Kind == CBrace {
		return nil
	}
	startPos := tokenPosition(tok, p.filename)

	switch {
	case p.sourceFormat == mapfile.Quake3:
		// A brush primitive, a patch or a regular brush.
		tok, err := p.peekToken(String | OParen)
		if err != nil {
			return err
		}
		if tok.Kind == String {
			switch data := p.stringValue(tok); data {
			case brushPrimitiveID:
				err = p.parseBrushPrimitive(startPos)
			case patchID, patch3ID:
				err = p.parsePatch(startPos)
			default:
				err = newErrorf(tokenPosition(tok, p.filename),
					"expected %q, %q or %q, but got %q", brushPrimitiveID, patchID, patch3ID, data)
			}
		} else {
			err = p.parseBrush(startPos, false)
		}
		if err != nil {
			return err
		}

	case p.sourceFormat.Is(mapfile.Quake3Valve | mapfile.Quake3Legacy):
		// A patch or a regular brush, no brush primitives.
		tok, err := p.peekToken(String | OParen)
		if err != nil {
			return err
		}
		if tok.Kind == String {
			if data := p.stringValue(tok); data != patchID && data != patch3ID {
				return newErrorf(tokenPosition(tok, p.filename),
					"expected %q or %q, but got %q", patchID, patch3ID, data)
			}
			if err := p.parsePatch(startPos); err != nil {
				return err
			}
		} else if err := p.parseBrush(startPos, false); err != nil {
			return err
		}

	default:
		if _, err := p.peekToken(OParen); err != nil {
			return err
		}
		if err := p.parseBrush(startPos, false); err != nil {
			return err
		}
	}

	_, err = p.nextToken(CBrace)
	return err
}

func (p *MapParser) parseBrushPrimitive(startPos mapfile.Position) error {
	tok, err := p.nextToken(String)
	if err != nil {
		return err
	}
	if data := p.stringValue(tok); data != brushPrimitiveID {
		return newErrorf(tokenPosition(tok, p.filename), "expected %q, but got %q", brushPrimitiveID, data)
	}
	if _, err := p.nextToken(OBrace); err != nil {
		return err
	}
	if err := p.parseBrush(startPos, true); err != nil {
		return err
	}
	_, err = p.nextToken(CBrace)
	return err
}

// parseBrush parses faces up to, but not including, the closing brace;
// consuming it is the caller's job. Brush primitives are recognized but
// their faces are not materialized; a warning is emitted instead.
func (p *MapParser) parseBrush(startPos mapfile.Position, primitive bool) error {
	beginBrushCalled := false

	for {
		tok, err := p.skipAndPeekToken(Comment, OParen|CBrace|Eof)
		if err != nil {
			return err
		}

		switch tok.Kind {
		case Eof:
			return nil
		case OParen:
			if !beginBrushCalled && !primitive {
				p.receiver.BeginBrush(startPos)
				beginBrushCalled = true
			}
			if err := p.parseFace(primitive); err != nil {
				return err
			}
		case CBrace:
			if primitive {
				p.status.Warn(startPos, "Skipping brush primitive: currently not supported")
				return nil
			}
			if !beginBrushCalled {
				p.receiver.BeginBrush(startPos)
			}
			p.receiver.EndBrush(tokenPosition(tok, p.filename))
			return nil
		}
	}
}

func (p *MapParser) parseFace(primitive bool) error {
	switch {
	case p.sourceFormat == mapfile.Standard:
		return p.parseQuakeFace()
	case p.sourceFormat.Is(mapfile.Quake2 | mapfile.Quake3Legacy):
		return p.parseQuake2Face()
	case p.sourceFormat.Is(mapfile.Quake2Valve | mapfile.Quake3Valve):
		return p.parseQuake2ValveFace()
	case p.sourceFormat == mapfile.Hexen2:
		return p.parseHexen2Face()
	case p.sourceFormat == mapfile.Daikatana:
		return p.parseDaikatanaFace()
	case p.sourceFormat == mapfile.Valve:
		return p.parseValveFace()
	case p.sourceFormat == mapfile.Quake3:
		if primitive {
			return p.parsePrimitiveFace()
		}
		return p.parseQuake2Face()
	default:
		// cannot happen, the constructor rejects Unknown
		return fmt.Errorf("unsupported source format %s", p.sourceFormat)
	}
}

func (p *MapParser) parseQuakeFace() error {
	location := p.tokenizer.Position()
	location.Filename = p.filename

	points, err := p.parseFacePoints()
	if err != nil {
		return err
	}
	attrs, err := p.parseFaceAttributes()
	if err != nil {
		return err
	}

	p.receiver.StandardFace(mapfile.Face{
		Location: location,
		Format:   p.targetFormat,
		Points:   points,
		Attrs:    attrs,
	})
	return nil
}

func (p *MapParser) parseQuake2Face() error {
	location := p.tokenizer.Position()
	location.Filename = p.filename

	points, err := p.parseFacePoints()
	if err != nil {
		return err
	}
	attrs, err := p.parseFaceAttributes()
	if err != nil {
		return err
	}
	if err := p.parseOptionalSurfaceAttributes(&attrs); err != nil {
		return err
	}

	p.receiver.StandardFace(mapfile.Face{
		Location: location,
		Format:   p.targetFormat,
		Points:   points,
		Attrs:    attrs,
	})
	return nil
}

func (p *MapParser) parseQuake2ValveFace() error {
	face, err := p.parseValveFaceCommon()
	if err != nil {
		return err
	}
	if err := p.parseOptionalSurfaceAttributes(&face.Attrs); err != nil {
		return err
	}

	p.receiver.ValveFace(face)
	return nil
}

func (p *MapParser) parseHexen2Face() error {
	location := p.tokenizer.Position()
	location.Filename = p.filename

	points, err := p.parseFacePoints()
	if err != nil {
		return err
	}
	attrs, err := p.parseFaceAttributes()
	if err != nil {
		return err
	}

	// Hexen 2 faces may carry one extra numeric field whose meaning is
	// unknown; it is consumed and discarded. Annotated comments are not
	// that field and stay in the stream.
	tok, err := p.tokenizer.Peek()
	if err != nil {
		return err
	}
	if tok.Kind&(OParen|CBrace|Eof|Comment) == 0 {
		if _, err := p.tokenizer.Next(); err != nil {
			return err
		}
	}

	p.receiver.StandardFace(mapfile.Face{
		Location: location,
		Format:   p.targetFormat,
		Points:   points,
		Attrs:    attrs,
	})
	return nil
}

func (p *MapParser) parseDaikatanaFace() error {
	location := p.tokenizer.Position()
	location.Filename = p.filename

	points, err := p.parseFacePoints()
	if err != nil {
		return err
	}
	attrs, err := p.parseFaceAttributes()
	if err != nil {
		return err
	}

	tok, err := p.tokenizer.Peek()
	if err != nil {
		return err
	}
	if tok.Kind == Integer {
		if err := p.parseSurfaceAttributes(&attrs); err != nil {
			return err
		}

		// The color triple is optional in turn.
		tok, err = p.tokenizer.Peek()
		if err != nil {
			return err
		}
		if tok.Kind == Integer {
			attrs.HasColor = true
			for i := 0; i < 3; i++ {
				c, err := p.parseInteger()
				if err != nil {
					return err
				}
				attrs.Color[i] = clampColor(c)
			}
		}
	}

	p.receiver.StandardFace(mapfile.Face{
		Location: location,
		Format:   p.targetFormat,
		Points:   points,
		Attrs:    attrs,
	})
	return nil
}

func (p *MapParser) parseValveFace() error {
	face, err := p.parseValveFaceCommon()
	if err != nil {
		return err
	}
	p.receiver.ValveFace(face)
	return nil
}

// parseValveFaceCommon parses points, material, the UV axis blocks and
// the rotation/scale triple shared by all Valve-style dialects.
func (p *MapParser) parseValveFaceCommon() (mapfile.Face, error) {
	location := p.tokenizer.Position()
	location.Filename = p.filename

	points, err := p.parseFacePoints()
	if err != nil {
		return mapfile.Face{}, err
	}
	material, err := p.parseMaterialName()
	if err != nil {
		return mapfile.Face{}, err
	}

	uAxis, uOffset, err := p.parseUVAxis()
	if err != nil {
		return mapfile.Face{}, err
	}
	vAxis, vOffset, err := p.parseUVAxis()
	if err != nil {
		return mapfile.Face{}, err
	}

	attrs := mapfile.FaceAttributes{
		Material: material,
		XOffset:  uOffset,
		YOffset:  vOffset,
	}
	if attrs.Rotation, err = p.parseFloat(); err != nil {
		return mapfile.Face{}, err
	}
	if attrs.XScale, err = p.parseFloat(); err != nil {
		return mapfile.Face{}, err
	}
	if attrs.YScale, err = p.parseFloat(); err != nil {
		return mapfile.Face{}, err
	}

	return mapfile.Face{
		Location:  location,
		Format:    p.targetFormat,
		Points:    points,
		Attrs:     attrs,
		HasUVAxes: true,
		UAxis:     uAxis,
		VAxis:     vAxis,
	}, nil
}

// parsePrimitiveFace parses a brush primitive face for syntax only. The
// result is not turned into a brush face; brush primitives are not
// materialized.
func (p *MapParser) parsePrimitiveFace() error {
	if _, err := p.parseFacePoints(); err != nil {
		return err
	}

	if _, err := p.nextToken(OParen); err != nil {
		return err
	}
	if _, err := p.parseFloatVector(OParen, CParen, 3); err != nil {
		return err
	}
	if _, err := p.parseFloatVector(OParen, CParen, 3); err != nil {
		return err
	}
	if _, err := p.nextToken(CParen); err != nil {
		return err
	}

	if _, err := p.parseMaterialName(); err != nil {
		return err
	}

	var attrs mapfile.FaceAttributes
	return p.parseOptionalSurfaceAttributes(&attrs)
}

func (p *MapParser) parsePatch(startPos mapfile.Position) error {
	tok, err := p.nextToken(String)
	if err != nil {
		return err
	}
	patchTypeID := p.stringValue(tok)
	if patchTypeID != patchID && patchTypeID != patch3ID {
		return newErrorf(tokenPosition(tok, p.filename),
			"expected %q or %q, but got %q", patchID, patch3ID, patchTypeID)
	}
	isPatchDef3 := patchTypeID == patch3ID

	if _, err := p.nextToken(OBrace); err != nil {
		return err
	}

	material, err := p.parseMaterialName()
	if err != nil {
		return err
	}

	if _, err := p.nextToken(OParen); err != nil {
		return err
	}

	tok, err = p.nextToken(Integer)
	if err != nil {
		return err
	}
	rowPos := tokenPosition(tok, p.filename)
	rowCount, err := p.tokenInt(tok)
	if err != nil {
		return err
	}
	if rowCount <= 0 {
		p.status.Warn(rowPos, "Invalid patch height, assuming 1")
		rowCount = 1
	}

	tok, err = p.nextToken(Integer)
	if err != nil {
		return err
	}
	colPos := tokenPosition(tok, p.filename)
	columnCount, err := p.tokenInt(tok)
	if err != nil {
		return err
	}
	if columnCount <= 0 {
		p.status.Warn(colPos, "Invalid patch width, assuming 1")
		columnCount = 1
	}

	contents, err := p.parseInteger()
	if err != nil {
		return err
	}
	flags, err := p.parseInteger()
	if err != nil {
		return err
	}
	value, err := p.parseFloat()
	if err != nil {
		return err
	}
	if _, err := p.nextToken(CParen); err != nil {
		return err
	}

	controlPoints := make([]mapfile.PatchControlPoint, 0, rowCount*columnCount)
	var controlNormals []geom.Vec3
	if isPatchDef3 {
		controlNormals = make([]geom.Vec3, 0, rowCount*columnCount)
	}

	if _, err := p.nextToken(OParen); err != nil {
		return err
	}
	for i := 0; i < rowCount; i++ {
		if _, err := p.nextToken(OParen); err != nil {
			return err
		}
		for j := 0; j < columnCount; j++ {
			arity := 5
			if isPatchDef3 {
				arity = 8
			}
			v, err := p.parseFloatVector(OParen, CParen, arity)
			if err != nil {
				return err
			}
			if isPatchDef3 {
				controlPoints = append(controlPoints, mapfile.PatchControlPoint{
					Pos: geom.Vec3{X: v[0], Y: v[1], Z: v[2]},
					UV:  geom.Vec2{X: v[6], Y: v[7]},
				})
				controlNormals = append(controlNormals, geom.Vec3{X: v[3], Y: v[4], Z: v[5]})
			} else {
				controlPoints = append(controlPoints, mapfile.PatchControlPoint{
					Pos: geom.Vec3{X: v[0], Y: v[1], Z: v[2]},
					UV:  geom.Vec2{X: v[3], Y: v[4]},
				})
			}
		}
		if _, err := p.nextToken(CParen); err != nil {
			return err
		}
	}
	if _, err := p.nextToken(CParen); err != nil {
		return err
	}

	sanitizedRowCount := p.sanitizePatchCount(rowCount, "height", rowPos)
	sanitizedColumnCount := p.sanitizePatchCount(columnCount, "width", colPos)
	if sanitizedRowCount != rowCount || sanitizedColumnCount != columnCount {
		controlPoints = resamplePatchGrid(rowCount, columnCount, sanitizedRowCount, sanitizedColumnCount, controlPoints)
		if isPatchDef3 {
			controlNormals = resamplePatchGrid(rowCount, columnCount, sanitizedRowCount, sanitizedColumnCount, controlNormals)
		}
	}

	tok, err = p.nextToken(CBrace)
	if err != nil {
		return err
	}

	p.receiver.Patch(&mapfile.PatchRecord{
		Start:           startPos,
		End:             tokenPosition(tok, p.filename),
		Format:          p.targetFormat,
		RowCount:        sanitizedRowCount,
		ColumnCount:     sanitizedColumnCount,
		ControlPoints:   controlPoints,
		ControlNormals:  controlNormals,
		Material:        material,
		SurfaceContents: contents,
		SurfaceFlags:    flags,
		SurfaceValue:    value,
	})
	return nil
}

// sanitizePatchCount forces a patch dimension up to the next valid value
// (odd, at least 3), warning when a correction is made. Valid counts are
// returned unchanged.
func (p *MapParser) sanitizePatchCount(count int, label string, pos mapfile.Position) int {
	if count < 3 {
		p.status.Warn(pos, fmt.Sprintf("Invalid patch %s, expanding to 3", label))
		return 3
	}
	if count%2 == 0 {
		expanded := count + 1
		p.status.Warn(pos, fmt.Sprintf("Invalid patch %s, expanding to %d", label, expanded))
		return expanded
	}
	return count
}

// resamplePatchGrid maps a row-major grid onto new dimensions by clamped
// nearest-neighbor lookup: each target cell copies from
// min(targetIndex, sourceCount-1) in source space. It is a pure function
// of the source grid and the target dimensions, and the identity when
// the dimensions match.
func resamplePatchGrid[T any](sourceRows, sourceCols, targetRows, targetCols int, grid []T) []T {
	if len(grid) == 0 || sourceRows == 0 || sourceCols == 0 {
		return make([]T, targetRows*targetCols)
	}

	resampled := make([]T, 0, targetRows*targetCols)
	for row := 0; row < targetRows; row++ {
		sourceRow := min(row, sourceRows-1)
		for col := 0; col < targetCols; col++ {
			sourceCol := min(col, sourceCols-1)
			resampled = append(resampled, grid[sourceRow*sourceCols+sourceCol])
		}
	}
	return resampled
}

func (p *MapParser) parseFacePoints() ([3]geom.Vec3, error) {
	var points [3]geom.Vec3
	for i := range points {
		v, err := p.parseFloatVector(OParen, CParen, 3)
		if err != nil {
			return points, err
		}
		points[i] = geom.Vec3{X: v[0], Y: v[1], Z: v[2]}.Correct(pointCorrectEpsilon)
	}
	return points, nil
}

// parseFaceAttributes parses the material name and the five-float
// offset/rotation/scale block common to the standard dialects.
func (p *MapParser) parseFaceAttributes() (mapfile.FaceAttributes, error) {
	material, err := p.parseMaterialName()
	if err != nil {
		return mapfile.FaceAttributes{}, err
	}

	attrs := mapfile.FaceAttributes{Material: material}
	if attrs.XOffset, err = p.parseFloat(); err != nil {
		return attrs, err
	}
	if attrs.YOffset, err = p.parseFloat(); err != nil {
		return attrs, err
	}
	if attrs.Rotation, err = p.parseFloat(); err != nil {
		return attrs, err
	}
	if attrs.XScale, err = p.parseFloat(); err != nil {
		return attrs, err
	}
	if attrs.YScale, err = p.parseFloat(); err != nil {
		return attrs, err
	}
	return attrs, nil
}

// parseOptionalSurfaceAttributes parses a contents/flags/value triple if
// the next token is not the start of another face or the end of the
// brush.
func (p *MapParser) parseOptionalSurfaceAttributes(attrs *mapfile.FaceAttributes) error {
	tok, err := p.tokenizer.Peek()
	if err != nil {
		return err
	}
	if tok.Kind&(OParen|CBrace|Eof) != 0 {
		return nil
	}
	return p.parseSurfaceAttributes(attrs)
}

func (p *MapParser) parseSurfaceAttributes(attrs *mapfile.FaceAttributes) error {
	var err error
	if attrs.SurfaceContents, err = p.parseInteger(); err != nil {
		return err
	}
	if attrs.SurfaceFlags, err = p.parseInteger(); err != nil {
		return err
	}
	if attrs.SurfaceValue, err = p.parseFloat(); err != nil {
		return err
	}
	attrs.HasSurfaceAttributes = true
	return nil
}

// parseMaterialName reads a material name off the raw character stream.
// Quoted names are unescaped, raw names are not.
func (p *MapParser) parseMaterialName() (string, error) {
	name, quoted, _, err := p.tokenizer.ReadAnyString()
	if err != nil {
		return "", err
	}
	if quoted {
		return Unescape(name), nil
	}
	return name, nil
}

// parseUVAxis parses a Valve-style [x y z offset] block.
func (p *MapParser) parseUVAxis() (geom.Vec3, float64, error) {
	v, err := p.parseFloatVector(OBracket, CBracket, 4)
	if err != nil {
		return geom.Vec3{}, 0, err
	}
	return geom.Vec3{X: v[0], Y: v[1], Z: v[2]}, v[3], nil
}

// parseFloatVector parses exactly n floats between the given delimiter
// kinds.
func (p *MapParser) parseFloatVector(open, close Kind, n int) ([]float64, error) {
	if _, err := p.nextToken(open); err != nil {
		return nil, err
	}
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := p.parseFloat()
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	if _, err := p.nextToken(close); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *MapParser) parseFloat() (float64, error) {
	tok, err := p.nextToken(Number)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(p.stringValue(tok), 64)
	if err != nil {
		return 0, newErrorf(tokenPosition(tok, p.filename), "invalid number %q", p.stringValue(tok))
	}
	return f, nil
}

func (p *MapParser) parseInteger() (int, error) {
	tok, err := p.nextToken(Integer)
	if err != nil {
		return 0, err
	}
	return p.tokenInt(tok)
}

func (p *MapParser) tokenInt(tok Token) (int, error) {
	n, err := strconv.Atoi(p.stringValue(tok))
	if err != nil {
		return 0, newErrorf(tokenPosition(tok, p.filename), "invalid integer %q", p.stringValue(tok))
	}
	return n, nil
}

// stringValue materializes a token's text, unescaping quoted strings.
func (p *MapParser) stringValue(tok Token) string {
	s := tok.String(p.source)
	if tok.Kind == String && p.tokenizer.WasQuoted(tok) {
		return Unescape(s)
	}
	return s
}

// Token navigation helpers

func (p *MapParser) nextToken(expected Kind) (Token, error) {
	tok, err := p.tokenizer.Next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind&expected == 0 {
		return Token{}, p.errorExpected(tok, expected)
	}
	return tok, nil
}

func (p *MapParser) peekToken(expected Kind) (Token, error) {
	tok, err := p.tokenizer.Peek()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind&expected == 0 {
		return Token{}, p.errorExpected(tok, expected)
	}
	return tok, nil
}

func (p *MapParser) skipAndNextToken(skip, expected Kind) (Token, error) {
	for {
		tok, err := p.tokenizer.Next()
		if err != nil {
			return Token{}, err
		}
		if tok.Kind&skip != 0 {
			continue
		}
		if tok.Kind&expected == 0 {
			return Token{}, p.errorExpected(tok, expected)
		}
		return tok, nil
	}
}

func (p *MapParser) skipAndPeekToken(skip, expected Kind) (Token, error) {
	for {
		tok, err := p.tokenizer.Peek()
		if err != nil {
			return Token{}, err
		}
		if tok.Kind&skip != 0 {
			if _, err := p.tokenizer.Next(); err != nil {
				return Token{}, err
			}
			continue
		}
		if tok.Kind&expected == 0 {
			return Token{}, p.errorExpected(tok, expected)
		}
		return tok, nil
	}
}

func (p *MapParser) errorExpected(tok Token, expected Kind) error {
	return newErrorf(tokenPosition(tok, p.filename),
		"expected %s, but got %s (raw data: %q)", expected, tok.Kind, tok.String(p.source))
}

func clampColor(c int) int {
	if c < 0 {
		return 0
	}
	if c > 255 {
		return 255
	}
	return c
}
