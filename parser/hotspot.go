package parser

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/themuffinator/BrumSchtick/geom"
	"github.com/themuffinator/BrumSchtick/mapfile"
)

// Scope keywords that group rects without naming a texture.
var hotspotGroupKeywords = map[string]bool{
	"rectangles": true,
	"rectangle":  true,
}

// Alias sets for the tiling flags, matched case-insensitively.
var (
	hotspotTileUAliases = map[string]bool{
		"tileu": true, "tile_u": true, "repeatu": true, "repeat_u": true,
		"tilex": true, "tile-h": true, "tileh": true,
	}
	hotspotTileVAliases = map[string]bool{
		"tilev": true, "tile_v": true, "repeatv": true, "repeat_v": true,
		"tiley": true, "tile-v": true,
	}
)

// ParseHotspotRects reads a hotspot definition file: a line-oriented,
// brace-scoped format mapping texture names to hotspot rects. The format
// is lenient; lines that do not yield a rect are ignored rather than
// reported. defaultTexture names the texture for rects declared outside
// any texture scope; when it is empty such rects are dropped.
func ParseHotspotRects(source []byte, defaultTexture string) *mapfile.HotspotRectMap {
	p := &hotspotParser{
		rects:          mapfile.NewHotspotRectMap(),
		defaultTexture: defaultTexture,
	}

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.parseLine(scanner.Text())
	}
	return p.rects
}

type hotspotParser struct {
	rects          *mapfile.HotspotRectMap
	defaultTexture string

	scopes           []string
	pendingBlockName string
}

func (p *hotspotParser) parseLine(line string) {
	line = stripHotspotComment(line)
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}

	var segment []string
	for _, tok := range tokens {
		switch tok {
		case "{":
			// The scope is named by the token just before the brace, or
			// by a block name seen alone on an earlier line, or is
			// anonymous.
			name := ""
			if len(segment) > 0 {
				name = segment[len(segment)-1]
				segment = segment[:len(segment)-1]
			} else if p.pendingBlockName != "" {
				name = p.pendingBlockName
			}
			p.pendingBlockName = ""
			p.scopes = append(p.scopes, name)
		case "}":
			p.flushSegment(segment)
			segment = nil
			if len(p.scopes) > 0 {
				p.scopes = p.scopes[:len(p.scopes)-1]
			}
		default:
			segment = append(segment, tok)
		}
	}

	// A single bare word alone on a line names the next anonymous block.
	if len(segment) == 1 && !isHotspotNumber(segment[0]) {
		p.pendingBlockName = segment[0]
		return
	}
	p.flushSegment(segment)
}

// flushSegment interprets accumulated tokens as a rect declaration:
// at least four floats for min and size, plus tiling aliases and an
// optional weight.
func (p *hotspotParser) flushSegment(segment []string) {
	if len(segment) == 0 {
		return
	}

	texture := p.activeTexture()
	if texture == "" {
		return
	}

	rect := mapfile.HotspotRect{Weight: 1.0}
	var floats []float64

	for i := 0; i < len(segment); i++ {
		tok := segment[i]
		lower := strings.ToLower(tok)

		switch {
		case hotspotTileUAliases[lower]:
			rect.TileU = true
		case hotspotTileVAliases[lower]:
			rect.TileV = true
		case strings.HasPrefix(lower, "weight="), strings.HasPrefix(lower, "w="):
			if _, value, ok := strings.Cut(tok, "="); ok {
				if w, err := strconv.ParseFloat(value, 64); err == nil && w > 0 {
					rect.Weight = w
				}
			}
		case lower == "weight" || lower == "w":
			// Weight as a key/value token pair; the value must not be
			// counted among the rect floats.
			if i+1 < len(segment) {
				if w, err := strconv.ParseFloat(segment[i+1], 64); err == nil {
					if w > 0 {
						rect.Weight = w
					}
					i++
				}
			}
		default:
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				floats = append(floats, f)
			}
		}
	}

	if len(floats) < 4 {
		return
	}
	rect.Min = geom.Vec2{X: floats[0], Y: floats[1]}
	rect.Size = geom.Vec2{X: floats[2], Y: floats[3]}
	if rect.Size.X <= 0 || rect.Size.Y <= 0 {
		return
	}

	p.rects.Add(texture, rect)
}

// activeTexture returns the innermost scope name that is not a grouping
// keyword, the default texture when no scope names one, or the empty
// string when rects cannot be attributed to any texture.
func (p *hotspotParser) activeTexture() string {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		name := p.scopes[i]
		if name == "" || hotspotGroupKeywords[strings.ToLower(name)] {
			continue
		}
		return name
	}
	return p.defaultTexture
}

func stripHotspotComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	return line
}

func isHotspotNumber(tok string) bool {
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}
