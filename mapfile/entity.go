package mapfile

import (
	"strconv"
	"strings"

	"github.com/themuffinator/BrumSchtick/geom"
)

// Well-known entity property keys.
const (
	ClassnameKey = "classname"
	OriginKey    = "origin"

	WorldspawnClassname = "worldspawn"
)

// EntityProperty is a single key/value pair. Entities keep their
// properties in declaration order; duplicate keys are allowed at parse
// time and resolved by consumers.
type EntityProperty struct {
	Key   string
	Value string
}

// Object is one of the things an entity body can contain. The set is
// closed: *BrushRecord and *PatchRecord.
type Object interface {
	isObject()
}

func (*BrushRecord) isObject() {}
func (*PatchRecord) isObject() {}

// Entity is a parsed map entity: an ordered property list plus the
// brushes and patches declared in its body.
type Entity struct {
	Start      Position
	End        Position
	Properties []EntityProperty
	Objects    []Object

	// Derived from the property list, recomputed on every mutation.
	classname string
	origin    geom.Vec3
}

// NewEntity returns an entity with the given properties.
func NewEntity(props []EntityProperty) *Entity {
	e := &Entity{Properties: props}
	e.recompute()
	return e
}

// Property returns the value for key, taking the first occurrence.
func (e *Entity) Property(key string) (string, bool) {
	for _, p := range e.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// SetProperty sets key to value, replacing the first occurrence or
// appending if the key is not present.
func (e *Entity) SetProperty(key, value string) {
	defer e.recompute()
	for i, p := range e.Properties {
		if p.Key == key {
			e.Properties[i].Value = value
			return
		}
	}
	e.Properties = append(e.Properties, EntityProperty{Key: key, Value: value})
}

// RemoveProperty removes every occurrence of key.
func (e *Entity) RemoveProperty(key string) {
	kept := e.Properties[:0]
	for _, p := range e.Properties {
		if p.Key != key {
			kept = append(kept, p)
		}
	}
	e.Properties = kept
	e.recompute()
}

// Classname returns the entity's classname, or the empty string.
func (e *Entity) Classname() string {
	return e.classname
}

// IsWorldspawn reports whether this is the world entity.
func (e *Entity) IsWorldspawn() bool {
	return e.classname == WorldspawnClassname
}

// Origin returns the entity's parsed origin, or the zero vector.
func (e *Entity) Origin() geom.Vec3 {
	return e.origin
}

// Brushes returns the entity's brush records in declaration order.
func (e *Entity) Brushes() []*BrushRecord {
	var brushes []*BrushRecord
	for _, o := range e.Objects {
		if b, ok := o.(*BrushRecord); ok {
			brushes = append(brushes, b)
		}
	}
	return brushes
}

// Patches returns the entity's patch records in declaration order.
func (e *Entity) Patches() []*PatchRecord {
	var patches []*PatchRecord
	for _, o := range e.Objects {
		if p, ok := o.(*PatchRecord); ok {
			patches = append(patches, p)
		}
	}
	return patches
}

// recompute refreshes all derived fields. Any property mutation must
// invalidate all of them, never a subset.
func (e *Entity) recompute() {
	e.classname = ""
	e.origin = geom.Vec3{}

	if v, ok := e.Property(ClassnameKey); ok {
		e.classname = v
	}
	if v, ok := e.Property(OriginKey); ok {
		e.origin = parseOrigin(v)
	}
}

func parseOrigin(s string) geom.Vec3 {
	fields := strings.Fields(s)
	var v geom.Vec3
	for i := 0; i < len(fields) && i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return geom.Vec3{}
		}
		switch i {
		case 0:
			v.X = f
		case 1:
			v.Y = f
		case 2:
			v.Z = f
		}
	}
	return v
}

// Document is a fully parsed map: the ordered list of entities.
type Document struct {
	Format   Format
	Entities []*Entity
}

// Worldspawn returns the world entity, or nil if the map has none.
func (d *Document) Worldspawn() *Entity {
	for _, e := range d.Entities {
		if e.IsWorldspawn() {
			return e
		}
	}
	return nil
}
