package types

import (
	"fmt"
	"strings"
)

// MaxNestingDepth bounds schema nesting so that recursive traversals cannot
// exhaust the stack. Schema construction panics beyond this depth.
const MaxNestingDepth = 100

// Schema is an immutable struct type with two derived indexes: dotted name
// to field id, and field id to field. List elements index under
// "<parent>.element", map keys and values under ".key" and ".value".
type Schema struct {
	root    StructType
	aliases map[string]int

	byName map[string]int
	byID   map[int]NestedField
}

// NewSchema builds a schema over the given columns. Panics if a field id
// occurs more than once anywhere in the tree or the tree exceeds
// MaxNestingDepth.
func NewSchema(columns ...NestedField) *Schema {
	return NewSchemaWithAliases(columns, nil)
}

// NewSchemaWithAliases builds a schema with an alias map from alternate
// names to field ids.
func NewSchemaWithAliases(columns []NestedField, aliases map[string]int) *Schema {
	s := &Schema{
		root:    StructOf(columns...),
		aliases: aliases,
		byName:  make(map[string]int),
		byID:    make(map[int]NestedField),
	}
	s.index(s.root, nil, 0)
	return s
}

// index performs the single pre-order traversal that populates both byName
// and byID.
func (s *Schema) index(t Type, path []string, depth int) {
	if depth > MaxNestingDepth {
		panic(fmt.Sprintf("types: schema exceeds maximum nesting depth %d", MaxNestingDepth))
	}

	switch t := t.(type) {
	case StructType:
		for _, f := range t.FieldList {
			s.register(append(path, f.Name), f)
			s.index(f.Type, append(path, f.Name), depth+1)
		}
	case ListType:
		s.register(append(path, "element"), t.ElementField())
		s.index(t.Element, path, depth+1)
	case MapType:
		s.register(append(path, "key"), t.KeyField())
		s.register(append(path, "value"), t.ValueField())
		s.index(t.Value, append(path, "value"), depth+1)
	}
}

func (s *Schema) register(path []string, f NestedField) {
	if _, ok := s.byID[f.ID]; ok {
		panic(fmt.Sprintf("types: duplicate field id %d in schema", f.ID))
	}
	s.byID[f.ID] = f
	s.byName[strings.Join(path, ".")] = f.ID
}

// Columns returns the top-level fields of the schema.
func (s *Schema) Columns() []NestedField { return s.root.FieldList }

// AsStruct returns the schema's underlying struct type.
func (s *Schema) AsStruct() StructType { return s.root }

// Aliases returns the alias map, which may be nil.
func (s *Schema) Aliases() map[string]int { return s.aliases }

// FindField resolves a dotted column name against the name index, then the
// aliases.
func (s *Schema) FindField(name string) (NestedField, bool) {
	if id, ok := s.byName[name]; ok {
		return s.byID[id], true
	}
	if id, ok := s.aliases[name]; ok {
		if f, ok := s.byID[id]; ok {
			return f, true
		}
	}
	return NestedField{}, false
}

// FindFieldByID returns the field carrying the given id anywhere in the
// tree.
func (s *Schema) FindFieldByID(id int) (NestedField, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// FindColumnName returns the dotted name of the field with the given id.
func (s *Schema) FindColumnName(id int) (string, bool) {
	for name, fid := range s.byName {
		if fid == id {
			return name, true
		}
	}
	return "", false
}

// Equals reports whether two schemas have structurally equal columns.
// Aliases do not participate in equality.
func (s *Schema) Equals(o *Schema) bool {
	return s.root.Equals(o.root)
}

func (s *Schema) String() string {
	parts := make([]string, len(s.root.FieldList))
	for i, f := range s.root.FieldList {
		parts[i] = f.String()
	}
	return "table {\n  " + strings.Join(parts, "\n  ") + "\n}"
}
