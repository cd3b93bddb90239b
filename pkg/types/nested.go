package types

import (
	"fmt"
	"strings"
)

// NestedField is a named, typed member of a nested type. Field IDs are
// unique within a schema and survive schema evolution.
type NestedField struct {
	ID       int
	Name     string
	Required bool
	Type     Type
}

// RequiredField returns a field that may not hold null.
func RequiredField(id int, name string, typ Type) NestedField {
	return NestedField{ID: id, Name: name, Required: true, Type: typ}
}

// OptionalField returns a field that may hold null.
func OptionalField(id int, name string, typ Type) NestedField {
	return NestedField{ID: id, Name: name, Required: false, Type: typ}
}

// Equals reports whether two fields have the same id, name, optionality, and
// structurally equal types.
func (f NestedField) Equals(o NestedField) bool {
	return f.ID == o.ID && f.Name == o.Name && f.Required == o.Required && f.Type.Equals(o.Type)
}

func (f NestedField) String() string {
	req := "optional"
	if f.Required {
		req = "required"
	}
	return fmt.Sprintf("%d: %s: %s %s", f.ID, f.Name, req, f.Type)
}

// StructType is an ordered collection of named fields.
type StructType struct {
	FieldList []NestedField
}

// StructOf returns a struct type over the given fields.
func StructOf(fields ...NestedField) StructType {
	return StructType{FieldList: fields}
}

func (s StructType) TypeID() TypeID { return StructID }

// Fields returns the struct's fields in declaration order.
func (s StructType) Fields() []NestedField { return s.FieldList }

// Field returns the field with the given name, if present.
func (s StructType) Field(name string) (NestedField, bool) {
	for _, f := range s.FieldList {
		if f.Name == name {
			return f, true
		}
	}
	return NestedField{}, false
}

// FieldByID returns the direct member field with the given id, if present.
func (s StructType) FieldByID(id int) (NestedField, bool) {
	for _, f := range s.FieldList {
		if f.ID == id {
			return f, true
		}
	}
	return NestedField{}, false
}

func (s StructType) Equals(o Type) bool {
	other, ok := o.(StructType)
	if !ok || len(s.FieldList) != len(other.FieldList) {
		return false
	}
	for i := range s.FieldList {
		if !s.FieldList[i].Equals(other.FieldList[i]) {
			return false
		}
	}
	return true
}

func (s StructType) String() string {
	parts := make([]string, len(s.FieldList))
	for i, f := range s.FieldList {
		parts[i] = f.String()
	}
	return "struct<" + strings.Join(parts, ", ") + ">"
}

// ListType is an ordered collection of a single element type. The element
// carries its own field id drawn from the same id space as struct fields.
type ListType struct {
	ElementID       int
	Element         Type
	ElementRequired bool
}

// ListOfRequired returns a list whose elements may not be null.
func ListOfRequired(elementID int, element Type) ListType {
	return ListType{ElementID: elementID, Element: element, ElementRequired: true}
}

// ListOfOptional returns a list whose elements may be null.
func ListOfOptional(elementID int, element Type) ListType {
	return ListType{ElementID: elementID, Element: element, ElementRequired: false}
}

func (l ListType) TypeID() TypeID { return ListID }

// ElementField returns the element as a pseudo-field named "element".
func (l ListType) ElementField() NestedField {
	return NestedField{ID: l.ElementID, Name: "element", Required: l.ElementRequired, Type: l.Element}
}

// Fields returns the element pseudo-field.
func (l ListType) Fields() []NestedField {
	return []NestedField{l.ElementField()}
}

func (l ListType) Equals(o Type) bool {
	other, ok := o.(ListType)
	return ok && l.ElementID == other.ElementID &&
		l.ElementRequired == other.ElementRequired &&
		l.Element.Equals(other.Element)
}

func (l ListType) String() string {
	return fmt.Sprintf("list<%s>", l.Element)
}

// MapType is a collection of key/value pairs. Keys are always required;
// values may be optional. Key and value both carry field ids.
type MapType struct {
	KeyID         int
	ValueID       int
	Key           Type
	Value         Type
	ValueRequired bool
}

// MapOfRequired returns a map whose values may not be null.
func MapOfRequired(keyID, valueID int, key, value Type) MapType {
	return MapType{KeyID: keyID, ValueID: valueID, Key: key, Value: value, ValueRequired: true}
}

// MapOfOptional returns a map whose values may be null.
func MapOfOptional(keyID, valueID int, key, value Type) MapType {
	return MapType{KeyID: keyID, ValueID: valueID, Key: key, Value: value, ValueRequired: false}
}

func (m MapType) TypeID() TypeID { return MapID }

// KeyField returns the key as a pseudo-field named "key".
func (m MapType) KeyField() NestedField {
	return NestedField{ID: m.KeyID, Name: "key", Required: true, Type: m.Key}
}

// ValueField returns the value as a pseudo-field named "value".
func (m MapType) ValueField() NestedField {
	return NestedField{ID: m.ValueID, Name: "value", Required: m.ValueRequired, Type: m.Value}
}

// Fields returns the key and value pseudo-fields.
func (m MapType) Fields() []NestedField {
	return []NestedField{m.KeyField(), m.ValueField()}
}

func (m MapType) Equals(o Type) bool {
	other, ok := o.(MapType)
	return ok && m.KeyID == other.KeyID && m.ValueID == other.ValueID &&
		m.ValueRequired == other.ValueRequired &&
		m.Key.Equals(other.Key) && m.Value.Equals(other.Value)
}

func (m MapType) String() string {
	return fmt.Sprintf("map<%s, %s>", m.Key, m.Value)
}
