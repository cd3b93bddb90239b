// Package types defines the type lattice, schema tree, and schema evolution
// primitives of the Floe table format. Types and schemas are immutable and
// may be shared freely across goroutines.
package types

import "fmt"

// TypeID identifies a variant of the closed type sum.
type TypeID int

const (
	BooleanID TypeID = iota
	IntID
	LongID
	FloatID
	DoubleID
	DateID
	TimeID
	TimestampID
	TimestampTzID
	StringID
	UUIDID
	FixedID
	BinaryID
	DecimalID
	StructID
	ListID
	MapID
)

// Type is a node in the type lattice. The set of implementations is closed:
// thirteen primitive kinds plus struct, list, and map.
type Type interface {
	fmt.Stringer

	// TypeID returns the variant tag of this type.
	TypeID() TypeID

	// Equals reports structural equality, including decimal parameters,
	// fixed lengths, and nested field IDs.
	Equals(Type) bool
}

// PrimitiveType is a Type with no nested structure.
type PrimitiveType interface {
	Type
	primitive()
}

// NestedType is a struct, list, or map. Fields returns the immediate child
// fields: struct members, the list element, or the map key and value.
type NestedType interface {
	Type
	Fields() []NestedField
}

// IsPrimitive reports whether t is a primitive type.
func IsPrimitive(t Type) bool {
	_, ok := t.(PrimitiveType)
	return ok
}

// IsNested reports whether t is a struct, list, or map.
func IsNested(t Type) bool {
	_, ok := t.(NestedType)
	return ok
}

// AsPrimitive returns t as a PrimitiveType and panics if t is nested.
func AsPrimitive(t Type) PrimitiveType {
	p, ok := t.(PrimitiveType)
	if !ok {
		panic(fmt.Sprintf("types: not a primitive type: %s", t))
	}
	return p
}

// AsStruct returns t as a StructType and panics otherwise.
func AsStruct(t Type) StructType {
	s, ok := t.(StructType)
	if !ok {
		panic(fmt.Sprintf("types: not a struct type: %s", t))
	}
	return s
}

// AsList returns t as a ListType and panics otherwise.
func AsList(t Type) ListType {
	l, ok := t.(ListType)
	if !ok {
		panic(fmt.Sprintf("types: not a list type: %s", t))
	}
	return l
}

// AsMap returns t as a MapType and panics otherwise.
func AsMap(t Type) MapType {
	m, ok := t.(MapType)
	if !ok {
		panic(fmt.Sprintf("types: not a map type: %s", t))
	}
	return m
}
