package types

import "iter"

// NameStack tracks the dotted path of the field being visited. Visitors that
// need path information embed it; the traversal pushes and pops around each
// struct field and around a map's value.
type NameStack struct {
	names []string
}

func (s *NameStack) pushName(name string) { s.names = append(s.names, name) }
func (s *NameStack) popName()             { s.names = s.names[:len(s.names)-1] }

// Path returns the dotted path for a child with the given name relative to
// the current position. An empty name returns the current path itself.
func (s *NameStack) Path(name string) string {
	out := ""
	for _, n := range s.names {
		out += n + "."
	}
	if name == "" {
		if len(out) > 0 {
			return out[:len(out)-1]
		}
		return out
	}
	return out + name
}

type nameTracker interface {
	pushName(string)
	popName()
}

// SchemaVisitor is a pre-order visitor over a type tree. The traversal
// recurses into struct fields, list elements, and map values; map keys are
// treated as fixed. Visitors embedding NameStack observe the dotted path of
// the field being visited.
type SchemaVisitor[T any] interface {
	Schema(schema *Schema, structResult T) T
	Struct(st StructType, fieldResults []T) T
	Field(field NestedField, fieldResult T) T
	List(list ListType, elementResult T) T
	Map(m MapType, valueResult T) T
	Primitive(p PrimitiveType) T
}

// VisitSchema traverses a schema with a pre-order visitor.
func VisitSchema[T any](schema *Schema, v SchemaVisitor[T]) T {
	return v.Schema(schema, VisitType(schema.AsStruct(), v))
}

// VisitType traverses a type with a pre-order visitor.
func VisitType[T any](t Type, v SchemaVisitor[T]) T {
	switch t := t.(type) {
	case StructType:
		tracker, tracks := any(v).(nameTracker)
		results := make([]T, 0, len(t.FieldList))
		for _, field := range t.FieldList {
			if tracks {
				tracker.pushName(field.Name)
			}
			result := VisitType(field.Type, v)
			if tracks {
				tracker.popName()
			}
			results = append(results, v.Field(field, result))
		}
		return v.Struct(t, results)

	case ListType:
		return v.List(t, VisitType(t.Element, v))

	case MapType:
		tracker, tracks := any(v).(nameTracker)
		if tracks {
			tracker.pushName("value")
		}
		result := VisitType(t.Value, v)
		if tracks {
			tracker.popName()
		}
		return v.Map(t, result)

	default:
		return v.Primitive(AsPrimitive(t))
	}
}

// CustomOrderVisitor receives one-shot thunks that perform the child
// traversal on demand, enabling post-order traversals and subtree skipping.
// Thunks may only be invoked from within the enclosing visitor method, and
// at most once; struct children arrive as a lazy single-use sequence.
type CustomOrderVisitor[T any] interface {
	Schema(schema *Schema, structResult func() T) T
	Struct(st StructType, fieldResults iter.Seq[T]) T
	Field(field NestedField, fieldResult func() T) T
	List(list ListType, elementResult func() T) T
	Map(m MapType, valueResult func() T) T
	Primitive(p PrimitiveType) T
}

// VisitSchemaCustom traverses a schema with a custom-order visitor.
func VisitSchemaCustom[T any](schema *Schema, v CustomOrderVisitor[T]) T {
	return v.Schema(schema, func() T { return VisitTypeCustom(schema.AsStruct(), v) })
}

// VisitTypeCustom traverses a type with a custom-order visitor.
func VisitTypeCustom[T any](t Type, v CustomOrderVisitor[T]) T {
	switch t := t.(type) {
	case StructType:
		return v.Struct(t, func(yield func(T) bool) {
			for _, field := range t.FieldList {
				childType := field.Type
				result := v.Field(field, func() T { return VisitTypeCustom(childType, v) })
				if !yield(result) {
					return
				}
			}
		})

	case ListType:
		element := t.Element
		return v.List(t, func() T { return VisitTypeCustom(element, v) })

	case MapType:
		value := t.Value
		return v.Map(t, func() T { return VisitTypeCustom(value, v) })

	default:
		return v.Primitive(AsPrimitive(t))
	}
}
