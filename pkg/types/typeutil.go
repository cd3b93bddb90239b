package types

import "iter"

// Select prunes a schema to the transitive closure of the requested field
// ids. Field order is preserved; nested containers survive when any
// descendant is selected; a struct with no surviving fields is omitted.
// Aliases carry over.
func Select(schema *Schema, ids map[int]bool) *Schema {
	result := VisitSchema[Type](schema, &pruneColumns{selected: ids})
	if result == nil {
		return NewSchemaWithAliases(nil, schema.Aliases())
	}
	st := AsStruct(result)
	if st.Equals(schema.AsStruct()) {
		return schema
	}
	return NewSchemaWithAliases(st.FieldList, schema.Aliases())
}

// SelectNot prunes a schema to everything except the given ids.
func SelectNot(schema *Schema, ids map[int]bool) *Schema {
	keep := ProjectedIDs(schema)
	for id := range ids {
		delete(keep, id)
	}
	return Select(schema, keep)
}

// ProjectedIDs returns the set of all field ids appearing in the schema,
// including list element and map key/value ids.
func ProjectedIDs(schema *Schema) map[int]bool {
	v := &getProjectedIDs{ids: make(map[int]bool)}
	VisitSchema[struct{}](schema, v)
	return v.ids
}

// IndexByName returns the dotted-name index of a struct type.
func IndexByName(st StructType) map[string]int {
	v := &indexByName{byName: make(map[string]int)}
	VisitType[struct{}](st, v)
	return v.byName
}

// IndexByID returns the id index of a struct type, covering struct fields
// and list/map interior fields.
func IndexByID(st StructType) map[int]NestedField {
	v := &indexByID{byID: make(map[int]NestedField)}
	VisitType[struct{}](st, v)
	return v.byID
}

// Join concatenates the columns of two schemas. Field ids must not collide.
func Join(left, right *Schema) *Schema {
	cols := make([]NestedField, 0, len(left.Columns())+len(right.Columns()))
	cols = append(cols, left.Columns()...)
	cols = append(cols, right.Columns()...)
	return NewSchema(cols...)
}

// ReassignIDs rewrites every field id in the schema using ids drawn from
// nextID, assigning in post-order.
func ReassignIDs(schema *Schema, nextID func() int) *Schema {
	st := AsStruct(VisitSchemaCustom[Type](schema, &reassignIDs{nextID: nextID}))
	return NewSchema(st.FieldList...)
}

// ReassignTypeIDs rewrites every field id inside a type using ids drawn
// from nextID, assigning in post-order.
func ReassignTypeIDs(t Type, nextID func() int) Type {
	return VisitTypeCustom[Type](t, &reassignIDs{nextID: nextID})
}

// pruneColumns keeps fields whose id is selected (whole subtree) or that
// have a selected descendant (pruned subtree). A nil result drops the
// field.
type pruneColumns struct {
	selected map[int]bool
}

func (p *pruneColumns) Schema(schema *Schema, structResult Type) Type {
	return structResult
}

func (p *pruneColumns) Struct(st StructType, fieldResults []Type) Type {
	fields := make([]NestedField, 0, len(fieldResults))
	changed := false
	for i, result := range fieldResults {
		field := st.FieldList[i]
		switch {
		case result == nil:
			changed = true
		case result.Equals(field.Type):
			fields = append(fields, field)
		default:
			fields = append(fields, NestedField{ID: field.ID, Name: field.Name, Required: field.Required, Type: result})
			changed = true
		}
	}
	if len(fields) == 0 {
		return nil
	}
	if !changed {
		return st
	}
	return StructOf(fields...)
}

func (p *pruneColumns) Field(field NestedField, fieldResult Type) Type {
	if p.selected[field.ID] {
		return field.Type
	}
	return fieldResult
}

func (p *pruneColumns) List(list ListType, elementResult Type) Type {
	if p.selected[list.ElementID] {
		return list
	}
	if elementResult == nil {
		return nil
	}
	if elementResult.Equals(list.Element) {
		return list
	}
	return ListType{ElementID: list.ElementID, Element: elementResult, ElementRequired: list.ElementRequired}
}

func (p *pruneColumns) Map(m MapType, valueResult Type) Type {
	if p.selected[m.KeyID] || p.selected[m.ValueID] {
		return m
	}
	if valueResult == nil {
		return nil
	}
	if valueResult.Equals(m.Value) {
		return m
	}
	return MapType{KeyID: m.KeyID, ValueID: m.ValueID, Key: m.Key, Value: valueResult, ValueRequired: m.ValueRequired}
}

func (p *pruneColumns) Primitive(PrimitiveType) Type { return nil }

type getProjectedIDs struct {
	ids map[int]bool
}

func (g *getProjectedIDs) Schema(*Schema, struct{}) struct{} { return struct{}{} }
func (g *getProjectedIDs) Struct(StructType, []struct{}) struct{} {
	return struct{}{}
}

func (g *getProjectedIDs) Field(field NestedField, _ struct{}) struct{} {
	g.ids[field.ID] = true
	return struct{}{}
}

func (g *getProjectedIDs) List(list ListType, _ struct{}) struct{} {
	g.ids[list.ElementID] = true
	return struct{}{}
}

func (g *getProjectedIDs) Map(m MapType, _ struct{}) struct{} {
	g.ids[m.KeyID] = true
	g.ids[m.ValueID] = true
	return struct{}{}
}

func (g *getProjectedIDs) Primitive(PrimitiveType) struct{} { return struct{}{} }

type indexByName struct {
	NameStack
	byName map[string]int
}

func (v *indexByName) Schema(*Schema, struct{}) struct{}      { return struct{}{} }
func (v *indexByName) Struct(StructType, []struct{}) struct{} { return struct{}{} }

func (v *indexByName) Field(field NestedField, _ struct{}) struct{} {
	v.byName[v.Path(field.Name)] = field.ID
	return struct{}{}
}

func (v *indexByName) List(list ListType, _ struct{}) struct{} {
	v.byName[v.Path("element")] = list.ElementID
	return struct{}{}
}

func (v *indexByName) Map(m MapType, _ struct{}) struct{} {
	v.byName[v.Path("key")] = m.KeyID
	v.byName[v.Path("value")] = m.ValueID
	return struct{}{}
}

func (v *indexByName) Primitive(PrimitiveType) struct{} { return struct{}{} }

type indexByID struct {
	byID map[int]NestedField
}

func (v *indexByID) Schema(*Schema, struct{}) struct{}      { return struct{}{} }
func (v *indexByID) Struct(StructType, []struct{}) struct{} { return struct{}{} }

func (v *indexByID) Field(field NestedField, _ struct{}) struct{} {
	v.byID[field.ID] = field
	return struct{}{}
}

func (v *indexByID) List(list ListType, _ struct{}) struct{} {
	v.byID[list.ElementID] = list.ElementField()
	return struct{}{}
}

func (v *indexByID) Map(m MapType, _ struct{}) struct{} {
	v.byID[m.KeyID] = m.KeyField()
	v.byID[m.ValueID] = m.ValueField()
	return struct{}{}
}

func (v *indexByID) Primitive(PrimitiveType) struct{} { return struct{}{} }

// reassignIDs allocates fresh ids in post-order: a field's subtree is
// re-identified before the field itself.
type reassignIDs struct {
	nextID func() int
}

func (r *reassignIDs) Schema(_ *Schema, structResult func() Type) Type {
	return structResult()
}

func (r *reassignIDs) Struct(st StructType, fieldResults iter.Seq[Type]) Type {
	results := make([]Type, 0, len(st.FieldList))
	for t := range fieldResults {
		results = append(results, t)
	}
	fields := make([]NestedField, len(results))
	for i, field := range st.FieldList {
		fields[i] = NestedField{ID: r.nextID(), Name: field.Name, Required: field.Required, Type: results[i]}
	}
	return StructOf(fields...)
}

func (r *reassignIDs) Field(_ NestedField, fieldResult func() Type) Type {
	return fieldResult()
}

func (r *reassignIDs) List(list ListType, elementResult func() Type) Type {
	element := elementResult()
	return ListType{ElementID: r.nextID(), Element: element, ElementRequired: list.ElementRequired}
}

func (r *reassignIDs) Map(m MapType, valueResult func() Type) Type {
	value := valueResult()
	keyID := r.nextID()
	valueID := r.nextID()
	return MapType{KeyID: keyID, ValueID: valueID, Key: m.Key, Value: value, ValueRequired: m.ValueRequired}
}

func (r *reassignIDs) Primitive(p PrimitiveType) Type { return p }
