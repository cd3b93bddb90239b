package types

import (
	"fmt"
	"strings"

	floeerrors "github.com/arkilian/floe/internal/errors"
)

// TableRootID is the pseudo parent id for columns added at the schema root.
const TableRootID = -1

// SchemaUpdate accumulates a batch of schema edits and applies them in one
// traversal. New column ids are drawn from a monotone counter seeded with
// the table's last column id, so ids are never reused.
//
// A SchemaUpdate must be owned by a single goroutine. Validation failures
// leave the builder unchanged; further edits may be issued after an error.
type SchemaUpdate struct {
	schema       *Schema
	lastColumnID int

	deletes map[int]bool
	updates map[int]NestedField
	adds    map[int][]NestedField
}

// NewSchemaUpdate starts an edit batch against the given schema.
// lastColumnID is the highest column id ever assigned in the table's
// history.
func NewSchemaUpdate(schema *Schema, lastColumnID int) *SchemaUpdate {
	return &SchemaUpdate{
		schema:       schema,
		lastColumnID: lastColumnID,
		deletes:      make(map[int]bool),
		updates:      make(map[int]NestedField),
		adds:         make(map[int][]NestedField),
	}
}

// LastColumnID returns the highest column id assigned so far, including ids
// consumed by pending additions.
func (u *SchemaUpdate) LastColumnID() int { return u.lastColumnID }

// AddColumn appends an optional top-level column. The name must not contain
// dots; use AddColumnTo for nested additions.
func (u *SchemaUpdate) AddColumn(name string, typ Type) error {
	if strings.Contains(name, ".") {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeInvalidParent,
			"cannot add column with ambiguous name: %s, use AddColumnTo(parent, name, type)", name)
	}
	return u.AddColumnTo("", name, typ)
}

// AddColumnTo appends an optional column under the given parent struct. A
// parent naming a list or map resolves through the element or value. Ids
// nested inside typ are reassigned before the column is recorded.
func (u *SchemaUpdate) AddColumnTo(parent, name string, typ Type) error {
	parentID := TableRootID
	if parent != "" {
		parentField, ok := u.schema.FindField(parent)
		if !ok {
			return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeInvalidParent,
				"cannot find parent struct: %s", parent)
		}
		switch t := parentField.Type.(type) {
		case MapType:
			// fields are added to the map value type
			parentField = t.ValueField()
		case ListType:
			// fields are added to the element type
			parentField = t.ElementField()
		}
		parentStruct, ok := parentField.Type.(StructType)
		if !ok {
			return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeInvalidParent,
				"cannot add to non-struct column: %s: %s", parent, parentField.Type)
		}
		parentID = parentField.ID
		if u.deletes[parentID] {
			return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeConflictingEdit,
				"cannot add to a column that will be deleted: %s", parent)
		}
		if _, exists := parentStruct.Field(name); exists {
			return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeDuplicateColumn,
				"cannot add column, name already exists: %s.%s", parent, name)
		}
	} else if _, exists := u.schema.FindField(name); exists {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeDuplicateColumn,
			"cannot add column, name already exists: %s", name)
	}

	// assign new ids in order: the column first, then its nested ids
	newID := u.assignNewColumnID()
	added := OptionalField(newID, name, ReassignTypeIDs(typ, u.assignNewColumnID))
	u.adds[parentID] = append(u.adds[parentID], added)
	return nil
}

// DeleteColumn marks a column for removal.
func (u *SchemaUpdate) DeleteColumn(name string) error {
	field, ok := u.schema.FindField(name)
	if !ok {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeFieldNotFound,
			"cannot delete missing column: %s", name)
	}
	if len(u.adds[field.ID]) > 0 {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeConflictingEdit,
			"cannot delete a column that has additions: %s", name)
	}
	if _, ok := u.updates[field.ID]; ok {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeConflictingEdit,
			"cannot delete a column that has updates: %s", name)
	}

	u.deletes[field.ID] = true
	return nil
}

// RenameColumn changes a column's name, merging with any pending type
// update for the same column.
func (u *SchemaUpdate) RenameColumn(name, newName string) error {
	field, ok := u.schema.FindField(name)
	if !ok {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeFieldNotFound,
			"cannot rename missing column: %s", name)
	}
	if u.deletes[field.ID] {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeConflictingEdit,
			"cannot rename a column that will be deleted: %s", field.Name)
	}

	replacement := field
	if update, ok := u.updates[field.ID]; ok {
		replacement = update
	}
	replacement.Name = newName
	u.updates[field.ID] = replacement
	return nil
}

// UpdateColumn widens a column's primitive type, merging with any pending
// rename for the same column. Legal promotions: int to long, float to
// double, and decimal precision widening at equal scale. Same-type updates
// are no-ops.
func (u *SchemaUpdate) UpdateColumn(name string, newType PrimitiveType) error {
	field, ok := u.schema.FindField(name)
	if !ok {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeFieldNotFound,
			"cannot update missing column: %s", name)
	}
	if u.deletes[field.ID] {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeConflictingEdit,
			"cannot update a column that will be deleted: %s", field.Name)
	}
	if !isPromotionAllowed(field.Type, newType) {
		return floeerrors.Newf(floeerrors.ErrCategorySchema, floeerrors.CodeInvalidPromotion,
			"cannot change column type: %s: %s -> %s", name, field.Type, newType)
	}

	replacement := field
	if rename, ok := u.updates[field.ID]; ok {
		replacement = rename
	}
	replacement.Type = newType
	u.updates[field.ID] = replacement
	return nil
}

// Apply applies the pending changes to the base schema and returns the
// result. The base schema and the pending edits are left untouched; Apply
// may be called repeatedly as edits accumulate.
func (u *SchemaUpdate) Apply() *Schema {
	st := AsStruct(VisitSchema[Type](u.schema, &applyChanges{
		deletes: u.deletes,
		updates: u.updates,
		adds:    u.adds,
	}))
	return NewSchema(st.FieldList...)
}

func (u *SchemaUpdate) assignNewColumnID() int {
	u.lastColumnID++
	return u.lastColumnID
}

// isPromotionAllowed gates type changes that do not require rewriting data.
// Changing this also changes which partition transforms stay valid across
// evolution.
func isPromotionAllowed(t Type, newType PrimitiveType) bool {
	if t.Equals(newType) {
		return true
	}

	switch t := t.(type) {
	case IntType:
		return newType.TypeID() == LongID
	case FloatType:
		return newType.TypeID() == DoubleID
	case DecimalType:
		to, ok := newType.(DecimalType)
		return ok && t.Scale == to.Scale && t.Precision <= to.Precision
	}
	return false
}

// applyChanges rebuilds the schema tree with deletes, updates, and adds
// applied. The builder validates conflicts up front, so the traversal only
// has to reassemble.
type applyChanges struct {
	deletes map[int]bool
	updates map[int]NestedField
	adds    map[int][]NestedField
}

func (a *applyChanges) Schema(_ *Schema, structResult Type) Type {
	if newColumns := a.adds[TableRootID]; len(newColumns) > 0 {
		return addFields(AsStruct(structResult), newColumns)
	}
	return structResult
}

func (a *applyChanges) Struct(st StructType, fieldResults []Type) Type {
	hasChange := false
	newFields := make([]NestedField, 0, len(fieldResults))
	for i, resultType := range fieldResults {
		if resultType == nil {
			hasChange = true
			continue
		}

		field := st.FieldList[i]
		name := field.Name
		if update, ok := a.updates[field.ID]; ok && update.Name != "" {
			name = update.Name
		}

		if name != field.Name || !field.Type.Equals(resultType) {
			hasChange = true
			newFields = append(newFields, NestedField{
				ID: field.ID, Name: name, Required: field.Required, Type: resultType,
			})
		} else {
			newFields = append(newFields, field)
		}
	}

	if hasChange {
		// a struct whose fields were all deleted stays as an empty struct;
		// removing the parent requires deleting it explicitly
		return StructOf(newFields...)
	}
	return st
}

func (a *applyChanges) Field(field NestedField, fieldResult Type) Type {
	if a.deletes[field.ID] {
		return nil
	}

	if update, ok := a.updates[field.ID]; ok && !update.Type.Equals(field.Type) {
		// rename is handled in Struct
		return update.Type
	}

	if newFields := a.adds[field.ID]; len(newFields) > 0 {
		return addFields(AsStruct(fieldResult), newFields)
	}

	return fieldResult
}

func (a *applyChanges) List(list ListType, elementResult Type) Type {
	// route the element through Field to apply updates
	result := a.Field(list.ElementField(), elementResult)
	if result == nil {
		panic(fmt.Sprintf("types: cannot delete element type from list: %s", list))
	}

	if list.Element.Equals(result) {
		return list
	}
	return ListType{ElementID: list.ElementID, Element: result, ElementRequired: list.ElementRequired}
}

func (a *applyChanges) Map(m MapType, valueResult Type) Type {
	// route the value through Field to apply updates
	result := a.Field(m.ValueField(), valueResult)
	if result == nil {
		panic(fmt.Sprintf("types: cannot delete value type from map: %s", m))
	}

	if m.Value.Equals(result) {
		return m
	}
	return MapType{KeyID: m.KeyID, ValueID: m.ValueID, Key: m.Key, Value: result, ValueRequired: m.ValueRequired}
}

func (a *applyChanges) Primitive(p PrimitiveType) Type { return p }

func addFields(st StructType, adds []NestedField) StructType {
	fields := make([]NestedField, 0, len(st.FieldList)+len(adds))
	fields = append(fields, st.FieldList...)
	fields = append(fields, adds...)
	return StructOf(fields...)
}
