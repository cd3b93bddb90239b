package types

import (
	"iter"
	"reflect"
	"testing"
)

func TestProjectedIDs(t *testing.T) {
	ids := ProjectedIDs(testSchema())

	want := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true,
		6: true, 7: true, 8: true, 9: true, 10: true, 11: true}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ProjectedIDs = %v, want %v", ids, want)
	}
}

func TestIndexByIDMatchesProjectedIDs(t *testing.T) {
	schema := testSchema()
	byID := IndexByID(schema.AsStruct())
	ids := ProjectedIDs(schema)

	if len(byID) != len(ids) {
		t.Fatalf("index size %d != projected id count %d", len(byID), len(ids))
	}
	for id := range ids {
		if _, ok := byID[id]; !ok {
			t.Errorf("id %d projected but not indexed", id)
		}
	}
}

// idCollector visits in post-order through the custom-order framework and
// records every field id it sees.
type idCollector struct {
	ids map[int]bool
}

func (c *idCollector) Schema(_ *Schema, structResult func() struct{}) struct{} {
	return structResult()
}

func (c *idCollector) Struct(_ StructType, fieldResults iter.Seq[struct{}]) struct{} {
	for range fieldResults {
	}
	return struct{}{}
}

func (c *idCollector) Field(field NestedField, fieldResult func() struct{}) struct{} {
	fieldResult()
	c.ids[field.ID] = true
	return struct{}{}
}

func (c *idCollector) List(list ListType, elementResult func() struct{}) struct{} {
	elementResult()
	c.ids[list.ElementID] = true
	return struct{}{}
}

func (c *idCollector) Map(m MapType, valueResult func() struct{}) struct{} {
	valueResult()
	c.ids[m.KeyID] = true
	c.ids[m.ValueID] = true
	return struct{}{}
}

func (c *idCollector) Primitive(PrimitiveType) struct{} { return struct{}{} }

func TestPostOrderTraversalMatchesProjectedIDs(t *testing.T) {
	schema := testSchema()
	collector := &idCollector{ids: make(map[int]bool)}
	VisitSchemaCustom[struct{}](schema, collector)

	if !reflect.DeepEqual(collector.ids, ProjectedIDs(schema)) {
		t.Errorf("post-order ids %v != projected ids %v", collector.ids, ProjectedIDs(schema))
	}
}

func TestIndexByName(t *testing.T) {
	byName := IndexByName(testSchema().AsStruct())

	if byName["location.lat"] != 4 {
		t.Errorf("location.lat = %d, want 4", byName["location.lat"])
	}
	if byName["tags.element"] != 7 {
		t.Errorf("tags.element = %d, want 7", byName["tags.element"])
	}
	if byName["props.value.value"] != 11 {
		t.Errorf("props.value.value = %d, want 11", byName["props.value.value"])
	}
}

func TestSelectTopLevel(t *testing.T) {
	schema := testSchema()
	selected := Select(schema, map[int]bool{1: true, 2: true})

	if len(selected.Columns()) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(selected.Columns()))
	}
	if selected.Columns()[0].Name != "id" || selected.Columns()[1].Name != "data" {
		t.Errorf("unexpected columns: %v", selected.Columns())
	}
}

func TestSelectNestedKeepsContainer(t *testing.T) {
	schema := testSchema()
	selected := Select(schema, map[int]bool{4: true})

	if len(selected.Columns()) != 1 {
		t.Fatalf("expected 1 column, got %d", len(selected.Columns()))
	}
	loc := selected.Columns()[0]
	if loc.Name != "location" {
		t.Fatalf("expected location, got %s", loc.Name)
	}
	st := AsStruct(loc.Type)
	if len(st.FieldList) != 1 || st.FieldList[0].ID != 4 {
		t.Errorf("expected only lat to survive, got %s", st)
	}
}

func TestSelectWholeSubtree(t *testing.T) {
	schema := testSchema()
	selected := Select(schema, map[int]bool{3: true})

	loc, ok := selected.FindField("location")
	if !ok {
		t.Fatal("location should survive")
	}
	if len(AsStruct(loc.Type).FieldList) != 2 {
		t.Error("selecting the struct id keeps the whole subtree")
	}
}

func TestSelectAllReturnsSameSchema(t *testing.T) {
	schema := testSchema()
	if Select(schema, ProjectedIDs(schema)) != schema {
		t.Error("selecting every id should return the original schema")
	}
}

func TestSelectNone(t *testing.T) {
	selected := Select(testSchema(), map[int]bool{})
	if len(selected.Columns()) != 0 {
		t.Errorf("expected empty schema, got %v", selected.Columns())
	}
}

func TestSelectNot(t *testing.T) {
	schema := testSchema()
	selected := SelectNot(schema, map[int]bool{1: true})

	if _, ok := selected.FindField("id"); ok {
		t.Error("id should have been excluded")
	}
	if _, ok := selected.FindField("data"); !ok {
		t.Error("data should survive")
	}
}

func TestJoin(t *testing.T) {
	left := NewSchema(RequiredField(1, "id", LongType{}))
	right := NewSchema(OptionalField(2, "data", StringType{}))

	joined := Join(left, right)
	if len(joined.Columns()) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(joined.Columns()))
	}
	if joined.Columns()[0].Name != "id" || joined.Columns()[1].Name != "data" {
		t.Errorf("unexpected column order: %v", joined.Columns())
	}
}

func TestReassignIDs(t *testing.T) {
	schema := NewSchema(
		RequiredField(10, "a", IntType{}),
		OptionalField(20, "c", ListOfOptional(30, IntType{})),
	)

	next := 0
	reassigned := ReassignIDs(schema, func() int { next++; return next })

	ids := ProjectedIDs(reassigned)
	want := map[int]bool{1: true, 2: true, 3: true}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("reassigned ids = %v, want %v", ids, want)
	}

	// names and types survive re-identification
	if _, ok := reassigned.FindField("a"); !ok {
		t.Error("field a lost during reassignment")
	}
	if _, ok := reassigned.FindField("c.element"); !ok {
		t.Error("list element lost during reassignment")
	}
}
