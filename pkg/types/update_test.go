package types

import "testing"

func baseSchema() *Schema {
	return NewSchema(
		RequiredField(1, "a", IntType{}),
		OptionalField(2, "b", StringType{}),
	)
}

func TestAddColumnAssignsIDs(t *testing.T) {
	update := NewSchemaUpdate(baseSchema(), 2)
	if err := update.AddColumn("c", ListOfOptional(99, IntType{})); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}

	applied := update.Apply()
	if update.LastColumnID() != 4 {
		t.Errorf("last column id = %d, want 4", update.LastColumnID())
	}

	c, ok := applied.FindField("c")
	if !ok {
		t.Fatal("added column missing")
	}
	if c.ID != 3 {
		t.Errorf("c id = %d, want 3", c.ID)
	}
	list := AsList(c.Type)
	if list.ElementID != 4 {
		t.Errorf("element id = %d, want 4 (nested ids are reassigned)", list.ElementID)
	}
	if list.Element.TypeID() != IntID {
		t.Errorf("element type = %s, want int", list.Element)
	}

	// untouched fields keep their ids
	a, _ := applied.FindField("a")
	b, _ := applied.FindField("b")
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("existing ids changed: a=%d b=%d", a.ID, b.ID)
	}
}

func TestDeleteAndRename(t *testing.T) {
	update := NewSchemaUpdate(baseSchema(), 2)
	if err := update.AddColumn("c", ListOfOptional(0, IntType{})); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}
	if err := update.DeleteColumn("a"); err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}
	if err := update.RenameColumn("b", "bb"); err != nil {
		t.Fatalf("RenameColumn failed: %v", err)
	}

	applied := update.Apply()
	if _, ok := applied.FindField("a"); ok {
		t.Error("a should have been deleted")
	}
	bb, ok := applied.FindField("bb")
	if !ok {
		t.Fatal("bb missing after rename")
	}
	if bb.ID != 2 {
		t.Errorf("rename changed the id: %d", bb.ID)
	}
	if c, ok := applied.FindField("c"); !ok || c.ID != 3 {
		t.Error("added column lost or re-identified")
	}
}

func TestUpdateColumnPromotions(t *testing.T) {
	allowed := []struct {
		name    string
		newType PrimitiveType
	}{
		{"a", LongType{}},
		{"a", IntType{}}, // same type is a no-op
	}
	for _, tt := range allowed {
		update := NewSchemaUpdate(baseSchema(), 2)
		if err := update.UpdateColumn(tt.name, tt.newType); err != nil {
			t.Errorf("UpdateColumn(%s, %s) should succeed: %v", tt.name, tt.newType, err)
		}
	}

	update := NewSchemaUpdate(baseSchema(), 2)
	if err := update.UpdateColumn("a", LongType{}); err != nil {
		t.Fatalf("promotion failed: %v", err)
	}
	a, _ := update.Apply().FindField("a")
	if a.Type.TypeID() != LongID {
		t.Errorf("a type = %s, want long", a.Type)
	}
	if a.ID != 1 {
		t.Errorf("promotion changed the id: %d", a.ID)
	}
}

func TestUpdateColumnRejectsIllegalPromotion(t *testing.T) {
	update := NewSchemaUpdate(baseSchema(), 2)
	if err := update.UpdateColumn("a", StringType{}); err == nil {
		t.Error("int to string promotion should fail")
	}

	// the builder stays usable after a rejected edit
	if err := update.UpdateColumn("a", LongType{}); err != nil {
		t.Errorf("builder unusable after validation error: %v", err)
	}
}

func TestDecimalPromotion(t *testing.T) {
	schema := NewSchema(RequiredField(1, "d", DecimalOf(9, 2)))

	update := NewSchemaUpdate(schema, 1)
	if err := update.UpdateColumn("d", DecimalOf(18, 2)); err != nil {
		t.Errorf("decimal precision widening should succeed: %v", err)
	}

	update = NewSchemaUpdate(schema, 1)
	if err := update.UpdateColumn("d", DecimalOf(18, 4)); err == nil {
		t.Error("decimal scale change should fail")
	}

	update = NewSchemaUpdate(schema, 1)
	if err := update.UpdateColumn("d", DecimalOf(4, 2)); err == nil {
		t.Error("decimal precision narrowing should fail")
	}
}

func TestAddColumnValidation(t *testing.T) {
	update := NewSchemaUpdate(baseSchema(), 2)

	if err := update.AddColumn("a", IntType{}); err == nil {
		t.Error("duplicate name should fail")
	}
	if err := update.AddColumn("x.y", IntType{}); err == nil {
		t.Error("dotted name should fail without a parent")
	}
	if err := update.AddColumnTo("missing", "x", IntType{}); err == nil {
		t.Error("missing parent should fail")
	}
	if err := update.AddColumnTo("a", "x", IntType{}); err == nil {
		t.Error("non-struct parent should fail")
	}
}

func TestAddColumnToNestedStruct(t *testing.T) {
	schema := NewSchema(
		RequiredField(1, "id", LongType{}),
		OptionalField(2, "loc", StructOf(
			RequiredField(3, "lat", DoubleType{}),
		)),
	)

	update := NewSchemaUpdate(schema, 3)
	if err := update.AddColumnTo("loc", "long", DoubleType{}); err != nil {
		t.Fatalf("AddColumnTo failed: %v", err)
	}

	applied := update.Apply()
	long, ok := applied.FindField("loc.long")
	if !ok {
		t.Fatal("loc.long missing")
	}
	if long.ID != 4 {
		t.Errorf("loc.long id = %d, want 4", long.ID)
	}
}

func TestAddColumnToListElementStruct(t *testing.T) {
	schema := NewSchema(
		OptionalField(1, "points", ListOfOptional(2, StructOf(
			RequiredField(3, "x", IntType{}),
		))),
	)

	update := NewSchemaUpdate(schema, 3)
	if err := update.AddColumnTo("points", "y", IntType{}); err != nil {
		t.Fatalf("AddColumnTo through list element failed: %v", err)
	}

	applied := update.Apply()
	y, ok := applied.FindField("points.y")
	if !ok {
		t.Fatal("points.y missing")
	}
	if y.ID != 4 {
		t.Errorf("points.y id = %d, want 4", y.ID)
	}
}

func TestConflictingEdits(t *testing.T) {
	update := NewSchemaUpdate(baseSchema(), 2)
	if err := update.RenameColumn("a", "aa"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if err := update.DeleteColumn("a"); err == nil {
		t.Error("deleting an updated column should fail")
	}

	update = NewSchemaUpdate(baseSchema(), 2)
	if err := update.DeleteColumn("a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := update.RenameColumn("a", "aa"); err == nil {
		t.Error("renaming a deleted column should fail")
	}
	if err := update.UpdateColumn("a", LongType{}); err == nil {
		t.Error("updating a deleted column should fail")
	}
}

func TestRenameAndUpdateMerge(t *testing.T) {
	update := NewSchemaUpdate(baseSchema(), 2)
	if err := update.RenameColumn("a", "aa"); err != nil {
		t.Fatal(err)
	}
	if err := update.UpdateColumn("a", LongType{}); err != nil {
		t.Fatal(err)
	}

	applied := update.Apply()
	aa, ok := applied.FindField("aa")
	if !ok {
		t.Fatal("aa missing")
	}
	if aa.Type.TypeID() != LongID {
		t.Errorf("merged update lost the type change: %s", aa.Type)
	}
}

func TestDeleteAllStructFieldsLeavesEmptyStruct(t *testing.T) {
	schema := NewSchema(
		RequiredField(1, "id", LongType{}),
		OptionalField(2, "loc", StructOf(
			RequiredField(3, "lat", DoubleType{}),
		)),
	)

	update := NewSchemaUpdate(schema, 3)
	if err := update.DeleteColumn("loc.lat"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	applied := update.Apply()
	loc, ok := applied.FindField("loc")
	if !ok {
		t.Fatal("emptied struct should remain until deleted explicitly")
	}
	if len(AsStruct(loc.Type).FieldList) != 0 {
		t.Errorf("expected empty struct, got %s", loc.Type)
	}
}
