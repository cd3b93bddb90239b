package types

import (
	"encoding/json"
	"testing"
)

func TestPrimitiveJSONRoundTrip(t *testing.T) {
	primitives := []Type{
		BooleanType{}, IntType{}, LongType{}, FloatType{}, DoubleType{},
		DateType{}, TimeType{}, TimestampType{}, TimestampTzType{},
		StringType{}, UUIDType{}, BinaryType{}, FixedOf(16), DecimalOf(9, 2),
	}

	for _, p := range primitives {
		data, err := TypeToJSON(p)
		if err != nil {
			t.Fatalf("%s: marshal failed: %v", p, err)
		}
		parsed, err := TypeFromJSON(data)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", p, err)
		}
		if !p.Equals(parsed) {
			t.Errorf("%s: round trip produced %s", p, parsed)
		}
	}
}

func TestPrimitiveKeywords(t *testing.T) {
	tests := []struct {
		keyword string
		want    Type
	}{
		{`"boolean"`, BooleanType{}},
		{`"int"`, IntType{}},
		{`"long"`, LongType{}},
		{`"float"`, FloatType{}},
		{`"double"`, DoubleType{}},
		{`"date"`, DateType{}},
		{`"time"`, TimeType{}},
		{`"timestamp"`, TimestampType{}},
		{`"timestamptz"`, TimestampTzType{}},
		{`"string"`, StringType{}},
		{`"uuid"`, UUIDType{}},
		{`"binary"`, BinaryType{}},
		{`"fixed[8]"`, FixedOf(8)},
		{`"decimal(38,10)"`, DecimalOf(38, 10)},
	}

	for _, tt := range tests {
		parsed, err := TypeFromJSON([]byte(tt.keyword))
		if err != nil {
			t.Fatalf("%s: %v", tt.keyword, err)
		}
		if !parsed.Equals(tt.want) {
			t.Errorf("%s parsed as %s, want %s", tt.keyword, parsed, tt.want)
		}
	}
}

func TestUnknownKeywordFails(t *testing.T) {
	if _, err := TypeFromJSON([]byte(`"varchar"`)); err == nil {
		t.Error("expected error for unknown keyword")
	}
	if _, err := TypeFromJSON([]byte(`{"type":"tuple"}`)); err == nil {
		t.Error("expected error for unknown nested type")
	}
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	schema := testSchema()

	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	parsed, err := SchemaFromJSON(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !schema.Equals(parsed) {
		t.Errorf("round trip changed the schema:\n%s\n%s", schema, parsed)
	}
}

func TestSchemaJSONShape(t *testing.T) {
	schema := NewSchema(RequiredField(1, "id", LongType{}))
	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc struct {
		Type   string `json:"type"`
		Fields []struct {
			ID       int    `json:"id"`
			Name     string `json:"name"`
			Required bool   `json:"required"`
			Type     string `json:"type"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unexpected document shape: %v", err)
	}
	if doc.Type != "struct" || len(doc.Fields) != 1 {
		t.Fatalf("unexpected document: %s", data)
	}
	f := doc.Fields[0]
	if f.ID != 1 || f.Name != "id" || !f.Required || f.Type != "long" {
		t.Errorf("unexpected field document: %+v", f)
	}
}

func TestSchemaRootMustBeStruct(t *testing.T) {
	if _, err := SchemaFromJSON([]byte(`"int"`)); err == nil {
		t.Error("expected error for non-struct schema root")
	}
}

func TestListMapJSON(t *testing.T) {
	listData := []byte(`{"type":"list","element-id":3,"element":"int","element-required":true}`)
	parsed, err := TypeFromJSON(listData)
	if err != nil {
		t.Fatalf("list parse failed: %v", err)
	}
	if !parsed.Equals(ListOfRequired(3, IntType{})) {
		t.Errorf("list parsed as %s", parsed)
	}

	mapData := []byte(`{"type":"map","key-id":4,"key":"string","value-id":5,"value":"double","value-required":false}`)
	parsed, err = TypeFromJSON(mapData)
	if err != nil {
		t.Fatalf("map parse failed: %v", err)
	}
	if !parsed.Equals(MapOfOptional(4, 5, StringType{}, DoubleType{})) {
		t.Errorf("map parsed as %s", parsed)
	}
}
